package server

import "context"

type contextKey struct{ name string }

var (
	userIDKey   = contextKey{"user_id"}
	userNameKey = contextKey{"user_name"}
	clientIPKey = contextKey{"client_ip"}
)

// WithIdentity returns a context with user_id and user_name set.
// Handlers read these via GetUserID and GetUserName.
func WithIdentity(ctx context.Context, userID, userName string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, userNameKey, userName)
	return ctx
}

// GetUserID returns the user_id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// GetUserName returns the user_name from context and true if set; otherwise "", false.
func GetUserName(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userNameKey).(string)
	return v, ok
}

// WithClientIP returns a context with the client IP set.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFromContext returns the client IP set by the server's middleware,
// or "unknown". Matches the signature the audit logger's IP extractor wants.
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
