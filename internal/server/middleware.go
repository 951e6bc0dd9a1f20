package server

import (
	"net"
	"net/http"
	"strings"

	"github.com/RikiBob/test-task-for-dzen-code/internal/session"
)

const bearerPrefix = "bearer "

// requireAuth validates the access token from the accessToken cookie or the
// Authorization header and sets user_id and user_name in the request context.
// Requests without a valid access token get 401. Tokens are checked
// statelessly; revocation takes effect at the refresh boundary.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractAccessToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := s.sessions.Inspect(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := WithIdentity(r.Context(), claims.Subject, claims.Label)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractAccessToken returns the access token from the accessToken cookie,
// falling back to an Authorization Bearer header, or "" if absent.
func extractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

// clientIPContext stores the resolved client IP in the request context so
// downstream consumers (the audit logger) can read it without the request.
func clientIPContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClientIP(r.Context(), clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP returns the client IP from X-Forwarded-For, X-Real-IP, or
// RemoteAddr, or "unknown".
func clientIP(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); s != "" {
		if i := strings.Index(s, ","); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
		return s
	}
	if s := strings.TrimSpace(r.Header.Get("X-Real-IP")); s != "" {
		return s
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// fingerprint resolves the device fingerprint for the request from its
// User-Agent header.
func fingerprint(r *http.Request) string {
	return session.ResolveFingerprint(r.UserAgent())
}
