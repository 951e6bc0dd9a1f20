package session

import (
	"errors"

	"github.com/RikiBob/test-task-for-dzen-code/internal/security"
)

// Sentinel errors for session operations; the HTTP layer maps them to status codes.
var (
	// ErrSessionNotFound is returned on renewal when no session record exists
	// for the (subject, fingerprint) key: logged out, expired, or never created.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionMismatch is returned on renewal when a session record exists but
	// holds a different refresh token, meaning a newer login superseded this one.
	ErrSessionMismatch = errors.New("session mismatch")
	// ErrStoreUnavailable is returned when the session store cannot be reached.
	// Distinct from an absent key: it must surface as a server-side failure,
	// never as an unauthenticated result.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// IsUnauthenticated reports whether err is one of the verification or lookup
// failures that must surface to a client as a single undifferentiated
// unauthenticated result. Store and codec faults are deliberately excluded:
// an unreachable store does not mean the session was revoked.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, security.ErrTokenMalformed) ||
		errors.Is(err, security.ErrTokenSignatureInvalid) ||
		errors.Is(err, security.ErrTokenExpired) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionMismatch)
}
