package session

import "strings"

// UnknownAgent is the fingerprint used when the client supplied no device
// marker. All such clients share one session slot per subject.
const UnknownAgent = "unknown-agent"

// ResolveFingerprint derives the coarse device fingerprint from the
// client-supplied User-Agent string. It is not a unique device identifier;
// two requests with the same value are treated as the same device, which is
// exactly the partitioning the single-session-per-device policy needs.
func ResolveFingerprint(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return UnknownAgent
	}
	return userAgent
}
