package session

import (
	"context"
	"time"
)

// Key identifies the single active session record for one principal on one
// device. Different fingerprints for the same subject are independent sessions.
type Key struct {
	Subject     string
	Fingerprint string
}

// String renders the store key in the same shape the original system used for
// its cache entries: refresh-token:<subject>:<fingerprint>.
func (k Key) String() string {
	return "refresh-token:" + k.Subject + ":" + k.Fingerprint
}

// Store is a key-value cache with per-key TTL holding the currently valid
// refresh token per (subject, device). Implementations must make Put an
// unconditional upsert, report a missing key on Get as ok=false with a nil
// error, and treat Delete of an absent key as a no-op.
//
// Connectivity failures surface as errors matching ErrStoreUnavailable,
// never as an absent key.
type Store interface {
	Put(ctx context.Context, key Key, value string, ttl time.Duration) error
	Get(ctx context.Context, key Key) (value string, ok bool, err error)
	Delete(ctx context.Context, key Key) error
}
