package security

import "time"

// NewTestCodec returns a Codec with an injected clock. For unit tests only:
// lets tests advance issued-at and expiry deterministically instead of
// sleeping across second boundaries.
func NewTestCodec(secret []byte, now func() time.Time) *Codec {
	c := NewCodec(secret)
	if now != nil {
		c.nowF = now
	}
	return c
}
