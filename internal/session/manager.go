// Package session implements the authenticated-session core: a signed,
// stateless token pair coordinated with a revocable, TTL-bound session record
// in an external key-value store. Access tokens are verified by signature and
// expiry alone; refresh tokens must additionally match the store's current
// value for their (subject, device) key, which is what makes logout and
// supersession take effect immediately.
package session

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/RikiBob/test-task-for-dzen-code/internal/security"
)

// TokenPair is the result of opening a session: a short-lived access token
// and a long-lived refresh token, both opaque strings to the caller.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Manager orchestrates the codec and the store to create, renew, and end
// sessions. It holds no mutable state of its own; every operation is a single
// store round trip plus local signature work, so concurrent calls need no
// coordination beyond the store's per-key atomicity.
type Manager struct {
	codec      *security.Codec
	store      Store
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager returns a Manager using the given codec and store. The refresh
// TTL is embedded in refresh tokens and used as the store TTL, so both
// expiry mechanisms always agree on when a session dies.
func NewManager(codec *security.Codec, store Store, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		codec:      codec,
		store:      store,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Create mints a token pair for subject and unconditionally stores the
// refresh token under (subject, fingerprint). Any prior session for the same
// key is silently superseded: one active session per device, last write wins.
func (m *Manager) Create(ctx context.Context, subject, label, fingerprint string) (*TokenPair, error) {
	accessToken, err := m.codec.Sign(subject, label, m.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := m.codec.Sign(subject, label, m.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	key := Key{Subject: subject, Fingerprint: fingerprint}
	if err := m.store.Put(ctx, key, refreshToken, m.refreshTTL); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Renew verifies the refresh token, checks it is still the live record for
// (subject, fingerprint), and mints a fresh access token for the same
// subject and label. The refresh token is not rotated and the store is not
// written, so renewal is idempotent and safe to run concurrently.
func (m *Manager) Renew(ctx context.Context, refreshToken, fingerprint string) (string, error) {
	claims, err := m.codec.Verify(refreshToken)
	if err != nil {
		return "", err
	}

	key := Key{Subject: claims.Subject, Fingerprint: fingerprint}
	stored, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSessionNotFound
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return "", ErrSessionMismatch
	}

	accessToken, err := m.codec.Sign(claims.Subject, claims.Label, m.accessTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return accessToken, nil
}

// Inspect verifies a token's signature and expiry and returns its claims
// without consulting the store. Use it for access tokens, which are checked
// statelessly, and for reading the subject out of an already-renewed refresh
// token.
func (m *Manager) Inspect(tokenString string) (*security.Claims, error) {
	return m.codec.Verify(tokenString)
}

// End deletes the session record for (subject, fingerprint). Ending an
// already-ended or never-started session succeeds silently.
func (m *Manager) End(ctx context.Context, subject, fingerprint string) error {
	return m.store.Delete(ctx, Key{Subject: subject, Fingerprint: fingerprint})
}
