package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation for tests and dev runs
// without Redis. Expiry is checked lazily on Get.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[Key]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[Key]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Put stores value for key until now+ttl, overwriting any existing record.
func (s *MemoryStore) Put(ctx context.Context, key Key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = entry{value: value, expiresAt: s.nowF().Add(ttl)}
	return nil
}

// Get returns the value for key if present and not expired.
func (s *MemoryStore) Get(ctx context.Context, key Key) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

// Delete removes the record for key if present.
func (s *MemoryStore) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
