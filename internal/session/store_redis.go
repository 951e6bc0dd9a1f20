package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis instance. Redis enforces the
// per-key TTL natively, so there is no background sweep anywhere in this
// package; an expired record simply stops existing.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Put unconditionally upserts the refresh token for key and resets its expiry.
func (s *RedisStore) Put(ctx context.Context, key Key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key.String(), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns the current refresh token for key, or ok=false if no record
// exists. Only transport or protocol failures produce an error.
func (s *RedisStore) Get(ctx context.Context, key Key) (string, bool, error) {
	value, err := s.client.Get(ctx, key.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return value, true, nil
}

// Delete removes the record for key. Deleting an absent key is a no-op.
func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, key.String()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
