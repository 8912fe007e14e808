package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "contable:idempotency:"

// pendingMarker is stored by MarkProcessed until SetResult records a value.
const pendingMarker = ""

// RedisIdempotencyStore implements IdempotencyStore using Redis, so every
// server instance sees the same keys.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore wraps client; an empty keyPrefix uses the default
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed records key with SETNX. It returns false when the key was
// already present.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, pendingMarker, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark key %q: %w", key, err)
	}
	return ok, nil
}

// IsProcessed checks if key is recorded
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key %q: %w", key, err)
	}
	return n > 0, nil
}

// SetResult stores value for key, replacing the pending marker
func (s *RedisIdempotencyStore) SetResult(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store result for %q: %w", key, err)
	}
	return nil
}

// GetResult returns the value stored for key. ok is false when the key is
// absent or still pending.
func (s *RedisIdempotencyStore) GetResult(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read result for %q: %w", key, err)
	}
	return value, value != pendingMarker, nil
}

// Release deletes key
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
