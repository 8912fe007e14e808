package shared

import (
	"context"
	"strings"
	"time"
)

// Idempotency key scopes. Event deliveries and client retries share one
// store, so every key starts with its scope.
const (
	IdempotencyScopeEvent   = "event"
	IdempotencyScopeFactura = "factura"
)

// IdempotencyKey joins scope and parts with ':'
func IdempotencyKey(scope string, parts ...string) string {
	return strings.Join(append([]string{scope}, parts...), ":")
}

// IdempotencyStore is a claim-once key store with an optional result per key.
// A key goes through three states: absent, claimed (pending) and resolved
// (result set). Implementations must make MarkProcessed atomic across every
// process sharing the store.
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl; false means someone claimed it first
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// SetResult resolves a claimed key
	SetResult(ctx context.Context, key, value string, ttl time.Duration) error
	// GetResult returns ok=false for absent and for still pending keys
	GetResult(ctx context.Context, key string) (value string, ok bool, err error)
	// Release drops the claim so the work can be retried
	Release(ctx context.Context, key string) error
	Close() error
}

// IdempotencyConfig controls how long processed keys are remembered
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig remembers keys for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}
