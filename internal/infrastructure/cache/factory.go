package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type openOptions struct {
	logger      *zap.Logger
	fallback    bool
	keyPrefix   string
	pingTimeout time.Duration
}

// Option configures OpenIdempotencyStore
type Option func(*openOptions)

// WithLogger sets the logger used to report the selected backend
func WithLogger(logger *zap.Logger) Option {
	return func(o *openOptions) { o.logger = logger }
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// the process-local store. Enabled by default; production disables it
// because keys would no longer be shared between instances.
func WithInMemoryFallback(allow bool) Option {
	return func(o *openOptions) { o.fallback = allow }
}

// WithKeyPrefix namespaces the Redis keys
func WithKeyPrefix(prefix string) Option {
	return func(o *openOptions) { o.keyPrefix = prefix }
}

// WithPingTimeout bounds the startup connectivity check
func WithPingTimeout(d time.Duration) Option {
	return func(o *openOptions) { o.pingTimeout = d }
}

// OpenIdempotencyStore returns the Redis store when cfg enables Redis and it
// answers a ping. Otherwise it returns the in-memory store, or an error if
// Redis is enabled and the fallback is disabled.
func OpenIdempotencyStore(ctx context.Context, cfg config.RedisConfig, opts ...Option) (shared.IdempotencyStore, error) {
	o := openOptions{
		logger:      zap.NewNop(),
		fallback:    true,
		keyPrefix:   defaultKeyPrefix,
		pingTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !cfg.Enabled {
		o.logger.Info("Redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, o.pingTimeout)
	defer cancel()
	err := client.Ping(pingCtx).Err()
	if err == nil {
		o.logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()), zap.String("prefix", o.keyPrefix))
		return NewRedisIdempotencyStore(client, o.keyPrefix), nil
	}
	_ = client.Close()

	if !o.fallback {
		return nil, fmt.Errorf("redis at %s is required for idempotency: %w", cfg.Addr(), err)
	}
	o.logger.Warn("Redis unavailable, using in-memory idempotency store; keys are not shared between instances",
		zap.String("addr", cfg.Addr()),
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
