//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	invoicingapp "github.com/erp/contable/internal/application/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/infrastructure/cache"
	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/erp/contable/internal/infrastructure/event"
	"github.com/erp/contable/internal/infrastructure/persistence"
	"github.com/erp/contable/tests/testutil"
)

func newRedisConfig(t *testing.T) config.RedisConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Warning: Failed to terminate Redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{Enabled: true, Host: host, Port: port.Int()}
}

func newRedisStore(t *testing.T, cfg config.RedisConfig) shared.IdempotencyStore {
	t.Helper()

	store, err := cache.OpenIdempotencyStore(context.Background(), cfg, cache.WithInMemoryFallback(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, isRedis := store.(*cache.RedisIdempotencyStore)
	require.True(t, isRedis, "factory must not fall back when Redis is reachable")
	return store
}

func TestRedisIdempotencyStore(t *testing.T) {
	cfg := newRedisConfig(t)
	store := newRedisStore(t, cfg)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	t.Run("claim once", func(t *testing.T) {
		key := "claim-" + uuid.NewString()

		first, err := store.MarkProcessed(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := store.MarkProcessed(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.False(t, second)

		processed, err := store.IsProcessed(ctx, key)
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("pending key has no result", func(t *testing.T) {
		key := "pending-" + uuid.NewString()
		_, err := store.MarkProcessed(ctx, key, time.Minute)
		require.NoError(t, err)

		_, ok, err := store.GetResult(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.SetResult(ctx, key, "factura-1", time.Minute))
		value, ok, err := store.GetResult(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "factura-1", value)
	})

	t.Run("release allows a new claim", func(t *testing.T) {
		key := "release-" + uuid.NewString()
		_, err := store.MarkProcessed(ctx, key, time.Minute)
		require.NoError(t, err)

		require.NoError(t, store.Release(ctx, key))

		again, err := store.MarkProcessed(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.True(t, again)
	})

	t.Run("keys expire", func(t *testing.T) {
		key := "ttl-" + uuid.NewString()
		_, err := store.MarkProcessed(ctx, key, time.Second)
		require.NoError(t, err)

		testutil.RequireEventually(t, func() bool {
			processed, err := store.IsProcessed(ctx, key)
			return err == nil && !processed
		}, 5*time.Second, 100*time.Millisecond, "key did not expire")
	})

	t.Run("concurrent claims have one winner", func(t *testing.T) {
		key := "race-" + uuid.NewString()
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := store.MarkProcessed(ctx, key, time.Minute)
				if assert.NoError(t, err) && ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
	})
}

func TestRedisFactoryWithoutFallback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}

	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	_, err := cache.OpenIdempotencyStore(context.Background(), unreachable, cache.WithInMemoryFallback(false))
	assert.Error(t, err)

	store, err := cache.OpenIdempotencyStore(context.Background(), unreachable)
	require.NoError(t, err)
	defer store.Close()
	_, isMemory := store.(*cache.InMemoryIdempotencyStore)
	assert.True(t, isMemory)
}

// Two server instances sharing Redis must not issue two invoices for one key.
func TestIdempotencyAcrossInstances(t *testing.T) {
	db := NewSharedTestDB(t)
	redisCfg := newRedisConfig(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	tenantID := uuid.New()

	talonarioRepo := persistence.NewGormTalonarioRepository(db.DB)
	facturaRepo := persistence.NewGormFacturaRepository(db.DB)
	talonario, err := invoicingapp.NewTalonarioService(talonarioRepo).
		Create(ctx, tenantID, testutil.TalonarioRequest(1, 100))
	require.NoError(t, err)

	newInstance := func() *invoicingapp.NumberingService {
		scope := persistence.NewGormTransactionScope(db.DB, event.NewOutboxPublisher(event.NewDomainEventSerializer(), 5))
		svc := invoicingapp.NewNumberingService(scope.Invoicing(), talonarioRepo, facturaRepo, zap.NewNop())
		svc.SetIdempotencyStore(newRedisStore(t, redisCfg), time.Hour)
		return svc
	}
	instances := []*invoicingapp.NumberingService{newInstance(), newInstance()}

	in := testutil.AllocateInput(talonario.ID, "Cliente")
	in.IdempotencyKey = "pos-42-" + uuid.NewString()

	first, err := instances[0].AllocateInvoiceNumber(ctx, tenantID, in)
	require.NoError(t, err)
	replay, err := instances[1].AllocateInvoiceNumber(ctx, tenantID, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, replay.ID)
	assert.Equal(t, first.NumeroCompleto, replay.NumeroCompleto)
	assert.Equal(t, int64(1), db.CountRows("facturas_emitidas", tenantID))
}
