package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func newBusinessMetrics(t *testing.T, provider telemetry.OutboxStatsProvider) *telemetry.BusinessMetrics {
	t.Helper()
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:          noop.NewMeterProvider().Meter("test"),
		Logger:         zap.NewNop(),
		OutboxProvider: provider,
	})
	require.NoError(t, err)
	return bm
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_Record(t *testing.T) {
	bm := newBusinessMetrics(t, nil)
	ctx := context.Background()
	tenantID := uuid.New()

	assert.NotPanics(t, func() {
		bm.RecordInvoiceAllocated(ctx, tenantID, decimal.NewFromInt(1100000))
		bm.RecordInvoiceVoided(ctx, tenantID)
		bm.RecordTalonarioExhausted(ctx, tenantID)
		bm.RecordJournalEntryPosted(ctx, tenantID)
		bm.RecordEntityDeactivated(ctx, tenantID, "cuenta")
		bm.RecordOutboxEntries(ctx, shared.OutboxStatusPending, 3)
	})
}

type stubOutboxStats struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubOutboxStats) CountByStatus(context.Context) (map[shared.OutboxStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return map[shared.OutboxStatus]int64{shared.OutboxStatusPending: 2}, s.err
}

func (s *stubOutboxStats) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	provider := &stubOutboxStats{}
	bm := newBusinessMetrics(t, provider)

	bm.StartPeriodicCollection(context.Background(), 10*time.Millisecond)
	bm.StartPeriodicCollection(context.Background(), 10*time.Millisecond)

	assert.Eventually(t, func() bool { return provider.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	bm.Stop()
	bm.Stop()
}

func TestBusinessMetrics_PeriodicCollection_ProviderError(t *testing.T) {
	provider := &stubOutboxStats{err: errors.New("db down")}
	bm := newBusinessMetrics(t, provider)
	ctx, cancel := context.WithCancel(context.Background())

	bm.StartPeriodicCollection(ctx, time.Hour)

	assert.Eventually(t, func() bool { return provider.Calls() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
}
