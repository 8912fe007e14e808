package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks invoice numbering, journal and outbox activity.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	invoicesAllocated   *Counter
	invoicedAmount      *Counter
	invoicesVoided      *Counter
	talonariosExhausted *Counter
	entriesPosted       *Counter
	entitiesDeactivated *Counter

	outboxEntries *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	outboxProvider OutboxStatsProvider
}

// OutboxStatsProvider reports outbox backlog per delivery status.
type OutboxStatsProvider interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter          metric.Meter
	Logger         *zap.Logger
	OutboxProvider OutboxStatsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		outboxProvider: cfg.OutboxProvider,
	}

	counters := []struct {
		target           **Counter
		name, desc, unit string
	}{
		{&bm.invoicesAllocated, "erp_invoice_allocated_total", "Invoice numbers allocated", "{invoices}"},
		{&bm.invoicedAmount, "erp_invoice_amount_total", "Invoiced amount in guaranies", "{PYG}"},
		{&bm.invoicesVoided, "erp_invoice_voided_total", "Invoices voided", "{invoices}"},
		{&bm.talonariosExhausted, "erp_talonario_exhausted_total", "Talonarios that ran out of numbers", "{talonarios}"},
		{&bm.entriesPosted, "erp_journal_entry_posted_total", "Journal entries posted", "{entries}"},
		{&bm.entitiesDeactivated, "erp_entity_deactivated_total", "Entities deactivated by the soft-delete guard", "{entities}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	bm.outboxEntries, err = NewGauge(cfg.Meter, "erp_outbox_entries", "Outbox entries by delivery status", "{entries}")
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordInvoiceAllocated counts an allocated invoice number and its total.
func (bm *BusinessMetrics) RecordInvoiceAllocated(ctx context.Context, tenantID uuid.UUID, total decimal.Decimal) {
	attr := AttrTenantID.String(tenantID.String())
	bm.invoicesAllocated.Inc(ctx, attr)
	bm.invoicedAmount.Add(ctx, total.Round(0).IntPart(), attr)
}

// RecordInvoiceVoided counts a voided invoice.
func (bm *BusinessMetrics) RecordInvoiceVoided(ctx context.Context, tenantID uuid.UUID) {
	bm.invoicesVoided.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordTalonarioExhausted counts a talonario whose last number was used.
func (bm *BusinessMetrics) RecordTalonarioExhausted(ctx context.Context, tenantID uuid.UUID) {
	bm.talonariosExhausted.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordJournalEntryPosted counts a posted journal entry.
func (bm *BusinessMetrics) RecordJournalEntryPosted(ctx context.Context, tenantID uuid.UUID) {
	bm.entriesPosted.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordEntityDeactivated counts a soft-deleted entity of the given kind.
func (bm *BusinessMetrics) RecordEntityDeactivated(ctx context.Context, tenantID uuid.UUID, kind string) {
	bm.entitiesDeactivated.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrEntityKind.String(kind),
	)
}

// RecordOutboxEntries records the number of outbox entries in a status.
func (bm *BusinessMetrics) RecordOutboxEntries(ctx context.Context, status shared.OutboxStatus, count int64) {
	bm.outboxEntries.Record(ctx, count, AttrOutboxStatus.String(string(status)))
}

// StartPeriodicCollection samples the outbox backlog every interval
// (default 1 minute) until Stop or ctx is done.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectOutboxMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collectOutboxMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectOutboxMetrics(ctx context.Context) {
	if bm.outboxProvider == nil {
		return
	}
	counts, err := bm.outboxProvider.CountByStatus(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count outbox entries", zap.Error(err))
		return
	}
	for _, status := range []shared.OutboxStatus{
		shared.OutboxStatusPending,
		shared.OutboxStatusProcessing,
		shared.OutboxStatusFailed,
		shared.OutboxStatusDead,
	} {
		bm.RecordOutboxEntries(ctx, status, counts[status])
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
