package event

import (
	"context"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BusinessCounters is the metrics sink fed by delivered domain events
type BusinessCounters interface {
	RecordInvoiceAllocated(ctx context.Context, tenantID uuid.UUID, total decimal.Decimal)
	RecordInvoiceVoided(ctx context.Context, tenantID uuid.UUID)
	RecordTalonarioExhausted(ctx context.Context, tenantID uuid.UUID)
	RecordJournalEntryPosted(ctx context.Context, tenantID uuid.UUID)
	RecordEntityDeactivated(ctx context.Context, tenantID uuid.UUID, kind string)
}

// MetricsHandler increments business counters for delivered events
type MetricsHandler struct {
	counters BusinessCounters
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(counters BusinessCounters) *MetricsHandler {
	return &MetricsHandler{counters: counters}
}

// EventTypes implements shared.EventHandler
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		invoicing.EventTypeFacturaEmitida,
		invoicing.EventTypeFacturaAnulada,
		invoicing.EventTypeTalonarioAgotado,
		accounting.EventTypeAsientoRegistrado,
		shared.EventTypeEntityDeactivated,
	}
}

// Handle implements shared.EventHandler
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *invoicing.FacturaEmitidaEvent:
		h.counters.RecordInvoiceAllocated(ctx, e.TenantID(), e.Total)
	case *invoicing.FacturaAnuladaEvent:
		h.counters.RecordInvoiceVoided(ctx, e.TenantID())
	case *invoicing.TalonarioAgotadoEvent:
		h.counters.RecordTalonarioExhausted(ctx, e.TenantID())
	case *accounting.AsientoRegistradoEvent:
		h.counters.RecordJournalEntryPosted(ctx, e.TenantID())
	case *shared.DeactivatedEvent:
		h.counters.RecordEntityDeactivated(ctx, e.TenantID(), e.Kind)
	}
	return nil
}

// LoggingHandler writes every delivered event to the log
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new logging handler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHandler{logger: logger}
}

// EventTypes returns nil so the handler receives every event
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (h *LoggingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event delivered",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var (
	_ shared.EventHandler = (*MetricsHandler)(nil)
	_ shared.EventHandler = (*LoggingHandler)(nil)
)
