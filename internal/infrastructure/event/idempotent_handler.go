package event

import (
	"context"
	"sync/atomic"

	"github.com/erp/contable/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats counts what the handler did with each delivery
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

// IdempotentHandler lets the wrapped handler see each event ID once, since
// the outbox delivers at least once. Failed handling releases the claim so
// the outbox retry runs the handler again.
type IdempotentHandler struct {
	next   shared.EventHandler
	store  shared.IdempotencyStore
	config shared.IdempotencyConfig
	name   string
	logger *zap.Logger

	processed, duplicate, failed atomic.Int64
}

func NewIdempotentHandler(
	next shared.EventHandler,
	store shared.IdempotencyStore,
	config shared.IdempotencyConfig,
	logger *zap.Logger,
) *IdempotentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotentHandler{next: next, store: store, config: config, logger: logger}
}

// Named keys claims by consumer as well as event ID, so two wrapped
// handlers sharing a store do not suppress each other.
func (h *IdempotentHandler) Named(name string) *IdempotentHandler {
	h.name = name
	h.logger = h.logger.With(zap.String("consumer", name))
	return h
}

func (h *IdempotentHandler) EventTypes() []string {
	return h.next.EventTypes()
}

func (h *IdempotentHandler) key(event shared.DomainEvent) string {
	if h.name == "" {
		return shared.IdempotencyKey(shared.IdempotencyScopeEvent, event.EventID().String())
	}
	return shared.IdempotencyKey(shared.IdempotencyScopeEvent, h.name, event.EventID().String())
}

// claim reports whether this delivery owns the key. A store outage counts
// as owned but unclaimed: handling twice beats dropping the event.
func (h *IdempotentHandler) claim(ctx context.Context, key string, event shared.DomainEvent) (owned, claimed bool) {
	isNew, err := h.store.MarkProcessed(ctx, key, h.config.TTL)
	if err != nil {
		h.logger.Warn("Idempotency check failed, handling anyway",
			zap.String("event_id", event.EventID().String()), zap.Error(err))
		return true, false
	}
	return isNew, isNew
}

func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled || h.store == nil {
		return h.next.Handle(ctx, event)
	}

	key := h.key(event)
	owned, claimed := h.claim(ctx, key, event)
	if !owned {
		h.duplicate.Add(1)
		h.logger.Debug("Duplicate event skipped",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()))
		return nil
	}

	if err := h.next.Handle(ctx, event); err != nil {
		h.failed.Add(1)
		if claimed {
			if relErr := h.store.Release(ctx, key); relErr != nil {
				h.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
			}
		}
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns the counters since start
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: h.processed.Load(),
		EventsDuplicate: h.duplicate.Load(),
		EventsFailed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
