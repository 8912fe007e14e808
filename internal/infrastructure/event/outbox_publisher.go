package event

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher writes domain events to outbox_events inside the caller's
// transaction, so they commit or roll back with the aggregate change.
type OutboxPublisher struct {
	serializer *EventSerializer
	maxRetries int
}

// NewOutboxPublisher creates a new outbox publisher. maxRetries <= 0 keeps
// the entry default.
func NewOutboxPublisher(serializer *EventSerializer, maxRetries int) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer, maxRetries: maxRetries}
}

// SaveEvents implements shared.OutboxEventSaver. txProvider must be the
// *gorm.DB of the open transaction.
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider any, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, e := range events {
		payload, err := p.serializer.Serialize(e)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(e.TenantID(), e, payload)
		if p.maxRetries > 0 {
			entry.MaxRetries = p.maxRetries
		}
		entries = append(entries, entry)
	}
	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
