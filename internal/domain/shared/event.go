package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Events reach handlers only
// through the outbox, after the transaction that recorded them commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent is the envelope embedded by every concrete event. Its JSON
// form is part of the outbox payload.
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"eventId"`
	Type          string    `json:"eventType"`
	Timestamp     time.Time `json:"occurredAt"`
	AggID         uuid.UUID `json:"aggregateId"`
	AggType       string    `json:"aggregateType"`
	TenantIDValue uuid.UUID `json:"tenantId"`
}

// NewBaseDomainEvent stamps a fresh envelope for an event raised by the
// aggregate aggType/aggID of tenantID.
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     time.Now().UTC(),
		AggID:         aggID,
		AggType:       aggType,
		TenantIDValue: tenantID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggType }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.TenantIDValue }

// EventHandler reacts to delivered events. Delivery is at least once, so
// handlers with side effects are wrapped for idempotency.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the subscribed types; empty subscribes to all.
	EventTypes() []string
}

// EventPublisher delivers events to subscribed handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is an EventPublisher with a subscription registry and lifecycle
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver writes events to the outbox inside the caller's
// transaction; txProvider is the persistence layer's transaction handle.
type OutboxEventSaver interface {
	SaveEvents(ctx context.Context, txProvider any, events ...DomainEvent) error
}
