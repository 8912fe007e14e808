package shared

import (
	"time"

	"github.com/google/uuid"
)

// TenantAggregateRoot is embedded by every persisted record of the
// accounting core. A record belongs to exactly one tenant and never
// references records of another. Version backs optimistic locking; pending
// events are not persisted with the row and leave through the outbox.
type TenantAggregateRoot struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenantId"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
	Version   int        `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null" json:"updatedAt"`

	pending []DomainEvent `gorm:"-"`
}

// NewTenantAggregateRoot starts a version 1 record with a fresh ID
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	now := time.Now().UTC()
	return TenantAggregateRoot{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetCreatedBy records the user that created the aggregate
func (a *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	a.CreatedBy = &userID
}

// BelongsTo reports whether the aggregate is owned by tenantID
func (a *TenantAggregateRoot) BelongsTo(tenantID uuid.UUID) bool {
	return a.TenantID == tenantID
}

// MarkChanged bumps the version and UpdatedAt after a state transition.
// Repositories save with "WHERE version = old" so concurrent writers conflict.
func (a *TenantAggregateRoot) MarkChanged() {
	a.Version++
	a.UpdatedAt = time.Now().UTC()
}

// Raise queues event until the unit of work writes it to the outbox
func (a *TenantAggregateRoot) Raise(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PendingEvents returns the queued events without clearing them
func (a *TenantAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

// PullEvents returns the queued events and clears the queue
func (a *TenantAggregateRoot) PullEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
