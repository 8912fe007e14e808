package shared

import (
	"time"

	"github.com/google/uuid"
)

// Deactivatable is implemented by entities that are soft-deleted by flipping
// an activo flag. Rows are never physically removed and there is no way back.
type Deactivatable interface {
	IsActive() bool
	// Deactivate clears the flag. It fails with INVALID_STATE when the entity is already inactive.
	Deactivate() error
}

// Activable is embedded by soft-deletable aggregates.
type Activable struct {
	Activo           bool       `gorm:"not null;default:true;index" json:"activo"`
	FechaDesactivado *time.Time `json:"fechaDesactivado,omitempty"`
}

// NewActivable returns an active flag.
func NewActivable() Activable {
	return Activable{Activo: true}
}

// IsActive reports whether the entity is active.
func (a *Activable) IsActive() bool {
	return a.Activo
}

// Deactivate flips the entity to inactive.
func (a *Activable) Deactivate() error {
	if !a.Activo {
		return NewInvalidStateError("already inactive")
	}
	now := time.Now()
	a.Activo = false
	a.FechaDesactivado = &now
	return nil
}

// DeactivatedEvent is raised whenever the soft-delete guard flips an entity.
type DeactivatedEvent struct {
	BaseDomainEvent
	Kind string `json:"kind"`
}

// EventTypeEntityDeactivated is the event type for DeactivatedEvent
const EventTypeEntityDeactivated = "EntidadDesactivada"

// NewDeactivatedEvent creates a DeactivatedEvent for entity kind.
func NewDeactivatedEvent(kind, aggregateType string, aggregateID, tenantID uuid.UUID) *DeactivatedEvent {
	return &DeactivatedEvent{
		BaseDomainEvent: NewBaseDomainEvent(EventTypeEntityDeactivated, aggregateType, aggregateID, tenantID),
		Kind:            kind,
	}
}
