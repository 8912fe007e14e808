package accounting

import (
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventTypeAsientoRegistrado is raised when a journal entry is posted
const EventTypeAsientoRegistrado = "AsientoRegistrado"

// AsientoRegistradoEvent is raised when a journal entry is posted
type AsientoRegistradoEvent struct {
	shared.BaseDomainEvent
	Numero int64           `json:"numero"`
	Fecha  time.Time       `json:"fecha"`
	Total  decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *AsientoRegistradoEvent) EventType() string {
	return EventTypeAsientoRegistrado
}

// NewAsientoRegistradoEvent creates a new AsientoRegistradoEvent
func NewAsientoRegistradoEvent(a *AsientoContable) *AsientoRegistradoEvent {
	return &AsientoRegistradoEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAsientoRegistrado, "AsientoContable", a.ID, a.TenantID),
		Numero:          a.Numero,
		Fecha:           a.Fecha,
		Total:           a.TotalDebe,
	}
}
