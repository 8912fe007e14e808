package invoicing

import (
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeFacturaEmitida   = "FacturaEmitida"
	EventTypeFacturaAnulada   = "FacturaAnulada"
	EventTypeTalonarioAgotado = "TalonarioAgotado"
)

// FacturaEmitidaEvent is raised when a number is allocated to a new invoice
type FacturaEmitidaEvent struct {
	shared.BaseDomainEvent
	TalonarioID    uuid.UUID       `json:"talonario_id"`
	NumeroFactura  int64           `json:"numero_factura"`
	NumeroCompleto string          `json:"numero_completo"`
	FechaEmision   time.Time       `json:"fecha_emision"`
	Total          decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *FacturaEmitidaEvent) EventType() string {
	return EventTypeFacturaEmitida
}

// NewFacturaEmitidaEvent creates a new FacturaEmitidaEvent
func NewFacturaEmitidaEvent(f *FacturaEmitida) *FacturaEmitidaEvent {
	return &FacturaEmitidaEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFacturaEmitida, "FacturaEmitida", f.ID, f.TenantID),
		TalonarioID:     f.TalonarioID,
		NumeroFactura:   f.NumeroFactura,
		NumeroCompleto:  f.NumeroCompleto,
		FechaEmision:    f.FechaEmision,
		Total:           f.Total,
	}
}

// FacturaAnuladaEvent is raised when an invoice is voided
type FacturaAnuladaEvent struct {
	shared.BaseDomainEvent
	NumeroCompleto  string    `json:"numero_completo"`
	MotivoAnulacion string    `json:"motivo_anulacion"`
	FechaAnulacion  time.Time `json:"fecha_anulacion"`
}

// EventType returns the event type name
func (e *FacturaAnuladaEvent) EventType() string {
	return EventTypeFacturaAnulada
}

// NewFacturaAnuladaEvent creates a new FacturaAnuladaEvent
func NewFacturaAnuladaEvent(f *FacturaEmitida) *FacturaAnuladaEvent {
	var fecha time.Time
	if f.FechaAnulacion != nil {
		fecha = *f.FechaAnulacion
	}
	return &FacturaAnuladaEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFacturaAnulada, "FacturaEmitida", f.ID, f.TenantID),
		NumeroCompleto:  f.NumeroCompleto,
		MotivoAnulacion: f.MotivoAnulacion,
		FechaAnulacion:  fecha,
	}
}

// TalonarioAgotadoEvent is raised by the allocation that consumes the last number
type TalonarioAgotadoEvent struct {
	shared.BaseDomainEvent
	Establecimiento string `json:"establecimiento"`
	PuntoVenta      string `json:"punto_venta"`
	UltimoNumero    int64  `json:"ultimo_numero"`
}

// EventType returns the event type name
func (e *TalonarioAgotadoEvent) EventType() string {
	return EventTypeTalonarioAgotado
}

// NewTalonarioAgotadoEvent creates a new TalonarioAgotadoEvent
func NewTalonarioAgotadoEvent(t *Talonario, ultimo int64) *TalonarioAgotadoEvent {
	return &TalonarioAgotadoEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTalonarioAgotado, "Talonario", t.ID, t.TenantID),
		Establecimiento: t.Establecimiento,
		PuntoVenta:      t.PuntoVenta,
		UltimoNumero:    ultimo,
	}
}
