package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoFactura is the lifecycle state of an issued invoice
type EstadoFactura string

const (
	EstadoEmitida EstadoFactura = "EMITIDA"
	EstadoAnulada EstadoFactura = "ANULADA"
)

// IsValid returns true if the state is known
func (e EstadoFactura) IsValid() bool {
	return e == EstadoEmitida || e == EstadoAnulada
}

// CondicionVenta is the payment condition printed on the invoice
type CondicionVenta string

const (
	CondicionContado CondicionVenta = "CONTADO"
	CondicionCredito CondicionVenta = "CREDITO"
)

// IsValid returns true if the condition is known
func (c CondicionVenta) IsValid() bool {
	return c == CondicionContado || c == CondicionCredito
}

// Montos groups the monetary fields of an invoice.
type Montos struct {
	Subtotal decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	Iva10    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"iva10"`
	Iva5     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"iva5"`
	Exentas  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"exentas"`
	Total    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
}

// Validate requires non-negative amounts and subtotal+iva10+iva5+exentas == total.
func (m Montos) Validate() error {
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"subtotal", m.Subtotal},
		{"iva10", m.Iva10},
		{"iva5", m.Iva5},
		{"exentas", m.Exentas},
		{"total", m.Total},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return shared.NewValidationError(fmt.Sprintf("%s cannot be negative", a.name))
		}
	}
	sum := m.Subtotal.Add(m.Iva10).Add(m.Iva5).Add(m.Exentas)
	if !sum.Equal(m.Total) {
		return shared.NewValidationError(fmt.Sprintf(
			"totals do not reconcile: subtotal+iva10+iva5+exentas=%s, total=%s", sum.StringFixed(2), m.Total.StringFixed(2)))
	}
	return nil
}

// DatosFactura carries the caller supplied invoice fields.
type DatosFactura struct {
	ClienteRUC     string
	ClienteNombre  string
	CondicionVenta CondicionVenta
	Montos         Montos
	IdempotencyKey string
	CreatedBy      *uuid.UUID
}

// Validate checks caller supplied fields
func (d DatosFactura) Validate() error {
	if strings.TrimSpace(d.ClienteNombre) == "" {
		return shared.NewValidationError("clienteNombre is required")
	}
	if d.CondicionVenta != "" && !d.CondicionVenta.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("unknown condicionVenta %q", d.CondicionVenta))
	}
	return d.Montos.Validate()
}

// FacturaEmitida is an issued invoice. It is created exactly once per
// successful allocation and may be voided once; its number is never reused.
type FacturaEmitida struct {
	shared.TenantAggregateRoot
	TalonarioID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"talonarioId"`
	NumeroFactura   int64          `gorm:"not null" json:"numeroFactura"`
	NumeroCompleto  string         `gorm:"type:varchar(20);not null" json:"numeroCompleto"`
	FechaEmision    time.Time      `gorm:"type:date;not null;index" json:"fechaEmision"`
	ClienteRUC      string         `gorm:"type:varchar(20);index" json:"clienteRuc,omitempty"`
	ClienteNombre   string         `gorm:"type:varchar(200);not null" json:"clienteNombre"`
	CondicionVenta  CondicionVenta `gorm:"type:varchar(10);not null;default:'CONTADO'" json:"condicionVenta"`
	Montos          `gorm:"embedded"`
	Estado          EstadoFactura `gorm:"type:varchar(10);not null;default:'EMITIDA';index" json:"estado"`
	FechaAnulacion  *time.Time    `json:"fechaAnulacion,omitempty"`
	MotivoAnulacion string        `gorm:"type:varchar(500)" json:"motivoAnulacion,omitempty"`
	IdempotencyKey  *string       `gorm:"type:varchar(100)" json:"-"`
}

// TableName returns the table name for GORM
func (FacturaEmitida) TableName() string {
	return "facturas_emitidas"
}

func newFacturaEmitida(t *Talonario, n int64, issueDate time.Time, datos DatosFactura) *FacturaEmitida {
	condicion := datos.CondicionVenta
	if condicion == "" {
		condicion = CondicionContado
	}
	f := &FacturaEmitida{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(t.TenantID),
		TalonarioID:         t.ID,
		NumeroFactura:       n,
		NumeroCompleto:      t.FormatNumeroCompleto(n),
		FechaEmision:        DateOnly(issueDate),
		ClienteRUC:          strings.TrimSpace(datos.ClienteRUC),
		ClienteNombre:       strings.TrimSpace(datos.ClienteNombre),
		CondicionVenta:      condicion,
		Montos:              datos.Montos,
		Estado:              EstadoEmitida,
	}
	if datos.IdempotencyKey != "" {
		key := datos.IdempotencyKey
		f.IdempotencyKey = &key
	}
	f.CreatedBy = datos.CreatedBy
	f.Raise(NewFacturaEmitidaEvent(f))
	return f
}

// Anular voids the invoice. The number stays consumed.
func (f *FacturaEmitida) Anular(motivo string) error {
	if f.Estado == EstadoAnulada {
		return shared.NewInvalidStateError("invoice already void")
	}
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		return shared.NewValidationError("motivoAnulacion is required")
	}
	now := time.Now()
	f.Estado = EstadoAnulada
	f.FechaAnulacion = &now
	f.MotivoAnulacion = motivo
	f.MarkChanged()

	f.Raise(NewFacturaAnuladaEvent(f))
	return nil
}

// IsAnulada reports whether the invoice was voided
func (f *FacturaEmitida) IsAnulada() bool {
	return f.Estado == EstadoAnulada
}
