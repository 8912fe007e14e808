package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineaAsiento is one debit or credit line of a journal entry
type LineaAsiento struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	AsientoID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"asientoId"`
	Orden         int             `gorm:"not null" json:"orden"`
	CuentaID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"cuentaId"`
	CentroCostoID *uuid.UUID      `gorm:"type:uuid;index" json:"centroCostoId,omitempty"`
	ProveedorID   *uuid.UUID      `gorm:"type:uuid;index" json:"proveedorId,omitempty"`
	Debe          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"debe"`
	Haber         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"haber"`
	Descripcion   string          `gorm:"type:varchar(500)" json:"descripcion,omitempty"`
}

// TableName returns the table name for GORM
func (LineaAsiento) TableName() string {
	return "lineas_asiento"
}

// NuevaLinea is the caller supplied content of a journal line
type NuevaLinea struct {
	CuentaID      uuid.UUID
	CentroCostoID *uuid.UUID
	ProveedorID   *uuid.UUID
	Debe          decimal.Decimal
	Haber         decimal.Decimal
	Descripcion   string
}

// AsientoContable is a balanced double-entry journal entry
type AsientoContable struct {
	shared.TenantAggregateRoot
	Numero     int64           `gorm:"not null" json:"numero"`
	Fecha      time.Time       `gorm:"type:date;not null;index" json:"fecha"`
	Concepto   string          `gorm:"type:varchar(500);not null" json:"concepto"`
	TotalDebe  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"totalDebe"`
	TotalHaber decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"totalHaber"`
	Lineas     []LineaAsiento  `gorm:"foreignKey:AsientoID;references:ID" json:"lineas"`
}

// TableName returns the table name for GORM
func (AsientoContable) TableName() string {
	return "asientos_contables"
}

// NewAsientoContable builds a journal entry. Each line must carry exactly one
// positive side and the entry must balance.
func NewAsientoContable(tenantID uuid.UUID, fecha time.Time, concepto string, lineas []NuevaLinea) (*AsientoContable, error) {
	concepto = strings.TrimSpace(concepto)
	if concepto == "" {
		return nil, shared.NewValidationError("concepto is required")
	}
	if fecha.IsZero() {
		return nil, shared.NewValidationError("fecha is required")
	}
	if len(lineas) < 2 {
		return nil, shared.NewValidationError("a journal entry needs at least two lines")
	}

	a := &AsientoContable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Fecha:               time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, time.UTC),
		Concepto:            concepto,
		TotalDebe:           decimal.Zero,
		TotalHaber:          decimal.Zero,
		Lineas:              make([]LineaAsiento, 0, len(lineas)),
	}

	for i, l := range lineas {
		if l.CuentaID == uuid.Nil {
			return nil, shared.NewValidationError(fmt.Sprintf("line %d: cuentaId is required", i+1))
		}
		if l.Debe.IsNegative() || l.Haber.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("line %d: amounts cannot be negative", i+1))
		}
		if l.Debe.IsPositive() == l.Haber.IsPositive() {
			return nil, shared.NewValidationError(fmt.Sprintf("line %d: exactly one of debe or haber must be positive", i+1))
		}
		a.Lineas = append(a.Lineas, LineaAsiento{
			ID:            uuid.New(),
			TenantID:      tenantID,
			AsientoID:     a.ID,
			Orden:         i + 1,
			CuentaID:      l.CuentaID,
			CentroCostoID: l.CentroCostoID,
			ProveedorID:   l.ProveedorID,
			Debe:          l.Debe,
			Haber:         l.Haber,
			Descripcion:   strings.TrimSpace(l.Descripcion),
		})
		a.TotalDebe = a.TotalDebe.Add(l.Debe)
		a.TotalHaber = a.TotalHaber.Add(l.Haber)
	}

	if !a.TotalDebe.Equal(a.TotalHaber) {
		return nil, shared.NewInvalidStateError(fmt.Sprintf(
			"unbalanced entry: debe %s, haber %s", a.TotalDebe.StringFixed(2), a.TotalHaber.StringFixed(2)))
	}
	return a, nil
}

// AsignarNumero sets the per-tenant sequential number and raises the posted event.
func (a *AsientoContable) AsignarNumero(numero int64) {
	a.Numero = numero
	a.Raise(NewAsientoRegistradoEvent(a))
}

// SaldoCuenta is the aggregated movement of one account over a period
type SaldoCuenta struct {
	CuentaID   uuid.UUID       `json:"cuentaId"`
	Codigo     string          `json:"codigo"`
	Nombre     string          `json:"nombre"`
	Naturaleza Naturaleza      `json:"naturaleza"`
	Debe       decimal.Decimal `json:"debe"`
	Haber      decimal.Decimal `json:"haber"`
}

// Saldo returns the balance on the account's natural side
func (s SaldoCuenta) Saldo() decimal.Decimal {
	if s.Naturaleza == NaturalezaAcreedora {
		return s.Haber.Sub(s.Debe)
	}
	return s.Debe.Sub(s.Haber)
}
