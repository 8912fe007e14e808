package catalog

import (
	"fmt"
	"strings"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TasaIva is the VAT rate applied to a product, in percent
type TasaIva int

const (
	TasaIva10     TasaIva = 10
	TasaIva5      TasaIva = 5
	TasaIvaExenta TasaIva = 0
)

// IsValid returns true if the rate is one of 10, 5 or 0
func (t TasaIva) IsValid() bool {
	return t == TasaIva10 || t == TasaIva5 || t == TasaIvaExenta
}

// Producto is a sellable or purchasable item. When CuentaVentasID is set it
// must point at a postable INGRESO account.
type Producto struct {
	shared.TenantAggregateRoot
	shared.Activable
	Codigo         string          `gorm:"type:varchar(50);not null" json:"codigo"`
	Nombre         string          `gorm:"type:varchar(200);not null" json:"nombre"`
	Precio         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"precio"`
	TasaIva        TasaIva         `gorm:"not null" json:"tasaIva"`
	CuentaVentasID *uuid.UUID      `gorm:"type:uuid;index" json:"cuentaVentasId,omitempty"`
}

// TableName returns the table name for GORM
func (Producto) TableName() string {
	return "productos"
}

// NewProductoParams holds the fields used to create a product
type NewProductoParams struct {
	Codigo         string
	Nombre         string
	Precio         decimal.Decimal
	TasaIva        TasaIva
	CuentaVentasID *uuid.UUID
}

// NewProducto creates an active product
func NewProducto(tenantID uuid.UUID, p NewProductoParams) (*Producto, error) {
	codigo := strings.ToUpper(strings.TrimSpace(p.Codigo))
	if codigo == "" {
		return nil, shared.NewValidationError("codigo is required")
	}
	if len(codigo) > 50 {
		return nil, shared.NewValidationError("codigo cannot exceed 50 characters")
	}
	nombre := strings.TrimSpace(p.Nombre)
	if nombre == "" {
		return nil, shared.NewValidationError("nombre is required")
	}
	if p.Precio.IsNegative() {
		return nil, shared.NewValidationError("precio cannot be negative")
	}
	if !p.TasaIva.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("tasaIva must be 10, 5 or 0, got %d", p.TasaIva))
	}
	return &Producto{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activable:           shared.NewActivable(),
		Codigo:              codigo,
		Nombre:              nombre,
		Precio:              p.Precio,
		TasaIva:             p.TasaIva,
		CuentaVentasID:      p.CuentaVentasID,
	}, nil
}

// IvaIncluido returns the VAT portion contained in a VAT-inclusive amount
// (amount/11 for 10%, amount/21 for 5%), rounded to whole units.
func (t TasaIva) IvaIncluido(monto decimal.Decimal) decimal.Decimal {
	switch t {
	case TasaIva10:
		return monto.Div(decimal.NewFromInt(11)).Round(0)
	case TasaIva5:
		return monto.Div(decimal.NewFromInt(21)).Round(0)
	default:
		return decimal.Zero
	}
}
