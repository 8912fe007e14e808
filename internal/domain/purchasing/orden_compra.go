package purchasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoOrden is the lifecycle state of a purchase order
type EstadoOrden string

const (
	EstadoPendiente EstadoOrden = "PENDIENTE"
	EstadoAnulada   EstadoOrden = "ANULADA"
)

// ItemOrden is a line of a purchase order
type ItemOrden struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	OrdenCompraID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"ordenCompraId"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"productoId"`
	Descripcion    string          `gorm:"type:varchar(200);not null" json:"descripcion"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cantidad"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"precioUnitario"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
}

// TableName returns the table name for GORM
func (ItemOrden) TableName() string {
	return "items_orden_compra"
}

// NuevoItem is the caller supplied content of a purchase order line;
// Descripcion is filled from the product.
type NuevoItem struct {
	ProductoID     uuid.UUID
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
}

// OrdenCompra is a purchase order placed with a supplier
type OrdenCompra struct {
	shared.TenantAggregateRoot
	Numero        int64           `gorm:"not null" json:"numero"`
	ProveedorID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"proveedorId"`
	Fecha         time.Time       `gorm:"type:date;not null" json:"fecha"`
	Estado        EstadoOrden     `gorm:"type:varchar(20);not null;default:'PENDIENTE';index" json:"estado"`
	Observacion   string          `gorm:"type:text" json:"observacion,omitempty"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	Items         []ItemOrden     `gorm:"foreignKey:OrdenCompraID;references:ID" json:"items"`
	FechaAnulada  *time.Time      `json:"fechaAnulada,omitempty"`
	MotivoAnulada string          `gorm:"type:varchar(500)" json:"motivoAnulada,omitempty"`
}

// TableName returns the table name for GORM
func (OrdenCompra) TableName() string {
	return "ordenes_compra"
}

// NewOrdenCompra builds a pending purchase order and computes its total
func NewOrdenCompra(tenantID, proveedorID uuid.UUID, fecha time.Time, observacion string, items []NuevoItem) (*OrdenCompra, error) {
	if proveedorID == uuid.Nil {
		return nil, shared.NewValidationError("proveedorId is required")
	}
	if fecha.IsZero() {
		return nil, shared.NewValidationError("fecha is required")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("a purchase order needs at least one item")
	}

	o := &OrdenCompra{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProveedorID:         proveedorID,
		Fecha:               time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, time.UTC),
		Estado:              EstadoPendiente,
		Observacion:         strings.TrimSpace(observacion),
		Total:               decimal.Zero,
		Items:               make([]ItemOrden, 0, len(items)),
	}
	for i, it := range items {
		if it.ProductoID == uuid.Nil {
			return nil, shared.NewValidationError(fmt.Sprintf("item %d: productoId is required", i+1))
		}
		if !it.Cantidad.IsPositive() {
			return nil, shared.NewValidationError(fmt.Sprintf("item %d: cantidad must be positive", i+1))
		}
		if it.PrecioUnitario.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("item %d: precioUnitario cannot be negative", i+1))
		}
		subtotal := it.Cantidad.Mul(it.PrecioUnitario).Round(2)
		o.Items = append(o.Items, ItemOrden{
			ID:             uuid.New(),
			TenantID:       tenantID,
			OrdenCompraID:  o.ID,
			ProductoID:     it.ProductoID,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       subtotal,
		})
		o.Total = o.Total.Add(subtotal)
	}
	return o, nil
}

// Anular cancels a pending order; it happens once.
func (o *OrdenCompra) Anular(motivo string) error {
	if o.Estado == EstadoAnulada {
		return shared.NewInvalidStateError("purchase order already cancelled")
	}
	now := time.Now()
	o.Estado = EstadoAnulada
	o.FechaAnulada = &now
	o.MotivoAnulada = strings.TrimSpace(motivo)
	o.MarkChanged()
	return nil
}
