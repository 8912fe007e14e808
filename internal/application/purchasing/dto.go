package purchasing

import (
	"time"

	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest is one line of a purchase order request.
// PrecioUnitario defaults to the product's price.
type CreateOrderItemRequest struct {
	ProductoID     uuid.UUID        `json:"productoId" binding:"required"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precioUnitario"`
}

// CreateOrderRequest represents a request to create a purchase order
type CreateOrderRequest struct {
	ProveedorID uuid.UUID                `json:"proveedorId" binding:"required"`
	Fecha       string                   `json:"fecha" binding:"required"`
	Observacion string                   `json:"observacion" binding:"max=1000"`
	Items       []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	CreatedBy   *uuid.UUID               `json:"-"`
}

// CancelOrderRequest represents a request to cancel a purchase order
type CancelOrderRequest struct {
	Motivo string `json:"motivo" binding:"max=500"`
}

// OrderItemResponse represents a purchase order line in API responses
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductoID     uuid.UUID       `json:"productoId"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents a purchase order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	TenantID      uuid.UUID           `json:"tenantId"`
	Numero        int64               `json:"numero"`
	ProveedorID   uuid.UUID           `json:"proveedorId"`
	Fecha         string              `json:"fecha"`
	Estado        string              `json:"estado"`
	Observacion   string              `json:"observacion,omitempty"`
	Total         decimal.Decimal     `json:"total"`
	Items         []OrderItemResponse `json:"items"`
	FechaAnulada  *time.Time          `json:"fechaAnulada,omitempty"`
	MotivoAnulada string              `json:"motivoAnulada,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// OrderListFilter represents query parameters for listing purchase orders
type OrderListFilter struct {
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	ProveedorID string `form:"proveedorId" binding:"omitempty,uuid"`
	Estado      string `form:"estado" binding:"omitempty,oneof=PENDIENTE ANULADA"`
}

// ToOrderResponse converts a domain OrdenCompra to a response DTO
func ToOrderResponse(o *purchasing.OrdenCompra) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:             it.ID,
			ProductoID:     it.ProductoID,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
		}
	}
	return OrderResponse{
		ID:            o.ID,
		TenantID:      o.TenantID,
		Numero:        o.Numero,
		ProveedorID:   o.ProveedorID,
		Fecha:         o.Fecha.Format(shared.DateLayout),
		Estado:        string(o.Estado),
		Observacion:   o.Observacion,
		Total:         o.Total,
		Items:         items,
		FechaAnulada:  o.FechaAnulada,
		MotivoAnulada: o.MotivoAnulada,
		CreatedAt:     o.CreatedAt,
	}
}
