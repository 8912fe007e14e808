package catalog

import (
	"time"

	"github.com/erp/contable/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product.
// TasaIva defaults to 10 when omitted.
type CreateProductRequest struct {
	Codigo         string          `json:"codigo" binding:"required,max=50"`
	Nombre         string          `json:"nombre" binding:"required,max=200"`
	Precio         decimal.Decimal `json:"precio"`
	TasaIva        *int            `json:"tasaIva" binding:"omitempty,oneof=0 5 10"`
	CuentaVentasID *uuid.UUID      `json:"cuentaVentasId"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenantId"`
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	Precio         decimal.Decimal `json:"precio"`
	TasaIva        int             `json:"tasaIva"`
	IvaIncluido    decimal.Decimal `json:"ivaIncluido"`
	CuentaVentasID *uuid.UUID      `json:"cuentaVentasId,omitempty"`
	Activo         bool            `json:"activo"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ProductListFilter represents query parameters for listing products
type ProductListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Activo   *bool  `form:"activo"`
	TasaIva  *int   `form:"tasaIva" binding:"omitempty,oneof=0 5 10"`
}

// ToProductResponse converts a domain Producto to a response DTO
func ToProductResponse(p *catalog.Producto) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		Codigo:         p.Codigo,
		Nombre:         p.Nombre,
		Precio:         p.Precio,
		TasaIva:        int(p.TasaIva),
		IvaIncluido:    p.TasaIva.IvaIncluido(p.Precio),
		CuentaVentasID: p.CuentaVentasID,
		Activo:         p.Activo,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
