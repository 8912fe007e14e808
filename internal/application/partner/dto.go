package partner

import (
	"time"

	"github.com/erp/contable/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateSupplierRequest represents a request to register a supplier
type CreateSupplierRequest struct {
	RUC            string     `json:"ruc" binding:"required,max=20,ruc"`
	RazonSocial    string     `json:"razonSocial" binding:"required,max=200"`
	NombreFantasia string     `json:"nombreFantasia" binding:"max=200"`
	Telefono       string     `json:"telefono" binding:"max=50"`
	Email          string     `json:"email" binding:"omitempty,email,max=200"`
	Direccion      string     `json:"direccion" binding:"max=500"`
	CreatedBy      *uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID             uuid.UUID `json:"id"`
	TenantID       uuid.UUID `json:"tenantId"`
	RUC            string    `json:"ruc"`
	RazonSocial    string    `json:"razonSocial"`
	NombreFantasia string    `json:"nombreFantasia,omitempty"`
	Telefono       string    `json:"telefono,omitempty"`
	Email          string    `json:"email,omitempty"`
	Direccion      string    `json:"direccion,omitempty"`
	Activo         bool      `json:"activo"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SupplierListFilter represents query parameters for listing suppliers
type SupplierListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Activo   *bool  `form:"activo"`
}

// ToSupplierResponse converts a domain Proveedor to a response DTO
func ToSupplierResponse(p *partner.Proveedor) SupplierResponse {
	return SupplierResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		RUC:            p.RUC,
		RazonSocial:    p.RazonSocial,
		NombreFantasia: p.NombreFantasia,
		Telefono:       p.Telefono,
		Email:          p.Email,
		Direccion:      p.Direccion,
		Activo:         p.Activo,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
