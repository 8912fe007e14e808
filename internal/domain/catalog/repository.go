package catalog

import (
	"context"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductoFilter defines filtering options for product queries
type ProductoFilter struct {
	shared.Filter
	Activo         *bool
	TasaIva        *TasaIva
	CuentaVentasID *uuid.UUID
}

// ProductoRepository defines the interface for product persistence.
// Finders return (nil, nil) when no row matches.
type ProductoRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Producto, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Producto, error)
	ExistsByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (bool, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ProductoFilter) ([]Producto, int64, error)
	CountActiveByCuentaVentas(ctx context.Context, tenantID, cuentaID uuid.UUID) (int64, error)
	Create(ctx context.Context, p *Producto) error
	Save(ctx context.Context, p *Producto) error
}
