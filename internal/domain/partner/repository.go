package partner

import (
	"context"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// ProveedorFilter defines filtering options for supplier queries
type ProveedorFilter struct {
	shared.Filter
	Activo *bool
}

// ProveedorRepository defines the interface for supplier persistence.
// Finders return (nil, nil) when no row matches.
type ProveedorRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Proveedor, error)
	ExistsByRUC(ctx context.Context, tenantID uuid.UUID, ruc string) (bool, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ProveedorFilter) ([]Proveedor, int64, error)
	Create(ctx context.Context, p *Proveedor) error
	Save(ctx context.Context, p *Proveedor) error
}
