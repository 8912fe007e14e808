package purchasing

import (
	"context"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// OrdenCompraFilter defines filtering options for purchase order queries
type OrdenCompraFilter struct {
	shared.Filter
	ProveedorID *uuid.UUID
	Estado      *EstadoOrden
}

// OrdenCompraRepository defines the interface for purchase order persistence.
// Finders return (nil, nil) when no row matches.
type OrdenCompraRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*OrdenCompra, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrdenCompraFilter) ([]OrdenCompra, int64, error)
	CountByProveedor(ctx context.Context, tenantID, proveedorID uuid.UUID) (int64, error)
	CountItemsByProducto(ctx context.Context, tenantID, productoID uuid.UUID) (int64, error)
	Create(ctx context.Context, o *OrdenCompra) error
	Save(ctx context.Context, o *OrdenCompra) error
}
