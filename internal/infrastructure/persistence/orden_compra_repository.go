package persistence

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ordenCompraSort = sortSpec{allowed: OrdenCompraSortFields, defaultField: "numero", defaultDir: "desc"}

// GormOrdenCompraRepository implements purchasing.OrdenCompraRepository using GORM
type GormOrdenCompraRepository struct {
	db *gorm.DB
}

// NewGormOrdenCompraRepository creates a new GormOrdenCompraRepository
func NewGormOrdenCompraRepository(db *gorm.DB) *GormOrdenCompraRepository {
	return &GormOrdenCompraRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items")
}

// FindByIDForTenant finds a purchase order with its items
func (r *GormOrdenCompraRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.OrdenCompra, error) {
	var o purchasing.OrdenCompra
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadItems).
		Where("id = ?", id).
		First(&o).Error
	return firstOrNil(&o, err)
}

// FindAllForTenant lists purchase orders matching the filter
func (r *GormOrdenCompraRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter purchasing.OrdenCompraFilter) ([]purchasing.OrdenCompra, int64, error) {
	query := r.db.WithContext(ctx).Model(&purchasing.OrdenCompra{}).Scopes(tenant.Scope(tenantID))

	if filter.ProveedorID != nil {
		query = query.Where("proveedor_id = ?", *filter.ProveedorID)
	}
	if filter.Estado != nil {
		query = query.Where("estado = ?", *filter.Estado)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(observacion) LIKE ?", searchPattern(filter.Search))
	}

	items, total, err := paginate[purchasing.OrdenCompra](query, filter.Filter, ordenCompraSort, preloadItems)
	if err != nil {
		return nil, 0, fmt.Errorf("list ordenes de compra: %w", err)
	}
	return items, total, nil
}

// CountByProveedor counts purchase orders issued to a supplier
func (r *GormOrdenCompraRepository) CountByProveedor(ctx context.Context, tenantID, proveedorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&purchasing.OrdenCompra{}).
		Scopes(tenant.Scope(tenantID)).
		Where("proveedor_id = ?", proveedorID).
		Count(&count).Error
	return count, err
}

// CountItemsByProducto counts purchase order lines referencing a product
func (r *GormOrdenCompraRepository) CountItemsByProducto(ctx context.Context, tenantID, productoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&purchasing.ItemOrden{}).
		Scopes(tenant.Scope(tenantID)).
		Where("producto_id = ?", productoID).
		Count(&count).Error
	return count, err
}

// Create inserts the order and its items
func (r *GormOrdenCompraRepository) Create(ctx context.Context, o *purchasing.OrdenCompra) error {
	err := r.db.WithContext(ctx).Create(o).Error
	return wrapWriteError(err, "create orden de compra", "orden de compra", fmt.Sprintf("numero %d", o.Numero))
}

// Save writes the cancellation state guarded by the version column
func (r *GormOrdenCompraRepository) Save(ctx context.Context, o *purchasing.OrdenCompra) error {
	result := r.db.WithContext(ctx).
		Model(&purchasing.OrdenCompra{}).
		Scopes(tenant.Scope(o.TenantID)).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]interface{}{
			"estado":         o.Estado,
			"fecha_anulada":  o.FechaAnulada,
			"motivo_anulada": o.MotivoAnulada,
			"observacion":    o.Observacion,
			"version":        o.Version,
			"updated_at":     o.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("save orden de compra: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return staleVersion("orden de compra")
	}
	return nil
}

var _ purchasing.OrdenCompraRepository = (*GormOrdenCompraRepository)(nil)
