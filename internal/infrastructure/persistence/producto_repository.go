package persistence

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var productoSort = sortSpec{allowed: ProductoSortFields, defaultField: "codigo", defaultDir: "asc"}

// GormProductoRepository implements catalog.ProductoRepository using GORM
type GormProductoRepository struct {
	db *gorm.DB
}

// NewGormProductoRepository creates a new GormProductoRepository
func NewGormProductoRepository(db *gorm.DB) *GormProductoRepository {
	return &GormProductoRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductoRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Producto, error) {
	var p catalog.Producto
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&p).Error
	return firstOrNil(&p, err)
}

// FindByIDs loads the products with the given IDs; missing ones are skipped
func (r *GormProductoRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Producto, error) {
	if len(ids) == 0 {
		return []catalog.Producto{}, nil
	}
	var items []catalog.Producto
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("find productos by ids: %w", err)
	}
	return items, nil
}

// ExistsByCodigo checks if a product code is taken within a tenant
func (r *GormProductoRepository) ExistsByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.Producto{}).
		Scopes(tenant.Scope(tenantID)).
		Where("codigo = ?", codigo).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant lists products matching the filter
func (r *GormProductoRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductoFilter) ([]catalog.Producto, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Producto{}).Scopes(tenant.Scope(tenantID))

	if filter.Activo != nil {
		query = query.Where("activo = ?", *filter.Activo)
	}
	if filter.TasaIva != nil {
		query = query.Where("tasa_iva = ?", *filter.TasaIva)
	}
	if filter.CuentaVentasID != nil {
		query = query.Where("cuenta_ventas_id = ?", *filter.CuentaVentasID)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(LOWER(codigo) LIKE ? OR LOWER(nombre) LIKE ?)", pattern, pattern)
	}

	items, total, err := paginate[catalog.Producto](query, filter.Filter, productoSort)
	if err != nil {
		return nil, 0, fmt.Errorf("list productos: %w", err)
	}
	return items, total, nil
}

// CountActiveByCuentaVentas counts active products posting sales to an account
func (r *GormProductoRepository) CountActiveByCuentaVentas(ctx context.Context, tenantID, cuentaID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.Producto{}).
		Scopes(tenant.Scope(tenantID)).
		Where("cuenta_ventas_id = ? AND activo = ?", cuentaID, true).
		Count(&count).Error
	return count, err
}

// Create inserts a new product
func (r *GormProductoRepository) Create(ctx context.Context, p *catalog.Producto) error {
	err := r.db.WithContext(ctx).Create(p).Error
	return wrapWriteError(err, "create producto", "producto", "codigo "+p.Codigo)
}

// Save updates an existing product
func (r *GormProductoRepository) Save(ctx context.Context, p *catalog.Producto) error {
	err := r.db.WithContext(ctx).Save(p).Error
	return wrapWriteError(err, "save producto", "producto", "codigo "+p.Codigo)
}

var _ catalog.ProductoRepository = (*GormProductoRepository)(nil)
