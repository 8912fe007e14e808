package persistence

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var proveedorSort = sortSpec{allowed: ProveedorSortFields, defaultField: "razon_social", defaultDir: "asc"}

// GormProveedorRepository implements partner.ProveedorRepository using GORM
type GormProveedorRepository struct {
	db *gorm.DB
}

// NewGormProveedorRepository creates a new GormProveedorRepository
func NewGormProveedorRepository(db *gorm.DB) *GormProveedorRepository {
	return &GormProveedorRepository{db: db}
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormProveedorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Proveedor, error) {
	var p partner.Proveedor
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&p).Error
	return firstOrNil(&p, err)
}

// ExistsByRUC checks if a RUC is registered within a tenant
func (r *GormProveedorRepository) ExistsByRUC(ctx context.Context, tenantID uuid.UUID, ruc string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&partner.Proveedor{}).
		Scopes(tenant.Scope(tenantID)).
		Where("ruc = ?", ruc).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant lists suppliers matching the filter
func (r *GormProveedorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ProveedorFilter) ([]partner.Proveedor, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.Proveedor{}).Scopes(tenant.Scope(tenantID))

	if filter.Activo != nil {
		query = query.Where("activo = ?", *filter.Activo)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(ruc LIKE ? OR LOWER(razon_social) LIKE ? OR LOWER(nombre_fantasia) LIKE ?)",
			pattern, pattern, pattern)
	}

	items, total, err := paginate[partner.Proveedor](query, filter.Filter, proveedorSort)
	if err != nil {
		return nil, 0, fmt.Errorf("list proveedores: %w", err)
	}
	return items, total, nil
}

// Create inserts a new supplier
func (r *GormProveedorRepository) Create(ctx context.Context, p *partner.Proveedor) error {
	err := r.db.WithContext(ctx).Create(p).Error
	return wrapWriteError(err, "create proveedor", "proveedor", "ruc "+p.RUC)
}

// Save updates an existing supplier
func (r *GormProveedorRepository) Save(ctx context.Context, p *partner.Proveedor) error {
	err := r.db.WithContext(ctx).Save(p).Error
	return wrapWriteError(err, "save proveedor", "proveedor", "ruc "+p.RUC)
}

var _ partner.ProveedorRepository = (*GormProveedorRepository)(nil)
