package persistence

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var centroCostoSort = sortSpec{allowed: CentroCostoSortFields, defaultField: "codigo", defaultDir: "asc"}

// GormCentroCostoRepository implements accounting.CentroCostoRepository using GORM
type GormCentroCostoRepository struct {
	db *gorm.DB
}

// NewGormCentroCostoRepository creates a new GormCentroCostoRepository
func NewGormCentroCostoRepository(db *gorm.DB) *GormCentroCostoRepository {
	return &GormCentroCostoRepository{db: db}
}

// FindByIDForTenant finds a cost center by ID within a tenant
func (r *GormCentroCostoRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.CentroCosto, error) {
	var cc accounting.CentroCosto
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&cc).Error
	return firstOrNil(&cc, err)
}

// ExistsByCodigo checks if a cost center code is taken within a tenant
func (r *GormCentroCostoRepository) ExistsByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&accounting.CentroCosto{}).
		Scopes(tenant.Scope(tenantID)).
		Where("codigo = ?", codigo).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant lists cost centers matching the filter
func (r *GormCentroCostoRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.CentroCostoFilter) ([]accounting.CentroCosto, int64, error) {
	query := r.db.WithContext(ctx).Model(&accounting.CentroCosto{}).Scopes(tenant.Scope(tenantID))

	if filter.Activo != nil {
		query = query.Where("activo = ?", *filter.Activo)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(codigo LIKE ? OR LOWER(nombre) LIKE ?)", pattern, pattern)
	}

	items, total, err := paginate[accounting.CentroCosto](query, filter.Filter, centroCostoSort)
	if err != nil {
		return nil, 0, fmt.Errorf("list centros de costo: %w", err)
	}
	return items, total, nil
}

// Create inserts a new cost center
func (r *GormCentroCostoRepository) Create(ctx context.Context, cc *accounting.CentroCosto) error {
	err := r.db.WithContext(ctx).Create(cc).Error
	return wrapWriteError(err, "create centro de costo", "centro de costo", "codigo "+cc.Codigo)
}

// Save updates an existing cost center
func (r *GormCentroCostoRepository) Save(ctx context.Context, cc *accounting.CentroCosto) error {
	err := r.db.WithContext(ctx).Save(cc).Error
	return wrapWriteError(err, "save centro de costo", "centro de costo", "codigo "+cc.Codigo)
}

var _ accounting.CentroCostoRepository = (*GormCentroCostoRepository)(nil)
