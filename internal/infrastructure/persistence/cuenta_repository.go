package persistence

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var cuentaSort = sortSpec{allowed: CuentaSortFields, defaultField: "codigo", defaultDir: "asc"}

// GormCuentaRepository implements accounting.CuentaRepository using GORM
type GormCuentaRepository struct {
	db *gorm.DB
}

// NewGormCuentaRepository creates a new GormCuentaRepository
func NewGormCuentaRepository(db *gorm.DB) *GormCuentaRepository {
	return &GormCuentaRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormCuentaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Cuenta, error) {
	var c accounting.Cuenta
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&c).Error
	return firstOrNil(&c, err)
}

// FindByCodigo finds an account by its code within a tenant
func (r *GormCuentaRepository) FindByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (*accounting.Cuenta, error) {
	var c accounting.Cuenta
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("codigo = ?", codigo).
		First(&c).Error
	return firstOrNil(&c, err)
}

// ExistsByCodigo checks if an account code is taken within a tenant
func (r *GormCuentaRepository) ExistsByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&accounting.Cuenta{}).
		Scopes(tenant.Scope(tenantID)).
		Where("codigo = ?", codigo).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant lists accounts matching the filter
func (r *GormCuentaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.CuentaFilter) ([]accounting.Cuenta, int64, error) {
	query := r.db.WithContext(ctx).Model(&accounting.Cuenta{}).Scopes(tenant.Scope(tenantID))

	if filter.Tipo != nil {
		query = query.Where("tipo = ?", *filter.Tipo)
	}
	if filter.Nivel != nil {
		query = query.Where("nivel = ?", *filter.Nivel)
	}
	if filter.Activo != nil {
		query = query.Where("activo = ?", *filter.Activo)
	}
	if filter.AceptaMovimiento != nil {
		query = query.Where("acepta_movimiento = ?", *filter.AceptaMovimiento)
	}
	if filter.CuentaPadreID != nil {
		query = query.Where("cuenta_padre_id = ?", *filter.CuentaPadreID)
	}
	if filter.CentroCostoID != nil {
		query = query.Where("centro_costo_id = ?", *filter.CentroCostoID)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(codigo LIKE ? OR LOWER(nombre) LIKE ?)", pattern, pattern)
	}

	items, total, err := paginate[accounting.Cuenta](query, filter.Filter, cuentaSort)
	if err != nil {
		return nil, 0, fmt.Errorf("list cuentas: %w", err)
	}
	return items, total, nil
}

// FindAllOrdered returns the whole chart of accounts ordered by code
func (r *GormCuentaRepository) FindAllOrdered(ctx context.Context, tenantID uuid.UUID) ([]accounting.Cuenta, error) {
	var items []accounting.Cuenta
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("codigo ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list chart of accounts: %w", err)
	}
	return items, nil
}

// CountActiveChildren counts active accounts hanging from cuentaID
func (r *GormCuentaRepository) CountActiveChildren(ctx context.Context, tenantID, cuentaID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&accounting.Cuenta{}).
		Scopes(tenant.Scope(tenantID)).
		Where("cuenta_padre_id = ? AND activo = ?", cuentaID, true).
		Count(&count).Error
	return count, err
}

// CountActiveByCentroCosto counts active accounts assigned to a cost center
func (r *GormCuentaRepository) CountActiveByCentroCosto(ctx context.Context, tenantID, centroCostoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&accounting.Cuenta{}).
		Scopes(tenant.Scope(tenantID)).
		Where("centro_costo_id = ? AND activo = ?", centroCostoID, true).
		Count(&count).Error
	return count, err
}

// Create inserts a new account
func (r *GormCuentaRepository) Create(ctx context.Context, c *accounting.Cuenta) error {
	err := r.db.WithContext(ctx).Create(c).Error
	return wrapWriteError(err, "create cuenta", "cuenta", "codigo "+c.Codigo)
}

// Save updates an existing account
func (r *GormCuentaRepository) Save(ctx context.Context, c *accounting.Cuenta) error {
	err := r.db.WithContext(ctx).Save(c).Error
	return wrapWriteError(err, "save cuenta", "cuenta", "codigo "+c.Codigo)
}

var _ accounting.CuentaRepository = (*GormCuentaRepository)(nil)
