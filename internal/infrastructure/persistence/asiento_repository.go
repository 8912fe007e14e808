package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var asientoSort = sortSpec{allowed: AsientoSortFields, defaultField: "numero", defaultDir: "desc"}

// GormAsientoRepository implements accounting.AsientoRepository using GORM
type GormAsientoRepository struct {
	db *gorm.DB
}

// NewGormAsientoRepository creates a new GormAsientoRepository
func NewGormAsientoRepository(db *gorm.DB) *GormAsientoRepository {
	return &GormAsientoRepository{db: db}
}

func preloadLineas(db *gorm.DB) *gorm.DB {
	return db.Preload("Lineas", func(db *gorm.DB) *gorm.DB {
		return db.Order("orden ASC")
	})
}

// FindByIDForTenant finds a journal entry with its lines
func (r *GormAsientoRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.AsientoContable, error) {
	var a accounting.AsientoContable
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadLineas).
		Where("id = ?", id).
		First(&a).Error
	return firstOrNil(&a, err)
}

// FindAllForTenant lists journal entries matching the filter
func (r *GormAsientoRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.AsientoFilter) ([]accounting.AsientoContable, int64, error) {
	query := r.db.WithContext(ctx).Model(&accounting.AsientoContable{}).Scopes(tenant.Scope(tenantID))

	if filter.Desde != nil {
		query = query.Where("fecha >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		query = query.Where("fecha <= ?", *filter.Hasta)
	}
	if filter.CuentaID != nil {
		sub := r.db.Model(&accounting.LineaAsiento{}).
			Select("asiento_id").
			Where("tenant_id = ? AND cuenta_id = ?", tenantID, *filter.CuentaID)
		query = query.Where("id IN (?)", sub)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(concepto) LIKE ?", searchPattern(filter.Search))
	}

	items, total, err := paginate[accounting.AsientoContable](query, filter.Filter, asientoSort, preloadLineas)
	if err != nil {
		return nil, 0, fmt.Errorf("list asientos: %w", err)
	}
	return items, total, nil
}

// Create inserts the entry and its lines
func (r *GormAsientoRepository) Create(ctx context.Context, a *accounting.AsientoContable) error {
	err := r.db.WithContext(ctx).Create(a).Error
	return wrapWriteError(err, "create asiento", "asiento", fmt.Sprintf("numero %d", a.Numero))
}

// CountLinesByCuenta counts journal lines posted to an account
func (r *GormAsientoRepository) CountLinesByCuenta(ctx context.Context, tenantID, cuentaID uuid.UUID) (int64, error) {
	return r.countLines(ctx, tenantID, "cuenta_id", cuentaID)
}

// CountLinesByCentroCosto counts journal lines tagged with a cost center
func (r *GormAsientoRepository) CountLinesByCentroCosto(ctx context.Context, tenantID, centroCostoID uuid.UUID) (int64, error) {
	return r.countLines(ctx, tenantID, "centro_costo_id", centroCostoID)
}

// CountLinesByProveedor counts journal lines referencing a supplier
func (r *GormAsientoRepository) CountLinesByProveedor(ctx context.Context, tenantID, proveedorID uuid.UUID) (int64, error) {
	return r.countLines(ctx, tenantID, "proveedor_id", proveedorID)
}

func (r *GormAsientoRepository) countLines(ctx context.Context, tenantID uuid.UUID, column string, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&accounting.LineaAsiento{}).
		Scopes(tenant.Scope(tenantID)).
		Where(column+" = ?", id).
		Count(&count).Error
	return count, err
}

// SaldosPorCuenta sums debe and haber per account over a date range
func (r *GormAsientoRepository) SaldosPorCuenta(ctx context.Context, tenantID uuid.UUID, desde, hasta time.Time) ([]accounting.SaldoCuenta, error) {
	var saldos []accounting.SaldoCuenta
	err := r.db.WithContext(ctx).
		Table("lineas_asiento AS l").
		Select("l.cuenta_id AS cuenta_id, c.codigo AS codigo, c.nombre AS nombre, c.naturaleza AS naturaleza, "+
			"SUM(l.debe) AS debe, SUM(l.haber) AS haber").
		Joins("JOIN asientos_contables AS a ON a.id = l.asiento_id").
		Joins("JOIN plan_cuentas AS c ON c.id = l.cuenta_id").
		Where("l.tenant_id = ? AND a.fecha >= ? AND a.fecha <= ?", tenantID, desde, hasta).
		Group("l.cuenta_id, c.codigo, c.nombre, c.naturaleza").
		Order("c.codigo ASC").
		Scan(&saldos).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate saldos: %w", err)
	}
	return saldos, nil
}

var _ accounting.AsientoRepository = (*GormAsientoRepository)(nil)
