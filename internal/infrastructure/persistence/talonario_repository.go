package persistence

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var talonarioSort = sortSpec{allowed: TalonarioSortFields, defaultField: "created_at", defaultDir: "desc"}

// GormTalonarioRepository implements invoicing.TalonarioRepository using GORM
type GormTalonarioRepository struct {
	db *gorm.DB
}

// NewGormTalonarioRepository creates a new GormTalonarioRepository
func NewGormTalonarioRepository(db *gorm.DB) *GormTalonarioRepository {
	return &GormTalonarioRepository{db: db}
}

// FindByIDForTenant finds a talonario by ID within a tenant
func (r *GormTalonarioRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Talonario, error) {
	var t invoicing.Talonario
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&t).Error
	return firstOrNil(&t, err)
}

// FindByIDForUpdate loads the talonario with SELECT ... FOR UPDATE
func (r *GormTalonarioRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Talonario, error) {
	var t invoicing.Talonario
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&t).Error
	return firstOrNil(&t, err)
}

// FindAllForTenant lists talonarios matching the filter
func (r *GormTalonarioRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter invoicing.TalonarioFilter) ([]invoicing.Talonario, int64, error) {
	query := r.db.WithContext(ctx).Model(&invoicing.Talonario{}).Scopes(tenant.Scope(tenantID))

	if filter.Activo != nil {
		query = query.Where("activo = ?", *filter.Activo)
	}
	if filter.Agotado != nil {
		query = query.Where("agotado = ?", *filter.Agotado)
	}
	if filter.TipoComprobante != nil {
		query = query.Where("tipo_comprobante = ?", *filter.TipoComprobante)
	}
	if filter.VigenteEn != nil {
		day := invoicing.DateOnly(*filter.VigenteEn)
		query = query.Where("fecha_vigencia_desde <= ? AND fecha_vigencia_hasta >= ?", day, day)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(LOWER(timbrado) LIKE ? OR (establecimiento || '-' || punto_venta) LIKE ?)", pattern, pattern)
	}

	items, total, err := paginate[invoicing.Talonario](query, filter.Filter, talonarioSort)
	if err != nil {
		return nil, 0, fmt.Errorf("list talonarios: %w", err)
	}
	return items, total, nil
}

// ExistsBlock checks whether the same numbering block is already registered
func (r *GormTalonarioRepository) ExistsBlock(ctx context.Context, tenantID uuid.UUID, establecimiento, puntoVenta string, tipo invoicing.TipoComprobante, numeroInicial int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&invoicing.Talonario{}).
		Scopes(tenant.Scope(tenantID)).
		Where("establecimiento = ? AND punto_venta = ? AND tipo_comprobante = ? AND numero_inicial = ?",
			establecimiento, puntoVenta, tipo, numeroInicial).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new talonario
func (r *GormTalonarioRepository) Create(ctx context.Context, t *invoicing.Talonario) error {
	err := r.db.WithContext(ctx).Create(t).Error
	return wrapWriteError(err, "create talonario", "talonario",
		fmt.Sprintf("block %s-%s/%s from %d", t.Establecimiento, t.PuntoVenta, t.TipoComprobante, t.NumeroInicial))
}

// Save writes the mutable state guarded by the version column
func (r *GormTalonarioRepository) Save(ctx context.Context, t *invoicing.Talonario) error {
	result := r.db.WithContext(ctx).
		Model(&invoicing.Talonario{}).
		Scopes(tenant.Scope(t.TenantID)).
		Where("id = ? AND version = ?", t.ID, t.Version-1).
		Updates(map[string]interface{}{
			"siguiente_numero":  t.SiguienteNumero,
			"agotado":           t.Agotado,
			"activo":            t.Activo,
			"fecha_desactivado": t.FechaDesactivado,
			"version":           t.Version,
			"updated_at":        t.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("save talonario: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return staleVersion("talonario")
	}
	return nil
}

var _ invoicing.TalonarioRepository = (*GormTalonarioRepository)(nil)
