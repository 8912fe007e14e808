package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var facturaSort = sortSpec{allowed: FacturaSortFields, defaultField: "fecha_emision", defaultDir: "desc"}

// GormFacturaRepository implements invoicing.FacturaRepository using GORM
type GormFacturaRepository struct {
	db *gorm.DB
}

// NewGormFacturaRepository creates a new GormFacturaRepository
func NewGormFacturaRepository(db *gorm.DB) *GormFacturaRepository {
	return &GormFacturaRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormFacturaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.FacturaEmitida, error) {
	var f invoicing.FacturaEmitida
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&f).Error
	return firstOrNil(&f, err)
}

// FindByIdempotencyKey finds the invoice created under a client key
func (r *GormFacturaRepository) FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*invoicing.FacturaEmitida, error) {
	var f invoicing.FacturaEmitida
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("idempotency_key = ?", key).
		First(&f).Error
	return firstOrNil(&f, err)
}

// FindAllForTenant lists invoices matching the filter
func (r *GormFacturaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter invoicing.FacturaFilter) ([]invoicing.FacturaEmitida, int64, error) {
	query := r.db.WithContext(ctx).Model(&invoicing.FacturaEmitida{}).Scopes(tenant.Scope(tenantID))

	if filter.TalonarioID != nil {
		query = query.Where("talonario_id = ?", *filter.TalonarioID)
	}
	if filter.Estado != nil {
		query = query.Where("estado = ?", *filter.Estado)
	}
	if filter.Desde != nil {
		query = query.Where("fecha_emision >= ?", invoicing.DateOnly(*filter.Desde))
	}
	if filter.Hasta != nil {
		query = query.Where("fecha_emision <= ?", invoicing.DateOnly(*filter.Hasta))
	}
	if filter.ClienteRUC != "" {
		query = query.Where("cliente_ruc = ?", filter.ClienteRUC)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(numero_completo LIKE ? OR LOWER(cliente_nombre) LIKE ?)", pattern, pattern)
	}

	items, total, err := paginate[invoicing.FacturaEmitida](query, filter.Filter, facturaSort)
	if err != nil {
		return nil, 0, fmt.Errorf("list facturas: %w", err)
	}
	return items, total, nil
}

// FindForPeriod returns the invoices of a period ordered for the sales ledger
func (r *GormFacturaRepository) FindForPeriod(ctx context.Context, tenantID uuid.UUID, desde, hasta time.Time) ([]invoicing.FacturaEmitida, error) {
	var items []invoicing.FacturaEmitida
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("fecha_emision >= ? AND fecha_emision <= ?", invoicing.DateOnly(desde), invoicing.DateOnly(hasta)).
		Order("fecha_emision ASC, numero_completo ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("find facturas for period: %w", err)
	}
	return items, nil
}

// NumbersForTalonario returns the numbers handed out by a talonario
func (r *GormFacturaRepository) NumbersForTalonario(ctx context.Context, tenantID, talonarioID uuid.UUID) ([]int64, error) {
	var numbers []int64
	err := r.db.WithContext(ctx).
		Model(&invoicing.FacturaEmitida{}).
		Scopes(tenant.Scope(tenantID)).
		Where("talonario_id = ?", talonarioID).
		Order("numero_factura ASC").
		Pluck("numero_factura", &numbers).Error
	if err != nil {
		return nil, fmt.Errorf("list talonario numbers: %w", err)
	}
	return numbers, nil
}

// Create inserts a new invoice. The unique index on (talonario_id,
// numero_factura) backs the no-duplicate guarantee.
func (r *GormFacturaRepository) Create(ctx context.Context, f *invoicing.FacturaEmitida) error {
	err := r.db.WithContext(ctx).Create(f).Error
	return wrapWriteError(err, "create factura", "factura", "numero "+f.NumeroCompleto)
}

// Save writes the void state guarded by the version column
func (r *GormFacturaRepository) Save(ctx context.Context, f *invoicing.FacturaEmitida) error {
	result := r.db.WithContext(ctx).
		Model(&invoicing.FacturaEmitida{}).
		Scopes(tenant.Scope(f.TenantID)).
		Where("id = ? AND version = ?", f.ID, f.Version-1).
		Updates(map[string]interface{}{
			"estado":           f.Estado,
			"fecha_anulacion":  f.FechaAnulacion,
			"motivo_anulacion": f.MotivoAnulacion,
			"version":          f.Version,
			"updated_at":       f.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("save factura: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return staleVersion("factura")
	}
	return nil
}

var _ invoicing.FacturaRepository = (*GormFacturaRepository)(nil)
