package persistence

import (
	"strings"

	"github.com/erp/contable/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// TalonarioSortFields contains allowed sort fields for talonarios
var TalonarioSortFields = withCommon(
	"establecimiento",
	"punto_venta",
	"tipo_comprobante",
	"numero_inicial",
	"siguiente_numero",
	"fecha_vigencia_desde",
	"fecha_vigencia_hasta",
)

// FacturaSortFields contains allowed sort fields for issued invoices
var FacturaSortFields = withCommon(
	"numero_factura",
	"numero_completo",
	"fecha_emision",
	"cliente_nombre",
	"total",
	"estado",
)

// CuentaSortFields contains allowed sort fields for the chart of accounts
var CuentaSortFields = withCommon(
	"codigo",
	"nombre",
	"nivel",
	"tipo",
)

// CentroCostoSortFields contains allowed sort fields for cost centers
var CentroCostoSortFields = withCommon(
	"codigo",
	"nombre",
)

// AsientoSortFields contains allowed sort fields for journal entries
var AsientoSortFields = withCommon(
	"numero",
	"fecha",
	"total_debe",
)

// ProductoSortFields contains allowed sort fields for products
var ProductoSortFields = withCommon(
	"codigo",
	"nombre",
	"precio",
	"tasa_iva",
)

// ProveedorSortFields contains allowed sort fields for suppliers
var ProveedorSortFields = withCommon(
	"ruc",
	"razon_social",
	"nombre_fantasia",
)

// OrdenCompraSortFields contains allowed sort fields for purchase orders
var OrdenCompraSortFields = withCommon(
	"numero",
	"fecha",
	"estado",
	"total",
)

func withCommon(fields ...string) map[string]bool {
	m := make(map[string]bool, len(CommonSortFields)+len(fields))
	for f := range CommonSortFields {
		m[f] = true
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// sortSpec is the whitelist and fallback ordering of one listing
type sortSpec struct {
	allowed      map[string]bool
	defaultField string
	defaultDir   string
}

// orderClause returns a validated "field DIR" clause for the filter
func (s sortSpec) orderClause(f shared.Filter) string {
	dir := f.OrderDir
	if dir == "" {
		dir = s.defaultDir
	}
	return ValidateSortField(f.OrderBy, s.allowed, s.defaultField) + " " + ValidateSortOrder(dir)
}

// paginate counts the rows matched by query and loads one page of them.
// Scopes apply to the page query only, which keeps preloads out of the count.
func paginate[T any](query *gorm.DB, f shared.Filter, spec sortSpec, scopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	order := spec.orderClause(f)
	f.Normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	if err := query.Session(&gorm.Session{}).
		Scopes(scopes...).
		Order(order).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// searchPattern builds a case-insensitive LIKE pattern
func searchPattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
