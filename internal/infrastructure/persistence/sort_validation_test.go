package persistence

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/shared"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":        "DESC",
		"asc":     "ASC",
		" ASC ":   "ASC",
		"desc":    "DESC",
		"random":  "DESC",
		"ASC;--":  "DESC",
		"asc asc": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "numero_factura", ValidateSortField(" numero_factura ", FacturaSortFields, "fecha_emision"))
	assert.Equal(t, "fecha_emision", ValidateSortField("", FacturaSortFields, "fecha_emision"))
	assert.Equal(t, "fecha_emision", ValidateSortField("NUMERO_FACTURA", FacturaSortFields, "fecha_emision"), "fields are case sensitive")
	assert.Equal(t, "", ValidateSortField("cliente_ruc", FacturaSortFields, ""))
}

// Sort input reaches ORDER BY as raw SQL, so anything outside the
// whitelist must collapse to the defaults.
func TestSortRejectsInjection(t *testing.T) {
	payloads := []string{
		"codigo; DROP TABLE plan_cuentas;--",
		"codigo' OR '1'='1",
		"codigo UNION SELECT * FROM asientos_contables",
		"codigo, (SELECT tenant_id FROM talonarios)",
		"CASE WHEN 1=1 THEN codigo ELSE nombre END",
		"codigo/**/;DROP TABLE productos",
		"codigo\n; DROP TABLE proveedores",
	}
	spec := sortSpec{allowed: CuentaSortFields, defaultField: "codigo", defaultDir: "asc"}

	for i, p := range payloads {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			assert.Equal(t, "codigo DESC", spec.orderClause(shared.Filter{OrderBy: p, OrderDir: p}))
		})
	}
}

func TestSortWhitelistsCoverRepositories(t *testing.T) {
	specs := map[string]sortSpec{
		"talonarios":   talonarioSort,
		"facturas":     facturaSort,
		"cuentas":      cuentaSort,
		"centrosCosto": centroCostoSort,
		"asientos":     asientoSort,
		"productos":    productoSort,
		"proveedores":  proveedorSort,
		"ordenes":      ordenCompraSort,
	}
	for name, spec := range specs {
		for _, common := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, spec.allowed[common], "%s must allow %s", name, common)
		}
		assert.True(t, spec.allowed[spec.defaultField], "%s default field %q is not whitelisted", name, spec.defaultField)
	}
}

func TestSortSpecOrderClause(t *testing.T) {
	spec := sortSpec{allowed: CuentaSortFields, defaultField: "codigo", defaultDir: "asc"}

	tests := []struct {
		name     string
		filter   shared.Filter
		expected string
	}{
		{"empty filter uses defaults", shared.Filter{}, "codigo ASC"},
		{"explicit desc", shared.Filter{OrderBy: "nombre", OrderDir: "desc"}, "nombre DESC"},
		{"unknown field falls back", shared.Filter{OrderBy: "password", OrderDir: "asc"}, "codigo ASC"},
		{"garbage direction is DESC", shared.Filter{OrderBy: "nivel", OrderDir: "sideways"}, "nivel DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, spec.orderClause(tt.filter))
		})
	}
}

func TestPaginate(t *testing.T) {
	db := setupTestDB(t)
	tenantID := uuid.New()

	for i := 1; i <= 7; i++ {
		p, err := catalog.NewProducto(tenantID, catalog.NewProductoParams{
			Codigo:  fmt.Sprintf("P%02d", i),
			Nombre:  fmt.Sprintf("Producto %d", i),
			Precio:  decimal.NewFromInt(int64(i * 1000)),
			TasaIva: catalog.TasaIva10,
		})
		require.NoError(t, err)
		require.NoError(t, db.Create(p).Error)
	}
	other, err := catalog.NewProducto(uuid.New(), catalog.NewProductoParams{Codigo: "X", Nombre: "Ajeno", TasaIva: catalog.TasaIvaExenta})
	require.NoError(t, err)
	require.NoError(t, db.Create(other).Error)

	query := db.Model(&catalog.Producto{}).Where("tenant_id = ?", tenantID)
	spec := sortSpec{allowed: ProductoSortFields, defaultField: "codigo", defaultDir: "asc"}

	page, total, err := paginate[catalog.Producto](query, shared.Filter{Page: 2, PageSize: 3}, spec)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page, 3)
	assert.Equal(t, []string{"P04", "P05", "P06"}, []string{page[0].Codigo, page[1].Codigo, page[2].Codigo})

	last, _, err := paginate[catalog.Producto](query, shared.Filter{Page: 1, PageSize: 1, OrderBy: "precio", OrderDir: "desc"}, spec)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "P07", last[0].Codigo)
}
