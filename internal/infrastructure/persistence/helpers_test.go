package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// uniqueIndexes mirrors the unique constraints of the SQL migrations
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX uq_talonarios_bloque ON talonarios (tenant_id, establecimiento, punto_venta, tipo_comprobante, numero_inicial)`,
	`CREATE UNIQUE INDEX uq_facturas_numero ON facturas_emitidas (talonario_id, numero_factura)`,
	`CREATE UNIQUE INDEX uq_facturas_idempotency ON facturas_emitidas (tenant_id, idempotency_key)`,
	`CREATE UNIQUE INDEX uq_plan_cuentas_codigo ON plan_cuentas (tenant_id, codigo)`,
	`CREATE UNIQUE INDEX uq_centros_costo_codigo ON centros_costo (tenant_id, codigo)`,
	`CREATE UNIQUE INDEX uq_asientos_numero ON asientos_contables (tenant_id, numero)`,
	`CREATE UNIQUE INDEX uq_productos_codigo ON productos (tenant_id, codigo)`,
	`CREATE UNIQUE INDEX uq_proveedores_ruc ON proveedores (tenant_id, ruc)`,
	`CREATE UNIQUE INDEX uq_ordenes_compra_numero ON ordenes_compra (tenant_id, numero)`,
}

// setupTestDB opens an in-memory SQLite database with every table migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&invoicing.Talonario{},
		&invoicing.FacturaEmitida{},
		&accounting.CentroCosto{},
		&accounting.Cuenta{},
		&accounting.AsientoContable{},
		&accounting.LineaAsiento{},
		&catalog.Producto{},
		&partner.Proveedor{},
		&purchasing.OrdenCompra{},
		&purchasing.ItemOrden{},
		&SequenceModel{},
		&shared.OutboxEntry{},
	))
	for _, stmt := range uniqueIndexes {
		require.NoError(t, db.Exec(stmt).Error)
	}
	require.NoError(t, tenant.RegisterGuard(db))
	return db
}

// setupMockDB opens a gorm postgres dialector over sqlmock
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
