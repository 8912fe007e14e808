package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTalonario(t *testing.T, tenantID uuid.UUID, pv string, inicial, final int64) *invoicing.Talonario {
	t.Helper()
	tal, err := invoicing.NewTalonario(tenantID, invoicing.NewTalonarioParams{
		Timbrado:           "12345678",
		Establecimiento:    "001",
		PuntoVenta:         pv,
		TipoComprobante:    invoicing.TipoFactura,
		NumeroInicial:      inicial,
		NumeroFinal:        final,
		FechaVigenciaDesde: date(2026, 1, 1),
		FechaVigenciaHasta: date(2026, 12, 31),
	})
	require.NoError(t, err)
	return tal
}

func TestGormTalonarioRepository_FindByIDForUpdate(t *testing.T) {
	db, mock, mockDB := setupMockDB(t)
	defer mockDB.Close()
	repo := NewGormTalonarioRepository(db)

	tenantID, id := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{"id", "tenant_id", "establecimiento", "punto_venta", "numero_inicial", "numero_final", "siguiente_numero"}).
		AddRow(id, tenantID, "001", "001", 1, 10, 4)

	mock.ExpectQuery(`SELECT \* FROM "talonarios" WHERE .*tenant_id = .* LIMIT .* FOR UPDATE$`).
		WillReturnRows(rows)

	tal, err := repo.FindByIDForUpdate(context.Background(), tenantID, id)
	require.NoError(t, err)
	require.NotNil(t, tal)
	assert.Equal(t, int64(4), tal.SiguienteNumero)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTalonarioRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTalonarioRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	tal := newTestTalonario(t, tenantID, "001", 1, 100)
	require.NoError(t, repo.Create(ctx, tal))

	t.Run("found within tenant", func(t *testing.T) {
		got, err := repo.FindByIDForTenant(ctx, tenantID, tal.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(1), got.SiguienteNumero)
		assert.True(t, got.Activo)
		assert.False(t, got.Agotado)
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		got, err := repo.FindByIDForTenant(ctx, uuid.New(), tal.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate block", func(t *testing.T) {
		exists, err := repo.ExistsBlock(ctx, tenantID, "001", "001", invoicing.TipoFactura, 1)
		require.NoError(t, err)
		assert.True(t, exists)

		err = repo.Create(ctx, newTestTalonario(t, tenantID, "001", 1, 50))
		assert.Equal(t, shared.CodeAlreadyExists, shared.ErrorCode(err))
	})
}

func TestGormTalonarioRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTalonarioRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	tal := newTestTalonario(t, tenantID, "002", 1, 2)
	require.NoError(t, repo.Create(ctx, tal))

	for range 2 {
		_, err := tal.Allocate(date(2026, 3, 1))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tal))
	}

	got, err := repo.FindByIDForTenant(ctx, tenantID, tal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.SiguienteNumero)
	assert.True(t, got.Agotado)
	assert.Equal(t, tal.Version, got.Version)

	t.Run("stale copy is rejected", func(t *testing.T) {
		a, err := repo.FindByIDForTenant(ctx, tenantID, tal.ID)
		require.NoError(t, err)
		b, err := repo.FindByIDForTenant(ctx, tenantID, tal.ID)
		require.NoError(t, err)

		require.NoError(t, a.Desactivar())
		require.NoError(t, repo.Save(ctx, a))

		require.NoError(t, b.Desactivar())
		assert.True(t, shared.IsInvalidState(repo.Save(ctx, b)))
	})
}

func TestGormTalonarioRepository_FindAllForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTalonarioRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	active := newTestTalonario(t, tenantID, "001", 1, 10)
	inactive := newTestTalonario(t, tenantID, "002", 1, 10)
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, inactive))
	require.NoError(t, inactive.Desactivar())
	require.NoError(t, repo.Save(ctx, inactive))
	require.NoError(t, repo.Create(ctx, newTestTalonario(t, uuid.New(), "001", 1, 10)))

	t.Run("tenant only", func(t *testing.T) {
		items, total, err := repo.FindAllForTenant(ctx, tenantID, invoicing.TalonarioFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("active filter", func(t *testing.T) {
		items, total, err := repo.FindAllForTenant(ctx, tenantID, invoicing.TalonarioFilter{Activo: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, active.ID, items[0].ID)
	})

	t.Run("validity window", func(t *testing.T) {
		_, total, err := repo.FindAllForTenant(ctx, tenantID, invoicing.TalonarioFilter{VigenteEn: ptr(date(2027, 1, 1))})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("paging", func(t *testing.T) {
		items, total, err := repo.FindAllForTenant(ctx, tenantID, invoicing.TalonarioFilter{
			Filter: shared.Filter{Page: 2, PageSize: 1, OrderBy: "punto_venta", OrderDir: "asc"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, items, 1)
		assert.Equal(t, "002", items[0].PuntoVenta)
	})
}
