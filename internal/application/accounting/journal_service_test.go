package accounting

import (
	"context"
	"testing"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJournalService_PostEntry(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	caja := newTestCuenta(t, tenantID, "1.1.1.01", 4, true, accounting.TipoActivo, nil)
	ventas := newTestCuenta(t, tenantID, "4.1.1.01", 4, true, accounting.TipoIngreso, nil)
	grupo := newTestCuenta(t, tenantID, "4.1", 2, false, accounting.TipoIngreso, nil)

	balanced := func(credit uuid.UUID) PostEntryInput {
		return PostEntryInput{
			Fecha:    "2024-05-10",
			Concepto: "Venta al contado",
			Lineas: []PostEntryLine{
				{CuentaID: caja.ID, Debe: decimal.NewFromInt(110000)},
				{CuentaID: credit, Haber: decimal.NewFromInt(110000)},
			},
		}
	}

	t.Run("posts and numbers balanced entries", func(t *testing.T) {
		scope := newFakeScope()
		scope.cuentas.On("FindByIDForTenant", ctx, tenantID, caja.ID).Return(caja, nil)
		scope.cuentas.On("FindByIDForTenant", ctx, tenantID, ventas.ID).Return(ventas, nil)
		scope.asientos.On("Create", ctx, mock.AnythingOfType("*accounting.AsientoContable")).Return(nil)
		svc := NewJournalService(scope, scope.asientos, nil)

		first, err := svc.PostEntry(ctx, tenantID, balanced(ventas.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.Numero)
		assert.Equal(t, "2024-05-10", first.Fecha)
		assert.True(t, first.TotalDebe.Equal(first.TotalHaber))
		require.Len(t, first.Lineas, 2)

		second, err := svc.PostEntry(ctx, tenantID, balanced(ventas.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.Numero)
		assert.Len(t, scope.events, 2)
	})

	t.Run("unbalanced entry", func(t *testing.T) {
		scope := newFakeScope()
		svc := NewJournalService(scope, scope.asientos, nil)
		in := balanced(ventas.ID)
		in.Lineas[1].Haber = decimal.NewFromInt(100000)

		_, err := svc.PostEntry(ctx, tenantID, in)
		assert.True(t, shared.IsInvalidState(err))
		assert.Contains(t, err.Error(), "unbalanced entry")
		scope.asientos.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("line with both sides", func(t *testing.T) {
		scope := newFakeScope()
		svc := NewJournalService(scope, scope.asientos, nil)
		in := balanced(ventas.ID)
		in.Lineas[0].Haber = decimal.NewFromInt(5)

		_, err := svc.PostEntry(ctx, tenantID, in)
		assert.Equal(t, shared.CodeValidationError, shared.ErrorCode(err))
	})

	t.Run("group account is not postable", func(t *testing.T) {
		scope := newFakeScope()
		scope.cuentas.On("FindByIDForTenant", ctx, tenantID, caja.ID).Return(caja, nil)
		scope.cuentas.On("FindByIDForTenant", ctx, tenantID, grupo.ID).Return(grupo, nil)
		svc := NewJournalService(scope, scope.asientos, nil)

		_, err := svc.PostEntry(ctx, tenantID, balanced(grupo.ID))
		assert.True(t, shared.IsInvalidState(err))
		assert.Contains(t, err.Error(), "line 2")
		assert.Contains(t, err.Error(), "group account, not postable")
	})

	t.Run("inactive supplier on a line", func(t *testing.T) {
		scope := newFakeScope()
		prov, err := partner.NewProveedor(tenantID, partner.NewProveedorParams{RUC: "80012345-6", RazonSocial: "Distribuidora Sur"})
		require.NoError(t, err)
		require.NoError(t, prov.Deactivate())

		scope.cuentas.On("FindByIDForTenant", ctx, tenantID, caja.ID).Return(caja, nil)
		scope.proveedores.On("FindByIDForTenant", ctx, tenantID, prov.ID).Return(prov, nil)
		svc := NewJournalService(scope, scope.asientos, nil)

		in := balanced(ventas.ID)
		in.Lineas[0].ProveedorID = &prov.ID
		_, err = svc.PostEntry(ctx, tenantID, in)
		assert.True(t, shared.IsInvalidState(err))
		assert.Contains(t, err.Error(), "supplier is inactive")
	})

	t.Run("inactive cost center on a line", func(t *testing.T) {
		scope := newFakeScope()
		cc, err := accounting.NewCentroCosto(tenantID, "VTA", "Ventas", "")
		require.NoError(t, err)
		require.NoError(t, cc.Deactivate())

		scope.cuentas.On("FindByIDForTenant", ctx, tenantID, caja.ID).Return(caja, nil)
		scope.cuentas.On("FindByIDForTenant", ctx, tenantID, ventas.ID).Return(ventas, nil)
		scope.centros.On("FindByIDForTenant", ctx, tenantID, cc.ID).Return(cc, nil)
		svc := NewJournalService(scope, scope.asientos, nil)

		in := balanced(ventas.ID)
		in.Lineas[1].CentroCostoID = &cc.ID
		_, err = svc.PostEntry(ctx, tenantID, in)
		assert.True(t, shared.IsInvalidState(err))
	})
}
