package softdelete

import (
	"context"
	"testing"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fakes embed the repository interfaces; only the methods the guard
// calls are implemented.

type fakeCuentas struct {
	accounting.CuentaRepository
	byID     map[uuid.UUID]*accounting.Cuenta
	children map[uuid.UUID]int64
	byCentro map[uuid.UUID]int64
	saved    int
}

func (f *fakeCuentas) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*accounting.Cuenta, error) {
	return f.byID[id], nil
}

func (f *fakeCuentas) CountActiveChildren(_ context.Context, _, id uuid.UUID) (int64, error) {
	return f.children[id], nil
}

func (f *fakeCuentas) CountActiveByCentroCosto(_ context.Context, _, id uuid.UUID) (int64, error) {
	return f.byCentro[id], nil
}

func (f *fakeCuentas) Save(context.Context, *accounting.Cuenta) error {
	f.saved++
	return nil
}

type fakeCentros struct {
	accounting.CentroCostoRepository
	byID  map[uuid.UUID]*accounting.CentroCosto
	saved int
}

func (f *fakeCentros) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*accounting.CentroCosto, error) {
	return f.byID[id], nil
}

func (f *fakeCentros) Save(context.Context, *accounting.CentroCosto) error {
	f.saved++
	return nil
}

type fakeAsientos struct {
	accounting.AsientoRepository
	lines map[uuid.UUID]int64
}

func (f *fakeAsientos) CountLinesByCuenta(_ context.Context, _, id uuid.UUID) (int64, error) {
	return f.lines[id], nil
}

func (f *fakeAsientos) CountLinesByCentroCosto(_ context.Context, _, id uuid.UUID) (int64, error) {
	return f.lines[id], nil
}

func (f *fakeAsientos) CountLinesByProveedor(_ context.Context, _, id uuid.UUID) (int64, error) {
	return f.lines[id], nil
}

type fakeProveedores struct {
	partner.ProveedorRepository
	byID  map[uuid.UUID]*partner.Proveedor
	saved int
}

func (f *fakeProveedores) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*partner.Proveedor, error) {
	return f.byID[id], nil
}

func (f *fakeProveedores) Save(context.Context, *partner.Proveedor) error {
	f.saved++
	return nil
}

type fakeProductos struct {
	catalog.ProductoRepository
	byID     map[uuid.UUID]*catalog.Producto
	byCuenta map[uuid.UUID]int64
	saved    int
}

func (f *fakeProductos) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*catalog.Producto, error) {
	return f.byID[id], nil
}

func (f *fakeProductos) CountActiveByCuentaVentas(_ context.Context, _, id uuid.UUID) (int64, error) {
	return f.byCuenta[id], nil
}

func (f *fakeProductos) Save(context.Context, *catalog.Producto) error {
	f.saved++
	return nil
}

type fakeOrdenes struct {
	purchasing.OrdenCompraRepository
	byProveedor map[uuid.UUID]int64
	byProducto  map[uuid.UUID]int64
}

func (f *fakeOrdenes) CountByProveedor(_ context.Context, _, id uuid.UUID) (int64, error) {
	return f.byProveedor[id], nil
}

func (f *fakeOrdenes) CountItemsByProducto(_ context.Context, _, id uuid.UUID) (int64, error) {
	return f.byProducto[id], nil
}

type fakeScope struct {
	cuentas     *fakeCuentas
	centros     *fakeCentros
	asientos    *fakeAsientos
	proveedores *fakeProveedores
	productos   *fakeProductos
	ordenes     *fakeOrdenes
	events      []shared.DomainEvent
}

func newFakeScope() *fakeScope {
	return &fakeScope{
		cuentas:     &fakeCuentas{byID: map[uuid.UUID]*accounting.Cuenta{}, children: map[uuid.UUID]int64{}, byCentro: map[uuid.UUID]int64{}},
		centros:     &fakeCentros{byID: map[uuid.UUID]*accounting.CentroCosto{}},
		asientos:    &fakeAsientos{lines: map[uuid.UUID]int64{}},
		proveedores: &fakeProveedores{byID: map[uuid.UUID]*partner.Proveedor{}},
		productos:   &fakeProductos{byID: map[uuid.UUID]*catalog.Producto{}, byCuenta: map[uuid.UUID]int64{}},
		ordenes:     &fakeOrdenes{byProveedor: map[uuid.UUID]int64{}, byProducto: map[uuid.UUID]int64{}},
	}
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *fakeScope) CuentaRepo() accounting.CuentaRepository           { return s.cuentas }
func (s *fakeScope) CentroCostoRepo() accounting.CentroCostoRepository { return s.centros }
func (s *fakeScope) AsientoRepo() accounting.AsientoRepository         { return s.asientos }
func (s *fakeScope) ProveedorRepo() partner.ProveedorRepository        { return s.proveedores }
func (s *fakeScope) ProductoRepo() catalog.ProductoRepository          { return s.productos }
func (s *fakeScope) OrdenCompraRepo() purchasing.OrdenCompraRepository { return s.ordenes }

func (s *fakeScope) SaveEvents(_ context.Context, events ...shared.DomainEvent) error {
	s.events = append(s.events, events...)
	return nil
}

func TestGuard_Deactivate_Cuenta(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	newCuenta := func(t *testing.T, codigo string) *accounting.Cuenta {
		c, err := accounting.NewCuenta(tenantID, accounting.NewCuentaParams{
			Codigo: codigo, Nombre: "Cuenta " + codigo, Nivel: 4, Tipo: accounting.TipoActivo, AceptaMovimiento: true,
		}, nil)
		require.NoError(t, err)
		return c
	}

	t.Run("unreferenced account only flips activo", func(t *testing.T) {
		scope := newFakeScope()
		c := newCuenta(t, "1.1.1.01")
		nombre, nivel := c.Nombre, c.Nivel
		scope.cuentas.byID[c.ID] = c

		result, err := NewGuard(scope, nil).Deactivate(ctx, KindCuenta, tenantID, c.ID)
		require.NoError(t, err)
		assert.False(t, result.Activo)
		assert.NotNil(t, result.FechaDesactivado)
		assert.False(t, c.Activo)
		assert.Equal(t, nombre, c.Nombre)
		assert.Equal(t, nivel, c.Nivel)
		assert.Equal(t, 1, scope.cuentas.saved)
		require.Len(t, scope.events, 1)
		assert.Equal(t, shared.EventTypeEntityDeactivated, scope.events[0].EventType())
	})

	t.Run("blocked by active children", func(t *testing.T) {
		scope := newFakeScope()
		c := newCuenta(t, "1.1")
		scope.cuentas.byID[c.ID] = c
		scope.cuentas.children[c.ID] = 2

		_, err := NewGuard(scope, nil).Deactivate(ctx, KindCuenta, tenantID, c.ID)
		assert.True(t, shared.IsInvalidState(err))
		assert.Contains(t, err.Error(), "2 active child accounts")
		assert.True(t, c.Activo)
		assert.Zero(t, scope.cuentas.saved)
		assert.Empty(t, scope.events)
	})

	t.Run("blocked by journal lines", func(t *testing.T) {
		scope := newFakeScope()
		c := newCuenta(t, "1.1.1.02")
		scope.cuentas.byID[c.ID] = c
		scope.asientos.lines[c.ID] = 5

		_, err := NewGuard(scope, nil).Deactivate(ctx, KindCuenta, tenantID, c.ID)
		assert.True(t, shared.IsInvalidState(err))
		assert.Contains(t, err.Error(), "5 journal lines")
		assert.True(t, c.Activo)
	})

	t.Run("blocked by active products", func(t *testing.T) {
		scope := newFakeScope()
		c := newCuenta(t, "4.1.1.01")
		scope.cuentas.byID[c.ID] = c
		scope.productos.byCuenta[c.ID] = 1

		_, err := NewGuard(scope, nil).Deactivate(ctx, KindCuenta, tenantID, c.ID)
		assert.True(t, shared.IsInvalidState(err))
	})

	t.Run("already inactive", func(t *testing.T) {
		scope := newFakeScope()
		c := newCuenta(t, "1.1.1.03")
		require.NoError(t, c.Deactivate())
		scope.cuentas.byID[c.ID] = c

		_, err := NewGuard(scope, nil).Deactivate(ctx, KindCuenta, tenantID, c.ID)
		assert.True(t, shared.IsInvalidState(err))
		assert.Contains(t, err.Error(), "already inactive")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := NewGuard(newFakeScope(), nil).Deactivate(ctx, KindCuenta, tenantID, uuid.New())
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestGuard_Deactivate_OtherKinds(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("cost center with active accounts", func(t *testing.T) {
		scope := newFakeScope()
		cc, err := accounting.NewCentroCosto(tenantID, "ADM", "Administracion", "")
		require.NoError(t, err)
		scope.centros.byID[cc.ID] = cc
		scope.cuentas.byCentro[cc.ID] = 1

		_, err = NewGuard(scope, nil).Deactivate(ctx, KindCentroCosto, tenantID, cc.ID)
		assert.True(t, shared.IsInvalidState(err))

		scope.cuentas.byCentro[cc.ID] = 0
		result, err := NewGuard(scope, nil).Deactivate(ctx, KindCentroCosto, tenantID, cc.ID)
		require.NoError(t, err)
		assert.False(t, result.Activo)
		assert.Equal(t, 1, scope.centros.saved)
	})

	t.Run("supplier with purchase orders", func(t *testing.T) {
		scope := newFakeScope()
		p, err := partner.NewProveedor(tenantID, partner.NewProveedorParams{RUC: "80012345-6", RazonSocial: "Proveedor"})
		require.NoError(t, err)
		scope.proveedores.byID[p.ID] = p
		scope.ordenes.byProveedor[p.ID] = 3

		_, err = NewGuard(scope, nil).Deactivate(ctx, KindProveedor, tenantID, p.ID)
		assert.True(t, shared.IsInvalidState(err))
		assert.Contains(t, err.Error(), "3 purchase orders")
	})

	t.Run("product without order lines", func(t *testing.T) {
		scope := newFakeScope()
		p, err := catalog.NewProducto(tenantID, catalog.NewProductoParams{Codigo: "X", Nombre: "X", TasaIva: catalog.TasaIva10})
		require.NoError(t, err)
		scope.productos.byID[p.ID] = p

		result, err := NewGuard(scope, nil).Deactivate(ctx, KindProducto, tenantID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, KindProducto, result.Kind)
		assert.Equal(t, 1, scope.productos.saved)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := NewGuard(newFakeScope(), nil).Deactivate(ctx, Kind("talonario"), tenantID, uuid.New())
		assert.Equal(t, shared.CodeValidationError, shared.ErrorCode(err))
	})
}
