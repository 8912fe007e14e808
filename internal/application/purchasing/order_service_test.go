package purchasing

import (
	"context"
	"testing"
	"time"

	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.OrdenCompra, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.OrdenCompra), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter purchasing.OrdenCompraFilter) ([]purchasing.OrdenCompra, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]purchasing.OrdenCompra), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) CountByProveedor(ctx context.Context, tenantID, proveedorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, proveedorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountItemsByProducto(ctx context.Context, tenantID, productoID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, productoID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *purchasing.OrdenCompra) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *purchasing.OrdenCompra) error {
	return m.Called(ctx, o).Error(0)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Proveedor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Proveedor), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByRUC(ctx context.Context, tenantID uuid.UUID, ruc string) (bool, error) {
	args := m.Called(ctx, tenantID, ruc)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ProveedorFilter) ([]partner.Proveedor, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Proveedor), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) Create(ctx context.Context, p *partner.Proveedor) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockSupplierRepository) Save(ctx context.Context, p *partner.Proveedor) error {
	return m.Called(ctx, p).Error(0)
}

type stubProducts map[uuid.UUID]*catalog.Producto

func (s stubProducts) ActiveProducts(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Producto, error) {
	out := make(map[uuid.UUID]*catalog.Producto)
	for _, id := range ids {
		p, ok := s[id]
		if !ok {
			return nil, shared.NewNotFoundError("Producto")
		}
		out[id] = p
	}
	return out, nil
}

type counterScope struct {
	orders *MockOrderRepository
	last   int64
}

func (s *counterScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *counterScope) OrdenCompraRepo() purchasing.OrdenCompraRepository { return s.orders }
func (s *counterScope) SequenceRepo() shared.SequenceRepository           { return s }

func (s *counterScope) Next(context.Context, uuid.UUID, string) (int64, error) {
	s.last++
	return s.last, nil
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	supplier, err := partner.NewProveedor(tenantID, partner.NewProveedorParams{RUC: "80012345-6", RazonSocial: "Importadora Este"})
	require.NoError(t, err)
	product, err := catalog.NewProducto(tenantID, catalog.NewProductoParams{
		Codigo: "AZ-1", Nombre: "Azucar 1kg", Precio: decimal.NewFromInt(7500), TasaIva: catalog.TasaIva10,
	})
	require.NoError(t, err)
	products := stubProducts{product.ID: product}

	t.Run("numbers the order and computes the total", func(t *testing.T) {
		orders := new(MockOrderRepository)
		suppliers := new(MockSupplierRepository)
		scope := &counterScope{orders: orders}
		suppliers.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
		orders.On("Create", ctx, mock.AnythingOfType("*purchasing.OrdenCompra")).Return(nil)
		svc := NewOrderService(scope, orders, suppliers, products)

		override := decimal.NewFromInt(7000)
		resp, err := svc.Create(ctx, tenantID, CreateOrderRequest{
			ProveedorID: supplier.ID,
			Fecha:       "2024-04-02",
			Items: []CreateOrderItemRequest{
				{ProductoID: product.ID, Cantidad: decimal.NewFromInt(10)},
				{ProductoID: product.ID, Cantidad: decimal.NewFromInt(2), PrecioUnitario: &override},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Numero)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(89000)))
		assert.Equal(t, "Azucar 1kg", resp.Items[0].Descripcion)
		assert.Equal(t, string(purchasing.EstadoPendiente), resp.Estado)
	})

	t.Run("inactive supplier", func(t *testing.T) {
		inactive, err := partner.NewProveedor(tenantID, partner.NewProveedorParams{RUC: "1234567-8", RazonSocial: "Baja"})
		require.NoError(t, err)
		require.NoError(t, inactive.Deactivate())
		suppliers := new(MockSupplierRepository)
		suppliers.On("FindByIDForTenant", ctx, tenantID, inactive.ID).Return(inactive, nil)
		svc := NewOrderService(&counterScope{orders: new(MockOrderRepository)}, new(MockOrderRepository), suppliers, products)

		_, err = svc.Create(ctx, tenantID, CreateOrderRequest{
			ProveedorID: inactive.ID,
			Fecha:       "2024-04-02",
			Items:       []CreateOrderItemRequest{{ProductoID: product.ID, Cantidad: decimal.NewFromInt(1)}},
		})
		assert.True(t, shared.IsInvalidState(err))
	})

	t.Run("zero quantity", func(t *testing.T) {
		suppliers := new(MockSupplierRepository)
		suppliers.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
		svc := NewOrderService(&counterScope{orders: new(MockOrderRepository)}, new(MockOrderRepository), suppliers, products)

		_, err := svc.Create(ctx, tenantID, CreateOrderRequest{
			ProveedorID: supplier.ID,
			Fecha:       "2024-04-02",
			Items:       []CreateOrderItemRequest{{ProductoID: product.ID, Cantidad: decimal.Zero}},
		})
		assert.Equal(t, shared.CodeValidationError, shared.ErrorCode(err))
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order, err := purchasing.NewOrdenCompra(tenantID, uuid.New(), mustDate(t, "2024-04-02"), "", []purchasing.NuevoItem{
		{ProductoID: uuid.New(), Descripcion: "x", Cantidad: decimal.NewFromInt(1), PrecioUnitario: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	orders.On("Save", ctx, order).Return(nil)
	svc := NewOrderService(&counterScope{orders: orders}, orders, new(MockSupplierRepository), stubProducts{})

	resp, err := svc.Cancel(ctx, tenantID, order.ID, "sin stock")
	require.NoError(t, err)
	assert.Equal(t, string(purchasing.EstadoAnulada), resp.Estado)

	_, err = svc.Cancel(ctx, tenantID, order.ID, "otra vez")
	assert.True(t, shared.IsInvalidState(err))
	orders.AssertNumberOfCalls(t, "Save", 1)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := shared.ParseDate("fecha", s)
	require.NoError(t, err)
	return d
}
