package accounting

import (
	"context"
	"time"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCuentaRepository is a mock implementation of CuentaRepository
type MockCuentaRepository struct {
	mock.Mock
}

func (m *MockCuentaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Cuenta, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Cuenta), args.Error(1)
}

func (m *MockCuentaRepository) FindByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (*accounting.Cuenta, error) {
	args := m.Called(ctx, tenantID, codigo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Cuenta), args.Error(1)
}

func (m *MockCuentaRepository) ExistsByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (bool, error) {
	args := m.Called(ctx, tenantID, codigo)
	return args.Bool(0), args.Error(1)
}

func (m *MockCuentaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.CuentaFilter) ([]accounting.Cuenta, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.Cuenta), args.Get(1).(int64), args.Error(2)
}

func (m *MockCuentaRepository) FindAllOrdered(ctx context.Context, tenantID uuid.UUID) ([]accounting.Cuenta, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]accounting.Cuenta), args.Error(1)
}

func (m *MockCuentaRepository) CountActiveChildren(ctx context.Context, tenantID, cuentaID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, cuentaID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCuentaRepository) CountActiveByCentroCosto(ctx context.Context, tenantID, centroCostoID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, centroCostoID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCuentaRepository) Create(ctx context.Context, c *accounting.Cuenta) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCuentaRepository) Save(ctx context.Context, c *accounting.Cuenta) error {
	return m.Called(ctx, c).Error(0)
}

// MockCentroCostoRepository is a mock implementation of CentroCostoRepository
type MockCentroCostoRepository struct {
	mock.Mock
}

func (m *MockCentroCostoRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.CentroCosto, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.CentroCosto), args.Error(1)
}

func (m *MockCentroCostoRepository) ExistsByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (bool, error) {
	args := m.Called(ctx, tenantID, codigo)
	return args.Bool(0), args.Error(1)
}

func (m *MockCentroCostoRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.CentroCostoFilter) ([]accounting.CentroCosto, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.CentroCosto), args.Get(1).(int64), args.Error(2)
}

func (m *MockCentroCostoRepository) Create(ctx context.Context, cc *accounting.CentroCosto) error {
	return m.Called(ctx, cc).Error(0)
}

func (m *MockCentroCostoRepository) Save(ctx context.Context, cc *accounting.CentroCosto) error {
	return m.Called(ctx, cc).Error(0)
}

// MockAsientoRepository is a mock implementation of AsientoRepository
type MockAsientoRepository struct {
	mock.Mock
}

func (m *MockAsientoRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.AsientoContable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AsientoContable), args.Error(1)
}

func (m *MockAsientoRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.AsientoFilter) ([]accounting.AsientoContable, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.AsientoContable), args.Get(1).(int64), args.Error(2)
}

func (m *MockAsientoRepository) Create(ctx context.Context, a *accounting.AsientoContable) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAsientoRepository) CountLinesByCuenta(ctx context.Context, tenantID, cuentaID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, cuentaID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAsientoRepository) CountLinesByCentroCosto(ctx context.Context, tenantID, centroCostoID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, centroCostoID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAsientoRepository) CountLinesByProveedor(ctx context.Context, tenantID, proveedorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, proveedorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAsientoRepository) SaldosPorCuenta(ctx context.Context, tenantID uuid.UUID, desde, hasta time.Time) ([]accounting.SaldoCuenta, error) {
	args := m.Called(ctx, tenantID, desde, hasta)
	return args.Get(0).([]accounting.SaldoCuenta), args.Error(1)
}

// MockProveedorRepository is a mock implementation of ProveedorRepository
type MockProveedorRepository struct {
	mock.Mock
}

func (m *MockProveedorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Proveedor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Proveedor), args.Error(1)
}

func (m *MockProveedorRepository) ExistsByRUC(ctx context.Context, tenantID uuid.UUID, ruc string) (bool, error) {
	args := m.Called(ctx, tenantID, ruc)
	return args.Bool(0), args.Error(1)
}

func (m *MockProveedorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ProveedorFilter) ([]partner.Proveedor, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Proveedor), args.Get(1).(int64), args.Error(2)
}

func (m *MockProveedorRepository) Create(ctx context.Context, p *partner.Proveedor) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProveedorRepository) Save(ctx context.Context, p *partner.Proveedor) error {
	return m.Called(ctx, p).Error(0)
}

// fakeSequence hands out consecutive numbers per tenant and name
type fakeSequence struct {
	next map[string]int64
}

func (f *fakeSequence) Next(_ context.Context, tenantID uuid.UUID, name string) (int64, error) {
	if f.next == nil {
		f.next = make(map[string]int64)
	}
	k := tenantID.String() + "/" + name
	f.next[k]++
	return f.next[k], nil
}

// fakeScope runs fn directly against the mocks and keeps saved events
type fakeScope struct {
	cuentas     *MockCuentaRepository
	centros     *MockCentroCostoRepository
	asientos    *MockAsientoRepository
	proveedores *MockProveedorRepository
	sequence    *fakeSequence
	events      []shared.DomainEvent
}

func newFakeScope() *fakeScope {
	return &fakeScope{
		cuentas:     new(MockCuentaRepository),
		centros:     new(MockCentroCostoRepository),
		asientos:    new(MockAsientoRepository),
		proveedores: new(MockProveedorRepository),
		sequence:    &fakeSequence{},
	}
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *fakeScope) CuentaRepo() accounting.CuentaRepository           { return s.cuentas }
func (s *fakeScope) CentroCostoRepo() accounting.CentroCostoRepository { return s.centros }
func (s *fakeScope) AsientoRepo() accounting.AsientoRepository         { return s.asientos }
func (s *fakeScope) ProveedorRepo() partner.ProveedorRepository        { return s.proveedores }
func (s *fakeScope) SequenceRepo() shared.SequenceRepository           { return s.sequence }

func (s *fakeScope) SaveEvents(_ context.Context, events ...shared.DomainEvent) error {
	s.events = append(s.events, events...)
	return nil
}
