package invoicing

import (
	"context"
	"time"

	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTalonarioRepository is a mock implementation of TalonarioRepository
type MockTalonarioRepository struct {
	mock.Mock
}

func (m *MockTalonarioRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Talonario, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Talonario), args.Error(1)
}

func (m *MockTalonarioRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Talonario, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Talonario), args.Error(1)
}

func (m *MockTalonarioRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter invoicing.TalonarioFilter) ([]invoicing.Talonario, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]invoicing.Talonario), args.Get(1).(int64), args.Error(2)
}

func (m *MockTalonarioRepository) ExistsBlock(ctx context.Context, tenantID uuid.UUID, establecimiento, puntoVenta string, tipo invoicing.TipoComprobante, numeroInicial int64) (bool, error) {
	args := m.Called(ctx, tenantID, establecimiento, puntoVenta, tipo, numeroInicial)
	return args.Bool(0), args.Error(1)
}

func (m *MockTalonarioRepository) Create(ctx context.Context, t *invoicing.Talonario) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTalonarioRepository) Save(ctx context.Context, t *invoicing.Talonario) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockFacturaRepository is a mock implementation of FacturaRepository
type MockFacturaRepository struct {
	mock.Mock
}

func (m *MockFacturaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.FacturaEmitida, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.FacturaEmitida), args.Error(1)
}

func (m *MockFacturaRepository) FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*invoicing.FacturaEmitida, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.FacturaEmitida), args.Error(1)
}

func (m *MockFacturaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter invoicing.FacturaFilter) ([]invoicing.FacturaEmitida, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]invoicing.FacturaEmitida), args.Get(1).(int64), args.Error(2)
}

func (m *MockFacturaRepository) FindForPeriod(ctx context.Context, tenantID uuid.UUID, desde, hasta time.Time) ([]invoicing.FacturaEmitida, error) {
	args := m.Called(ctx, tenantID, desde, hasta)
	return args.Get(0).([]invoicing.FacturaEmitida), args.Error(1)
}

func (m *MockFacturaRepository) NumbersForTalonario(ctx context.Context, tenantID, talonarioID uuid.UUID) ([]int64, error) {
	args := m.Called(ctx, tenantID, talonarioID)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockFacturaRepository) Create(ctx context.Context, f *invoicing.FacturaEmitida) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFacturaRepository) Save(ctx context.Context, f *invoicing.FacturaEmitida) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) SetResult(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockIdempotencyStore) GetResult(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}
