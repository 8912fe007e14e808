package handler

import (
	"context"

	accountingapp "github.com/erp/contable/internal/application/accounting"
	catalogapp "github.com/erp/contable/internal/application/catalog"
	invoicingapp "github.com/erp/contable/internal/application/invoicing"
	partnerapp "github.com/erp/contable/internal/application/partner"
	purchasingapp "github.com/erp/contable/internal/application/purchasing"
	reportapp "github.com/erp/contable/internal/application/report"
	"github.com/erp/contable/internal/application/softdelete"
	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// result returns the first mock return value as *T, tolerating nil
func result[T any](args mock.Arguments) (*T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

type MockTalonarioService struct{ mock.Mock }

func (m *MockTalonarioService) Create(ctx context.Context, tenantID uuid.UUID, req invoicingapp.CreateTalonarioRequest) (*invoicingapp.TalonarioResponse, error) {
	return result[invoicingapp.TalonarioResponse](m.Called(ctx, tenantID, req))
}

func (m *MockTalonarioService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.TalonarioResponse, error) {
	return result[invoicingapp.TalonarioResponse](m.Called(ctx, tenantID, id))
}

func (m *MockTalonarioService) List(ctx context.Context, tenantID uuid.UUID, q invoicingapp.TalonarioListFilter) (*shared.Paginated[invoicingapp.TalonarioResponse], error) {
	return result[shared.Paginated[invoicingapp.TalonarioResponse]](m.Called(ctx, tenantID, q))
}

func (m *MockTalonarioService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.TalonarioResponse, error) {
	return result[invoicingapp.TalonarioResponse](m.Called(ctx, tenantID, id))
}

type MockInvoiceService struct{ mock.Mock }

func (m *MockInvoiceService) AllocateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, in invoicingapp.AllocateInvoiceInput) (*invoicingapp.FacturaResponse, error) {
	return result[invoicingapp.FacturaResponse](m.Called(ctx, tenantID, in))
}

func (m *MockInvoiceService) VoidInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, motivo string) (*invoicingapp.FacturaResponse, error) {
	return result[invoicingapp.FacturaResponse](m.Called(ctx, tenantID, invoiceID, motivo))
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*invoicingapp.FacturaResponse, error) {
	return result[invoicingapp.FacturaResponse](m.Called(ctx, tenantID, invoiceID))
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, q invoicingapp.FacturaListFilter) (*shared.Paginated[invoicingapp.FacturaResponse], error) {
	return result[shared.Paginated[invoicingapp.FacturaResponse]](m.Called(ctx, tenantID, q))
}

type MockAccountService struct{ mock.Mock }

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID uuid.UUID, in accountingapp.CreateAccountInput) (*accountingapp.AccountResponse, error) {
	return result[accountingapp.AccountResponse](m.Called(ctx, tenantID, in))
}

func (m *MockAccountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*accountingapp.AccountResponse, error) {
	return result[accountingapp.AccountResponse](m.Called(ctx, tenantID, id))
}

func (m *MockAccountService) List(ctx context.Context, tenantID uuid.UUID, q accountingapp.AccountListFilter) (*shared.Paginated[accountingapp.AccountResponse], error) {
	return result[shared.Paginated[accountingapp.AccountResponse]](m.Called(ctx, tenantID, q))
}

func (m *MockAccountService) Tree(ctx context.Context, tenantID uuid.UUID) ([]*accountingapp.AccountNode, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accountingapp.AccountNode), args.Error(1)
}

func (m *MockAccountService) ValidateAccountReference(ctx context.Context, tenantID, accountID uuid.UUID, expected accounting.TipoCuenta) (*accounting.Cuenta, error) {
	return result[accounting.Cuenta](m.Called(ctx, tenantID, accountID, expected))
}

type MockCostCenterService struct{ mock.Mock }

func (m *MockCostCenterService) Create(ctx context.Context, tenantID uuid.UUID, req accountingapp.CreateCostCenterRequest) (*accountingapp.CostCenterResponse, error) {
	return result[accountingapp.CostCenterResponse](m.Called(ctx, tenantID, req))
}

func (m *MockCostCenterService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*accountingapp.CostCenterResponse, error) {
	return result[accountingapp.CostCenterResponse](m.Called(ctx, tenantID, id))
}

func (m *MockCostCenterService) List(ctx context.Context, tenantID uuid.UUID, q accountingapp.CostCenterListFilter) (*shared.Paginated[accountingapp.CostCenterResponse], error) {
	return result[shared.Paginated[accountingapp.CostCenterResponse]](m.Called(ctx, tenantID, q))
}

type MockJournalService struct{ mock.Mock }

func (m *MockJournalService) PostEntry(ctx context.Context, tenantID uuid.UUID, in accountingapp.PostEntryInput) (*accountingapp.EntryResponse, error) {
	return result[accountingapp.EntryResponse](m.Called(ctx, tenantID, in))
}

func (m *MockJournalService) GetEntry(ctx context.Context, tenantID, id uuid.UUID) (*accountingapp.EntryResponse, error) {
	return result[accountingapp.EntryResponse](m.Called(ctx, tenantID, id))
}

func (m *MockJournalService) ListEntries(ctx context.Context, tenantID uuid.UUID, q accountingapp.EntryListFilter) (*shared.Paginated[accountingapp.EntryResponse], error) {
	return result[shared.Paginated[accountingapp.EntryResponse]](m.Called(ctx, tenantID, q))
}

type MockSupplierService struct{ mock.Mock }

func (m *MockSupplierService) Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateSupplierRequest) (*partnerapp.SupplierResponse, error) {
	return result[partnerapp.SupplierResponse](m.Called(ctx, tenantID, req))
}

func (m *MockSupplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.SupplierResponse, error) {
	return result[partnerapp.SupplierResponse](m.Called(ctx, tenantID, id))
}

func (m *MockSupplierService) List(ctx context.Context, tenantID uuid.UUID, q partnerapp.SupplierListFilter) (*shared.Paginated[partnerapp.SupplierResponse], error) {
	return result[shared.Paginated[partnerapp.SupplierResponse]](m.Called(ctx, tenantID, q))
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	return result[catalogapp.ProductResponse](m.Called(ctx, tenantID, req))
}

func (m *MockProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	return result[catalogapp.ProductResponse](m.Called(ctx, tenantID, id))
}

func (m *MockProductService) List(ctx context.Context, tenantID uuid.UUID, q catalogapp.ProductListFilter) (*shared.Paginated[catalogapp.ProductResponse], error) {
	return result[shared.Paginated[catalogapp.ProductResponse]](m.Called(ctx, tenantID, q))
}

type MockPurchaseOrderService struct{ mock.Mock }

func (m *MockPurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req purchasingapp.CreateOrderRequest) (*purchasingapp.OrderResponse, error) {
	return result[purchasingapp.OrderResponse](m.Called(ctx, tenantID, req))
}

func (m *MockPurchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*purchasingapp.OrderResponse, error) {
	return result[purchasingapp.OrderResponse](m.Called(ctx, tenantID, id))
}

func (m *MockPurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, q purchasingapp.OrderListFilter) (*shared.Paginated[purchasingapp.OrderResponse], error) {
	return result[shared.Paginated[purchasingapp.OrderResponse]](m.Called(ctx, tenantID, q))
}

func (m *MockPurchaseOrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID, motivo string) (*purchasingapp.OrderResponse, error) {
	return result[purchasingapp.OrderResponse](m.Called(ctx, tenantID, id, motivo))
}

type MockDeactivator struct{ mock.Mock }

func (m *MockDeactivator) Deactivate(ctx context.Context, kind softdelete.Kind, tenantID, id uuid.UUID) (*softdelete.DeactivationResult, error) {
	return result[softdelete.DeactivationResult](m.Called(ctx, kind, tenantID, id))
}

type MockReportService struct{ mock.Mock }

func (m *MockReportService) TrialBalance(ctx context.Context, tenantID uuid.UUID, req reportapp.PeriodRequest) (*reportapp.TrialBalanceResponse, error) {
	return result[reportapp.TrialBalanceResponse](m.Called(ctx, tenantID, req))
}

func (m *MockReportService) LibroIvaVentas(ctx context.Context, tenantID uuid.UUID, req reportapp.PeriodRequest) (*reportapp.LibroIvaResponse, error) {
	return result[reportapp.LibroIvaResponse](m.Called(ctx, tenantID, req))
}

func (m *MockReportService) ExportLibroIvaVentas(ctx context.Context, tenantID uuid.UUID, req reportapp.PeriodRequest) (*reportapp.ExportResponse, error) {
	return result[reportapp.ExportResponse](m.Called(ctx, tenantID, req))
}
