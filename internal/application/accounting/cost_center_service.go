package accounting

import (
	"context"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// CostCenterService manages cost centers
type CostCenterService struct {
	repo accounting.CentroCostoRepository
}

// NewCostCenterService creates a new CostCenterService
func NewCostCenterService(repo accounting.CentroCostoRepository) *CostCenterService {
	return &CostCenterService{repo: repo}
}

// Create creates a cost center with a codigo unique within the tenant
func (s *CostCenterService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCostCenterRequest) (*CostCenterResponse, error) {
	cc, err := accounting.NewCentroCosto(tenantID, req.Codigo, req.Nombre, req.Descripcion)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCodigo(ctx, tenantID, cc.Codigo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewAlreadyExistsError("CentroCosto", cc.Codigo)
	}
	if err := s.repo.Create(ctx, cc); err != nil {
		return nil, err
	}
	resp := ToCostCenterResponse(cc)
	return &resp, nil
}

// GetByID retrieves a cost center by ID
func (s *CostCenterService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CostCenterResponse, error) {
	cc, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if cc == nil {
		return nil, shared.NewNotFoundError("CentroCosto")
	}
	resp := ToCostCenterResponse(cc)
	return &resp, nil
}

// List lists cost centers with filtering and pagination
func (s *CostCenterService) List(ctx context.Context, tenantID uuid.UUID, q CostCenterListFilter) (*shared.Paginated[CostCenterResponse], error) {
	filter := accounting.CentroCostoFilter{
		Filter: shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: "codigo", OrderDir: "asc", Search: q.Search},
		Activo: q.Activo,
	}
	filter.Normalize()

	ccs, total, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return shared.PageOf(ccs, total, filter.Filter, ToCostCenterResponse), nil
}
