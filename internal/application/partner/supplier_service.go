package partner

import (
	"context"

	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.ProveedorRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.ProveedorRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
	}
}

// Create registers a new supplier. The RUC must be unique within the tenant.
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewProveedor(tenantID, partner.NewProveedorParams{
		RUC:            req.RUC,
		RazonSocial:    req.RazonSocial,
		NombreFantasia: req.NombreFantasia,
		Telefono:       req.Telefono,
		Email:          req.Email,
		Direccion:      req.Direccion,
	})
	if err != nil {
		return nil, err
	}

	exists, err := s.supplierRepo.ExistsByRUC(ctx, tenantID, supplier.RUC)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewAlreadyExistsError("Proveedor", supplier.RUC)
	}

	if req.CreatedBy != nil {
		supplier.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, shared.NewNotFoundError("Proveedor")
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List retrieves a list of suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, q SupplierListFilter) (*shared.Paginated[SupplierResponse], error) {
	filter := partner.ProveedorFilter{
		Filter: shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: "razon_social", OrderDir: "asc", Search: q.Search},
		Activo: q.Activo,
	}
	filter.Normalize()

	suppliers, total, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return shared.PageOf(suppliers, total, filter.Filter, ToSupplierResponse), nil
}
