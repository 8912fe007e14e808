package catalog

import (
	"context"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountReferenceValidator checks that an account can receive postings
type AccountReferenceValidator interface {
	ValidateAccountReference(ctx context.Context, tenantID, accountID uuid.UUID, expected accounting.TipoCuenta) (*accounting.Cuenta, error)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductoRepository
	accounts    AccountReferenceValidator
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductoRepository, accounts AccountReferenceValidator) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		accounts:    accounts,
	}
}

// Create creates a new product. A sales account, when given, must be a
// postable INGRESO account.
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	tasa := catalog.TasaIva10
	if req.TasaIva != nil {
		tasa = catalog.TasaIva(*req.TasaIva)
	}
	product, err := catalog.NewProducto(tenantID, catalog.NewProductoParams{
		Codigo:         req.Codigo,
		Nombre:         req.Nombre,
		Precio:         req.Precio,
		TasaIva:        tasa,
		CuentaVentasID: req.CuentaVentasID,
	})
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByCodigo(ctx, tenantID, product.Codigo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewAlreadyExistsError("Producto", product.Codigo)
	}

	if req.CuentaVentasID != nil {
		if _, err := s.accounts.ValidateAccountReference(ctx, tenantID, *req.CuentaVentasID, accounting.TipoIngreso); err != nil {
			return nil, err
		}
	}

	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewNotFoundError("Producto")
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, q ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	filter := catalog.ProductoFilter{
		Filter: shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: "codigo", OrderDir: "asc", Search: q.Search},
		Activo: q.Activo,
	}
	filter.Normalize()
	if q.TasaIva != nil {
		tasa := catalog.TasaIva(*q.TasaIva)
		filter.TasaIva = &tasa
	}

	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return shared.PageOf(products, total, filter.Filter, ToProductResponse), nil
}
