package purchasing

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductLookup resolves active products by ID
type ProductLookup interface {
	ActiveProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.Producto, error)
}

// OrderService handles purchase orders
type OrderService struct {
	scope        TransactionScope
	orderRepo    purchasing.OrdenCompraRepository
	supplierRepo partner.ProveedorRepository
	products     ProductLookup
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope TransactionScope,
	orderRepo purchasing.OrdenCompraRepository,
	supplierRepo partner.ProveedorRepository,
	products ProductLookup,
) *OrderService {
	return &OrderService{
		scope:        scope,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		products:     products,
	}
}

// Create places a purchase order with an active supplier for active products
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	fecha, err := shared.ParseDate("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.ProveedorID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, shared.NewNotFoundError("Proveedor")
	}
	if !supplier.IsActive() {
		return nil, shared.NewInvalidStateError("supplier is inactive")
	}

	ids := make([]uuid.UUID, len(req.Items))
	for i, it := range req.Items {
		ids[i] = it.ProductoID
	}
	products, err := s.products.ActiveProducts(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]purchasing.NuevoItem, len(req.Items))
	for i, it := range req.Items {
		p := products[it.ProductoID]
		precio := p.Precio
		if it.PrecioUnitario != nil {
			precio = *it.PrecioUnitario
		}
		items[i] = purchasing.NuevoItem{
			ProductoID:     it.ProductoID,
			Descripcion:    p.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: precio,
		}
	}

	order, err := purchasing.NewOrdenCompra(tenantID, supplier.ID, fecha, req.Observacion, items)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		numero, err := repos.SequenceRepo().Next(ctx, tenantID, shared.SequenceOrdenCompra)
		if err != nil {
			return fmt.Errorf("failed to number purchase order: %w", err)
		}
		order.Numero = numero
		return repos.OrdenCompraRepo().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves a purchase order with its items
func (s *OrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, shared.NewNotFoundError("OrdenCompra")
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List lists purchase orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, q OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	filter := purchasing.OrdenCompraFilter{
		Filter: shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: "numero"},
	}
	filter.Normalize()
	if q.ProveedorID != "" {
		id, err := uuid.Parse(q.ProveedorID)
		if err != nil {
			return nil, shared.NewValidationError("proveedorId must be a UUID")
		}
		filter.ProveedorID = &id
	}
	if q.Estado != "" {
		estado := purchasing.EstadoOrden(q.Estado)
		filter.Estado = &estado
	}

	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return shared.PageOf(orders, total, filter.Filter, ToOrderResponse), nil
}

// Cancel moves a pending order to ANULADA; cancelling twice fails
func (s *OrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID, motivo string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, shared.NewNotFoundError("OrdenCompra")
	}
	if err := order.Anular(motivo); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}
