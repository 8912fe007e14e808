package handler

import (
	"context"

	purchasingapp "github.com/erp/contable/internal/application/purchasing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseOrderService is the purchase order surface the handler needs
type PurchaseOrderService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req purchasingapp.CreateOrderRequest) (*purchasingapp.OrderResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*purchasingapp.OrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, q purchasingapp.OrderListFilter) (*shared.Paginated[purchasingapp.OrderResponse], error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID, motivo string) (*purchasingapp.OrderResponse, error)
}

// OrdenCompraHandler handles purchase order endpoints
type OrdenCompraHandler struct {
	BaseHandler
	service PurchaseOrderService
}

// NewOrdenCompraHandler creates a new OrdenCompraHandler
func NewOrdenCompraHandler(service PurchaseOrderService) *OrdenCompraHandler {
	return &OrdenCompraHandler{service: service}
}

// RegisterRoutes mounts the purchase order routes
func (h *OrdenCompraHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/ordenes-compra")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.POST("/:id/anular", h.Cancel)
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Tags         ordenes-compra
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[purchasingapp.OrderResponse]
// @Failure      400 {object} ErrorResponse "inactive supplier or product"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ordenes-compra [post]
func (h *OrdenCompraHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req purchasingapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	order, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         ordenes-compra
// @Produce      json
// @Param        proveedorId query string false "Supplier" format(uuid)
// @Param        estado query string false "State" Enums(PENDIENTE, ANULADA)
// @Success      200 {object} ListResponse[purchasingapp.OrderResponse]
// @Security     BearerAuth
// @Router       /ordenes-compra [get]
func (h *OrdenCompraHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q purchasingapp.OrderListFilter
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.service.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID godoc
// @ID           getPurchaseOrder
// @Summary      Get a purchase order
// @Tags         ordenes-compra
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[purchasingapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ordenes-compra/{id} [get]
func (h *OrdenCompraHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "purchase order")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelPurchaseOrder
// @Summary      Cancel a purchase order
// @Tags         ordenes-compra
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body purchasingapp.CancelOrderRequest false "Reason"
// @Success      200 {object} APIResponse[purchasingapp.OrderResponse]
// @Failure      400 {object} ErrorResponse "already cancelled"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ordenes-compra/{id}/anular [post]
func (h *OrdenCompraHandler) Cancel(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "purchase order")
	if !ok {
		return
	}
	var req purchasingapp.CancelOrderRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), tenantID, id, req.Motivo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
