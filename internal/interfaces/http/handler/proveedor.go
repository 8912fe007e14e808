package handler

import (
	"context"

	partnerapp "github.com/erp/contable/internal/application/partner"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SupplierService is the supplier surface the handler needs
type SupplierService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateSupplierRequest) (*partnerapp.SupplierResponse, error)
	GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*partnerapp.SupplierResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, q partnerapp.SupplierListFilter) (*shared.Paginated[partnerapp.SupplierResponse], error)
}

// ProveedorHandler handles supplier endpoints
type ProveedorHandler struct {
	BaseHandler
	service SupplierService
}

// NewProveedorHandler creates a new ProveedorHandler
func NewProveedorHandler(service SupplierService) *ProveedorHandler {
	return &ProveedorHandler{service: service}
}

// RegisterRoutes mounts the supplier routes
func (h *ProveedorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/proveedores")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Description  RUC is unique per tenant.
// @Tags         proveedores
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateSupplierRequest true "Supplier"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proveedores [post]
func (h *ProveedorHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req partnerapp.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	supplier, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Tags         proveedores
// @Produce      json
// @Param        search query string false "RUC or name"
// @Param        activo query bool false "Active flag"
// @Success      200 {object} ListResponse[partnerapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /proveedores [get]
func (h *ProveedorHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q partnerapp.SupplierListFilter
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
// @ID           getSupplier
// @Summary      Get a supplier
// @Tags         proveedores
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proveedores/{id} [get]
func (h *ProveedorHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "supplier")
	if !ok {
		return
	}

	supplier, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}
