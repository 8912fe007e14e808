package handler

import (
	"context"

	catalogapp "github.com/erp/contable/internal/application/catalog"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductService is the product surface the handler needs
type ProductService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, q catalogapp.ProductListFilter) (*shared.Paginated[catalogapp.ProductResponse], error)
}

// ProductoHandler handles product endpoints
type ProductoHandler struct {
	BaseHandler
	service ProductService
}

// NewProductoHandler creates a new ProductoHandler
func NewProductoHandler(service ProductService) *ProductoHandler {
	return &ProductoHandler{service: service}
}

// RegisterRoutes mounts the product routes
func (h *ProductoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/productos")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Description  cuentaVentasId, when given, must be an active postable INGRESO account.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productos [post]
func (h *ProductoHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	product, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         productos
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        activo query bool false "Active flag"
// @Param        tasaIva query int false "VAT rate" Enums(0, 5, 10)
// @Success      200 {object} ListResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /productos [get]
func (h *ProductoHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q catalogapp.ProductListFilter
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
// @ID           getProduct
// @Summary      Get a product
// @Tags         productos
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productos/{id} [get]
func (h *ProductoHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "product")
	if !ok {
		return
	}

	product, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
