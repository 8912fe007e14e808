package handler

import (
	"context"

	accountingapp "github.com/erp/contable/internal/application/accounting"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CostCenterService is the cost center surface the handler needs
type CostCenterService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req accountingapp.CreateCostCenterRequest) (*accountingapp.CostCenterResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*accountingapp.CostCenterResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, q accountingapp.CostCenterListFilter) (*shared.Paginated[accountingapp.CostCenterResponse], error)
}

// CentroCostoHandler handles cost center endpoints
type CentroCostoHandler struct {
	BaseHandler
	service CostCenterService
}

// NewCentroCostoHandler creates a new CentroCostoHandler
func NewCentroCostoHandler(service CostCenterService) *CentroCostoHandler {
	return &CentroCostoHandler{service: service}
}

// RegisterRoutes mounts the cost center routes
func (h *CentroCostoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/centros-costo")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
}

// Create godoc
// @ID           createCostCenter
// @Summary      Create a cost center
// @Tags         centros-costo
// @Accept       json
// @Produce      json
// @Param        request body accountingapp.CreateCostCenterRequest true "Cost center"
// @Success      201 {object} APIResponse[accountingapp.CostCenterResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /centros-costo [post]
func (h *CentroCostoHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req accountingapp.CreateCostCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cc, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cc)
}

// List godoc
// @ID           listCostCenters
// @Summary      List cost centers
// @Tags         centros-costo
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        activo query bool false "Active flag"
// @Success      200 {object} ListResponse[accountingapp.CostCenterResponse]
// @Security     BearerAuth
// @Router       /centros-costo [get]
func (h *CentroCostoHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q accountingapp.CostCenterListFilter
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
// @ID           getCostCenter
// @Summary      Get a cost center
// @Tags         centros-costo
// @Produce      json
// @Param        id path string true "Cost center ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.CostCenterResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /centros-costo/{id} [get]
func (h *CentroCostoHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "cost center")
	if !ok {
		return
	}

	cc, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cc)
}
