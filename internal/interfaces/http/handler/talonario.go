package handler

import (
	"context"

	invoicingapp "github.com/erp/contable/internal/application/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TalonarioService is the talonario use case surface the handler needs
type TalonarioService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req invoicingapp.CreateTalonarioRequest) (*invoicingapp.TalonarioResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.TalonarioResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, q invoicingapp.TalonarioListFilter) (*shared.Paginated[invoicingapp.TalonarioResponse], error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.TalonarioResponse, error)
}

// TalonarioHandler handles talonario (invoice number range) endpoints
type TalonarioHandler struct {
	BaseHandler
	service TalonarioService
}

// NewTalonarioHandler creates a new TalonarioHandler
func NewTalonarioHandler(service TalonarioService) *TalonarioHandler {
	return &TalonarioHandler{service: service}
}

// RegisterRoutes mounts the talonario routes
func (h *TalonarioHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/talonarios")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.POST("/:id/deactivate", h.Deactivate)
}

// Create godoc
// @ID           createTalonario
// @Summary      Register a talonario
// @Description  Registers an authorised invoice number range. siguienteNumero starts at numeroInicial.
// @Tags         talonarios
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (when not carried by the token)" format(uuid)
// @Param        request body invoicingapp.CreateTalonarioRequest true "Talonario"
// @Success      201 {object} APIResponse[invoicingapp.TalonarioResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /talonarios [post]
func (h *TalonarioHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req invoicingapp.CreateTalonarioRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// List godoc
// @ID           listTalonarios
// @Summary      List talonarios
// @Tags         talonarios
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Items per page" default(20) maximum(100)
// @Param        activo query bool false "Active flag"
// @Param        agotado query bool false "Exhausted flag"
// @Param        tipoComprobante query string false "Document type" Enums(FACTURA, NOTA_CREDITO, NOTA_DEBITO)
// @Param        vigenteEn query string false "Valid on date (YYYY-MM-DD)"
// @Success      200 {object} ListResponse[invoicingapp.TalonarioResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /talonarios [get]
func (h *TalonarioHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q invoicingapp.TalonarioListFilter
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
// @ID           getTalonario
// @Summary      Get a talonario
// @Tags         talonarios
// @Produce      json
// @Param        id path string true "Talonario ID" format(uuid)
// @Success      200 {object} APIResponse[invoicingapp.TalonarioResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /talonarios/{id} [get]
func (h *TalonarioHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "talonario")
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Deactivate godoc
// @ID           deactivateTalonario
// @Summary      Deactivate a talonario
// @Description  No further numbers are issued from an inactive talonario.
// @Tags         talonarios
// @Produce      json
// @Param        id path string true "Talonario ID" format(uuid)
// @Success      200 {object} APIResponse[invoicingapp.TalonarioResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /talonarios/{id}/deactivate [post]
func (h *TalonarioHandler) Deactivate(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "talonario")
	if !ok {
		return
	}

	t, err := h.service.Deactivate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}
