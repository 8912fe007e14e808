package handler

import (
	"context"

	accountingapp "github.com/erp/contable/internal/application/accounting"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JournalService is the journal surface the handler needs
type JournalService interface {
	PostEntry(ctx context.Context, tenantID uuid.UUID, in accountingapp.PostEntryInput) (*accountingapp.EntryResponse, error)
	GetEntry(ctx context.Context, tenantID, id uuid.UUID) (*accountingapp.EntryResponse, error)
	ListEntries(ctx context.Context, tenantID uuid.UUID, q accountingapp.EntryListFilter) (*shared.Paginated[accountingapp.EntryResponse], error)
}

// AsientoHandler handles journal entry endpoints
type AsientoHandler struct {
	BaseHandler
	service JournalService
}

// NewAsientoHandler creates a new AsientoHandler
func NewAsientoHandler(service JournalService) *AsientoHandler {
	return &AsientoHandler{service: service}
}

// RegisterRoutes mounts the journal routes
func (h *AsientoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/asientos")
	g.POST("", h.Post)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
}

// Post godoc
// @ID           postJournalEntry
// @Summary      Post a journal entry
// @Description  Lines must balance and reference active postable accounts.
// @Tags         asientos
// @Accept       json
// @Produce      json
// @Param        request body accountingapp.PostEntryInput true "Entry"
// @Success      201 {object} APIResponse[accountingapp.EntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /asientos [post]
func (h *AsientoHandler) Post(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var in accountingapp.PostEntryInput
	if !h.BindJSON(c, &in) {
		return
	}
	in.CreatedBy = middleware.GetUserID(c)

	entry, err := h.service.PostEntry(c.Request.Context(), tenantID, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// List godoc
// @ID           listJournalEntries
// @Summary      List journal entries
// @Tags         asientos
// @Produce      json
// @Param        desde query string false "From date (YYYY-MM-DD)"
// @Param        hasta query string false "To date (YYYY-MM-DD)"
// @Param        cuentaId query string false "Entries touching this account" format(uuid)
// @Success      200 {object} ListResponse[accountingapp.EntryResponse]
// @Security     BearerAuth
// @Router       /asientos [get]
func (h *AsientoHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q accountingapp.EntryListFilter
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.service.ListEntries(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID godoc
// @ID           getJournalEntry
// @Summary      Get a journal entry
// @Tags         asientos
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.EntryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /asientos/{id} [get]
func (h *AsientoHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "entry")
	if !ok {
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
