package handler

import (
	"context"
	"strings"

	invoicingapp "github.com/erp/contable/internal/application/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxIdempotencyKeyLength = 255

// InvoiceService is the invoice numbering surface the handler needs
type InvoiceService interface {
	AllocateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, in invoicingapp.AllocateInvoiceInput) (*invoicingapp.FacturaResponse, error)
	VoidInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, motivo string) (*invoicingapp.FacturaResponse, error)
	GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*invoicingapp.FacturaResponse, error)
	ListInvoices(ctx context.Context, tenantID uuid.UUID, q invoicingapp.FacturaListFilter) (*shared.Paginated[invoicingapp.FacturaResponse], error)
}

// FacturaHandler handles invoice issuing and voiding
type FacturaHandler struct {
	BaseHandler
	service InvoiceService
}

// NewFacturaHandler creates a new FacturaHandler
func NewFacturaHandler(service InvoiceService) *FacturaHandler {
	return &FacturaHandler{service: service}
}

// RegisterRoutes mounts the invoice routes
func (h *FacturaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/facturas")
	g.POST("", h.Allocate)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.POST("/:id/anular", h.Void)
}

// Allocate godoc
// @ID           allocateInvoiceNumber
// @Summary      Issue an invoice
// @Description  Takes the next number of the talonario and records the invoice atomically.
// @Description  A retried request carrying the same Idempotency-Key returns the first invoice
// @Description  without consuming another number.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client retry key"
// @Param        request body invoicingapp.AllocateInvoiceInput true "Invoice"
// @Success      201 {object} APIResponse[invoicingapp.FacturaResponse]
// @Failure      400 {object} ErrorResponse "validation error, talonario inactive, exhausted or out of its validity window"
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /facturas [post]
func (h *FacturaHandler) Allocate(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var in invoicingapp.AllocateInvoiceInput
	if !h.BindJSON(c, &in) {
		return
	}
	in.IdempotencyKey = strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	if len(in.IdempotencyKey) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}
	in.CreatedBy = middleware.GetUserID(c)

	f, err := h.service.AllocateInvoiceNumber(c.Request.Context(), tenantID, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, f)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         facturas
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Items per page" default(20) maximum(100)
// @Param        talonarioId query string false "Talonario ID" format(uuid)
// @Param        estado query string false "State" Enums(EMITIDA, ANULADA)
// @Param        desde query string false "From date (YYYY-MM-DD)"
// @Param        hasta query string false "To date (YYYY-MM-DD)"
// @Param        clienteRuc query string false "Client RUC"
// @Success      200 {object} ListResponse[invoicingapp.FacturaResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /facturas [get]
func (h *FacturaHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q invoicingapp.FacturaListFilter
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.service.ListInvoices(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         facturas
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[invoicingapp.FacturaResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /facturas/{id} [get]
func (h *FacturaHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "invoice")
	if !ok {
		return
	}

	f, err := h.service.GetInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, f)
}

// Void godoc
// @ID           voidInvoice
// @Summary      Void an invoice
// @Description  The invoice keeps its number; voided numbers are never reissued.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoicingapp.VoidInvoiceRequest true "Reason"
// @Success      200 {object} APIResponse[invoicingapp.FacturaResponse]
// @Failure      400 {object} ErrorResponse "already voided"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /facturas/{id}/anular [post]
func (h *FacturaHandler) Void(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "invoice")
	if !ok {
		return
	}
	var req invoicingapp.VoidInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	f, err := h.service.VoidInvoice(c.Request.Context(), tenantID, id, req.Motivo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, f)
}
