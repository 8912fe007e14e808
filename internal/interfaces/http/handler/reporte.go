package handler

import (
	"context"

	reportapp "github.com/erp/contable/internal/application/report"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportService is the reporting surface the handler needs
type ReportService interface {
	TrialBalance(ctx context.Context, tenantID uuid.UUID, req reportapp.PeriodRequest) (*reportapp.TrialBalanceResponse, error)
	LibroIvaVentas(ctx context.Context, tenantID uuid.UUID, req reportapp.PeriodRequest) (*reportapp.LibroIvaResponse, error)
	ExportLibroIvaVentas(ctx context.Context, tenantID uuid.UUID, req reportapp.PeriodRequest) (*reportapp.ExportResponse, error)
}

// LibroIvaQuery selects the period and output of the Libro IVA Ventas
type LibroIvaQuery struct {
	reportapp.PeriodRequest
	Format string `form:"format" binding:"omitempty,oneof=json csv"`
}

// ReporteHandler handles report endpoints
type ReporteHandler struct {
	BaseHandler
	service ReportService
}

// NewReporteHandler creates a new ReporteHandler
func NewReporteHandler(service ReportService) *ReporteHandler {
	return &ReporteHandler{service: service}
}

// RegisterRoutes mounts the report routes
func (h *ReporteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/reportes")
	g.GET("/balance-sumas-saldos", h.TrialBalance)
	g.GET("/libro-iva-ventas", h.LibroIvaVentas)
}

// TrialBalance godoc
// @ID           getTrialBalance
// @Summary      Balance de sumas y saldos
// @Description  Per account debit and credit totals and the balance on its natural side.
// @Tags         reportes
// @Produce      json
// @Param        desde query string true "From date (YYYY-MM-DD)"
// @Param        hasta query string true "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reportapp.TrialBalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reportes/balance-sumas-saldos [get]
func (h *ReporteHandler) TrialBalance(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q reportapp.PeriodRequest
	if !h.BindQuery(c, &q) {
		return
	}

	report, err := h.service.TrialBalance(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// LibroIvaVentas godoc
// @ID           getLibroIvaVentas
// @Summary      Libro IVA Ventas
// @Description  Issued invoices in the period; voided ones are listed with zero amounts.
// @Description  format=csv uploads the book to object storage and returns a download link.
// @Tags         reportes
// @Produce      json
// @Param        desde query string true "From date (YYYY-MM-DD)"
// @Param        hasta query string true "To date (YYYY-MM-DD)"
// @Param        format query string false "Output" Enums(json, csv)
// @Success      200 {object} APIResponse[reportapp.LibroIvaResponse]
// @Failure      400 {object} ErrorResponse "bad period, or csv requested without storage"
// @Security     BearerAuth
// @Router       /reportes/libro-iva-ventas [get]
func (h *ReporteHandler) LibroIvaVentas(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q LibroIvaQuery
	if !h.BindQuery(c, &q) {
		return
	}

	if q.Format == "csv" {
		export, err := h.service.ExportLibroIvaVentas(c.Request.Context(), tenantID, q.PeriodRequest)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, export)
		return
	}

	libro, err := h.service.LibroIvaVentas(c.Request.Context(), tenantID, q.PeriodRequest)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, libro)
}
