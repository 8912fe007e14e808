package handler

import (
	"context"

	accountingapp "github.com/erp/contable/internal/application/accounting"
	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountService is the chart-of-accounts surface the handler needs
type AccountService interface {
	CreateAccount(ctx context.Context, tenantID uuid.UUID, in accountingapp.CreateAccountInput) (*accountingapp.AccountResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*accountingapp.AccountResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, q accountingapp.AccountListFilter) (*shared.Paginated[accountingapp.AccountResponse], error)
	Tree(ctx context.Context, tenantID uuid.UUID) ([]*accountingapp.AccountNode, error)
	ValidateAccountReference(ctx context.Context, tenantID, accountID uuid.UUID, expected accounting.TipoCuenta) (*accounting.Cuenta, error)
}

// ValidateAccountQuery carries the optional expected account type
type ValidateAccountQuery struct {
	Tipo string `form:"tipo" binding:"omitempty,oneof=ACTIVO PASIVO PATRIMONIO INGRESO EGRESO GASTO"`
}

// CuentaHandler handles chart-of-accounts endpoints
type CuentaHandler struct {
	BaseHandler
	service AccountService
}

// NewCuentaHandler creates a new CuentaHandler
func NewCuentaHandler(service AccountService) *CuentaHandler {
	return &CuentaHandler{service: service}
}

// RegisterRoutes mounts the account routes
func (h *CuentaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/cuentas")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/tree", h.Tree)
	g.GET("/:id", h.GetByID)
	g.POST("/:id/validate", h.Validate)
}

// Create godoc
// @ID           createAccount
// @Summary      Create an account
// @Description  Child accounts must sit one or more levels below their parent and share its type.
// @Tags         cuentas
// @Accept       json
// @Produce      json
// @Param        request body accountingapp.CreateAccountInput true "Account"
// @Success      201 {object} APIResponse[accountingapp.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "parent or cost center not found"
// @Failure      409 {object} ErrorResponse "codigo already in use"
// @Security     BearerAuth
// @Router       /cuentas [post]
func (h *CuentaHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var in accountingapp.CreateAccountInput
	if !h.BindJSON(c, &in) {
		return
	}
	in.CreatedBy = middleware.GetUserID(c)

	account, err := h.service.CreateAccount(c.Request.Context(), tenantID, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List godoc
// @ID           listAccounts
// @Summary      List accounts
// @Tags         cuentas
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Items per page" default(20) maximum(100)
// @Param        search query string false "Code or name"
// @Param        tipo query string false "Account type"
// @Param        nivel query int false "Level"
// @Param        activo query bool false "Active flag"
// @Param        aceptaMovimiento query bool false "Postable flag"
// @Param        cuentaPadreId query string false "Parent account" format(uuid)
// @Success      200 {object} ListResponse[accountingapp.AccountResponse]
// @Security     BearerAuth
// @Router       /cuentas [get]
func (h *CuentaHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q accountingapp.AccountListFilter
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

// Tree godoc
// @ID           getAccountTree
// @Summary      Chart of accounts as a tree
// @Tags         cuentas
// @Produce      json
// @Success      200 {object} APIResponse[[]accountingapp.AccountNode]
// @Security     BearerAuth
// @Router       /cuentas/tree [get]
func (h *CuentaHandler) Tree(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	roots, err := h.service.Tree(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if roots == nil {
		roots = []*accountingapp.AccountNode{}
	}
	h.Success(c, roots)
}

// GetByID godoc
// @ID           getAccount
// @Summary      Get an account
// @Tags         cuentas
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.AccountResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cuentas/{id} [get]
func (h *CuentaHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "account")
	if !ok {
		return
	}

	account, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Validate godoc
// @ID           validateAccountReference
// @Summary      Check that an account can receive postings
// @Description  Succeeds only for an active, postable account; with tipo, the type must match too.
// @Tags         cuentas
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Param        tipo query string false "Expected type" Enums(ACTIVO, PASIVO, PATRIMONIO, INGRESO, EGRESO, GASTO)
// @Success      200 {object} APIResponse[accountingapp.AccountResponse]
// @Failure      400 {object} ErrorResponse "inactive, not postable or wrong type"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cuentas/{id}/validate [post]
func (h *CuentaHandler) Validate(c *gin.Context) {
	tenantID, id, ok := h.RequestScope(c, "account")
	if !ok {
		return
	}
	var q ValidateAccountQuery
	if !h.BindQuery(c, &q) {
		return
	}

	account, err := h.service.ValidateAccountReference(c.Request.Context(), tenantID, id, accounting.TipoCuenta(q.Tipo))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accountingapp.ToAccountResponse(account))
}
