package handler

import (
	"errors"
	"net/http"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/infrastructure/logger"
	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the status derived from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// HandleError converts a service error into a response. Domain errors keep
// their code and message; anything else is logged and reported as a bare 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// BindJSON binds the request body, writing a validation response on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindFailed(c, err, "Invalid request body")
		return false
	}
	return true
}

// BindQuery binds query parameters, writing a validation response on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindFailed(c, err, "Invalid query parameters")
		return false
	}
	return true
}

func (h *BaseHandler) bindFailed(c *gin.Context, err error, fallback string) {
	if middleware.BodyTooLarge(err) {
		middleware.AbortBodyTooLarge(c)
		return
	}
	if details := middleware.ValidationDetails(err); details != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed",
			middleware.GetRequestID(c),
			details,
		))
		return
	}
	h.BadRequest(c, fallback)
}

// TenantID returns the tenant resolved by the tenant middleware. A missing
// tenant is a wiring bug, reported as a 500.
func (h *BaseHandler) TenantID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetTenantID(c)
	if !ok {
		h.HandleError(c, errors.New("tenant middleware not installed"))
		return uuid.Nil, false
	}
	return id, true
}

// ParseID parses the :id path parameter
func (h *BaseHandler) ParseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// RequestScope extracts tenant and path ID in one step
func (h *BaseHandler) RequestScope(c *gin.Context, resource string) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.ParseID(c, resource)
	return tenantID, id, ok
}

// Paginated sends a page of items with pagination meta
func Paginated[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}
