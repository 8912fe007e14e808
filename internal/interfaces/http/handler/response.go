package handler

import "github.com/erp/contable/internal/interfaces/http/dto"

// The types below only feed the OpenAPI generator. Handlers always write
// dto.Response; these spell out its shape per payload type.

// APIResponse is a successful single-resource envelope
type APIResponse[T any] struct {
	Success bool `json:"success" example:"true"`
	Data    T    `json:"data"`
}

// ListResponse is a successful page of a listing with its pagination meta
type ListResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    []T       `json:"data"`
	Meta    *dto.Meta `json:"meta"`
}

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
