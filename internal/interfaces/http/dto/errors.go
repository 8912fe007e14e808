package dto

import (
	"net/http"

	"github.com/erp/contable/internal/domain/shared"
)

// Domain error codes travel to clients verbatim.
const (
	ErrCodeNotFound      = shared.CodeNotFound
	ErrCodeAlreadyExists = shared.CodeAlreadyExists
	ErrCodeInvalidState  = shared.CodeInvalidState
	ErrCodeValidation    = shared.CodeValidationError
)

// Transport error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeInvalidState:  http.StatusBadRequest,
	ErrCodeValidation:    http.StatusBadRequest,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
