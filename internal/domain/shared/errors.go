package shared

import (
	"errors"
	"fmt"
)

// Error codes. Every business failure carries exactly one of these; anything
// else reaching the transport layer is an infrastructure error.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeInvalidState    = "INVALID_STATE"
	CodeValidationError = "VALIDATION_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so sentinel
// comparisons survive custom messages.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidState  = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrValidation    = NewDomainError(CodeValidationError, "Invalid input provided")
)

// NewNotFoundError reports a missing (or cross-tenant) resource.
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// NewAlreadyExistsError reports a uniqueness collision.
func NewAlreadyExistsError(resource, key string) *DomainError {
	return NewDomainError(CodeAlreadyExists, fmt.Sprintf("%s with %s already exists", resource, key))
}

// NewInvalidStateError reports a business rule violation.
func NewInvalidStateError(reason string) *DomainError {
	return NewDomainError(CodeInvalidState, reason)
}

// NewValidationError reports a missing or malformed field.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidationError, message)
}

// ErrorCode extracts the domain code of err, or "" for infrastructure errors.
func ErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND domain error.
func IsNotFound(err error) bool {
	return ErrorCode(err) == CodeNotFound
}

// IsInvalidState reports whether err is an INVALID_STATE domain error.
func IsInvalidState(err error) bool {
	return ErrorCode(err) == CodeInvalidState
}
