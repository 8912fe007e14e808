package persistence

import (
	"errors"
	"fmt"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation,
// either translated by gorm or raised by lib/pq.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

// wrapWriteError converts unique violations into ALREADY_EXISTS and wraps
// anything else with the operation name.
func wrapWriteError(err error, op, resource, key string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return shared.NewAlreadyExistsError(resource, key)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// firstOrNil turns gorm.ErrRecordNotFound into (nil, nil)
func firstOrNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// staleVersion is returned when a versioned update matched no row
func staleVersion(resource string) error {
	return shared.NewInvalidStateError(resource + " was modified concurrently")
}
