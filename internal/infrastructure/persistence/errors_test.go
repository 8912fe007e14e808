package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"translated by gorm", gorm.ErrDuplicatedKey, true},
		{"wrapped translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pq unique violation", &pq.Error{Code: "23505"}, true},
		{"pq other error", &pq.Error{Code: "23503"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUniqueViolation(tt.err))
		})
	}
}

func TestWrapWriteError(t *testing.T) {
	assert.NoError(t, wrapWriteError(nil, "op", "cuenta", "codigo 1"))

	err := wrapWriteError(gorm.ErrDuplicatedKey, "create cuenta", "cuenta", "codigo 1")
	assert.Equal(t, shared.CodeAlreadyExists, shared.ErrorCode(err))
	assert.Contains(t, err.Error(), "codigo 1")

	cause := errors.New("connection reset")
	err = wrapWriteError(cause, "create cuenta", "cuenta", "codigo 1")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create cuenta: connection reset", err.Error())
}

func TestFirstOrNil(t *testing.T) {
	v := 1
	got, err := firstOrNil(&v, gorm.ErrRecordNotFound)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = firstOrNil(&v, nil)
	assert.NoError(t, err)
	assert.Equal(t, &v, got)
}
