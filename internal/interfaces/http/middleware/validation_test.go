package middleware

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codigoRequest struct {
	Codigo string `json:"codigo" binding:"required,codigo"`
	Nombre string `json:"nombre" binding:"required,max=5"`
	RUC    string `json:"ruc" binding:"omitempty,ruc"`
}

func newValidationRouter(t *testing.T) *gin.Engine {
	require.NoError(t, SetupValidator())
	r := gin.New()
	r.POST("/test", func(c *gin.Context) {
		var req codigoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", "", ValidationDetails(err)))
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestCodigoValidator(t *testing.T) {
	r := newValidationRouter(t)

	tests := []struct {
		codigo string
		want   int
	}{
		{"1", http.StatusOK},
		{"1.1.01", http.StatusOK},
		{"1..1", http.StatusBadRequest},
		{"1.", http.StatusBadRequest},
		{"A.1", http.StatusBadRequest},
		{".1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.codigo, func(t *testing.T) {
			body := `{"codigo":"` + tt.codigo + `","nombre":"caja"}`
			w := serve(r, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body)))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRUCValidator(t *testing.T) {
	r := newValidationRouter(t)

	tests := []struct {
		ruc  string
		want int
	}{
		{"80012345-6", http.StatusOK},
		{"1234567", http.StatusOK},
		{"80012345-", http.StatusBadRequest},
		{"80012345-67", http.StatusBadRequest},
		{"RUC80012345", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.ruc, func(t *testing.T) {
			body := `{"codigo":"1","nombre":"caja","ruc":"` + tt.ruc + `"}`
			w := serve(r, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body)))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestFieldName(t *testing.T) {
	type sample struct {
		JSON    string `json:"fromJson,omitempty"`
		Form    string `form:"from_form"`
		Skipped string `json:"-" form:"ignored"`
		Bare    string
	}
	typ := reflect.TypeOf(sample{})

	assert.Equal(t, "fromJson", fieldName(typ.Field(0)))
	assert.Equal(t, "from_form", fieldName(typ.Field(1)))
	assert.Empty(t, fieldName(typ.Field(2)))
	assert.Empty(t, fieldName(typ.Field(3)))
}

func TestValidationDetails(t *testing.T) {
	r := newValidationRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"codigo":"x","nombre":"too long"}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "codigo", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be digits separated by dots", resp.Error.Details[0].Message)
	assert.Equal(t, "nombre", resp.Error.Details[1].Field)
	assert.Equal(t, "Must be at most 5 characters", resp.Error.Details[1].Message)
}

func TestValidationDetails_NotValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}
