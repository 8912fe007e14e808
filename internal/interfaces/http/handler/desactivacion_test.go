package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/erp/contable/internal/application/softdelete"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDesactivacionHandler_KindMapping(t *testing.T) {
	tenantID := uuid.New()
	tests := []struct {
		segment string
		kind    softdelete.Kind
	}{
		{"centros-costo", softdelete.KindCentroCosto},
		{"cuentas", softdelete.KindCuenta},
		{"proveedores", softdelete.KindProveedor},
		{"productos", softdelete.KindProducto},
	}
	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			id := uuid.New()
			now := time.Now()
			guard := new(MockDeactivator)
			guard.On("Deactivate", mock.Anything, tt.kind, tenantID, id).
				Return(&softdelete.DeactivationResult{Kind: tt.kind, ID: id, FechaDesactivado: &now}, nil)

			w := perform(newTestRouter(NewDesactivacionHandler(guard)), http.MethodDelete, "/"+tt.segment+"/"+id.String(), nil, tenantHeader(tenantID))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			data := decodeResponse(t, w).Data.(map[string]any)
			assert.Equal(t, string(tt.kind), data["kind"])
			assert.Equal(t, false, data["activo"])
			guard.AssertExpectations(t)
		})
	}
}

func TestDesactivacionHandler_UnknownKind(t *testing.T) {
	guard := new(MockDeactivator)

	w := perform(newTestRouter(NewDesactivacionHandler(guard)), http.MethodDelete, "/facturas/"+uuid.NewString(), nil, tenantHeader(uuid.New()))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeResponse(t, w).Error.Code)
	guard.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDesactivacionHandler_StillReferenced(t *testing.T) {
	tenantID := uuid.New()
	id := uuid.New()
	guard := new(MockDeactivator)
	guard.On("Deactivate", mock.Anything, softdelete.KindCuenta, tenantID, id).
		Return(nil, shared.NewInvalidStateError("cuenta is referenced by 3 journal lines"))

	w := perform(newTestRouter(NewDesactivacionHandler(guard)), http.MethodDelete, "/cuentas/"+id.String(), nil, tenantHeader(tenantID))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "journal lines")
}

func TestDesactivacionHandler_InvalidID(t *testing.T) {
	guard := new(MockDeactivator)

	w := perform(newTestRouter(NewDesactivacionHandler(guard)), http.MethodDelete, "/productos/abc", nil, tenantHeader(uuid.New()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid producto ID", decodeResponse(t, w).Error.Message)
}
