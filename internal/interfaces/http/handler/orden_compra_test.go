package handler

import (
	"net/http"
	"testing"

	purchasingapp "github.com/erp/contable/internal/application/purchasing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrdenCompraHandler_Create(t *testing.T) {
	tenantID := uuid.New()
	proveedorID := uuid.New()
	productoID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := new(MockPurchaseOrderService)
		svc.On("Create", mock.Anything, tenantID, mock.MatchedBy(func(req purchasingapp.CreateOrderRequest) bool {
			return req.ProveedorID == proveedorID &&
				len(req.Items) == 1 &&
				req.Items[0].Cantidad.Equal(decimal.NewFromInt(3)) &&
				req.Items[0].PrecioUnitario == nil
		})).Return(&purchasingapp.OrderResponse{ID: uuid.New(), Numero: 1, Estado: "PENDIENTE"}, nil)

		w := perform(newTestRouter(NewOrdenCompraHandler(svc)), http.MethodPost, "/ordenes-compra", map[string]any{
			"proveedorId": proveedorID,
			"fecha":       "2026-03-10",
			"items":       []map[string]any{{"productoId": productoID, "cantidad": "3"}},
		}, tenantHeader(tenantID))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "PENDIENTE", decodeResponse(t, w).Data.(map[string]any)["estado"])
		svc.AssertExpectations(t)
	})

	t.Run("needs at least one item", func(t *testing.T) {
		svc := new(MockPurchaseOrderService)

		w := perform(newTestRouter(NewOrdenCompraHandler(svc)), http.MethodPost, "/ordenes-compra", map[string]any{
			"proveedorId": proveedorID,
			"fecha":       "2026-03-10",
			"items":       []map[string]any{},
		}, tenantHeader(tenantID))

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "items", resp.Error.Details[0].Field)
		assert.Equal(t, "Must contain at least 1 items", resp.Error.Details[0].Message)
	})

	t.Run("inactive supplier", func(t *testing.T) {
		svc := new(MockPurchaseOrderService)
		svc.On("Create", mock.Anything, tenantID, mock.Anything).
			Return(nil, shared.NewInvalidStateError("proveedor is inactive"))

		w := perform(newTestRouter(NewOrdenCompraHandler(svc)), http.MethodPost, "/ordenes-compra", map[string]any{
			"proveedorId": proveedorID,
			"fecha":       "2026-03-10",
			"items":       []map[string]any{{"productoId": productoID, "cantidad": "1"}},
		}, tenantHeader(tenantID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATE", decodeResponse(t, w).Error.Code)
	})
}

func TestOrdenCompraHandler_Cancel(t *testing.T) {
	tenantID := uuid.New()
	id := uuid.New()
	path := "/ordenes-compra/" + id.String() + "/anular"

	t.Run("without body", func(t *testing.T) {
		svc := new(MockPurchaseOrderService)
		svc.On("Cancel", mock.Anything, tenantID, id, "").Return(&purchasingapp.OrderResponse{ID: id, Estado: "ANULADA"}, nil)

		w := perform(newTestRouter(NewOrdenCompraHandler(svc)), http.MethodPost, path, nil, tenantHeader(tenantID))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("with reason", func(t *testing.T) {
		svc := new(MockPurchaseOrderService)
		svc.On("Cancel", mock.Anything, tenantID, id, "sin stock").Return(&purchasingapp.OrderResponse{ID: id, Estado: "ANULADA"}, nil)

		w := perform(newTestRouter(NewOrdenCompraHandler(svc)), http.MethodPost, path, map[string]string{"motivo": "sin stock"}, tenantHeader(tenantID))

		require.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("already cancelled", func(t *testing.T) {
		svc := new(MockPurchaseOrderService)
		svc.On("Cancel", mock.Anything, tenantID, id, "").Return(nil, shared.NewInvalidStateError("order already cancelled"))

		w := perform(newTestRouter(NewOrdenCompraHandler(svc)), http.MethodPost, path, nil, tenantHeader(tenantID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrdenCompraHandler_ListFilter(t *testing.T) {
	tenantID := uuid.New()
	proveedorID := uuid.New()
	svc := new(MockPurchaseOrderService)
	page := shared.NewPaginated([]purchasingapp.OrderResponse{{ID: uuid.New()}}, 1, 1, 20)
	svc.On("List", mock.Anything, tenantID, purchasingapp.OrderListFilter{
		ProveedorID: proveedorID.String(),
		Estado:      "PENDIENTE",
	}).Return(&page, nil)

	w := perform(newTestRouter(NewOrdenCompraHandler(svc)), http.MethodGet,
		"/ordenes-compra?proveedorId="+proveedorID.String()+"&estado=PENDIENTE", nil, tenantHeader(tenantID))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeResponse(t, w).Data, 1)
	svc.AssertExpectations(t)
}
