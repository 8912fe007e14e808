package handler

import (
	"net/http"
	"testing"
	"time"

	reportapp "github.com/erp/contable/internal/application/report"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReporteHandler_TrialBalance(t *testing.T) {
	tenantID := uuid.New()
	period := reportapp.PeriodRequest{Desde: "2026-01-01", Hasta: "2026-01-31"}
	svc := new(MockReportService)
	svc.On("TrialBalance", mock.Anything, tenantID, period).Return(&reportapp.TrialBalanceResponse{
		Desde:      period.Desde,
		Hasta:      period.Hasta,
		TotalDebe:  decimal.NewFromInt(500000),
		TotalHaber: decimal.NewFromInt(500000),
	}, nil)

	w := perform(newTestRouter(NewReporteHandler(svc)), http.MethodGet,
		"/reportes/balance-sumas-saldos?desde=2026-01-01&hasta=2026-01-31", nil, tenantHeader(tenantID))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "500000", data["totalDebe"])
	svc.AssertExpectations(t)
}

func TestReporteHandler_PeriodRequired(t *testing.T) {
	svc := new(MockReportService)

	w := perform(newTestRouter(NewReporteHandler(svc)), http.MethodGet,
		"/reportes/balance-sumas-saldos?desde=2026-01-01", nil, tenantHeader(uuid.New()))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "hasta", resp.Error.Details[0].Field)
}

func TestReporteHandler_LibroIvaVentas(t *testing.T) {
	tenantID := uuid.New()
	period := reportapp.PeriodRequest{Desde: "2026-02-01", Hasta: "2026-02-28"}
	base := "/reportes/libro-iva-ventas?desde=2026-02-01&hasta=2026-02-28"

	t.Run("json by default", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("LibroIvaVentas", mock.Anything, tenantID, period).
			Return(&reportapp.LibroIvaResponse{Desde: period.Desde, Hasta: period.Hasta, Emitidas: 4, Anuladas: 1}, nil)

		w := perform(newTestRouter(NewReporteHandler(svc)), http.MethodGet, base, nil, tenantHeader(tenantID))

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.EqualValues(t, 4, data["emitidas"])
		assert.EqualValues(t, 1, data["anuladas"])
		svc.AssertNotCalled(t, "ExportLibroIvaVentas", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("csv goes through export", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("ExportLibroIvaVentas", mock.Anything, tenantID, period).Return(&reportapp.ExportResponse{
			Key:       "libro-iva/x.csv",
			URL:       "https://storage.example/libro-iva/x.csv",
			ExpiresAt: time.Now().Add(15 * time.Minute),
			Filas:     5,
		}, nil)

		w := perform(newTestRouter(NewReporteHandler(svc)), http.MethodGet, base+"&format=csv", nil, tenantHeader(tenantID))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "libro-iva/x.csv", data["key"])
		assert.EqualValues(t, 5, data["filas"])
		svc.AssertNotCalled(t, "LibroIvaVentas", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("csv without storage", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("ExportLibroIvaVentas", mock.Anything, tenantID, period).
			Return(nil, shared.NewInvalidStateError("report storage is not configured"))

		w := perform(newTestRouter(NewReporteHandler(svc)), http.MethodGet, base+"&format=csv", nil, tenantHeader(tenantID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATE", decodeResponse(t, w).Error.Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		svc := new(MockReportService)

		w := perform(newTestRouter(NewReporteHandler(svc)), http.MethodGet, base+"&format=xlsx", nil, tenantHeader(tenantID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
