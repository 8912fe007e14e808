package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodRequest is the date range shared by every report
type PeriodRequest struct {
	Desde string `form:"desde" binding:"required"`
	Hasta string `form:"hasta" binding:"required"`
}

// TrialBalanceRow is one account line of the balance de sumas y saldos
type TrialBalanceRow struct {
	CuentaID      string          `json:"cuentaId"`
	Codigo        string          `json:"codigo"`
	Nombre        string          `json:"nombre"`
	Naturaleza    string          `json:"naturaleza"`
	Debe          decimal.Decimal `json:"debe"`
	Haber         decimal.Decimal `json:"haber"`
	Saldo         decimal.Decimal `json:"saldo"`
	SaldoDeudor   decimal.Decimal `json:"saldoDeudor"`
	SaldoAcreedor decimal.Decimal `json:"saldoAcreedor"`
	DebeTexto     string          `json:"debeTexto"`
	HaberTexto    string          `json:"haberTexto"`
	SaldoTexto    string          `json:"saldoTexto"`
}

// TrialBalanceResponse is the balance de sumas y saldos for a period
type TrialBalanceResponse struct {
	Desde              string            `json:"desde"`
	Hasta              string            `json:"hasta"`
	Filas              []TrialBalanceRow `json:"filas"`
	TotalDebe          decimal.Decimal   `json:"totalDebe"`
	TotalHaber         decimal.Decimal   `json:"totalHaber"`
	TotalSaldoDeudor   decimal.Decimal   `json:"totalSaldoDeudor"`
	TotalSaldoAcreedor decimal.Decimal   `json:"totalSaldoAcreedor"`
	TotalDebeTexto     string            `json:"totalDebeTexto"`
	TotalHaberTexto    string            `json:"totalHaberTexto"`
	Cuadra             bool              `json:"cuadra"`
}

// LibroIvaRow is one invoice line of the Libro IVA Ventas
type LibroIvaRow struct {
	Fecha          string          `json:"fecha"`
	NumeroCompleto string          `json:"numeroCompleto"`
	ClienteRUC     string          `json:"clienteRuc"`
	ClienteNombre  string          `json:"clienteNombre"`
	Estado         string          `json:"estado"`
	Gravada10      decimal.Decimal `json:"gravada10"`
	Iva10          decimal.Decimal `json:"iva10"`
	Gravada5       decimal.Decimal `json:"gravada5"`
	Iva5           decimal.Decimal `json:"iva5"`
	Exentas        decimal.Decimal `json:"exentas"`
	Total          decimal.Decimal `json:"total"`
}

// LibroIvaTotales sums the amount columns
type LibroIvaTotales struct {
	Gravada10 decimal.Decimal `json:"gravada10"`
	Iva10     decimal.Decimal `json:"iva10"`
	Gravada5  decimal.Decimal `json:"gravada5"`
	Iva5      decimal.Decimal `json:"iva5"`
	Exentas   decimal.Decimal `json:"exentas"`
	Total     decimal.Decimal `json:"total"`
}

// LibroIvaResponse is the Libro IVA Ventas for a period
type LibroIvaResponse struct {
	Desde    string          `json:"desde"`
	Hasta    string          `json:"hasta"`
	Filas    []LibroIvaRow   `json:"filas"`
	Totales  LibroIvaTotales `json:"totales"`
	Emitidas int             `json:"emitidas"`
	Anuladas int             `json:"anuladas"`
}

// ExportResponse points to an uploaded report file
type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Filas     int       `json:"filas"`
}
