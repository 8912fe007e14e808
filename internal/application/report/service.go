package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ObjectStorage receives exported report files
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// DefaultDownloadExpiry is how long a presigned export link stays valid
const DefaultDownloadExpiry = 15 * time.Minute

var reportLocale = language.MustParse("es-PY")

// Service builds accounting and tax reports
type Service struct {
	asientoRepo    accounting.AsientoRepository
	facturaRepo    invoicing.FacturaRepository
	storage        ObjectStorage
	downloadExpiry time.Duration
	logger         *zap.Logger
}

// NewService creates a new report Service. storage may be nil, in which case
// exports are rejected.
func NewService(
	asientoRepo accounting.AsientoRepository,
	facturaRepo invoicing.FacturaRepository,
	storage ObjectStorage,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		asientoRepo:    asientoRepo,
		facturaRepo:    facturaRepo,
		storage:        storage,
		downloadExpiry: DefaultDownloadExpiry,
		logger:         logger,
	}
}

// SetDownloadExpiry overrides the presigned URL lifetime
func (s *Service) SetDownloadExpiry(d time.Duration) {
	if d > 0 {
		s.downloadExpiry = d
	}
}

// TrialBalance returns Σdebe, Σhaber and the natural-side balance of every
// account with movements between desde and hasta.
func (s *Service) TrialBalance(ctx context.Context, tenantID uuid.UUID, req PeriodRequest) (*TrialBalanceResponse, error) {
	desde, hasta, err := parsePeriod(req)
	if err != nil {
		return nil, err
	}

	saldos, err := s.asientoRepo.SaldosPorCuenta(ctx, tenantID, desde, hasta)
	if err != nil {
		return nil, err
	}

	p := message.NewPrinter(reportLocale)
	resp := &TrialBalanceResponse{
		Desde:              desde.Format(shared.DateLayout),
		Hasta:              hasta.Format(shared.DateLayout),
		Filas:              make([]TrialBalanceRow, 0, len(saldos)),
		TotalDebe:          decimal.Zero,
		TotalHaber:         decimal.Zero,
		TotalSaldoDeudor:   decimal.Zero,
		TotalSaldoAcreedor: decimal.Zero,
	}
	for _, sc := range saldos {
		row := TrialBalanceRow{
			CuentaID:      sc.CuentaID.String(),
			Codigo:        sc.Codigo,
			Nombre:        sc.Nombre,
			Naturaleza:    string(sc.Naturaleza),
			Debe:          sc.Debe,
			Haber:         sc.Haber,
			Saldo:         sc.Saldo(),
			SaldoDeudor:   decimal.Zero,
			SaldoAcreedor: decimal.Zero,
			DebeTexto:     formatMonto(p, sc.Debe),
			HaberTexto:    formatMonto(p, sc.Haber),
			SaldoTexto:    formatMonto(p, sc.Saldo()),
		}
		if diff := sc.Debe.Sub(sc.Haber); diff.IsPositive() {
			row.SaldoDeudor = diff
		} else {
			row.SaldoAcreedor = diff.Neg()
		}
		resp.TotalDebe = resp.TotalDebe.Add(sc.Debe)
		resp.TotalHaber = resp.TotalHaber.Add(sc.Haber)
		resp.TotalSaldoDeudor = resp.TotalSaldoDeudor.Add(row.SaldoDeudor)
		resp.TotalSaldoAcreedor = resp.TotalSaldoAcreedor.Add(row.SaldoAcreedor)
		resp.Filas = append(resp.Filas, row)
	}
	resp.TotalDebeTexto = formatMonto(p, resp.TotalDebe)
	resp.TotalHaberTexto = formatMonto(p, resp.TotalHaber)
	resp.Cuadra = resp.TotalDebe.Equal(resp.TotalHaber) && resp.TotalSaldoDeudor.Equal(resp.TotalSaldoAcreedor)

	return resp, nil
}

// LibroIvaVentas lists the invoices issued in the period. Voided invoices keep
// their line with every amount set to zero.
func (s *Service) LibroIvaVentas(ctx context.Context, tenantID uuid.UUID, req PeriodRequest) (*LibroIvaResponse, error) {
	desde, hasta, err := parsePeriod(req)
	if err != nil {
		return nil, err
	}

	facturas, err := s.facturaRepo.FindForPeriod(ctx, tenantID, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &LibroIvaResponse{
		Desde: desde.Format(shared.DateLayout),
		Hasta: hasta.Format(shared.DateLayout),
		Filas: make([]LibroIvaRow, 0, len(facturas)),
		Totales: LibroIvaTotales{
			Gravada10: decimal.Zero,
			Iva10:     decimal.Zero,
			Gravada5:  decimal.Zero,
			Iva5:      decimal.Zero,
			Exentas:   decimal.Zero,
			Total:     decimal.Zero,
		},
	}
	for i := range facturas {
		row := libroIvaRow(&facturas[i])
		if facturas[i].IsAnulada() {
			resp.Anuladas++
		} else {
			resp.Emitidas++
		}
		t := &resp.Totales
		t.Gravada10 = t.Gravada10.Add(row.Gravada10)
		t.Iva10 = t.Iva10.Add(row.Iva10)
		t.Gravada5 = t.Gravada5.Add(row.Gravada5)
		t.Iva5 = t.Iva5.Add(row.Iva5)
		t.Exentas = t.Exentas.Add(row.Exentas)
		t.Total = t.Total.Add(row.Total)
		resp.Filas = append(resp.Filas, row)
	}
	return resp, nil
}

// ExportLibroIvaVentas renders the Libro IVA Ventas as CSV, uploads it and
// returns a presigned download link.
func (s *Service) ExportLibroIvaVentas(ctx context.Context, tenantID uuid.UUID, req PeriodRequest) (*ExportResponse, error) {
	if s.storage == nil {
		return nil, shared.NewInvalidStateError("report export storage is not configured")
	}

	libro, err := s.LibroIvaVentas(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	data, err := libroIvaCSV(libro)
	if err != nil {
		return nil, fmt.Errorf("render libro iva csv: %w", err)
	}

	key := fmt.Sprintf("reportes/%s/libro-iva-ventas-%s-%s.csv", tenantID, libro.Desde, libro.Hasta)
	if err := s.storage.Upload(ctx, key, data, "text/csv"); err != nil {
		return nil, fmt.Errorf("upload libro iva csv: %w", err)
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.downloadExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign libro iva csv: %w", err)
	}

	s.logger.Info("libro iva ventas exported",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key", key),
		zap.Int("rows", len(libro.Filas)),
	)

	return &ExportResponse{
		Key:       key,
		URL:       url,
		ExpiresAt: expiresAt,
		Filas:     len(libro.Filas),
	}, nil
}

var libroIvaHeader = []string{
	"fecha", "numero", "ruc", "cliente", "estado",
	"gravada_10", "iva_10", "gravada_5", "iva_5", "exentas", "total",
}

func libroIvaCSV(libro *LibroIvaResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(libroIvaHeader); err != nil {
		return nil, err
	}
	for _, r := range libro.Filas {
		record := []string{
			r.Fecha, r.NumeroCompleto, r.ClienteRUC, r.ClienteNombre, r.Estado,
			r.Gravada10.StringFixed(0), r.Iva10.StringFixed(0),
			r.Gravada5.StringFixed(0), r.Iva5.StringFixed(0),
			r.Exentas.StringFixed(0), r.Total.StringFixed(0),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	t := libro.Totales
	if err := w.Write([]string{
		"", "TOTALES", "", "", "",
		t.Gravada10.StringFixed(0), t.Iva10.StringFixed(0),
		t.Gravada5.StringFixed(0), t.Iva5.StringFixed(0),
		t.Exentas.StringFixed(0), t.Total.StringFixed(0),
	}); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

var (
	ten    = decimal.NewFromInt(10)
	twenty = decimal.NewFromInt(20)
)

// libroIvaRow derives the taxable bases from the tax amounts: IVA 10% is
// one eleventh of the gross price, so the net base is iva10*10 (iva5*20 for 5%).
func libroIvaRow(f *invoicing.FacturaEmitida) LibroIvaRow {
	row := LibroIvaRow{
		Fecha:          f.FechaEmision.Format(shared.DateLayout),
		NumeroCompleto: f.NumeroCompleto,
		ClienteRUC:     f.ClienteRUC,
		ClienteNombre:  f.ClienteNombre,
		Estado:         string(f.Estado),
		Gravada10:      decimal.Zero,
		Iva10:          decimal.Zero,
		Gravada5:       decimal.Zero,
		Iva5:           decimal.Zero,
		Exentas:        decimal.Zero,
		Total:          decimal.Zero,
	}
	if f.IsAnulada() {
		return row
	}
	row.Iva10 = f.Iva10
	row.Gravada10 = f.Iva10.Mul(ten)
	row.Iva5 = f.Iva5
	row.Gravada5 = f.Iva5.Mul(twenty)
	row.Exentas = f.Exentas
	row.Total = f.Total
	return row
}

func parsePeriod(req PeriodRequest) (time.Time, time.Time, error) {
	desde, err := shared.ParseDate("desde", req.Desde)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	hasta, err := shared.ParseDate("hasta", req.Hasta)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if hasta.Before(desde) {
		return time.Time{}, time.Time{}, shared.NewValidationError("hasta cannot be before desde")
	}
	return desde, hasta, nil
}

// formatMonto renders an amount with es-PY digit grouping. Guaraní amounts
// have no minor unit, so whole values print without decimals.
func formatMonto(p *message.Printer, d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return p.Sprintf("%d", d.IntPart())
	}
	f, _ := d.Round(2).Float64()
	return p.Sprintf("%.2f", f)
}
