package invoicing

import (
	"fmt"
	"regexp"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// TipoComprobante is the fiscal document type a talonario authorizes.
type TipoComprobante string

const (
	TipoFactura     TipoComprobante = "FACTURA"
	TipoNotaCredito TipoComprobante = "NOTA_CREDITO"
	TipoNotaDebito  TipoComprobante = "NOTA_DEBITO"
)

// IsValid returns true if the type is known
func (t TipoComprobante) IsValid() bool {
	switch t {
	case TipoFactura, TipoNotaCredito, TipoNotaDebito:
		return true
	}
	return false
}

// NumeroDigits is the zero-padded width of the sequential part of numeroCompleto.
const NumeroDigits = 7

// MaxNumero is the largest number representable with NumeroDigits digits.
const MaxNumero int64 = 9999999

var codigoSucursalPattern = regexp.MustCompile(`^[0-9]{3}$`)

// Talonario is a pre-authorized block of sequential document numbers for an
// establecimiento / punto de venta pair.
//
// Invariants: NumeroInicial <= SiguienteNumero <= NumeroFinal+1 and
// Agotado == (SiguienteNumero > NumeroFinal). SiguienteNumero only grows.
type Talonario struct {
	shared.TenantAggregateRoot
	shared.Activable
	Timbrado           string          `gorm:"type:varchar(20)" json:"timbrado,omitempty"`
	Establecimiento    string          `gorm:"type:varchar(3);not null" json:"establecimiento"`
	PuntoVenta         string          `gorm:"type:varchar(3);not null" json:"puntoVenta"`
	TipoComprobante    TipoComprobante `gorm:"type:varchar(20);not null" json:"tipoComprobante"`
	NumeroInicial      int64           `gorm:"not null" json:"numeroInicial"`
	NumeroFinal        int64           `gorm:"not null" json:"numeroFinal"`
	SiguienteNumero    int64           `gorm:"not null" json:"siguienteNumero"`
	FechaVigenciaDesde time.Time       `gorm:"type:date;not null" json:"fechaVigenciaDesde"`
	FechaVigenciaHasta time.Time       `gorm:"type:date;not null" json:"fechaVigenciaHasta"`
	Agotado            bool            `gorm:"not null;default:false" json:"agotado"`
}

// TableName returns the table name for GORM
func (Talonario) TableName() string {
	return "talonarios"
}

// NewTalonarioParams holds the fields required to register a talonario
type NewTalonarioParams struct {
	Timbrado           string
	Establecimiento    string
	PuntoVenta         string
	TipoComprobante    TipoComprobante
	NumeroInicial      int64
	NumeroFinal        int64
	FechaVigenciaDesde time.Time
	FechaVigenciaHasta time.Time
}

// NewTalonario creates an active, unused talonario
func NewTalonario(tenantID uuid.UUID, p NewTalonarioParams) (*Talonario, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("tenant ID is required")
	}
	if !codigoSucursalPattern.MatchString(p.Establecimiento) {
		return nil, shared.NewValidationError("establecimiento must be a 3-digit code")
	}
	if !codigoSucursalPattern.MatchString(p.PuntoVenta) {
		return nil, shared.NewValidationError("puntoVenta must be a 3-digit code")
	}
	if !p.TipoComprobante.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown tipoComprobante %q", p.TipoComprobante))
	}
	if p.NumeroInicial < 1 {
		return nil, shared.NewValidationError("numeroInicial must be at least 1")
	}
	if p.NumeroFinal < p.NumeroInicial {
		return nil, shared.NewValidationError("numeroFinal cannot be lower than numeroInicial")
	}
	if p.NumeroFinal > MaxNumero {
		return nil, shared.NewValidationError(fmt.Sprintf("numeroFinal cannot exceed %d", MaxNumero))
	}
	if p.FechaVigenciaDesde.IsZero() || p.FechaVigenciaHasta.IsZero() {
		return nil, shared.NewValidationError("validity window dates are required")
	}
	desde, hasta := DateOnly(p.FechaVigenciaDesde), DateOnly(p.FechaVigenciaHasta)
	if hasta.Before(desde) {
		return nil, shared.NewValidationError("fechaVigenciaHasta cannot be before fechaVigenciaDesde")
	}

	t := &Talonario{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activable:           shared.NewActivable(),
		Timbrado:            p.Timbrado,
		Establecimiento:     p.Establecimiento,
		PuntoVenta:          p.PuntoVenta,
		TipoComprobante:     p.TipoComprobante,
		NumeroInicial:       p.NumeroInicial,
		NumeroFinal:         p.NumeroFinal,
		SiguienteNumero:     p.NumeroInicial,
		FechaVigenciaDesde:  desde,
		FechaVigenciaHasta:  hasta,
	}
	return t, nil
}

// Vigente reports whether issueDate falls inside the validity window,
// compared at day granularity with both ends inclusive.
func (t *Talonario) Vigente(issueDate time.Time) bool {
	d := DateOnly(issueDate)
	return !d.Before(DateOnly(t.FechaVigenciaDesde)) && !d.After(DateOnly(t.FechaVigenciaHasta))
}

// CheckAllocatable runs the allocation preconditions in order: inactive,
// exhausted, out of validity window.
func (t *Talonario) CheckAllocatable(issueDate time.Time) error {
	if !t.Activo {
		return shared.NewInvalidStateError("inactive")
	}
	if t.Agotado {
		return shared.NewInvalidStateError("exhausted")
	}
	if !t.Vigente(issueDate) {
		return shared.NewInvalidStateError("out of validity window")
	}
	return nil
}

// Allocate consumes the next number. The caller must hold the row lock for
// the talonario until the surrounding transaction commits.
func (t *Talonario) Allocate(issueDate time.Time) (int64, error) {
	if err := t.CheckAllocatable(issueDate); err != nil {
		return 0, err
	}
	n := t.SiguienteNumero
	t.SiguienteNumero = n + 1
	t.Agotado = t.SiguienteNumero > t.NumeroFinal
	t.MarkChanged()

	if t.Agotado {
		t.Raise(NewTalonarioAgotadoEvent(t, n))
	}
	return n, nil
}

// Emitir allocates the next number and builds the invoice that carries it.
func (t *Talonario) Emitir(issueDate time.Time, datos DatosFactura) (*FacturaEmitida, error) {
	if err := datos.Validate(); err != nil {
		return nil, err
	}
	n, err := t.Allocate(issueDate)
	if err != nil {
		return nil, err
	}
	return newFacturaEmitida(t, n, issueDate, datos), nil
}

// FormatNumeroCompleto renders EEE-PPP-NNNNNNN for number n.
func (t *Talonario) FormatNumeroCompleto(n int64) string {
	return FormatNumeroCompleto(t.Establecimiento, t.PuntoVenta, n)
}

// Disponibles returns how many numbers remain
func (t *Talonario) Disponibles() int64 {
	if t.Agotado || t.SiguienteNumero > t.NumeroFinal {
		return 0
	}
	return t.NumeroFinal - t.SiguienteNumero + 1
}

// Usados returns how many numbers were consumed, voided invoices included.
func (t *Talonario) Usados() int64 {
	return t.SiguienteNumero - t.NumeroInicial
}

// Desactivar deactivates the talonario; no further numbers are allocated.
func (t *Talonario) Desactivar() error {
	if err := t.Deactivate(); err != nil {
		return err
	}
	t.MarkChanged()
	return nil
}

// FormatNumeroCompleto renders establecimiento-puntoVenta-number with the
// number left-padded to seven digits.
func FormatNumeroCompleto(establecimiento, puntoVenta string, n int64) string {
	return fmt.Sprintf("%s-%s-%0*d", establecimiento, puntoVenta, NumeroDigits, n)
}

// DateOnly truncates t to its calendar date in t's own location, expressed in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
