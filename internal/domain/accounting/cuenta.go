package accounting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// TipoCuenta classifies a ledger account
type TipoCuenta string

const (
	TipoActivo     TipoCuenta = "ACTIVO"
	TipoPasivo     TipoCuenta = "PASIVO"
	TipoPatrimonio TipoCuenta = "PATRIMONIO"
	TipoIngreso    TipoCuenta = "INGRESO"
	TipoEgreso     TipoCuenta = "EGRESO"
	TipoGasto      TipoCuenta = "GASTO"
)

// IsValid returns true if the type is known
func (t TipoCuenta) IsValid() bool {
	switch t {
	case TipoActivo, TipoPasivo, TipoPatrimonio, TipoIngreso, TipoEgreso, TipoGasto:
		return true
	}
	return false
}

// Naturaleza is the side on which an account's balance normally sits
type Naturaleza string

const (
	NaturalezaDeudora   Naturaleza = "DEUDORA"
	NaturalezaAcreedora Naturaleza = "ACREEDORA"
)

// IsValid returns true if the nature is known
func (n Naturaleza) IsValid() bool {
	return n == NaturalezaDeudora || n == NaturalezaAcreedora
}

// NaturalezaPorDefecto derives the nature from the account type:
// ACTIVO, EGRESO and GASTO are debit accounts, everything else credit.
func NaturalezaPorDefecto(tipo TipoCuenta) Naturaleza {
	switch tipo {
	case TipoActivo, TipoEgreso, TipoGasto:
		return NaturalezaDeudora
	default:
		return NaturalezaAcreedora
	}
}

// NivelMinimoImputable is the shallowest level that can receive postings.
const NivelMinimoImputable = 4

// MaxNivel bounds the depth of the chart of accounts.
const MaxNivel = 9

var codigoCuentaPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// ValidCodigo reports whether codigo is made of digit groups separated by dots.
func ValidCodigo(codigo string) bool {
	return len(codigo) <= 30 && codigoCuentaPattern.MatchString(codigo)
}

// Cuenta is a node of a tenant's chart of accounts (plan de cuentas).
// Only active detail accounts (AceptaMovimiento, Nivel >= 4) can be referenced
// by postable records.
type Cuenta struct {
	shared.TenantAggregateRoot
	shared.Activable
	Codigo           string     `gorm:"type:varchar(30);not null" json:"codigo"`
	Nombre           string     `gorm:"type:varchar(200);not null" json:"nombre"`
	Nivel            int        `gorm:"not null" json:"nivel"`
	Tipo             TipoCuenta `gorm:"type:varchar(20);not null;index" json:"tipo"`
	Naturaleza       Naturaleza `gorm:"type:varchar(10);not null" json:"naturaleza"`
	AceptaMovimiento bool       `gorm:"not null;default:false" json:"aceptaMovimiento"`
	CuentaPadreID    *uuid.UUID `gorm:"type:uuid;index" json:"cuentaPadreId,omitempty"`
	CentroCostoID    *uuid.UUID `gorm:"type:uuid;index" json:"centroCostoId,omitempty"`
}

// TableName returns the table name for GORM
func (Cuenta) TableName() string {
	return "plan_cuentas"
}

// NewCuentaParams holds the fields used to create an account
type NewCuentaParams struct {
	Codigo           string
	Nombre           string
	Nivel            int
	Tipo             TipoCuenta
	Naturaleza       Naturaleza
	AceptaMovimiento bool
	CentroCostoID    *uuid.UUID
}

// NewCuenta creates an account. padre is the already loaded parent, or nil
// for a root account.
func NewCuenta(tenantID uuid.UUID, p NewCuentaParams, padre *Cuenta) (*Cuenta, error) {
	codigo := strings.TrimSpace(p.Codigo)
	if !ValidCodigo(codigo) {
		return nil, shared.NewValidationError("codigo must be digit groups separated by dots")
	}
	nombre := strings.TrimSpace(p.Nombre)
	if nombre == "" {
		return nil, shared.NewValidationError("nombre is required")
	}
	if len(nombre) > 200 {
		return nil, shared.NewValidationError("nombre cannot exceed 200 characters")
	}
	if p.Nivel < 1 || p.Nivel > MaxNivel {
		return nil, shared.NewValidationError(fmt.Sprintf("nivel must be between 1 and %d", MaxNivel))
	}
	if !p.Tipo.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown tipo %q", p.Tipo))
	}
	naturaleza := p.Naturaleza
	if naturaleza == "" {
		naturaleza = NaturalezaPorDefecto(p.Tipo)
	} else if !naturaleza.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown naturaleza %q", p.Naturaleza))
	}

	c := &Cuenta{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activable:           shared.NewActivable(),
		Codigo:              codigo,
		Nombre:              nombre,
		Nivel:               p.Nivel,
		Tipo:                p.Tipo,
		Naturaleza:          naturaleza,
		AceptaMovimiento:    p.AceptaMovimiento,
		CentroCostoID:       p.CentroCostoID,
	}

	if padre != nil {
		if !padre.Activo {
			return nil, shared.NewInvalidStateError("parent account is inactive")
		}
		if c.Nivel <= padre.Nivel {
			return nil, shared.NewInvalidStateError(fmt.Sprintf(
				"nivel %d must be greater than parent nivel %d", c.Nivel, padre.Nivel))
		}
		parentID := padre.ID
		c.CuentaPadreID = &parentID
	}

	return c, nil
}

// CheckReferenceable runs the posting checks in order: inactive, group
// account, level, type. An empty expected type accepts any type.
func (c *Cuenta) CheckReferenceable(expected TipoCuenta) error {
	if !c.Activo {
		return shared.NewInvalidStateError("inactive")
	}
	if !c.AceptaMovimiento {
		return shared.NewInvalidStateError("group account, not postable")
	}
	if c.Nivel < NivelMinimoImputable {
		return shared.NewInvalidStateError("not a detail-level account")
	}
	if expected != "" && c.Tipo != expected {
		return shared.NewInvalidStateError("wrong account type")
	}
	return nil
}

// IsImputable reports whether postings may be made against the account
func (c *Cuenta) IsImputable() bool {
	return c.CheckReferenceable("") == nil
}

// IsRoot returns true if the account has no parent
func (c *Cuenta) IsRoot() bool {
	return c.CuentaPadreID == nil
}
