package accounting

import (
	"strings"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// CentroCosto is a cost center, a cross-cutting dimension attached to
// accounts and journal lines.
type CentroCosto struct {
	shared.TenantAggregateRoot
	shared.Activable
	Codigo      string `gorm:"type:varchar(30);not null" json:"codigo"`
	Nombre      string `gorm:"type:varchar(200);not null" json:"nombre"`
	Descripcion string `gorm:"type:text" json:"descripcion,omitempty"`
}

// TableName returns the table name for GORM
func (CentroCosto) TableName() string {
	return "centros_costo"
}

// NewCentroCosto creates an active cost center
func NewCentroCosto(tenantID uuid.UUID, codigo, nombre, descripcion string) (*CentroCosto, error) {
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	if codigo == "" {
		return nil, shared.NewValidationError("codigo is required")
	}
	if len(codigo) > 30 {
		return nil, shared.NewValidationError("codigo cannot exceed 30 characters")
	}
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, shared.NewValidationError("nombre is required")
	}
	return &CentroCosto{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activable:           shared.NewActivable(),
		Codigo:              codigo,
		Nombre:              nombre,
		Descripcion:         strings.TrimSpace(descripcion),
	}, nil
}
