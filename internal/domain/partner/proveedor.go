package partner

import (
	"regexp"
	"strings"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var rucPattern = regexp.MustCompile(`^[0-9]{1,8}-[0-9]$`)

var razonSocialCaser = cases.Upper(language.Spanish)

// Proveedor is a supplier. It is referenced by purchase orders and by
// journal lines posted against its account.
type Proveedor struct {
	shared.TenantAggregateRoot
	shared.Activable
	RUC            string `gorm:"column:ruc;type:varchar(20);not null" json:"ruc"`
	RazonSocial    string `gorm:"type:varchar(200);not null" json:"razonSocial"`
	NombreFantasia string `gorm:"type:varchar(200)" json:"nombreFantasia,omitempty"`
	Telefono       string `gorm:"type:varchar(50)" json:"telefono,omitempty"`
	Email          string `gorm:"type:varchar(200)" json:"email,omitempty"`
	Direccion      string `gorm:"type:text" json:"direccion,omitempty"`
}

// TableName returns the table name for GORM
func (Proveedor) TableName() string {
	return "proveedores"
}

// NewProveedorParams holds the fields used to register a supplier
type NewProveedorParams struct {
	RUC            string
	RazonSocial    string
	NombreFantasia string
	Telefono       string
	Email          string
	Direccion      string
}

// NewProveedor creates an active supplier. RUC is "base-dv" and razón social
// is stored upper-cased.
func NewProveedor(tenantID uuid.UUID, p NewProveedorParams) (*Proveedor, error) {
	ruc := strings.TrimSpace(p.RUC)
	if !rucPattern.MatchString(ruc) {
		return nil, shared.NewValidationError("ruc must look like 80012345-6")
	}
	razon := strings.Join(strings.Fields(p.RazonSocial), " ")
	if razon == "" {
		return nil, shared.NewValidationError("razonSocial is required")
	}
	if len(razon) > 200 {
		return nil, shared.NewValidationError("razonSocial cannot exceed 200 characters")
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email != "" && !strings.Contains(email, "@") {
		return nil, shared.NewValidationError("email is not valid")
	}

	return &Proveedor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activable:           shared.NewActivable(),
		RUC:                 ruc,
		RazonSocial:         razonSocialCaser.String(razon),
		NombreFantasia:      strings.TrimSpace(p.NombreFantasia),
		Telefono:            strings.TrimSpace(p.Telefono),
		Email:               email,
		Direccion:           strings.TrimSpace(p.Direccion),
	}, nil
}
