package accounting

import (
	"time"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Account DTOs
// =============================================================================

// CreateAccountInput represents a request to add an account to the chart
type CreateAccountInput struct {
	Codigo           string     `json:"codigo" binding:"required,max=30,codigo"`
	Nombre           string     `json:"nombre" binding:"required,max=200"`
	Nivel            int        `json:"nivel" binding:"required,min=1,max=9"`
	Tipo             string     `json:"tipo" binding:"required,oneof=ACTIVO PASIVO PATRIMONIO INGRESO EGRESO GASTO"`
	Naturaleza       string     `json:"naturaleza" binding:"omitempty,oneof=DEUDORA ACREEDORA"`
	AceptaMovimiento bool       `json:"aceptaMovimiento"`
	CuentaPadreID    *uuid.UUID `json:"cuentaPadreId"`
	CentroCostoID    *uuid.UUID `json:"centroCostoId"`
	CreatedBy        *uuid.UUID `json:"-"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID               uuid.UUID  `json:"id"`
	TenantID         uuid.UUID  `json:"tenantId"`
	Codigo           string     `json:"codigo"`
	Nombre           string     `json:"nombre"`
	Nivel            int        `json:"nivel"`
	Tipo             string     `json:"tipo"`
	Naturaleza       string     `json:"naturaleza"`
	AceptaMovimiento bool       `json:"aceptaMovimiento"`
	CuentaPadreID    *uuid.UUID `json:"cuentaPadreId,omitempty"`
	CentroCostoID    *uuid.UUID `json:"centroCostoId,omitempty"`
	Activo           bool       `json:"activo"`
	Imputable        bool       `json:"imputable"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// AccountNode is an account with its children, for tree rendering
type AccountNode struct {
	AccountResponse
	Children []*AccountNode `json:"children,omitempty"`
}

// AccountListFilter represents query parameters for listing accounts
type AccountListFilter struct {
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PageSize         int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Search           string `form:"search"`
	Tipo             string `form:"tipo" binding:"omitempty,oneof=ACTIVO PASIVO PATRIMONIO INGRESO EGRESO GASTO"`
	Nivel            *int   `form:"nivel" binding:"omitempty,min=1,max=9"`
	Activo           *bool  `form:"activo"`
	AceptaMovimiento *bool  `form:"aceptaMovimiento"`
	CuentaPadreID    string `form:"cuentaPadreId" binding:"omitempty,uuid"`
}

// ToAccountResponse converts a domain Cuenta to a response DTO
func ToAccountResponse(c *accounting.Cuenta) AccountResponse {
	return AccountResponse{
		ID:               c.ID,
		TenantID:         c.TenantID,
		Codigo:           c.Codigo,
		Nombre:           c.Nombre,
		Nivel:            c.Nivel,
		Tipo:             string(c.Tipo),
		Naturaleza:       string(c.Naturaleza),
		AceptaMovimiento: c.AceptaMovimiento,
		CuentaPadreID:    c.CuentaPadreID,
		CentroCostoID:    c.CentroCostoID,
		Activo:           c.Activo,
		Imputable:        c.IsImputable(),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// =============================================================================
// Cost center DTOs
// =============================================================================

// CreateCostCenterRequest represents a request to create a cost center
type CreateCostCenterRequest struct {
	Codigo      string `json:"codigo" binding:"required,max=30"`
	Nombre      string `json:"nombre" binding:"required,max=200"`
	Descripcion string `json:"descripcion" binding:"max=1000"`
}

// CostCenterResponse represents a cost center in API responses
type CostCenterResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenantId"`
	Codigo      string    `json:"codigo"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion,omitempty"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CostCenterListFilter represents query parameters for listing cost centers
type CostCenterListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Activo   *bool  `form:"activo"`
}

// ToCostCenterResponse converts a domain CentroCosto to a response DTO
func ToCostCenterResponse(cc *accounting.CentroCosto) CostCenterResponse {
	return CostCenterResponse{
		ID:          cc.ID,
		TenantID:    cc.TenantID,
		Codigo:      cc.Codigo,
		Nombre:      cc.Nombre,
		Descripcion: cc.Descripcion,
		Activo:      cc.Activo,
		CreatedAt:   cc.CreatedAt,
	}
}

// =============================================================================
// Journal entry DTOs
// =============================================================================

// PostEntryLine is one line of a journal entry request
type PostEntryLine struct {
	CuentaID      uuid.UUID       `json:"cuentaId" binding:"required"`
	CentroCostoID *uuid.UUID      `json:"centroCostoId"`
	ProveedorID   *uuid.UUID      `json:"proveedorId"`
	Debe          decimal.Decimal `json:"debe"`
	Haber         decimal.Decimal `json:"haber"`
	Descripcion   string          `json:"descripcion" binding:"max=500"`
}

// PostEntryInput represents a request to post a journal entry
type PostEntryInput struct {
	Fecha     string          `json:"fecha" binding:"required"`
	Concepto  string          `json:"concepto" binding:"required,max=500"`
	Lineas    []PostEntryLine `json:"lineas" binding:"required,min=2,dive"`
	CreatedBy *uuid.UUID      `json:"-"`
}

// EntryLineResponse represents a journal line in API responses
type EntryLineResponse struct {
	Orden         int             `json:"orden"`
	CuentaID      uuid.UUID       `json:"cuentaId"`
	CentroCostoID *uuid.UUID      `json:"centroCostoId,omitempty"`
	ProveedorID   *uuid.UUID      `json:"proveedorId,omitempty"`
	Debe          decimal.Decimal `json:"debe"`
	Haber         decimal.Decimal `json:"haber"`
	Descripcion   string          `json:"descripcion,omitempty"`
}

// EntryResponse represents a journal entry in API responses
type EntryResponse struct {
	ID         uuid.UUID           `json:"id"`
	TenantID   uuid.UUID           `json:"tenantId"`
	Numero     int64               `json:"numero"`
	Fecha      string              `json:"fecha"`
	Concepto   string              `json:"concepto"`
	TotalDebe  decimal.Decimal     `json:"totalDebe"`
	TotalHaber decimal.Decimal     `json:"totalHaber"`
	Lineas     []EntryLineResponse `json:"lineas"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// EntryListFilter represents query parameters for listing journal entries
type EntryListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Desde    string `form:"desde"`
	Hasta    string `form:"hasta"`
	CuentaID string `form:"cuentaId" binding:"omitempty,uuid"`
}

// ToEntryResponse converts a domain AsientoContable to a response DTO
func ToEntryResponse(a *accounting.AsientoContable) EntryResponse {
	lineas := make([]EntryLineResponse, len(a.Lineas))
	for i, l := range a.Lineas {
		lineas[i] = EntryLineResponse{
			Orden:         l.Orden,
			CuentaID:      l.CuentaID,
			CentroCostoID: l.CentroCostoID,
			ProveedorID:   l.ProveedorID,
			Debe:          l.Debe,
			Haber:         l.Haber,
			Descripcion:   l.Descripcion,
		}
	}
	return EntryResponse{
		ID:         a.ID,
		TenantID:   a.TenantID,
		Numero:     a.Numero,
		Fecha:      a.Fecha.Format(shared.DateLayout),
		Concepto:   a.Concepto,
		TotalDebe:  a.TotalDebe,
		TotalHaber: a.TotalHaber,
		Lineas:     lineas,
		CreatedAt:  a.CreatedAt,
	}
}
