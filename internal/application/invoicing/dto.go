package invoicing

import (
	"time"

	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Talonario DTOs
// =============================================================================

// CreateTalonarioRequest represents a request to register a talonario
type CreateTalonarioRequest struct {
	Timbrado           string `json:"timbrado" binding:"omitempty,max=20"`
	Establecimiento    string `json:"establecimiento" binding:"required,len=3,numeric"`
	PuntoVenta         string `json:"puntoVenta" binding:"required,len=3,numeric"`
	TipoComprobante    string `json:"tipoComprobante" binding:"required,oneof=FACTURA NOTA_CREDITO NOTA_DEBITO"`
	NumeroInicial      int64  `json:"numeroInicial" binding:"required,min=1"`
	NumeroFinal        int64  `json:"numeroFinal" binding:"required,min=1"`
	FechaVigenciaDesde string `json:"fechaVigenciaDesde" binding:"required"`
	FechaVigenciaHasta string `json:"fechaVigenciaHasta" binding:"required"`
}

// TalonarioResponse represents a talonario in API responses
type TalonarioResponse struct {
	ID                 uuid.UUID `json:"id"`
	TenantID           uuid.UUID `json:"tenantId"`
	Timbrado           string    `json:"timbrado,omitempty"`
	Establecimiento    string    `json:"establecimiento"`
	PuntoVenta         string    `json:"puntoVenta"`
	TipoComprobante    string    `json:"tipoComprobante"`
	NumeroInicial      int64     `json:"numeroInicial"`
	NumeroFinal        int64     `json:"numeroFinal"`
	SiguienteNumero    int64     `json:"siguienteNumero"`
	FechaVigenciaDesde string    `json:"fechaVigenciaDesde"`
	FechaVigenciaHasta string    `json:"fechaVigenciaHasta"`
	Activo             bool      `json:"activo"`
	Agotado            bool      `json:"agotado"`
	Disponibles        int64     `json:"disponibles"`
	Usados             int64     `json:"usados"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TalonarioListFilter represents query parameters for listing talonarios
type TalonarioListFilter struct {
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Activo          *bool  `form:"activo"`
	Agotado         *bool  `form:"agotado"`
	TipoComprobante string `form:"tipoComprobante" binding:"omitempty,oneof=FACTURA NOTA_CREDITO NOTA_DEBITO"`
	VigenteEn       string `form:"vigenteEn"`
}

// ToTalonarioResponse converts a domain Talonario to a response DTO
func ToTalonarioResponse(t *invoicing.Talonario) TalonarioResponse {
	return TalonarioResponse{
		ID:                 t.ID,
		TenantID:           t.TenantID,
		Timbrado:           t.Timbrado,
		Establecimiento:    t.Establecimiento,
		PuntoVenta:         t.PuntoVenta,
		TipoComprobante:    string(t.TipoComprobante),
		NumeroInicial:      t.NumeroInicial,
		NumeroFinal:        t.NumeroFinal,
		SiguienteNumero:    t.SiguienteNumero,
		FechaVigenciaDesde: t.FechaVigenciaDesde.Format(shared.DateLayout),
		FechaVigenciaHasta: t.FechaVigenciaHasta.Format(shared.DateLayout),
		Activo:             t.Activo,
		Agotado:            t.Agotado,
		Disponibles:        t.Disponibles(),
		Usados:             t.Usados(),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// AllocateInvoiceInput represents a request to issue an invoice from a talonario.
// FechaEmision defaults to today.
type AllocateInvoiceInput struct {
	TalonarioID    uuid.UUID       `json:"talonarioId" binding:"required"`
	FechaEmision   string          `json:"fechaEmision"`
	ClienteRUC     string          `json:"clienteRuc" binding:"omitempty,max=20,ruc"`
	ClienteNombre  string          `json:"clienteNombre" binding:"required,max=200"`
	CondicionVenta string          `json:"condicionVenta" binding:"omitempty,oneof=CONTADO CREDITO"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Iva10          decimal.Decimal `json:"iva10"`
	Iva5           decimal.Decimal `json:"iva5"`
	Exentas        decimal.Decimal `json:"exentas"`
	Total          decimal.Decimal `json:"total"`
	IdempotencyKey string          `json:"-"` // Idempotency-Key header
	CreatedBy      *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// VoidInvoiceRequest represents a request to void an invoice
type VoidInvoiceRequest struct {
	Motivo string `json:"motivo" binding:"required,max=500"`
}

// FacturaResponse represents an issued invoice in API responses
type FacturaResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenantId"`
	TalonarioID     uuid.UUID       `json:"talonarioId"`
	NumeroFactura   int64           `json:"numeroFactura"`
	NumeroCompleto  string          `json:"numeroCompleto"`
	FechaEmision    string          `json:"fechaEmision"`
	ClienteRUC      string          `json:"clienteRuc,omitempty"`
	ClienteNombre   string          `json:"clienteNombre"`
	CondicionVenta  string          `json:"condicionVenta"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Iva10           decimal.Decimal `json:"iva10"`
	Iva5            decimal.Decimal `json:"iva5"`
	Exentas         decimal.Decimal `json:"exentas"`
	Total           decimal.Decimal `json:"total"`
	Estado          string          `json:"estado"`
	FechaAnulacion  *time.Time      `json:"fechaAnulacion,omitempty"`
	MotivoAnulacion string          `json:"motivoAnulacion,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// FacturaListFilter represents query parameters for listing invoices
type FacturaListFilter struct {
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	TalonarioID string `form:"talonarioId" binding:"omitempty,uuid"`
	Estado      string `form:"estado" binding:"omitempty,oneof=EMITIDA ANULADA"`
	Desde       string `form:"desde"`
	Hasta       string `form:"hasta"`
	ClienteRUC  string `form:"clienteRuc"`
}

// ToFacturaResponse converts a domain FacturaEmitida to a response DTO
func ToFacturaResponse(f *invoicing.FacturaEmitida) FacturaResponse {
	return FacturaResponse{
		ID:              f.ID,
		TenantID:        f.TenantID,
		TalonarioID:     f.TalonarioID,
		NumeroFactura:   f.NumeroFactura,
		NumeroCompleto:  f.NumeroCompleto,
		FechaEmision:    f.FechaEmision.Format(shared.DateLayout),
		ClienteRUC:      f.ClienteRUC,
		ClienteNombre:   f.ClienteNombre,
		CondicionVenta:  string(f.CondicionVenta),
		Subtotal:        f.Subtotal,
		Iva10:           f.Iva10,
		Iva5:            f.Iva5,
		Exentas:         f.Exentas,
		Total:           f.Total,
		Estado:          string(f.Estado),
		FechaAnulacion:  f.FechaAnulacion,
		MotivoAnulacion: f.MotivoAnulacion,
		CreatedAt:       f.CreatedAt,
	}
}

func (in AllocateInvoiceInput) datos() invoicing.DatosFactura {
	return invoicing.DatosFactura{
		ClienteRUC:     in.ClienteRUC,
		ClienteNombre:  in.ClienteNombre,
		CondicionVenta: invoicing.CondicionVenta(in.CondicionVenta),
		Montos: invoicing.Montos{
			Subtotal: in.Subtotal,
			Iva10:    in.Iva10,
			Iva5:     in.Iva5,
			Exentas:  in.Exentas,
			Total:    in.Total,
		},
		IdempotencyKey: in.IdempotencyKey,
		CreatedBy:      in.CreatedBy,
	}
}
