package invoicing

import (
	"context"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// TalonarioFilter defines filtering options for talonario queries
type TalonarioFilter struct {
	shared.Filter
	Activo          *bool
	Agotado         *bool
	TipoComprobante *TipoComprobante
	VigenteEn       *time.Time // validity window contains this date
}

// TalonarioRepository defines the interface for talonario persistence.
// Finders return (nil, nil) when no row matches.
type TalonarioRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Talonario, error)

	// FindByIDForUpdate loads the talonario holding a row lock until the
	// surrounding transaction ends. Only meaningful inside a transaction.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Talonario, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TalonarioFilter) ([]Talonario, int64, error)

	// ExistsBlock reports whether a talonario with the same establecimiento,
	// punto de venta, type and starting number is registered.
	ExistsBlock(ctx context.Context, tenantID uuid.UUID, establecimiento, puntoVenta string, tipo TipoComprobante, numeroInicial int64) (bool, error)

	Create(ctx context.Context, t *Talonario) error

	// Save persists the mutable fields: sequence, flags and version.
	Save(ctx context.Context, t *Talonario) error
}

// FacturaFilter defines filtering options for invoice queries
type FacturaFilter struct {
	shared.Filter
	TalonarioID *uuid.UUID
	Estado      *EstadoFactura
	Desde       *time.Time
	Hasta       *time.Time
	ClienteRUC  string
}

// FacturaRepository defines the interface for issued invoice persistence.
// Finders return (nil, nil) when no row matches.
type FacturaRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FacturaEmitida, error)
	FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*FacturaEmitida, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter FacturaFilter) ([]FacturaEmitida, int64, error)

	// FindForPeriod returns every invoice issued between desde and hasta
	// (inclusive) ordered by talonario and number.
	FindForPeriod(ctx context.Context, tenantID uuid.UUID, desde, hasta time.Time) ([]FacturaEmitida, error)

	// NumbersForTalonario returns the allocated numbers of a talonario in ascending order.
	NumbersForTalonario(ctx context.Context, tenantID, talonarioID uuid.UUID) ([]int64, error)

	Create(ctx context.Context, f *FacturaEmitida) error
	Save(ctx context.Context, f *FacturaEmitida) error
}
