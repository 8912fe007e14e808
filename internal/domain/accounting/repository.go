package accounting

import (
	"context"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// CuentaFilter defines filtering options for chart-of-accounts queries
type CuentaFilter struct {
	shared.Filter
	Tipo             *TipoCuenta
	Nivel            *int
	Activo           *bool
	AceptaMovimiento *bool
	CuentaPadreID    *uuid.UUID
	CentroCostoID    *uuid.UUID
}

// CuentaRepository defines the interface for account persistence.
// Finders return (nil, nil) when no row matches.
type CuentaRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Cuenta, error)
	FindByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (*Cuenta, error)
	ExistsByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (bool, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CuentaFilter) ([]Cuenta, int64, error)
	// FindAllOrdered returns every account of the tenant ordered by codigo.
	FindAllOrdered(ctx context.Context, tenantID uuid.UUID) ([]Cuenta, error)
	CountActiveChildren(ctx context.Context, tenantID, cuentaID uuid.UUID) (int64, error)
	CountActiveByCentroCosto(ctx context.Context, tenantID, centroCostoID uuid.UUID) (int64, error)
	Create(ctx context.Context, c *Cuenta) error
	Save(ctx context.Context, c *Cuenta) error
}

// CentroCostoFilter defines filtering options for cost center queries
type CentroCostoFilter struct {
	shared.Filter
	Activo *bool
}

// CentroCostoRepository defines the interface for cost center persistence
type CentroCostoRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CentroCosto, error)
	ExistsByCodigo(ctx context.Context, tenantID uuid.UUID, codigo string) (bool, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CentroCostoFilter) ([]CentroCosto, int64, error)
	Create(ctx context.Context, cc *CentroCosto) error
	Save(ctx context.Context, cc *CentroCosto) error
}

// AsientoFilter defines filtering options for journal entry queries
type AsientoFilter struct {
	shared.Filter
	Desde    *time.Time
	Hasta    *time.Time
	CuentaID *uuid.UUID
}

// AsientoRepository defines the interface for journal entry persistence
type AsientoRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AsientoContable, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AsientoFilter) ([]AsientoContable, int64, error)

	Create(ctx context.Context, a *AsientoContable) error

	CountLinesByCuenta(ctx context.Context, tenantID, cuentaID uuid.UUID) (int64, error)
	CountLinesByCentroCosto(ctx context.Context, tenantID, centroCostoID uuid.UUID) (int64, error)
	CountLinesByProveedor(ctx context.Context, tenantID, proveedorID uuid.UUID) (int64, error)

	// SaldosPorCuenta aggregates debe/haber per account for entries dated
	// between desde and hasta inclusive.
	SaldosPorCuenta(ctx context.Context, tenantID uuid.UUID, desde, hasta time.Time) ([]SaldoCuenta, error)
}
