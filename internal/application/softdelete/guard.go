package softdelete

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind names a soft-deletable entity type
type Kind string

const (
	KindCentroCosto Kind = "centro_costo"
	KindCuenta      Kind = "cuenta"
	KindProveedor   Kind = "proveedor"
	KindProducto    Kind = "producto"
)

// IsValid returns true if the kind is handled by the guard
func (k Kind) IsValid() bool {
	switch k {
	case KindCentroCosto, KindCuenta, KindProveedor, KindProducto:
		return true
	}
	return false
}

// DeactivationResult reports the entity state after a successful deactivation
type DeactivationResult struct {
	Kind             Kind       `json:"kind"`
	ID               uuid.UUID  `json:"id"`
	Activo           bool       `json:"activo"`
	FechaDesactivado *time.Time `json:"fechaDesactivado,omitempty"`
}

// reference is a count of records that still point at the entity
type reference struct {
	what  string
	count int64
}

// target is a loaded entity together with the means to persist it
type target struct {
	entity        shared.Deactivatable
	aggregateType string
	fecha         func() *time.Time
	references    func() ([]reference, error)
	save          func() error
}

// Guard soft-deletes master data. An entity is only deactivated when
// nothing references it; rows are never removed and there is no
// reactivation.
type Guard struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewGuard creates a new soft-delete Guard
func NewGuard(scope TransactionScope, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{scope: scope, logger: logger}
}

// Deactivate flips activo to false for the entity of the given kind.
//
// Failures: ValidationError for an unknown kind; NotFound; InvalidState
// "already inactive"; InvalidState when active children or movements still
// reference the entity. Nothing but the activo flag changes.
func (g *Guard) Deactivate(ctx context.Context, kind Kind, tenantID, id uuid.UUID) (*DeactivationResult, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown kind %q", kind))
	}

	var result *DeactivationResult
	err := g.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := load(ctx, repos, kind, tenantID, id)
		if err != nil {
			return err
		}
		if !t.entity.IsActive() {
			return shared.NewInvalidStateError("already inactive")
		}

		refs, err := t.references()
		if err != nil {
			return err
		}
		var blocking []string
		for _, r := range refs {
			if r.count > 0 {
				blocking = append(blocking, fmt.Sprintf("%d %s", r.count, r.what))
			}
		}
		if len(blocking) > 0 {
			return shared.NewInvalidStateError(fmt.Sprintf("%s is still referenced by %s", kind, strings.Join(blocking, ", ")))
		}

		if err := t.entity.Deactivate(); err != nil {
			return err
		}
		if err := t.save(); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, shared.NewDeactivatedEvent(string(kind), t.aggregateType, id, tenantID)); err != nil {
			return fmt.Errorf("failed to save deactivation event: %w", err)
		}

		result = &DeactivationResult{
			Kind:             kind,
			ID:               id,
			Activo:           t.entity.IsActive(),
			FechaDesactivado: t.fecha(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("entity deactivated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("kind", string(kind)),
		zap.String("id", id.String()),
	)
	return result, nil
}

func load(ctx context.Context, repos TransactionalRepositories, kind Kind, tenantID, id uuid.UUID) (*target, error) {
	switch kind {
	case KindCentroCosto:
		cc, err := repos.CentroCostoRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if cc == nil {
			return nil, shared.NewNotFoundError("CentroCosto")
		}
		return &target{
			entity:        cc,
			aggregateType: "CentroCosto",
			fecha:         func() *time.Time { return cc.FechaDesactivado },
			references: func() ([]reference, error) {
				accounts, err := repos.CuentaRepo().CountActiveByCentroCosto(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				lines, err := repos.AsientoRepo().CountLinesByCentroCosto(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				return []reference{{"active accounts", accounts}, {"journal lines", lines}}, nil
			},
			save: func() error { return repos.CentroCostoRepo().Save(ctx, cc) },
		}, nil

	case KindCuenta:
		c, err := repos.CuentaRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, shared.NewNotFoundError("Cuenta")
		}
		return &target{
			entity:        c,
			aggregateType: "Cuenta",
			fecha:         func() *time.Time { return c.FechaDesactivado },
			references: func() ([]reference, error) {
				children, err := repos.CuentaRepo().CountActiveChildren(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				lines, err := repos.AsientoRepo().CountLinesByCuenta(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				products, err := repos.ProductoRepo().CountActiveByCuentaVentas(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				return []reference{{"active child accounts", children}, {"journal lines", lines}, {"active products", products}}, nil
			},
			save: func() error { return repos.CuentaRepo().Save(ctx, c) },
		}, nil

	case KindProveedor:
		p, err := repos.ProveedorRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, shared.NewNotFoundError("Proveedor")
		}
		return &target{
			entity:        p,
			aggregateType: "Proveedor",
			fecha:         func() *time.Time { return p.FechaDesactivado },
			references: func() ([]reference, error) {
				orders, err := repos.OrdenCompraRepo().CountByProveedor(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				lines, err := repos.AsientoRepo().CountLinesByProveedor(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				return []reference{{"purchase orders", orders}, {"journal lines", lines}}, nil
			},
			save: func() error { return repos.ProveedorRepo().Save(ctx, p) },
		}, nil

	default:
		p, err := repos.ProductoRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, shared.NewNotFoundError("Producto")
		}
		return &target{
			entity:        p,
			aggregateType: "Producto",
			fecha:         func() *time.Time { return p.FechaDesactivado },
			references: func() ([]reference, error) {
				items, err := repos.OrdenCompraRepo().CountItemsByProducto(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				return []reference{{"purchase order items", items}}, nil
			},
			save: func() error { return repos.ProductoRepo().Save(ctx, p) },
		}, nil
	}
}
