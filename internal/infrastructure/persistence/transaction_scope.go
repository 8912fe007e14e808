package persistence

import (
	"context"

	appacc "github.com/erp/contable/internal/application/accounting"
	appinv "github.com/erp/contable/internal/application/invoicing"
	apppur "github.com/erp/contable/internal/application/purchasing"
	"github.com/erp/contable/internal/application/softdelete"
	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/domain/shared"
	"gorm.io/gorm"
)

// EventSaver writes domain events through the transaction handle it is given
type EventSaver interface {
	SaveEvents(ctx context.Context, txProvider any, events ...shared.DomainEvent) error
}

// GormTransactionScope runs a unit of work inside one database transaction.
// It provides atomic execution of repository writes and outbox inserts.
type GormTransactionScope struct {
	db     *gorm.DB
	events EventSaver
}

// NewGormTransactionScope creates a new GormTransactionScope. events may be
// nil when nothing in the unit of work raises domain events.
func NewGormTransactionScope(db *gorm.DB, events EventSaver) *GormTransactionScope {
	return &GormTransactionScope{db: db, events: events}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, events: s.events})
	})
}

// Invoicing returns the scope used by numbering and talonario services
func (s *GormTransactionScope) Invoicing() appinv.TransactionScope {
	return invoicingScope{s}
}

// Accounting returns the scope used by account and journal services
func (s *GormTransactionScope) Accounting() appacc.TransactionScope {
	return accountingScope{s}
}

// Purchasing returns the scope used by the purchase order service
func (s *GormTransactionScope) Purchasing() apppur.TransactionScope {
	return purchasingScope{s}
}

// SoftDelete returns the scope used by the deactivation guard
func (s *GormTransactionScope) SoftDelete() softdelete.TransactionScope {
	return softDeleteScope{s}
}

type invoicingScope struct{ s *GormTransactionScope }

func (sc invoicingScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return sc.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type accountingScope struct{ s *GormTransactionScope }

func (sc accountingScope) Execute(ctx context.Context, fn func(repos appacc.TransactionalRepositories) error) error {
	return sc.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type purchasingScope struct{ s *GormTransactionScope }

func (sc purchasingScope) Execute(ctx context.Context, fn func(repos apppur.TransactionalRepositories) error) error {
	return sc.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type softDeleteScope struct{ s *GormTransactionScope }

func (sc softDeleteScope) Execute(ctx context.Context, fn func(repos softdelete.TransactionalRepositories) error) error {
	return sc.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// gormTransactionalRepositories hands out repositories bound to the current transaction
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	events EventSaver
}

func (r *gormTransactionalRepositories) TalonarioRepo() invoicing.TalonarioRepository {
	return NewGormTalonarioRepository(r.tx)
}

func (r *gormTransactionalRepositories) FacturaRepo() invoicing.FacturaRepository {
	return NewGormFacturaRepository(r.tx)
}

func (r *gormTransactionalRepositories) CuentaRepo() accounting.CuentaRepository {
	return NewGormCuentaRepository(r.tx)
}

func (r *gormTransactionalRepositories) CentroCostoRepo() accounting.CentroCostoRepository {
	return NewGormCentroCostoRepository(r.tx)
}

func (r *gormTransactionalRepositories) AsientoRepo() accounting.AsientoRepository {
	return NewGormAsientoRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProveedorRepo() partner.ProveedorRepository {
	return NewGormProveedorRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductoRepo() catalog.ProductoRepository {
	return NewGormProductoRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrdenCompraRepo() purchasing.OrdenCompraRepository {
	return NewGormOrdenCompraRepository(r.tx)
}

func (r *gormTransactionalRepositories) SequenceRepo() shared.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

// SaveEvents writes events to the outbox inside the current transaction
func (r *gormTransactionalRepositories) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if r.events == nil || len(events) == 0 {
		return nil
	}
	return r.events.SaveEvents(ctx, r.tx, events...)
}

var (
	_ appinv.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ appacc.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ apppur.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ softdelete.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
