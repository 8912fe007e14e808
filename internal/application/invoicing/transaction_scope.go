package invoicing

import (
	"context"

	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
)

// TransactionScope provides transactional access to invoicing repositories.
// Everything done through the repositories handed to fn is committed or
// rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction.
//
//   - TalonarioRepo: the talonario aggregate, including the row-locking finder
//     used by allocation.
//   - FacturaRepo: issued invoices.
//   - SaveEvents: writes domain events to the outbox in the same transaction.
type TransactionalRepositories interface {
	TalonarioRepo() invoicing.TalonarioRepository
	FacturaRepo() invoicing.FacturaRepository
	SaveEvents(ctx context.Context, events ...shared.DomainEvent) error
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for testing; saved events are kept in memory.
type NoOpTransactionScope struct {
	talonarioRepo invoicing.TalonarioRepository
	facturaRepo   invoicing.FacturaRepository
	events        []shared.DomainEvent
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(talonarioRepo invoicing.TalonarioRepository, facturaRepo invoicing.FacturaRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{talonarioRepo: talonarioRepo, facturaRepo: facturaRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// TalonarioRepo returns the talonario repository.
func (s *NoOpTransactionScope) TalonarioRepo() invoicing.TalonarioRepository {
	return s.talonarioRepo
}

// FacturaRepo returns the invoice repository.
func (s *NoOpTransactionScope) FacturaRepo() invoicing.FacturaRepository {
	return s.facturaRepo
}

// SaveEvents keeps the events in memory.
func (s *NoOpTransactionScope) SaveEvents(_ context.Context, events ...shared.DomainEvent) error {
	s.events = append(s.events, events...)
	return nil
}

// Events returns the events saved so far.
func (s *NoOpTransactionScope) Events() []shared.DomainEvent {
	return s.events
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
