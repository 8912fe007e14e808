package accounting

import (
	"context"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/shared"
)

// TransactionScope provides transactional access to accounting repositories.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction.
// SequenceRepo locks the per-tenant counter row until commit.
type TransactionalRepositories interface {
	CuentaRepo() accounting.CuentaRepository
	CentroCostoRepo() accounting.CentroCostoRepository
	AsientoRepo() accounting.AsientoRepository
	ProveedorRepo() partner.ProveedorRepository
	SequenceRepo() shared.SequenceRepository
	SaveEvents(ctx context.Context, events ...shared.DomainEvent) error
}
