package purchasing

import (
	"context"

	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/domain/shared"
)

// TransactionScope provides transactional access to purchasing repositories.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction.
type TransactionalRepositories interface {
	OrdenCompraRepo() purchasing.OrdenCompraRepository
	SequenceRepo() shared.SequenceRepository
}
