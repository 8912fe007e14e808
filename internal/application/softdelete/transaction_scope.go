package softdelete

import (
	"context"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/partner"
	"github.com/erp/contable/internal/domain/purchasing"
	"github.com/erp/contable/internal/domain/shared"
)

// TransactionScope provides transactional access to the repositories the
// guard inspects.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction.
type TransactionalRepositories interface {
	CuentaRepo() accounting.CuentaRepository
	CentroCostoRepo() accounting.CentroCostoRepository
	AsientoRepo() accounting.AsientoRepository
	ProveedorRepo() partner.ProveedorRepository
	ProductoRepo() catalog.ProductoRepository
	OrdenCompraRepo() purchasing.OrdenCompraRepository
	SaveEvents(ctx context.Context, events ...shared.DomainEvent) error
}
