package accounting

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountService manages the chart of accounts and validates account
// references made by other records.
type AccountService struct {
	cuentaRepo      accounting.CuentaRepository
	centroCostoRepo accounting.CentroCostoRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(cuentaRepo accounting.CuentaRepository, centroCostoRepo accounting.CentroCostoRepository) *AccountService {
	return &AccountService{
		cuentaRepo:      cuentaRepo,
		centroCostoRepo: centroCostoRepo,
	}
}

// ValidateAccountReference checks that the account can receive postings.
// Failures, in order: NotFound, InvalidState "inactive", "group account, not
// postable", "not a detail-level account", "wrong account type". An empty
// expected type skips the type check.
func (s *AccountService) ValidateAccountReference(ctx context.Context, tenantID, accountID uuid.UUID, expected accounting.TipoCuenta) (*accounting.Cuenta, error) {
	return validateAccountReference(ctx, s.cuentaRepo, tenantID, accountID, expected)
}

func validateAccountReference(ctx context.Context, repo accounting.CuentaRepository, tenantID, accountID uuid.UUID, expected accounting.TipoCuenta) (*accounting.Cuenta, error) {
	if expected != "" && !expected.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown tipo %q", expected))
	}
	cuenta, err := repo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if cuenta == nil {
		return nil, shared.NewNotFoundError("Cuenta")
	}
	if err := cuenta.CheckReferenceable(expected); err != nil {
		return nil, err
	}
	return cuenta, nil
}

// CreateAccount adds an account to the tenant's chart.
// The codigo must be unused; a parent must exist, be active and sit at a
// lower level; a cost center must exist and be active.
func (s *AccountService) CreateAccount(ctx context.Context, tenantID uuid.UUID, in CreateAccountInput) (*AccountResponse, error) {
	exists, err := s.cuentaRepo.ExistsByCodigo(ctx, tenantID, in.Codigo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewAlreadyExistsError("Cuenta", in.Codigo)
	}

	var padre *accounting.Cuenta
	if in.CuentaPadreID != nil {
		padre, err = s.cuentaRepo.FindByIDForTenant(ctx, tenantID, *in.CuentaPadreID)
		if err != nil {
			return nil, err
		}
		if padre == nil {
			return nil, shared.NewNotFoundError("Parent account")
		}
	}

	if in.CentroCostoID != nil {
		cc, err := s.centroCostoRepo.FindByIDForTenant(ctx, tenantID, *in.CentroCostoID)
		if err != nil {
			return nil, err
		}
		if cc == nil {
			return nil, shared.NewNotFoundError("CentroCosto")
		}
		if !cc.IsActive() {
			return nil, shared.NewInvalidStateError("cost center is inactive")
		}
	}

	cuenta, err := accounting.NewCuenta(tenantID, accounting.NewCuentaParams{
		Codigo:           in.Codigo,
		Nombre:           in.Nombre,
		Nivel:            in.Nivel,
		Tipo:             accounting.TipoCuenta(in.Tipo),
		Naturaleza:       accounting.Naturaleza(in.Naturaleza),
		AceptaMovimiento: in.AceptaMovimiento,
		CentroCostoID:    in.CentroCostoID,
	}, padre)
	if err != nil {
		return nil, err
	}
	if in.CreatedBy != nil {
		cuenta.SetCreatedBy(*in.CreatedBy)
	}

	if err := s.cuentaRepo.Create(ctx, cuenta); err != nil {
		return nil, err
	}
	resp := ToAccountResponse(cuenta)
	return &resp, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	cuenta, err := s.cuentaRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if cuenta == nil {
		return nil, shared.NewNotFoundError("Cuenta")
	}
	resp := ToAccountResponse(cuenta)
	return &resp, nil
}

// List lists accounts with filtering and pagination
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, q AccountListFilter) (*shared.Paginated[AccountResponse], error) {
	filter := accounting.CuentaFilter{
		Filter:           shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: "codigo", OrderDir: "asc", Search: q.Search},
		Nivel:            q.Nivel,
		Activo:           q.Activo,
		AceptaMovimiento: q.AceptaMovimiento,
	}
	filter.Normalize()
	if q.Tipo != "" {
		tipo := accounting.TipoCuenta(q.Tipo)
		if !tipo.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("unknown tipo %q", q.Tipo))
		}
		filter.Tipo = &tipo
	}
	if q.CuentaPadreID != "" {
		id, err := uuid.Parse(q.CuentaPadreID)
		if err != nil {
			return nil, shared.NewValidationError("cuentaPadreId must be a UUID")
		}
		filter.CuentaPadreID = &id
	}

	cuentas, total, err := s.cuentaRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return shared.PageOf(cuentas, total, filter.Filter, ToAccountResponse), nil
}

// Tree returns the whole chart as a forest, children ordered by codigo.
// Accounts whose parent is missing are returned as roots.
func (s *AccountService) Tree(ctx context.Context, tenantID uuid.UUID) ([]*AccountNode, error) {
	cuentas, err := s.cuentaRepo.FindAllOrdered(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[uuid.UUID]*AccountNode, len(cuentas))
	for i := range cuentas {
		nodes[cuentas[i].ID] = &AccountNode{AccountResponse: ToAccountResponse(&cuentas[i])}
	}

	roots := make([]*AccountNode, 0)
	for i := range cuentas {
		node := nodes[cuentas[i].ID]
		if pid := cuentas[i].CuentaPadreID; pid != nil {
			if parent, ok := nodes[*pid]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}
