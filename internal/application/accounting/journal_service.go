package accounting

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/accounting"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JournalService posts and queries double-entry journal entries
type JournalService struct {
	scope       TransactionScope
	asientoRepo accounting.AsientoRepository
	logger      *zap.Logger
}

// NewJournalService creates a new JournalService
func NewJournalService(scope TransactionScope, asientoRepo accounting.AsientoRepository, logger *zap.Logger) *JournalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalService{
		scope:       scope,
		asientoRepo: asientoRepo,
		logger:      logger,
	}
}

// PostEntry validates and records a balanced journal entry.
//
// Every line must reference a postable account of any type; cost centers and
// suppliers on a line must be active. The entry is numbered from the
// per-tenant sequence within the same transaction.
func (s *JournalService) PostEntry(ctx context.Context, tenantID uuid.UUID, in PostEntryInput) (*EntryResponse, error) {
	fecha, err := shared.ParseDate("fecha", in.Fecha)
	if err != nil {
		return nil, err
	}
	lineas := make([]accounting.NuevaLinea, len(in.Lineas))
	for i, l := range in.Lineas {
		lineas[i] = accounting.NuevaLinea{
			CuentaID:      l.CuentaID,
			CentroCostoID: l.CentroCostoID,
			ProveedorID:   l.ProveedorID,
			Debe:          l.Debe,
			Haber:         l.Haber,
			Descripcion:   l.Descripcion,
		}
	}
	asiento, err := accounting.NewAsientoContable(tenantID, fecha, in.Concepto, lineas)
	if err != nil {
		return nil, err
	}
	if in.CreatedBy != nil {
		asiento.SetCreatedBy(*in.CreatedBy)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, l := range asiento.Lineas {
			if err := checkLineReferences(ctx, repos, tenantID, l); err != nil {
				return fmt.Errorf("line %d: %w", l.Orden, err)
			}
		}

		numero, err := repos.SequenceRepo().Next(ctx, tenantID, shared.SequenceAsiento)
		if err != nil {
			return err
		}
		asiento.AsignarNumero(numero)

		if err := repos.AsientoRepo().Create(ctx, asiento); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, asiento.PullEvents()...); err != nil {
			return fmt.Errorf("failed to save accounting events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry posted",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("numero", asiento.Numero),
		zap.String("total", asiento.TotalDebe.StringFixed(2)),
	)

	resp := ToEntryResponse(asiento)
	return &resp, nil
}

func checkLineReferences(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, l accounting.LineaAsiento) error {
	if _, err := validateAccountReference(ctx, repos.CuentaRepo(), tenantID, l.CuentaID, ""); err != nil {
		return err
	}
	if l.CentroCostoID != nil {
		cc, err := repos.CentroCostoRepo().FindByIDForTenant(ctx, tenantID, *l.CentroCostoID)
		if err != nil {
			return err
		}
		if cc == nil {
			return shared.NewNotFoundError("CentroCosto")
		}
		if !cc.IsActive() {
			return shared.NewInvalidStateError("cost center is inactive")
		}
	}
	if l.ProveedorID != nil {
		p, err := repos.ProveedorRepo().FindByIDForTenant(ctx, tenantID, *l.ProveedorID)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.NewNotFoundError("Proveedor")
		}
		if !p.IsActive() {
			return shared.NewInvalidStateError("supplier is inactive")
		}
	}
	return nil
}

// GetEntry retrieves a journal entry with its lines
func (s *JournalService) GetEntry(ctx context.Context, tenantID, id uuid.UUID) (*EntryResponse, error) {
	asiento, err := s.asientoRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if asiento == nil {
		return nil, shared.NewNotFoundError("Asiento")
	}
	resp := ToEntryResponse(asiento)
	return &resp, nil
}

// ListEntries lists journal entries with filtering and pagination
func (s *JournalService) ListEntries(ctx context.Context, tenantID uuid.UUID, q EntryListFilter) (*shared.Paginated[EntryResponse], error) {
	filter := accounting.AsientoFilter{
		Filter: shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: "numero"},
	}
	filter.Normalize()

	var err error
	if filter.Desde, err = shared.ParseOptionalDate("desde", q.Desde); err != nil {
		return nil, err
	}
	if filter.Hasta, err = shared.ParseOptionalDate("hasta", q.Hasta); err != nil {
		return nil, err
	}
	if q.CuentaID != "" {
		id, err := uuid.Parse(q.CuentaID)
		if err != nil {
			return nil, shared.NewValidationError("cuentaId must be a UUID")
		}
		filter.CuentaID = &id
	}

	asientos, total, err := s.asientoRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return shared.PageOf(asientos, total, filter.Filter, ToEntryResponse), nil
}
