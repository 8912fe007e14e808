package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NumberingService issues invoices from talonarios and voids them.
//
// Allocation is the only writer of Talonario.SiguienteNumero. It locks the
// talonario row, consumes one number and inserts the invoice in the same
// transaction, so concurrent callers never observe the same number and a
// failed insert leaves the sequence untouched.
type NumberingService struct {
	scope          TransactionScope
	talonarioRepo  invoicing.TalonarioRepository
	facturaRepo    invoicing.FacturaRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewNumberingService creates a new NumberingService
func NewNumberingService(
	scope TransactionScope,
	talonarioRepo invoicing.TalonarioRepository,
	facturaRepo invoicing.FacturaRepository,
	logger *zap.Logger,
) *NumberingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NumberingService{
		scope:         scope,
		talonarioRepo: talonarioRepo,
		facturaRepo:   facturaRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// SetIdempotencyStore enables Idempotency-Key handling backed by store.
func (s *NumberingService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	s.idempotencyTTL = ttl
}

// AllocateInvoiceNumber consumes the next number of the talonario and
// creates the invoice carrying it.
//
// Failures, checked in order: NotFound when the talonario does not exist for
// the tenant; InvalidState "inactive", "exhausted" or "out of validity window".
// Invalid invoice data fails with a ValidationError before any lock is taken.
func (s *NumberingService) AllocateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, in AllocateInvoiceInput) (*FacturaResponse, error) {
	issueDate := invoicing.DateOnly(s.now())
	if in.FechaEmision != "" {
		d, err := shared.ParseDate("fechaEmision", in.FechaEmision)
		if err != nil {
			return nil, err
		}
		issueDate = d
	}
	datos := in.datos()
	if err := datos.Validate(); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		existing, err := s.findIdempotent(ctx, tenantID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		claimed, release, err := s.claimKey(ctx, tenantID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if claimed {
			defer release()
		}
	}

	var factura *invoicing.FacturaEmitida
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		talonario, err := repos.TalonarioRepo().FindByIDForUpdate(ctx, tenantID, in.TalonarioID)
		if err != nil {
			return err
		}
		if talonario == nil {
			return shared.NewNotFoundError("Talonario")
		}

		factura, err = talonario.Emitir(issueDate, datos)
		if err != nil {
			return err
		}
		if err := repos.FacturaRepo().Create(ctx, factura); err != nil {
			return err
		}
		if err := repos.TalonarioRepo().Save(ctx, talonario); err != nil {
			return err
		}

		events := append(factura.PullEvents(), talonario.PullEvents()...)
		if err := repos.SaveEvents(ctx, events...); err != nil {
			return fmt.Errorf("failed to save invoicing events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice number allocated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("talonario_id", in.TalonarioID.String()),
		zap.String("numero_completo", factura.NumeroCompleto),
	)

	if in.IdempotencyKey != "" {
		s.rememberResult(ctx, tenantID, in.IdempotencyKey, factura.ID)
	}

	resp := ToFacturaResponse(factura)
	return &resp, nil
}

// VoidInvoice marks an issued invoice as ANULADA. The talonario sequence is
// not touched; the number stays consumed.
func (s *NumberingService) VoidInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, motivo string) (*FacturaResponse, error) {
	var factura *invoicing.FacturaEmitida
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		factura, err = repos.FacturaRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if factura == nil {
			return shared.NewNotFoundError("Factura")
		}
		if err := factura.Anular(motivo); err != nil {
			return err
		}
		if err := repos.FacturaRepo().Save(ctx, factura); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, factura.PullEvents()...); err != nil {
			return fmt.Errorf("failed to save invoicing events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice voided",
		zap.String("tenant_id", tenantID.String()),
		zap.String("numero_completo", factura.NumeroCompleto),
	)

	resp := ToFacturaResponse(factura)
	return &resp, nil
}

// GetInvoice retrieves an invoice by ID
func (s *NumberingService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*FacturaResponse, error) {
	factura, err := s.facturaRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if factura == nil {
		return nil, shared.NewNotFoundError("Factura")
	}
	resp := ToFacturaResponse(factura)
	return &resp, nil
}

// ListInvoices lists invoices with filtering and pagination
func (s *NumberingService) ListInvoices(ctx context.Context, tenantID uuid.UUID, q FacturaListFilter) (*shared.Paginated[FacturaResponse], error) {
	filter := invoicing.FacturaFilter{
		Filter:     shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: "fecha_emision"},
		ClienteRUC: q.ClienteRUC,
	}
	filter.Normalize()

	if q.TalonarioID != "" {
		id, err := uuid.Parse(q.TalonarioID)
		if err != nil {
			return nil, shared.NewValidationError("talonarioId must be a UUID")
		}
		filter.TalonarioID = &id
	}
	if q.Estado != "" {
		estado := invoicing.EstadoFactura(q.Estado)
		if !estado.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("unknown estado %q", q.Estado))
		}
		filter.Estado = &estado
	}
	var err error
	if filter.Desde, err = shared.ParseOptionalDate("desde", q.Desde); err != nil {
		return nil, err
	}
	if filter.Hasta, err = shared.ParseOptionalDate("hasta", q.Hasta); err != nil {
		return nil, err
	}

	facturas, total, err := s.facturaRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return shared.PageOf(facturas, total, filter.Filter, ToFacturaResponse), nil
}

func idempotencyKey(tenantID uuid.UUID, key string) string {
	return shared.IdempotencyKey(shared.IdempotencyScopeFactura, tenantID.String(), key)
}

// findIdempotent returns the invoice previously issued for key, consulting the
// cache first and the invoice table second.
func (s *NumberingService) findIdempotent(ctx context.Context, tenantID uuid.UUID, key string) (*FacturaResponse, error) {
	if s.idempotency != nil {
		value, ok, err := s.idempotency.GetResult(ctx, idempotencyKey(tenantID, key))
		if err != nil {
			s.logger.Warn("idempotency store lookup failed", zap.Error(err))
		} else if ok {
			if id, perr := uuid.Parse(value); perr == nil {
				factura, err := s.facturaRepo.FindByIDForTenant(ctx, tenantID, id)
				if err != nil {
					return nil, err
				}
				if factura != nil {
					resp := ToFacturaResponse(factura)
					return &resp, nil
				}
			}
		}
	}

	factura, err := s.facturaRepo.FindByIdempotencyKey(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}
	if factura == nil {
		return nil, nil
	}
	resp := ToFacturaResponse(factura)
	return &resp, nil
}

// claimKey records key as in flight. A concurrent request holding the same
// key fails with AlreadyExists. The returned release func frees the claim
// unless a result was stored.
func (s *NumberingService) claimKey(ctx context.Context, tenantID uuid.UUID, key string) (bool, func(), error) {
	if s.idempotency == nil {
		return false, nil, nil
	}
	scoped := idempotencyKey(tenantID, key)
	claimed, err := s.idempotency.MarkProcessed(ctx, scoped, s.idempotencyTTL)
	if err != nil {
		s.logger.Warn("idempotency store claim failed", zap.Error(err))
		return false, nil, nil
	}
	if !claimed {
		return false, nil, shared.NewDomainError(shared.CodeAlreadyExists, "a request with this Idempotency-Key is in progress")
	}
	release := func() {
		if _, ok, _ := s.idempotency.GetResult(ctx, scoped); ok {
			return
		}
		if err := s.idempotency.Release(context.WithoutCancel(ctx), scoped); err != nil {
			s.logger.Warn("idempotency key release failed", zap.Error(err))
		}
	}
	return true, release, nil
}

func (s *NumberingService) rememberResult(ctx context.Context, tenantID uuid.UUID, key string, facturaID uuid.UUID) {
	if s.idempotency == nil {
		return
	}
	if err := s.idempotency.SetResult(ctx, idempotencyKey(tenantID, key), facturaID.String(), s.idempotencyTTL); err != nil {
		s.logger.Warn("idempotency result not stored", zap.Error(err))
	}
}
