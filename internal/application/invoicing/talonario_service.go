package invoicing

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// TalonarioService registers and manages talonarios
type TalonarioService struct {
	talonarioRepo invoicing.TalonarioRepository
}

// NewTalonarioService creates a new TalonarioService
func NewTalonarioService(talonarioRepo invoicing.TalonarioRepository) *TalonarioService {
	return &TalonarioService{talonarioRepo: talonarioRepo}
}

// Create registers a new talonario
func (s *TalonarioService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTalonarioRequest) (*TalonarioResponse, error) {
	desde, err := shared.ParseDate("fechaVigenciaDesde", req.FechaVigenciaDesde)
	if err != nil {
		return nil, err
	}
	hasta, err := shared.ParseDate("fechaVigenciaHasta", req.FechaVigenciaHasta)
	if err != nil {
		return nil, err
	}

	talonario, err := invoicing.NewTalonario(tenantID, invoicing.NewTalonarioParams{
		Timbrado:           req.Timbrado,
		Establecimiento:    req.Establecimiento,
		PuntoVenta:         req.PuntoVenta,
		TipoComprobante:    invoicing.TipoComprobante(req.TipoComprobante),
		NumeroInicial:      req.NumeroInicial,
		NumeroFinal:        req.NumeroFinal,
		FechaVigenciaDesde: desde,
		FechaVigenciaHasta: hasta,
	})
	if err != nil {
		return nil, err
	}

	exists, err := s.talonarioRepo.ExistsBlock(ctx, tenantID, talonario.Establecimiento, talonario.PuntoVenta, talonario.TipoComprobante, talonario.NumeroInicial)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewAlreadyExistsError("Talonario",
			fmt.Sprintf("%s-%s %s from %d", talonario.Establecimiento, talonario.PuntoVenta, talonario.TipoComprobante, talonario.NumeroInicial))
	}

	if err := s.talonarioRepo.Create(ctx, talonario); err != nil {
		return nil, err
	}
	resp := ToTalonarioResponse(talonario)
	return &resp, nil
}

// GetByID retrieves a talonario by ID
func (s *TalonarioService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TalonarioResponse, error) {
	talonario, err := s.talonarioRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if talonario == nil {
		return nil, shared.NewNotFoundError("Talonario")
	}
	resp := ToTalonarioResponse(talonario)
	return &resp, nil
}

// List lists talonarios with filtering and pagination
func (s *TalonarioService) List(ctx context.Context, tenantID uuid.UUID, q TalonarioListFilter) (*shared.Paginated[TalonarioResponse], error) {
	filter := invoicing.TalonarioFilter{
		Filter:  shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: "created_at"},
		Activo:  q.Activo,
		Agotado: q.Agotado,
	}
	filter.Normalize()
	if q.TipoComprobante != "" {
		tipo := invoicing.TipoComprobante(q.TipoComprobante)
		if !tipo.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("unknown tipoComprobante %q", q.TipoComprobante))
		}
		filter.TipoComprobante = &tipo
	}
	vigente, err := shared.ParseOptionalDate("vigenteEn", q.VigenteEn)
	if err != nil {
		return nil, err
	}
	filter.VigenteEn = vigente

	talonarios, total, err := s.talonarioRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return shared.PageOf(talonarios, total, filter.Filter, ToTalonarioResponse), nil
}

// Deactivate stops a talonario from issuing further numbers
func (s *TalonarioService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*TalonarioResponse, error) {
	talonario, err := s.talonarioRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if talonario == nil {
		return nil, shared.NewNotFoundError("Talonario")
	}
	if err := talonario.Desactivar(); err != nil {
		return nil, err
	}
	if err := s.talonarioRepo.Save(ctx, talonario); err != nil {
		return nil, err
	}
	resp := ToTalonarioResponse(talonario)
	return &resp, nil
}
