package persistence

import (
	"context"
	"errors"
	"testing"

	appinv "github.com/erp/contable/internal/application/invoicing"
	"github.com/erp/contable/internal/domain/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSaver struct {
	err error
}

func (s failingSaver) SaveEvents(context.Context, any, ...shared.DomainEvent) error {
	return s.err
}

func allocateInput(talonarioID uuid.UUID) appinv.AllocateInvoiceInput {
	m := testMontos()
	return appinv.AllocateInvoiceInput{
		TalonarioID:   talonarioID,
		FechaEmision:  "2026-03-01",
		ClienteNombre: "Comercial Asuncion SA",
		Subtotal:      m.Subtotal,
		Iva10:         m.Iva10,
		Iva5:          m.Iva5,
		Exentas:       m.Exentas,
		Total:         m.Total,
	}
}

func TestNumberingService_FailedAllocationKeepsCounter(t *testing.T) {
	ctx := context.Background()

	t.Run("number already taken", func(t *testing.T) {
		db := setupTestDB(t)
		talRepo := NewGormTalonarioRepository(db)
		facturaRepo := NewGormFacturaRepository(db)
		tenantID := uuid.New()

		tal := newTestTalonario(t, tenantID, "008", 1, 10)
		require.NoError(t, talRepo.Create(ctx, tal))

		// a stray row already holds numero 1 while the counter still points at it
		stale, err := talRepo.FindByIDForTenant(ctx, tenantID, tal.ID)
		require.NoError(t, err)
		taken, err := stale.Emitir(date(2026, 3, 1), invoicing.DatosFactura{ClienteNombre: "X", Montos: testMontos()})
		require.NoError(t, err)
		require.NoError(t, facturaRepo.Create(ctx, taken))

		svc := appinv.NewNumberingService(NewGormTransactionScope(db, nil).Invoicing(), talRepo, facturaRepo, nil)
		_, err = svc.AllocateInvoiceNumber(ctx, tenantID, allocateInput(tal.ID))
		require.Error(t, err)
		assert.Equal(t, shared.CodeAlreadyExists, shared.ErrorCode(err))

		got, err := talRepo.FindByIDForTenant(ctx, tenantID, tal.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.SiguienteNumero)
		assert.False(t, got.Agotado)
		assert.Equal(t, tal.Version, got.Version)
	})

	t.Run("event save fails after the counter moved", func(t *testing.T) {
		db := setupTestDB(t)
		talRepo := NewGormTalonarioRepository(db)
		facturaRepo := NewGormFacturaRepository(db)
		tenantID := uuid.New()
		boom := errors.New("outbox unavailable")

		tal := newTestTalonario(t, tenantID, "009", 1, 1)
		require.NoError(t, talRepo.Create(ctx, tal))

		scope := NewGormTransactionScope(db, failingSaver{err: boom})
		svc := appinv.NewNumberingService(scope.Invoicing(), talRepo, facturaRepo, nil)
		_, err := svc.AllocateInvoiceNumber(ctx, tenantID, allocateInput(tal.ID))
		assert.ErrorIs(t, err, boom)

		got, err := talRepo.FindByIDForTenant(ctx, tenantID, tal.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.SiguienteNumero)
		assert.False(t, got.Agotado)

		var facturas int64
		require.NoError(t, db.Model(&invoicing.FacturaEmitida{}).Where("talonario_id = ?", tal.ID).Count(&facturas).Error)
		assert.Zero(t, facturas)

		// the number is still available once the outbox recovers
		svc = appinv.NewNumberingService(NewGormTransactionScope(db, nil).Invoicing(), talRepo, facturaRepo, nil)
		resp, err := svc.AllocateInvoiceNumber(ctx, tenantID, allocateInput(tal.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.NumeroFactura)
	})
}
