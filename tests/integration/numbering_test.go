//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	accountingapp "github.com/erp/contable/internal/application/accounting"
	invoicingapp "github.com/erp/contable/internal/application/invoicing"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/erp/contable/internal/infrastructure/cache"
	"github.com/erp/contable/internal/infrastructure/event"
	"github.com/erp/contable/internal/infrastructure/persistence"
	"github.com/erp/contable/tests/testutil"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

type numberingFixture struct {
	db          *TestDB
	talonarios  *invoicingapp.TalonarioService
	numbering   *invoicingapp.NumberingService
	facturaRepo *persistence.GormFacturaRepository
	outboxRepo  *event.GormOutboxRepository
	serializer  *event.EventSerializer
}

func newNumberingFixture(t *testing.T) *numberingFixture {
	t.Helper()

	db := NewSharedTestDB(t)
	serializer := event.NewDomainEventSerializer()
	scope := persistence.NewGormTransactionScope(db.DB, event.NewOutboxPublisher(serializer, 5))
	talonarioRepo := persistence.NewGormTalonarioRepository(db.DB)
	facturaRepo := persistence.NewGormFacturaRepository(db.DB)

	return &numberingFixture{
		db:          db,
		talonarios:  invoicingapp.NewTalonarioService(talonarioRepo),
		numbering:   invoicingapp.NewNumberingService(scope.Invoicing(), talonarioRepo, facturaRepo, zap.NewNop()),
		facturaRepo: facturaRepo,
		outboxRepo:  event.NewGormOutboxRepository(db.DB),
		serializer:  serializer,
	}
}

func TestConcurrentAllocation(t *testing.T) {
	f := newNumberingFixture(t)
	ctx := testutil.ContextWithTimeout(t, 2*time.Minute)
	tenantID := uuid.New()

	talonario, err := f.talonarios.Create(ctx, tenantID, testutil.TalonarioRequest(1, 40))
	require.NoError(t, err)

	const workers, perWorker = 10, 5
	var (
		mu        sync.Mutex
		allocated []int64
		exhausted int
		wg        sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				in := testutil.AllocateInput(talonario.ID, fmt.Sprintf("Cliente %d-%d", w, i))
				resp, err := f.numbering.AllocateInvoiceNumber(ctx, tenantID, in)
				mu.Lock()
				if err != nil {
					assert.True(t, shared.IsInvalidState(err), "unexpected error: %v", err)
					exhausted++
				} else {
					allocated = append(allocated, resp.NumeroFactura)
				}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	require.Len(t, allocated, 40)
	assert.Equal(t, workers*perWorker-40, exhausted)

	sort.Slice(allocated, func(i, j int) bool { return allocated[i] < allocated[j] })
	for i, n := range allocated {
		assert.Equal(t, int64(i+1), n, "numbers must be contiguous from the first of the block")
	}

	stored, err := f.facturaRepo.NumbersForTalonario(ctx, tenantID, talonario.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 40)

	after, err := f.talonarios.GetByID(ctx, tenantID, talonario.ID)
	require.NoError(t, err)
	assert.True(t, after.Agotado)
	assert.Equal(t, int64(41), after.SiguienteNumero)
	assert.Equal(t, int64(0), after.Disponibles)

	// one FacturaEmitida per invoice plus the single TalonarioAgotado
	assert.Equal(t, int64(41), f.db.CountRows("outbox_events", tenantID))
}

func TestAllocationIsTenantScoped(t *testing.T) {
	f := newNumberingFixture(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	owner, intruder := uuid.New(), uuid.New()

	talonario, err := f.talonarios.Create(ctx, owner, testutil.TalonarioRequest(1, 10))
	require.NoError(t, err)

	_, err = f.numbering.AllocateInvoiceNumber(ctx, intruder, testutil.AllocateInput(talonario.ID, "Cliente"))
	assert.True(t, shared.IsNotFound(err))

	after, err := f.talonarios.GetByID(ctx, owner, talonario.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.SiguienteNumero)
}

func TestIdempotentAllocation(t *testing.T) {
	f := newNumberingFixture(t)
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	f.numbering.SetIdempotencyStore(store, time.Hour)

	ctx := testutil.ContextWithTimeout(t, time.Minute)
	tenantID := uuid.New()
	talonario, err := f.talonarios.Create(ctx, tenantID, testutil.TalonarioRequest(100, 199))
	require.NoError(t, err)

	in := testutil.AllocateInput(talonario.ID, "Cliente")
	in.IdempotencyKey = "retry-" + uuid.NewString()

	var wg sync.WaitGroup
	results := make([]*invoicingapp.FacturaResponse, 5)
	errs := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.numbering.AllocateInvoiceNumber(ctx, tenantID, in)
		}(i)
	}
	wg.Wait()

	var first *invoicingapp.FacturaResponse
	for i := range results {
		if errs[i] != nil {
			// a concurrent duplicate is rejected while the first is in flight
			assert.Equal(t, shared.CodeAlreadyExists, shared.ErrorCode(errs[i]), "unexpected error: %v", errs[i])
			continue
		}
		if first == nil {
			first = results[i]
		}
		assert.Equal(t, first.ID, results[i].ID)
	}
	require.NotNil(t, first)
	assert.Equal(t, int64(100), first.NumeroFactura)
	assert.Equal(t, "001-001-0000100", first.NumeroCompleto)

	replay, err := f.numbering.AllocateInvoiceNumber(ctx, tenantID, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)
	assert.Equal(t, int64(1), f.db.CountRows("facturas_emitidas", tenantID))
}

func TestVoidKeepsNumberConsumed(t *testing.T) {
	f := newNumberingFixture(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	tenantID := uuid.New()

	talonario, err := f.talonarios.Create(ctx, tenantID, testutil.TalonarioRequest(1, 10))
	require.NoError(t, err)
	first, err := f.numbering.AllocateInvoiceNumber(ctx, tenantID, testutil.AllocateInput(talonario.ID, "A"))
	require.NoError(t, err)

	voided, err := f.numbering.VoidInvoice(ctx, tenantID, first.ID, "error de carga")
	require.NoError(t, err)
	assert.Equal(t, "ANULADA", voided.Estado)

	second, err := f.numbering.AllocateInvoiceNumber(ctx, tenantID, testutil.AllocateInput(talonario.ID, "B"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.NumeroFactura)

	_, err = f.numbering.VoidInvoice(ctx, tenantID, first.ID, "otra vez")
	assert.True(t, shared.IsInvalidState(err))
}

func TestOutboxDelivery(t *testing.T) {
	f := newNumberingFixture(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	tenantID := uuid.New()

	talonario, err := f.talonarios.Create(ctx, tenantID, testutil.TalonarioRequest(1, 2))
	require.NoError(t, err)
	for _, cliente := range []string{"A", "B"} {
		_, err := f.numbering.AllocateInvoiceNumber(ctx, tenantID, testutil.AllocateInput(talonario.ID, cliente))
		require.NoError(t, err)
	}

	recorder := testutil.NewRecordingHandler()
	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(recorder)
	processor := event.NewOutboxProcessor(f.outboxRepo, bus, f.serializer, event.OutboxProcessorConfig{BatchSize: 500}, zap.NewNop())

	testutil.RequireEventually(t, func() bool {
		processor.ProcessOnce(ctx)
		return countForTenant(recorder, tenantID, "FacturaEmitida") == 2 &&
			countForTenant(recorder, tenantID, "TalonarioAgotado") == 1
	}, 30*time.Second, 100*time.Millisecond, "outbox events were not delivered")

	var pending int64
	require.NoError(t, f.db.DB.Table("outbox_events").
		Where("tenant_id = ? AND status <> ?", tenantID, shared.OutboxStatusSent).
		Count(&pending).Error)
	assert.Zero(t, pending)
}

func countForTenant(h *testutil.RecordingHandler, tenantID uuid.UUID, eventType string) int {
	n := 0
	for _, e := range h.Handled() {
		if e.TenantID() == tenantID && e.EventType() == eventType {
			n++
		}
	}
	return n
}

func TestConcurrentJournalNumbering(t *testing.T) {
	db := NewSharedTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 2*time.Minute)
	tenantID := uuid.New()

	scope := persistence.NewGormTransactionScope(db.DB, event.NewOutboxPublisher(event.NewDomainEventSerializer(), 5))
	accounts := accountingapp.NewAccountService(
		persistence.NewGormCuentaRepository(db.DB),
		persistence.NewGormCentroCostoRepository(db.DB),
	)
	journal := accountingapp.NewJournalService(scope.Accounting(), persistence.NewGormAsientoRepository(db.DB), zap.NewNop())

	caja := createLeafAccount(ctx, t, accounts, tenantID, "1", "Caja", "ACTIVO")
	ventas := createLeafAccount(ctx, t, accounts, tenantID, "4", "Ventas", "INGRESO")

	const entries = 20
	var wg sync.WaitGroup
	numbers := make(chan int64, entries)
	for i := 0; i < entries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := journal.PostEntry(ctx, tenantID, accountingapp.PostEntryInput{
				Fecha:    time.Now().UTC().Format(testutil.DateLayout),
				Concepto: fmt.Sprintf("Venta %d", i),
				Lineas: []accountingapp.PostEntryLine{
					{CuentaID: caja, Debe: decimal.NewFromInt(1000)},
					{CuentaID: ventas, Haber: decimal.NewFromInt(1000)},
				},
			})
			if assert.NoError(t, err) {
				numbers <- resp.Numero
			}
		}(i)
	}
	wg.Wait()
	close(numbers)

	var got []int64
	for n := range numbers {
		got = append(got, n)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	require.Len(t, got, entries)
	for i, n := range got {
		assert.Equal(t, int64(i+1), n)
	}
}

func createLeafAccount(ctx context.Context, t *testing.T, svc *accountingapp.AccountService, tenantID uuid.UUID, codigo, nombre, tipo string) uuid.UUID {
	t.Helper()
	resp, err := svc.CreateAccount(ctx, tenantID, accountingapp.CreateAccountInput{
		Codigo:           codigo,
		Nombre:           nombre,
		Nivel:            1,
		Tipo:             tipo,
		AceptaMovimiento: true,
	})
	require.NoError(t, err)
	return resp.ID
}
