package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("seed"), NewTestUUID("seed"))
	assert.NotEqual(t, NewTestUUID("seed"), NewTestUUID("other"))
	assert.NotEqual(t, TestTenantID(), OtherTenantID())
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Minute)

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)
}

func TestRequireEventually(t *testing.T) {
	calls := 0
	RequireEventually(t, func() bool {
		calls++
		return calls == 3
	}, time.Second, time.Millisecond)

	assert.Equal(t, 3, calls)
}

func TestTalonarioRequest(t *testing.T) {
	req := TalonarioRequest(1, 50)

	assert.Equal(t, int64(1), req.NumeroInicial)
	assert.Equal(t, int64(50), req.NumeroFinal)
	assert.Less(t, req.FechaVigenciaDesde, req.FechaVigenciaHasta)
}

func TestAllocateInput(t *testing.T) {
	in := AllocateInput(uuid.New(), "Cliente")

	assert.True(t, in.Subtotal.Add(in.Iva10).Equal(in.Total))
}

func TestRecordingHandler(t *testing.T) {
	h := NewRecordingHandler("A")
	tenantID := uuid.New()

	require.NoError(t, h.Handle(context.Background(), NewTestEvent("A", tenantID)))
	require.NoError(t, h.Handle(context.Background(), NewTestEvent("B", tenantID)))

	assert.Equal(t, []string{"A"}, h.EventTypes())
	assert.Len(t, h.Handled(), 2)
	assert.Equal(t, 1, h.CountOf("A"))

	h.FailWith(assert.AnError)
	assert.ErrorIs(t, h.Handle(context.Background(), NewTestEvent("A", tenantID)), assert.AnError)
}
