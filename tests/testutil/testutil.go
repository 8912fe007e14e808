// Package testutil holds helpers shared by the integration suites: stable
// identifiers, polling assertions and a recording event handler.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/erp/contable/internal/application/invoicing"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// NewTestUUID derives a reproducible UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestTenantID returns the tenant used by single-tenant tests
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-tenant")
}

// OtherTenantID returns a second tenant for isolation checks
func OtherTenantID() uuid.UUID {
	return NewTestUUID("other-tenant")
}

// ContextWithTimeout bounds a test context and cancels it on cleanup
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually polls condition until it holds or timeout elapses
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}

// TalonarioRequest builds a FACTURA block for 001-001 valid around today
func TalonarioRequest(desde, hasta int64) invoicing.CreateTalonarioRequest {
	today := time.Now().UTC()
	return invoicing.CreateTalonarioRequest{
		Timbrado:           "12345678",
		Establecimiento:    "001",
		PuntoVenta:         "001",
		TipoComprobante:    "FACTURA",
		NumeroInicial:      desde,
		NumeroFinal:        hasta,
		FechaVigenciaDesde: today.AddDate(0, -1, 0).Format(DateLayout),
		FechaVigenciaHasta: today.AddDate(1, 0, 0).Format(DateLayout),
	}
}

// AllocateInput builds a cash invoice of 100000 + 10% IVA
func AllocateInput(talonarioID uuid.UUID, cliente string) invoicing.AllocateInvoiceInput {
	return invoicing.AllocateInvoiceInput{
		TalonarioID:    talonarioID,
		ClienteRUC:     "80012345-6",
		ClienteNombre:  cliente,
		CondicionVenta: "CONTADO",
		Subtotal:       decimal.NewFromInt(100000),
		Iva10:          decimal.NewFromInt(10000),
		Total:          decimal.NewFromInt(110000),
	}
}
