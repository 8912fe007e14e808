package shared

import (
	"context"

	"github.com/google/uuid"
)

// Named per-tenant document sequences
const (
	SequenceAsiento     = "asiento"
	SequenceOrdenCompra = "orden_compra"
)

// SequenceRepository hands out gap-free per-tenant numbers. Next locks the
// counter row, so it must run inside the transaction that stores the document.
type SequenceRepository interface {
	Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error)
}
