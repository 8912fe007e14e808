package catalog

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/catalog"
	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductAvailability resolves the products referenced by documents of other
// contexts (purchase order lines) and checks they are usable.
type ProductAvailability struct {
	productRepo catalog.ProductoRepository
}

// NewProductAvailability creates a new ProductAvailability
func NewProductAvailability(productRepo catalog.ProductoRepository) *ProductAvailability {
	return &ProductAvailability{
		productRepo: productRepo,
	}
}

// ActiveProducts loads the given products. Every ID must exist (NotFound)
// and be active (InvalidState). Duplicated IDs are allowed.
func (v *ProductAvailability) ActiveProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.Producto, error) {
	result := make(map[uuid.UUID]*catalog.Producto, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	products, err := v.productRepo.FindByIDs(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	for i := range products {
		result[products[i].ID] = &products[i]
	}

	for _, id := range productIDs {
		p, ok := result[id]
		if !ok {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Producto %s", id))
		}
		if !p.IsActive() {
			return nil, shared.NewInvalidStateError(fmt.Sprintf("product %s is inactive", p.Codigo))
		}
	}
	return result, nil
}
