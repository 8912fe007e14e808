// Package tenant keeps every row access inside one tenant.
//
// Repositories take the tenant ID explicitly and apply Scope to each query;
// the create guard registered by RegisterGuard refuses rows without an owner.
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column is the tenant discriminator present on every tenant-owned table
const Column = "tenant_id"

// ErrTenantIDRequired is returned when a tenant-owned row carries no tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Scope restricts a query to rows owned by tenantID
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(Column+" = ?", tenantID)
	}
}
