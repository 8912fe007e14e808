package tenant

import (
	"reflect"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const guardName = "tenant:guard_create"

// RegisterGuard installs a create callback rejecting tenant-owned rows
// whose tenant_id is unset.
func RegisterGuard(db *gorm.DB) error {
	if db.Callback().Create().Get(guardName) != nil {
		return nil
	}
	return db.Callback().Create().Before("gorm:create").Register(guardName, guardCreate)
}

func guardCreate(db *gorm.DB) {
	if db.Statement.Schema == nil {
		return
	}
	field := db.Statement.Schema.LookUpField(Column)
	if field == nil {
		return
	}

	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !hasTenant(db, field, rv.Index(i)) {
				_ = db.AddError(ErrTenantIDRequired)
				return
			}
		}
	case reflect.Struct:
		if !hasTenant(db, field, rv) {
			_ = db.AddError(ErrTenantIDRequired)
		}
	}
}

func hasTenant(db *gorm.DB, field *schema.Field, rv reflect.Value) bool {
	v, zero := field.ValueOf(db.Statement.Context, reflect.Indirect(rv))
	if zero {
		return false
	}
	switch id := v.(type) {
	case uuid.UUID:
		return id != uuid.Nil
	case *uuid.UUID:
		return id != nil && *id != uuid.Nil
	}
	return true
}
