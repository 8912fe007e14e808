package persistence

import (
	"context"
	"fmt"

	"github.com/erp/contable/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceModel is one named per-tenant counter. Ultimo is the last number
// handed out.
type SequenceModel struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre   string    `gorm:"type:varchar(50);primaryKey"`
	Ultimo   int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "secuencias"
}

// GormSequenceRepository implements shared.SequenceRepository with an upsert
// that increments the counter in place. The row stays locked until the
// surrounding transaction ends, so numbers are gap-free.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next returns the next number of the named sequence, starting at 1
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	seq := SequenceModel{TenantID: tenantID, Nombre: name, Ultimo: 1}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "nombre"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"ultimo": gorm.Expr("secuencias.ultimo + 1")}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "ultimo"}}},
		).
		Create(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("next %s number: %w", name, err)
	}
	return seq.Ultimo, nil
}

var _ shared.SequenceRepository = (*GormSequenceRepository)(nil)
