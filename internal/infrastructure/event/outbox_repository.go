package event

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errClaimExpired is recorded on entries whose processor vanished mid-delivery
const errClaimExpired = "claim expired before delivery finished"

// GormOutboxRepository stores outbox entries in outbox_events
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(entries).Error; err != nil {
		return fmt.Errorf("save outbox entries: %w", err)
	}
	return nil
}

// dueCondition matches pending entries and failed entries whose retry time
// passed; see OutboxEntry.DueAt.
const dueCondition = "status = ? OR (status = ? AND (next_retry_at IS NULL OR next_retry_at <= ?))"

// ClaimBatch locks due rows with FOR UPDATE SKIP LOCKED and marks them
// PROCESSING before the transaction commits, oldest first.
func (r *GormOutboxRepository) ClaimBatch(ctx context.Context, now time.Time, limit int) ([]*shared.OutboxEntry, error) {
	var entries []*shared.OutboxEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where(dueCondition, shared.OutboxStatusPending, shared.OutboxStatusFailed, now).
			Order("created_at").
			Limit(limit).
			Find(&entries).Error
		if err != nil || len(entries) == 0 {
			return err
		}

		ids := make([]any, 0, len(entries))
		for _, e := range entries {
			if err := e.MarkProcessing(); err != nil {
				return err
			}
			e.UpdatedAt = now
			ids = append(ids, e.ID)
		}
		return tx.Model(&shared.OutboxEntry{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"status": shared.OutboxStatusProcessing, "updated_at": now}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("claim outbox batch: %w", err)
	}
	return entries, nil
}

// Update writes back the outcome of a delivery attempt
func (r *GormOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("update outbox entry %s: %w", entry.ID, err)
	}
	return nil
}

// RequeueStale returns PROCESSING entries claimed before the cutoff to
// FAILED, due immediately. Their retry count is left alone.
func (r *GormOutboxRepository) RequeueStale(ctx context.Context, claimedBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&shared.OutboxEntry{}).
		Where("status = ? AND updated_at < ?", shared.OutboxStatusProcessing, claimedBefore).
		Updates(map[string]any{
			"status":        shared.OutboxStatusFailed,
			"next_retry_at": nil,
			"last_error":    errClaimExpired,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("requeue stale outbox entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormOutboxRepository) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", shared.OutboxStatusSent, before).
		Delete(&shared.OutboxEntry{})
	return result.RowsAffected, result.Error
}

func (r *GormOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	var rows []struct {
		Status shared.OutboxStatus
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&shared.OutboxEntry{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count outbox entries: %w", err)
	}

	counts := make(map[shared.OutboxStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

var _ shared.OutboxRepository = (*GormOutboxRepository)(nil)
