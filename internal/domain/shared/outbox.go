package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the delivery state of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

// Delivery retry policy
const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
	MaxBackoff         = 10 * time.Minute
)

// outboxTransitions lists the statuses reachable from each status.
// SENT and DEAD are terminal.
var outboxTransitions = map[OutboxStatus][]OutboxStatus{
	OutboxStatusPending:    {OutboxStatusProcessing},
	OutboxStatusFailed:     {OutboxStatusProcessing},
	OutboxStatusProcessing: {OutboxStatusSent, OutboxStatusFailed, OutboxStatusDead},
}

// CanTransitionTo reports whether an entry in s may move to next
func (s OutboxStatus) CanTransitionTo(next OutboxStatus) bool {
	for _, allowed := range outboxTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RetryBackoff is the wait before delivery attempt number failures+1:
// 1s, 2s, 4s, ... capped at MaxBackoff.
func RetryBackoff(failures int) time.Duration {
	if failures < 1 {
		return 0
	}
	if failures > 20 {
		return MaxBackoff
	}
	return min(DefaultBaseBackoff<<(failures-1), MaxBackoff)
}

// OutboxEntry is a serialized domain event written in the transaction that
// raised it. The outbox processor delivers it after commit.
type OutboxEntry struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	EventID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string       `gorm:"type:varchar(100);not null"`
	AggregateID   uuid.UUID    `gorm:"type:uuid;not null"`
	AggregateType string       `gorm:"type:varchar(100);not null"`
	Payload       []byte       `gorm:"not null"`
	Status        OutboxStatus `gorm:"type:varchar(20);not null;index"`
	RetryCount    int          `gorm:"not null;default:0"`
	MaxRetries    int          `gorm:"not null;default:5"`
	LastError     string       `gorm:"type:text"`
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (OutboxEntry) TableName() string {
	return "outbox_events"
}

// NewOutboxEntry wraps the serialized payload of event for tenantID
func NewOutboxEntry(tenantID uuid.UUID, event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now().UTC()
	return &OutboxEntry{
		ID:            uuid.New(),
		TenantID:      tenantID,
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (e *OutboxEntry) moveTo(next OutboxStatus) error {
	if !e.Status.CanTransitionTo(next) {
		return fmt.Errorf("outbox entry %s: cannot move from %s to %s", e.ID, e.Status, next)
	}
	e.Status = next
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkProcessing claims a pending or failed entry
func (e *OutboxEntry) MarkProcessing() error {
	return e.moveTo(OutboxStatusProcessing)
}

// MarkSent records a successful delivery. Entries not claimed through
// MarkProcessing are accepted as well, so a direct publish can settle them.
func (e *OutboxEntry) MarkSent() {
	now := time.Now().UTC()
	e.Status = OutboxStatusSent
	e.ProcessedAt = &now
	e.UpdatedAt = now
	e.NextRetryAt = nil
}

// MarkFailed records a failed delivery and schedules the next attempt with
// RetryBackoff. After MaxRetries failures the entry is dead.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	now := time.Now().UTC()
	e.RetryCount++
	e.LastError = errMsg
	e.UpdatedAt = now

	if e.RetryCount >= e.MaxRetries {
		e.Status = OutboxStatusDead
		e.NextRetryAt = nil
		return
	}
	e.Status = OutboxStatusFailed
	next := now.Add(RetryBackoff(e.RetryCount))
	e.NextRetryAt = &next
}

// IsDead reports whether the entry exhausted its retries
func (e *OutboxEntry) IsDead() bool {
	return e.Status == OutboxStatusDead
}

// DueAt reports whether a pending or failed entry may be claimed at now
func (e *OutboxEntry) DueAt(now time.Time) bool {
	switch e.Status {
	case OutboxStatusPending:
		return true
	case OutboxStatusFailed:
		return e.NextRetryAt == nil || !e.NextRetryAt.After(now)
	}
	return false
}

// OutboxRepository persists outbox entries
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// ClaimBatch locks up to limit pending or due-for-retry entries, marks them
	// processing and returns them. Rows locked by another processor are skipped.
	ClaimBatch(ctx context.Context, now time.Time, limit int) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	// RequeueStale hands PROCESSING entries claimed before claimedBefore back
	// for delivery; their processor is assumed gone.
	RequeueStale(ctx context.Context, claimedBefore time.Time) (int64, error)
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[OutboxStatus]int64, error)
}
