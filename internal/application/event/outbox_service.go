package event

import (
	"context"

	"github.com/erp/contable/internal/domain/shared"
)

// Outbox health verdicts
const (
	OutboxOK          = "ok"
	OutboxBacklogged  = "backlogged"
	OutboxDeadLetters = "dead_letters"
)

// OutboxStatsSource reports the outbox backlog
type OutboxStatsSource interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// OutboxService judges event delivery health from the outbox counters
type OutboxService struct {
	repo         OutboxStatsSource
	backlogLimit int64
}

// NewOutboxService reports backlogged once more than backlogLimit entries
// wait for delivery; zero disables the backlog check.
func NewOutboxService(repo OutboxStatsSource, backlogLimit int64) *OutboxService {
	return &OutboxService{repo: repo, backlogLimit: backlogLimit}
}

// OutboxStatsDTO is the outbox section of the health payload
type OutboxStatsDTO struct {
	Status     string `json:"status" example:"ok"`
	Pending    int64  `json:"pending"`
	Processing int64  `json:"processing"`
	Sent       int64  `json:"sent"`
	Failed     int64  `json:"failed"`
	Dead       int64  `json:"dead"`
}

// Undelivered counts entries not yet sent or dead
func (s *OutboxStatsDTO) Undelivered() int64 {
	return s.Pending + s.Processing + s.Failed
}

// Healthy reports whether delivery needs no operator attention
func (s *OutboxStatsDTO) Healthy() bool {
	return s.Status == OutboxOK
}

// GetStats counts entries per status and derives the verdict. Dead letters
// outrank a backlog since they never resolve on their own.
func (s *OutboxService) GetStats(ctx context.Context) (*OutboxStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &OutboxStatsDTO{
		Status:     OutboxOK,
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	switch {
	case stats.Dead > 0:
		stats.Status = OutboxDeadLetters
	case s.backlogLimit > 0 && stats.Undelivered() > s.backlogLimit:
		stats.Status = OutboxBacklogged
	}
	return stats, nil
}
