package event

import (
	"context"
	"sync"
	"time"

	"github.com/erp/contable/internal/domain/shared"
	"go.uber.org/zap"
)

// maxBatchesPerTick bounds how many full batches one poll drains
const maxBatchesPerTick = 10

// OutboxProcessorConfig tunes polling and retention. ClaimTimeout is how
// long an entry may stay PROCESSING before another processor takes it over.
// Zero values take the defaults.
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	ClaimTimeout     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultOutboxProcessorConfig polls every 5s and keeps sent rows a week
func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		ClaimTimeout:     5 * time.Minute,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

func (c OutboxProcessorConfig) withDefaults() OutboxProcessorConfig {
	d := DefaultOutboxProcessorConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.ClaimTimeout <= 0 {
		c.ClaimTimeout = d.ClaimTimeout
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.CleanupRetention <= 0 {
		c.CleanupRetention = d.CleanupRetention
	}
	return c
}

// OutboxProcessor moves committed outbox rows onto the event bus. Several
// server instances may run one each; ClaimBatch keeps them off each
// other's rows.
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	bus        shared.EventPublisher
	serializer *EventSerializer
	config     OutboxProcessorConfig
	logger     *zap.Logger
	now        func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxProcessor(
	repo shared.OutboxRepository,
	bus shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxProcessor{
		repo:       repo,
		bus:        bus,
		serializer: serializer,
		config:     config.withDefaults(),
		logger:     logger.Named("outbox"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the delivery loop and, when enabled, the cleanup loop
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.every(ctx, p.config.PollInterval, func(ctx context.Context) {
		p.RequeueStale(ctx)
		p.Drain(ctx)
	})
	if p.config.CleanupEnabled {
		p.every(ctx, p.config.CleanupInterval, func(ctx context.Context) { p.Cleanup(ctx) })
	}

	p.logger.Info("Outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Bool("cleanup", p.config.CleanupEnabled),
	)
	return nil
}

// Stop cancels the loops and waits for the running pass to finish
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}

// Drain keeps claiming while batches come back full, so a backlog does not
// wait one poll interval per batch.
func (p *OutboxProcessor) Drain(ctx context.Context) int {
	total := 0
	for i := 0; i < maxBatchesPerTick && ctx.Err() == nil; i++ {
		claimed, sent := p.processBatch(ctx)
		total += sent
		if claimed < p.config.BatchSize {
			break
		}
	}
	return total
}

// ProcessOnce claims one batch and returns how many entries were delivered
func (p *OutboxProcessor) ProcessOnce(ctx context.Context) int {
	_, sent := p.processBatch(ctx)
	return sent
}

func (p *OutboxProcessor) processBatch(ctx context.Context) (claimed, sent int) {
	entries, err := p.repo.ClaimBatch(ctx, p.now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("Failed to claim outbox entries", zap.Error(err))
		return 0, 0
	}
	for _, entry := range entries {
		if p.deliver(ctx, entry) {
			sent++
		}
	}
	return len(entries), sent
}

func (p *OutboxProcessor) deliver(ctx context.Context, entry *shared.OutboxEntry) bool {
	log := p.logger.With(
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
		zap.String("tenant_id", entry.TenantID.String()),
	)

	ev, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err == nil {
		err = p.bus.Publish(ctx, ev)
	}
	if err != nil {
		entry.MarkFailed(err.Error())
		if entry.IsDead() {
			log.Warn("Event dead-lettered",
				zap.String("aggregate_type", entry.AggregateType),
				zap.String("aggregate_id", entry.AggregateID.String()),
				zap.Int("retry_count", entry.RetryCount),
				zap.Error(err),
			)
		} else {
			log.Error("Event delivery failed", zap.Int("retry_count", entry.RetryCount), zap.Error(err))
		}
		if err := p.repo.Update(ctx, entry); err != nil {
			log.Error("Failed to record delivery failure", zap.Error(err))
		}
		return false
	}

	entry.MarkSent()
	if err := p.repo.Update(ctx, entry); err != nil {
		log.Error("Failed to mark entry sent", zap.Error(err))
		return false
	}
	log.Debug("Event delivered")
	return true
}

// RequeueStale releases entries whose claim outlived ClaimTimeout
func (p *OutboxProcessor) RequeueStale(ctx context.Context) int64 {
	n, err := p.repo.RequeueStale(ctx, p.now().Add(-p.config.ClaimTimeout))
	if err != nil {
		p.logger.Error("Failed to requeue stale outbox entries", zap.Error(err))
		return 0
	}
	if n > 0 {
		p.logger.Warn("Requeued outbox entries with expired claims",
			zap.Int64("count", n), zap.Duration("claim_timeout", p.config.ClaimTimeout))
	}
	return n
}

// Cleanup deletes sent entries older than the retention window
func (p *OutboxProcessor) Cleanup(ctx context.Context) int64 {
	cutoff := p.now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("Failed to clean up outbox", zap.Error(err))
		return 0
	}
	if deleted > 0 {
		p.logger.Info("Cleaned up outbox", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return deleted
}
