package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	slowQueryStartKey = "telemetry:query_start"
	slowQueryCallback = "telemetry:slow_query"
)

// InstrumentDB registers the otelgorm plugin and a callback that marks
// spans of statements slower than the configured threshold. Bound values
// stay out of spans unless DBLogFullSQL is set.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}

	if cfg.DBSlowQueryThresh > 0 {
		if err := registerSlowQuery(db, cfg.DBSlowQueryThresh, logger); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", cfg.DBSlowQueryThresh),
	)
	return nil
}

func registerSlowQuery(db *gorm.DB, threshold time.Duration, logger *zap.Logger) error {
	start := func(tx *gorm.DB) {
		tx.InstanceSet(slowQueryStartKey, time.Now())
	}
	finish := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(slowQueryStartKey)
		if !ok {
			return
		}
		began, _ := v.(time.Time)
		elapsed := time.Since(began)
		if elapsed < threshold {
			return
		}
		span := trace.SpanFromContext(tx.Statement.Context)
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
		logger.Warn("Slow query",
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold),
		)
	}

	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register(slowQueryCallback+":before_create", start),
		cb.Create().After("gorm:create").Register(slowQueryCallback+":after_create", finish),
		cb.Query().Before("gorm:query").Register(slowQueryCallback+":before_query", start),
		cb.Query().After("gorm:query").Register(slowQueryCallback+":after_query", finish),
		cb.Update().Before("gorm:update").Register(slowQueryCallback+":before_update", start),
		cb.Update().After("gorm:update").Register(slowQueryCallback+":after_update", finish),
		cb.Delete().Before("gorm:delete").Register(slowQueryCallback+":before_delete", start),
		cb.Delete().After("gorm:delete").Register(slowQueryCallback+":after_delete", finish),
		cb.Row().Before("gorm:row").Register(slowQueryCallback+":before_row", start),
		cb.Row().After("gorm:row").Register(slowQueryCallback+":after_row", finish),
		cb.Raw().Before("gorm:raw").Register(slowQueryCallback+":before_raw", start),
		cb.Raw().After("gorm:raw").Register(slowQueryCallback+":after_raw", finish),
	)
	if err != nil {
		return fmt.Errorf("register slow query callbacks: %w", err)
	}
	return nil
}

// RegisterPoolMetrics exposes database/sql pool statistics as observable
// gauges read at collection time.
func RegisterPoolMetrics(meter metric.Meter, sqlDB *sql.DB) error {
	conns, err := meter.Int64ObservableGauge("erp_db_pool_connections",
		metric.WithDescription("Database pool connections by state"),
		metric.WithUnit("{connections}"),
	)
	if err != nil {
		return fmt.Errorf("create pool gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("erp_db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{waits}"),
	)
	if err != nil {
		return fmt.Errorf("create pool wait counter: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrDBPoolState.String("in_use")))
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrDBPoolState.String("idle")))
		o.ObserveInt64(conns, int64(s.MaxOpenConnections), metric.WithAttributes(AttrDBPoolState.String("max")))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, conns, waits)
	if err != nil {
		return fmt.Errorf("register pool callback: %w", err)
	}
	return nil
}
