package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/erp/contable/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the gorm handle of the accounting store
type Database struct {
	DB *gorm.DB
}

type dbOptions struct {
	gorm           *gorm.Config
	connectTries   int
	connectBackoff time.Duration
	log            *zap.Logger
}

// DatabaseOption customises how the database is opened
type DatabaseOption func(*dbOptions)

// WithGormLogger replaces gorm's default silent logger
func WithGormLogger(l logger.Interface) DatabaseOption {
	return func(o *dbOptions) { o.gorm.Logger = l }
}

// WithConnectRetry pings up to tries times, doubling the wait from backoff
func WithConnectRetry(tries int, backoff time.Duration) DatabaseOption {
	return func(o *dbOptions) {
		o.connectTries = max(tries, 1)
		o.connectBackoff = backoff
	}
}

// WithStartupLogger reports connection attempts
func WithStartupLogger(l *zap.Logger) DatabaseOption {
	return func(o *dbOptions) { o.log = l }
}

func newDBOptions(opts []DatabaseOption) *dbOptions {
	o := &dbOptions{
		gorm: &gorm.Config{
			Logger:                 logger.Default.LogMode(logger.Silent),
			SkipDefaultTransaction: true,
			TranslateError:         true,
			NowFunc:                func() time.Time { return time.Now().UTC() },
		},
		connectTries:   1,
		connectBackoff: time.Second,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GormConfig returns the gorm settings shared by the server and the tests.
// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
func GormConfig(opts ...DatabaseOption) *gorm.Config {
	return newDBOptions(opts).gorm
}

// NewDatabase connects to PostgreSQL, sizes the pool and registers the
// tenant guard.
func NewDatabase(ctx context.Context, cfg *config.DatabaseConfig, opts ...DatabaseOption) (*Database, error) {
	o := newDBOptions(opts)
	o.gorm.PrepareStmt = true
	return openDatabase(ctx, postgres.Open(cfg.DSN()), cfg, o)
}

func openDatabase(ctx context.Context, dialector gorm.Dialector, cfg *config.DatabaseConfig, o *dbOptions) (*Database, error) {
	o.gorm.DisableAutomaticPing = true
	db, err := gorm.Open(dialector, o.gorm)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg)

	if err := pingWithRetry(ctx, sqlDB, o); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err := tenant.RegisterGuard(db); err != nil {
		return nil, err
	}
	return &Database{DB: db}, nil
}

func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

func pingWithRetry(ctx context.Context, sqlDB *sql.DB, o *dbOptions) error {
	wait := o.connectBackoff
	var err error
	for attempt := 1; attempt <= o.connectTries; attempt++ {
		if err = sqlDB.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == o.connectTries {
			break
		}
		o.log.Warn("Database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", o.connectTries, err)
}

// Ping checks the connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
