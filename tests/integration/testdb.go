//go:build integration

// Package integration runs the persistence and numbering paths against real
// PostgreSQL and Redis containers. Run with: go test -tags integration ./tests/...
package integration

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/erp/contable/internal/infrastructure/migration"
	"github.com/erp/contable/internal/infrastructure/persistence"
)

const (
	pgImage    = "postgres:16-alpine"
	pgDatabase = "contable_test"
	pgUser     = "postgres"
	pgPassword = "admin123"
)

// postgresFixture is one migrated container shared by the package
var postgresFixture struct {
	sync.Mutex
	container testcontainers.Container
	cfg       config.DatabaseConfig
}

// TestDB is a connection to the shared, migrated database. Tests isolate
// their rows by tenant.
type TestDB struct {
	DB     *gorm.DB
	SqlDB  *sql.DB
	Config config.DatabaseConfig
	t      *testing.T
}

// NewSharedTestDB connects to the package container, starting and migrating
// it on first use.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}

	cfg := sharedPostgres(t)
	db, sqlDB := openDatabase(t, cfg)
	return &TestDB{DB: db, SqlDB: sqlDB, Config: cfg, t: t}
}

func sharedPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	postgresFixture.Lock()
	defer postgresFixture.Unlock()

	if postgresFixture.container != nil {
		return postgresFixture.cfg
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, pgImage,
		tcpostgres.WithDatabase(pgDatabase),
		tcpostgres.WithUsername(pgUser),
		tcpostgres.WithPassword(pgPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   pgDatabase,
		SSLMode:  "disable",
		// enough connections for the concurrency tests to contend on row locks
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: time.Minute,
		ConnectRetries:  3,
	}

	m, err := migration.NewEmbedded(mustOpenSQL(t, cfg), zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
	require.NoError(t, m.Close())

	postgresFixture.container = container
	postgresFixture.cfg = cfg
	return cfg
}

// openDatabase opens the database the way the server does, pool sizing and
// tenant guard included. The connection closes with the test.
func openDatabase(t *testing.T, cfg config.DatabaseConfig) (*gorm.DB, *sql.DB) {
	t.Helper()

	opts := []persistence.DatabaseOption{persistence.WithConnectRetry(cfg.ConnectRetries, 200*time.Millisecond)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		opts = append(opts, persistence.WithGormLogger(gormlogger.Default.LogMode(gormlogger.Info)))
	}

	database, err := persistence.NewDatabase(context.Background(), &cfg, opts...)
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	return database.DB, sqlDB
}

func mustOpenSQL(t *testing.T, cfg config.DatabaseConfig) *sql.DB {
	t.Helper()
	_, sqlDB := openDatabase(t, cfg)
	return sqlDB
}

// CleanupSharedContainer terminates the shared container; call it from TestMain
func CleanupSharedContainer() {
	postgresFixture.Lock()
	defer postgresFixture.Unlock()

	if postgresFixture.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = postgresFixture.container.Terminate(ctx)
	postgresFixture.container = nil
}

// CountRows returns the number of rows of table owned by tenantID
func (tdb *TestDB) CountRows(table string, tenantID any) int64 {
	tdb.t.Helper()

	var n int64
	require.NoError(tdb.t, tdb.DB.Table(table).Where("tenant_id = ?", tenantID).Count(&n).Error)
	return n
}
