//go:build integration

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/contable/internal/infrastructure/migration"
)

func TestMigrationStatus(t *testing.T) {
	db := NewSharedTestDB(t)
	_, sqlDB := openDatabase(t, db.Config)

	m, err := migration.NewEmbedded(sqlDB, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	// already migrated by the shared setup
	require.NoError(t, m.Up())

	st, err := m.Status()
	require.NoError(t, err)
	assert.False(t, st.Dirty)
	assert.Empty(t, st.Pending)

	embedded, err := migration.ListEmbedded()
	require.NoError(t, err)
	assert.Equal(t, embedded, st.Applied)
	assert.NotZero(t, st.Current)
}
