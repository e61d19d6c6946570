package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitetext/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		var crawlCount int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM crawls").Scan(&crawlCount)
		require.NoError(t, err)

		var docCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&docCount)
		require.NoError(t, err)
	})

	t.Run("limits the pool to one connection", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		first := sqlite.NewDB(dbPath)
		require.NoError(t, first.Open())
		require.NoError(t, first.Close())

		second := sqlite.NewDB(dbPath)
		require.NoError(t, second.Open())
		require.NoError(t, second.Close())
	})
}
