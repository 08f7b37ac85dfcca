package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docvault/sqlite"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()

		for _, table := range []string{"documentations", "doc_entries", "doc_entries_fts"} {
			var count int
			err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
			require.NoError(t, err, table)
		}
	})

	t.Run("is idempotent across reopen", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "docvault.db")
		for range 2 {
			db := sqlite.NewDB(dbPath)
			require.NoError(t, db.Open())
			require.NoError(t, db.Close())
		}
	})

	t.Run("enforces foreign keys", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO doc_entries (id, doc_id, path, title, created_at)
			VALUES ('e1', 'missing', 'p', 't', '2025-01-01T00:00:00Z')`)
		require.Error(t, err)
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
}

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}
