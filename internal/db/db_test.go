package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_CarriesConnectionPragmas(t *testing.T) {
	dsn := DSN("/tmp/tg.db")
	assert.Contains(t, dsn, "/tmp/tg.db?")
	assert.Contains(t, dsn, "_pragma=foreign_keys%281%29")
	assert.Contains(t, dsn, "_pragma=journal_mode%28WAL%29")
	assert.Contains(t, dsn, "_pragma=busy_timeout%285000%29")
}

func TestOpenDB_EveryConnectionEnforcesForeignKeys(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "tg.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	// Hold two connections at once so the pool has to open a second one.
	first, err := db.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := db.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	var fk int
	var mode string
	require.NoError(t, first.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
	require.NoError(t, second.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
	require.NoError(t, second.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	_, err = second.ExecContext(ctx, `INSERT INTO tasks (id, project_id, title, kind, planned_start, planned_end, created_at, updated_at)
		VALUES ('orphan', 'missing', 'T', 'task', '2025-01-01', '2025-01-02', 'x', 'x')`)
	assert.Error(t, err, "task referencing an unknown project should be rejected")

	_, err = second.ExecContext(ctx, `INSERT INTO projects (id, name, start_date, created_at, updated_at)
		VALUES ('p1', 'P', '2025-01-01', 'x', 'x')`)
	require.NoError(t, err)
	_, err = second.ExecContext(ctx, `INSERT INTO tasks (id, project_id, title, kind, planned_start, planned_end, created_at, updated_at)
		VALUES ('t1', 'p1', 'T', 'task', '2025-01-01', '2025-01-02', 'x', 'x')`)
	require.NoError(t, err)
	_, err = second.ExecContext(ctx, `DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, first.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n))
	assert.Zero(t, n, "deleting the project should cascade to its tasks")
}
