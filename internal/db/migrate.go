package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema. Every statement is idempotent, so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id     TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		title         TEXT NOT NULL,
		kind          TEXT NOT NULL
		              CHECK(kind IN ('group','subgroup','task','milestone')),
		status        TEXT NOT NULL DEFAULT 'not_started'
		              CHECK(status IN ('not_started','in_progress','completed','on_hold','cancelled')),
		planned_start TEXT NOT NULL,
		planned_end   TEXT NOT NULL,
		progress_pct  REAL NOT NULL DEFAULT 0
		              CHECK(progress_pct >= 0 AND progress_pct <= 100),
		is_critical   INTEGER NOT NULL DEFAULT 0,
		slack_days    INTEGER NOT NULL DEFAULT 0,
		priority      TEXT NOT NULL DEFAULT 'medium'
		              CHECK(priority IN ('low','medium','high','urgent')),
		-- insertion order within a project; keeps graph tie-breaks stable across loads
		seq           INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		predecessor_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		type           TEXT NOT NULL DEFAULT 'FS'
		               CHECK(type IN ('FS','SS','FF','SF')),
		lag_days       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		CHECK(predecessor_id != successor_id),
		UNIQUE(predecessor_id, successor_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_dependencies_project ON dependencies(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_successor ON dependencies(successor_id)`,
}
