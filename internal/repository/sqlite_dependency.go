package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/taskgraph/internal/db"
	"github.com/alexanderramin/taskgraph/internal/domain"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	query := `INSERT INTO dependencies (id, project_id, predecessor_id, successor_id, type, lag_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.ProjectID,
		d.PredecessorID,
		d.SuccessorID,
		string(d.Type),
		d.LagDays,
		timestampOrNow(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id string) (*domain.Dependency, error) {
	query := `SELECT id, project_id, predecessor_id, successor_id, type, lag_days, created_at
		FROM dependencies WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("getting dependency: %w", err)
	}
	defer rows.Close()
	deps, err := r.scanDependencies(rows)
	if err != nil {
		return nil, err
	}
	if len(deps) == 0 {
		return nil, domain.NotFound("dependency", id)
	}
	return deps[0], nil
}

func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Dependency, error) {
	query := `SELECT id, project_id, predecessor_id, successor_id, type, lag_days, created_at
		FROM dependencies WHERE project_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dependencies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return expectRow(res, "dependency", id)
}

// scanDependencies scans multiple dependency rows from *sql.Rows.
func (r *SQLiteDependencyRepo) scanDependencies(rows *sql.Rows) ([]*domain.Dependency, error) {
	var deps []*domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		var typ, createdAt string
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.PredecessorID, &d.SuccessorID, &typ, &d.LagDays, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		d.Type = domain.DependencyType(typ)
		var err error
		if d.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
			return nil, err
		}
		deps = append(deps, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}
