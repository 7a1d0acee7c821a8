package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/taskgraph/internal/db"
	"github.com/alexanderramin/taskgraph/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, parent_id, title, kind, status, priority,
	planned_start, planned_end, progress_pct, is_critical, slack_days, created_at, updated_at`

// nextSeq numbers a new row after the highest seq already used in its project.
const nextSeq = `(SELECT COALESCE(MAX(seq), 0) + 1 FROM tasks WHERE project_id = ?)`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ` + nextSeq + `)`
	_, err := r.db.ExecContext(ctx, query, append(taskArgs(t), t.ProjectID)...)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("task", id)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY seq, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) SaveAll(ctx context.Context, tasks []*domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ` + nextSeq + `)
		ON CONFLICT(id) DO UPDATE SET
			parent_id = excluded.parent_id,
			title = excluded.title,
			kind = excluded.kind,
			status = excluded.status,
			priority = excluded.priority,
			planned_start = excluded.planned_start,
			planned_end = excluded.planned_end,
			progress_pct = excluded.progress_pct,
			is_critical = excluded.is_critical,
			slack_days = excluded.slack_days,
			updated_at = excluded.updated_at`
	for _, t := range parentsFirst(tasks) {
		if _, err := r.db.ExecContext(ctx, query, append(taskArgs(t), t.ProjectID)...); err != nil {
			return fmt.Errorf("saving task %s: %w", t.ID, err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectRow(res, "task", id)
}

func taskArgs(t *domain.Task) []any {
	return []any{
		t.ID,
		t.ProjectID,
		nullableString(t.ParentID),
		t.Title,
		string(t.Kind),
		string(t.Status),
		string(t.Priority),
		t.PlannedStart.Format(domain.DateLayout),
		t.PlannedEnd.Format(domain.DateLayout),
		t.ProgressPct,
		boolToInt(t.IsCritical),
		t.SlackDays,
		timestampOrNow(t.CreatedAt),
		timestampOrNow(t.UpdatedAt),
	}
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var parentID sql.NullString
	var kind, status, priority, start, end, createdAt, updatedAt string
	var critical int
	err := row.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.Title, &kind, &status, &priority,
		&start, &end, &t.ProgressPct, &critical, &t.SlackDays, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.ParentID = stringPtr(parentID)
	t.Kind = domain.TaskKind(kind)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.IsCritical = intToBool(critical)

	if t.PlannedStart, err = parseDate("planned_start", start); err != nil {
		return nil, err
	}
	if t.PlannedEnd, err = parseDate("planned_end", end); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// parentsFirst orders tasks so that a parent in the batch precedes its
// children, keeping the original order otherwise. Parents outside the batch
// are assumed to be stored already.
func parentsFirst(tasks []*domain.Task) []*domain.Task {
	inBatch := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		inBatch[t.ID] = true
	}
	out := make([]*domain.Task, 0, len(tasks))
	done := make(map[string]bool, len(tasks))
	pending := tasks
	for len(pending) > 0 {
		var next []*domain.Task
		for _, t := range pending {
			if t.HasParent() && inBatch[t.Parent()] && !done[t.Parent()] {
				next = append(next, t)
				continue
			}
			out = append(out, t)
			done[t.ID] = true
		}
		if len(next) == len(pending) {
			// Parent cycle within the batch; let the database reject it.
			return append(out, next...)
		}
		pending = next
	}
	return out
}
