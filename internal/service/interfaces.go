package service

import (
	"context"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/importer"
	"github.com/alexanderramin/taskgraph/internal/scheduler"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a full id or a unique id prefix.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

// ChangeSet reports what one accepted write did to a project.
type ChangeSet struct {
	ProjectID string
	// Changed holds the stored state of every task whose values moved,
	// including tasks created by the write, in project order.
	Changed []*domain.Task
	// Removed lists ids of deleted tasks.
	Removed []string
	// Shifted lists tasks moved by the date solver, in topological order.
	Shifted             []string
	Critical            []string
	ProjectDurationDays int
	EmptyContainers     []string
	// Dependency is the edge created or removed by a dependency write.
	Dependency *domain.Dependency
}

// ChangedIDs returns the ids in Changed.
func (c *ChangeSet) ChangedIDs() []string {
	ids := make([]string, 0, len(c.Changed))
	for _, t := range c.Changed {
		ids = append(ids, t.ID)
	}
	return ids
}

// ScheduleView is a read-only snapshot of a recalculated project.
type ScheduleView struct {
	Project             *domain.Project
	Rows                []scheduler.ScheduleRow
	Tasks               []*domain.Task
	Critical            []*domain.Task
	ProjectDurationDays int
	ProjectEnd          time.Time
	EmptyContainers     []*domain.Task
}

// ScheduleService owns every write to a project's tasks and dependencies.
// Each accepted write reruns the solver, critical path and rollup before it
// is persisted.
type ScheduleService interface {
	AddTask(ctx context.Context, t *domain.Task) (*ChangeSet, error)
	UpdateTaskDates(ctx context.Context, taskID string, start, end time.Time) (*ChangeSet, error)
	SetProgress(ctx context.Context, taskID string, pct float64) (*ChangeSet, error)
	SetStatus(ctx context.Context, taskID string, status domain.TaskStatus) (*ChangeSet, error)
	// MoveTask reparents a task; an empty parentID moves it to the root.
	MoveTask(ctx context.Context, taskID, parentID string) (*ChangeSet, error)
	RemoveTask(ctx context.Context, taskID string) (*ChangeSet, error)
	AddDependency(ctx context.Context, d *domain.Dependency) (*ChangeSet, error)
	RemoveDependency(ctx context.Context, dependencyID string) (*ChangeSet, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListDependencies(ctx context.Context, projectID string) ([]*domain.Dependency, error)
	// Recalculate reruns the full pipeline and persists whatever drifted.
	Recalculate(ctx context.Context, projectID string) (*ChangeSet, error)
	// Schedule computes the current schedule without writing anything.
	Schedule(ctx context.Context, projectID string, now time.Time) (*ScheduleView, error)
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project             *domain.Project
	TaskCount           int
	DependencyCount     int
	ShiftedCount        int
	Critical            []string
	ProjectDurationDays int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
	// ExportProject writes a project as an import document; the format
	// follows the file extension.
	ExportProject(ctx context.Context, projectID, filePath string) (*importer.ImportSchema, error)
}
