package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskgraph/internal/db"
	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
	"github.com/alexanderramin/taskgraph/internal/repository"
	"github.com/alexanderramin/taskgraph/internal/scheduler"
	"github.com/google/uuid"
)

// DefaultAtRiskSlackDays is the slack at or below which a task is reported
// at risk.
const DefaultAtRiskSlackDays = 2

type scheduleService struct {
	projects        repository.ProjectRepo
	tasks           repository.TaskRepo
	deps            repository.DependencyRepo
	uow             db.UnitOfWork
	locks           *projectLocks
	atRiskSlackDays int
	observer        UseCaseObserver
}

func NewScheduleService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	uow db.UnitOfWork,
	atRiskSlackDays int,
	observers ...UseCaseObserver,
) ScheduleService {
	if atRiskSlackDays < 0 {
		atRiskSlackDays = DefaultAtRiskSlackDays
	}
	return &scheduleService{
		projects:        projects,
		tasks:           tasks,
		deps:            deps,
		uow:             uow,
		locks:           newProjectLocks(),
		atRiskSlackDays: atRiskSlackDays,
		observer:        combineObservers(observers),
	}
}

// mutation edits g in place and returns the task the solver should start
// from. An empty id asks for a full pass.
type mutation func(g *graph.ProjectGraph) (string, error)

// mutate runs one write: load the project graph inside a transaction, apply
// fn, recalculate, and persist the difference. Nothing is written when fn or
// the pipeline fails.
func (s *scheduleService) mutate(ctx context.Context, useCase, projectID string, fields map[string]any, fn mutation) (cs *ChangeSet, err error) {
	run := startUseCase(s.observer, useCase, projectID, fields)
	defer func() { run.finish(ctx, err) }()

	unlock := s.locks.lock(projectID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project.Status == domain.ProjectArchived {
			return domain.Conflictf("project %q is archived", project.Name)
		}

		g, err := loadGraph(ctx, projectID, txTasks, txDeps)
		if err != nil {
			return err
		}
		before := g.Clone()

		changedID, err := fn(g)
		if err != nil {
			return err
		}
		res, err := scheduler.Recalculate(g, changedID)
		if err != nil {
			return fmt.Errorf("recalculating schedule: %w", err)
		}

		diff := diffGraphs(before, g)
		if !diff.empty() {
			if err := persistDiff(ctx, txTasks, txDeps, diff, run.startedAt); err != nil {
				return err
			}
		}

		cs = &ChangeSet{
			ProjectID:           projectID,
			Changed:             diff.changed,
			Removed:             diff.removed,
			Shifted:             res.Shifted,
			Critical:            res.Critical,
			ProjectDurationDays: res.ProjectDurationDays,
			EmptyContainers:     res.EmptyContainers,
		}
		run.set("changed", len(diff.changed))
		run.set("shifted", len(res.Shifted))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// projectOfTask looks up the owning project outside of any transaction.
func (s *scheduleService) projectOfTask(ctx context.Context, taskID string) (string, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return "", err
	}
	return t.ProjectID, nil
}

func (s *scheduleService) AddTask(ctx context.Context, t *domain.Task) (*ChangeSet, error) {
	if t.ProjectID == "" {
		return nil, domain.Validationf("task %q has no project", t.Title)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if t.Kind.IsContainer() && t.PlannedStart.IsZero() {
		// Placeholder range until rollup sees a child.
		p, err := s.projects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return nil, err
		}
		t.PlannedStart, t.PlannedEnd = p.StartDate, p.StartDate
	}

	fields := map[string]any{"task_id": t.ID, "kind": string(t.Kind)}
	return s.mutate(ctx, "add-task", t.ProjectID, fields, func(g *graph.ProjectGraph) (string, error) {
		if err := g.AddTask(t); err != nil {
			return "", err
		}
		return t.ID, nil
	})
}

// UpdateTaskDates runs a full solver pass so the edited task is also held to
// its own predecessors.
func (s *scheduleService) UpdateTaskDates(ctx context.Context, taskID string, start, end time.Time) (*ChangeSet, error) {
	projectID, err := s.projectOfTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"task_id": taskID,
		"start":   start.Format(domain.DateLayout),
		"end":     end.Format(domain.DateLayout),
	}
	return s.mutate(ctx, "update-task-dates", projectID, fields, func(g *graph.ProjectGraph) (string, error) {
		if err := g.UpdateTaskDates(taskID, start, end); err != nil {
			return "", err
		}
		return "", nil
	})
}

func (s *scheduleService) SetProgress(ctx context.Context, taskID string, pct float64) (*ChangeSet, error) {
	projectID, err := s.projectOfTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"task_id": taskID, "progress": pct}
	return s.mutate(ctx, "set-progress", projectID, fields, func(g *graph.ProjectGraph) (string, error) {
		t, ok := g.Task(taskID)
		if !ok {
			return "", domain.NotFound("task", taskID)
		}
		if t.Kind.IsContainer() {
			return "", domain.Validationf("%s %q progress is derived from its children", t.Kind, taskID)
		}
		if err := t.SetProgress(pct, time.Now().UTC()); err != nil {
			return "", err
		}
		return taskID, nil
	})
}

func (s *scheduleService) SetStatus(ctx context.Context, taskID string, status domain.TaskStatus) (*ChangeSet, error) {
	if !domain.ValidTaskStatuses[status] {
		return nil, domain.Validationf("invalid task status %q", status)
	}
	projectID, err := s.projectOfTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"task_id": taskID, "status": string(status)}
	return s.mutate(ctx, "set-status", projectID, fields, func(g *graph.ProjectGraph) (string, error) {
		t, ok := g.Task(taskID)
		if !ok {
			return "", domain.NotFound("task", taskID)
		}
		t.Status = status
		if status == domain.StatusCompleted && !t.Kind.IsContainer() {
			t.ProgressPct = 100
		}
		return taskID, nil
	})
}

func (s *scheduleService) MoveTask(ctx context.Context, taskID, parentID string) (*ChangeSet, error) {
	projectID, err := s.projectOfTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"task_id": taskID, "parent_id": parentID}
	return s.mutate(ctx, "move-task", projectID, fields, func(g *graph.ProjectGraph) (string, error) {
		if err := g.SetParent(taskID, parentID); err != nil {
			return "", err
		}
		return "", nil
	})
}

func (s *scheduleService) RemoveTask(ctx context.Context, taskID string) (*ChangeSet, error) {
	projectID, err := s.projectOfTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"task_id": taskID}
	return s.mutate(ctx, "remove-task", projectID, fields, func(g *graph.ProjectGraph) (string, error) {
		if err := g.RemoveTask(taskID); err != nil {
			return "", err
		}
		return "", nil
	})
}

func (s *scheduleService) AddDependency(ctx context.Context, d *domain.Dependency) (*ChangeSet, error) {
	projectID := d.ProjectID
	if projectID == "" {
		var err error
		if projectID, err = s.projectOfTask(ctx, d.PredecessorID); err != nil {
			return nil, err
		}
	}
	var stored *domain.Dependency
	fields := map[string]any{
		"predecessor_id": d.PredecessorID,
		"successor_id":   d.SuccessorID,
		"type":           string(d.Type),
		"lag_days":       d.LagDays,
	}
	cs, err := s.mutate(ctx, "add-dependency", projectID, fields, func(g *graph.ProjectGraph) (string, error) {
		var err error
		stored, err = g.AddDependency(d)
		return "", err
	})
	if err != nil {
		return nil, err
	}
	cs.Dependency = stored
	return cs, nil
}

func (s *scheduleService) RemoveDependency(ctx context.Context, dependencyID string) (*ChangeSet, error) {
	dep, err := s.deps.GetByID(ctx, dependencyID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"dependency_id": dependencyID}
	cs, err := s.mutate(ctx, "remove-dependency", dep.ProjectID, fields, func(g *graph.ProjectGraph) (string, error) {
		_, err := g.RemoveDependency(dependencyID)
		return "", err
	})
	if err != nil {
		return nil, err
	}
	cs.Dependency = dep
	return cs, nil
}

func (s *scheduleService) Recalculate(ctx context.Context, projectID string) (*ChangeSet, error) {
	return s.mutate(ctx, "recalculate", projectID, nil, func(*graph.ProjectGraph) (string, error) {
		return "", nil
	})
}

func (s *scheduleService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *scheduleService) ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *scheduleService) ListDependencies(ctx context.Context, projectID string) ([]*domain.Dependency, error) {
	return s.deps.ListByProject(ctx, projectID)
}

func (s *scheduleService) Schedule(ctx context.Context, projectID string, now time.Time) (*ScheduleView, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	g, err := loadGraph(ctx, projectID, s.tasks, s.deps)
	if err != nil {
		return nil, err
	}
	res, err := scheduler.Recalculate(g, "")
	if err != nil {
		return nil, fmt.Errorf("recalculating schedule: %w", err)
	}

	rows := scheduler.BuildScheduleRows(g, res.Timings, now, s.atRiskSlackDays)
	scheduler.CanonicalSort(rows)

	view := &ScheduleView{
		Project:             project,
		Rows:                rows,
		Tasks:               g.Tasks(),
		Critical:            res.CriticalTasks(g),
		ProjectDurationDays: res.ProjectDurationDays,
		ProjectEnd:          projectEnd(g),
	}
	for _, id := range res.EmptyContainers {
		if t, ok := g.Task(id); ok {
			view.EmptyContainers = append(view.EmptyContainers, t)
		}
	}
	return view, nil
}

// projectEnd is the latest planned end of any leaf task.
func projectEnd(g *graph.ProjectGraph) time.Time {
	var end time.Time
	for _, t := range g.Tasks() {
		if !t.Kind.IsContainer() && t.PlannedEnd.After(end) {
			end = t.PlannedEnd
		}
	}
	return end
}
