package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
	"github.com/alexanderramin/taskgraph/internal/repository"
)

// projectLocks serializes writes per project.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*sync.Mutex)}
}

// lock blocks until projectID is free and returns the matching unlock.
func (l *projectLocks) lock(projectID string) func() {
	l.mu.Lock()
	m, ok := l.locks[projectID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[projectID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// loadGraph rebuilds a project's graph from storage.
func loadGraph(ctx context.Context, projectID string, tasks repository.TaskRepo, deps repository.DependencyRepo) (*graph.ProjectGraph, error) {
	ts, err := tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	ds, err := deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading dependencies: %w", err)
	}
	g, err := graph.Build(projectID, ts, ds)
	if err != nil {
		return nil, fmt.Errorf("building project graph: %w", err)
	}
	return g, nil
}

// graphDiff is the set of writes that turns before into after.
type graphDiff struct {
	changed     []*domain.Task
	removed     []string
	addedDeps   []*domain.Dependency
	removedDeps []*domain.Dependency
}

func (d graphDiff) empty() bool {
	return len(d.changed) == 0 && len(d.removed) == 0 && len(d.addedDeps) == 0 && len(d.removedDeps) == 0
}

func diffGraphs(before, after *graph.ProjectGraph) graphDiff {
	var d graphDiff
	for _, t := range after.Tasks() {
		old, ok := before.Task(t.ID)
		if !ok || taskDiffers(old, t) {
			d.changed = append(d.changed, t)
		}
	}
	for _, t := range before.Tasks() {
		if _, ok := after.Task(t.ID); !ok {
			d.removed = append(d.removed, t.ID)
		}
	}
	for _, dep := range before.Dependencies() {
		if _, ok := after.Dependency(dep.ID); !ok {
			d.removedDeps = append(d.removedDeps, dep)
		}
	}
	for _, dep := range after.Dependencies() {
		if _, ok := before.Dependency(dep.ID); !ok {
			d.addedDeps = append(d.addedDeps, dep)
		}
	}
	return d
}

// taskDiffers compares the stored columns of two versions of a task,
// ignoring timestamps.
func taskDiffers(a, b *domain.Task) bool {
	return a.Parent() != b.Parent() ||
		a.Title != b.Title ||
		a.Kind != b.Kind ||
		a.Status != b.Status ||
		a.Priority != b.Priority ||
		!a.PlannedStart.Equal(b.PlannedStart) ||
		!a.PlannedEnd.Equal(b.PlannedEnd) ||
		a.ProgressPct != b.ProgressPct ||
		a.IsCritical != b.IsCritical ||
		a.SlackDays != b.SlackDays
}

// persistDiff writes d in foreign-key safe order: edges and tasks are
// deleted first, then tasks are upserted, then new edges are inserted.
func persistDiff(ctx context.Context, tasks repository.TaskRepo, deps repository.DependencyRepo, d graphDiff, now time.Time) error {
	for _, dep := range d.removedDeps {
		if err := deps.Delete(ctx, dep.ID); err != nil {
			return fmt.Errorf("removing dependency: %w", err)
		}
	}
	for _, id := range d.removed {
		if err := tasks.Delete(ctx, id); err != nil {
			return fmt.Errorf("removing task: %w", err)
		}
	}
	for _, t := range d.changed {
		t.UpdatedAt = now
	}
	if len(d.changed) > 0 {
		if err := tasks.SaveAll(ctx, d.changed); err != nil {
			return fmt.Errorf("saving tasks: %w", err)
		}
	}
	for _, dep := range d.addedDeps {
		if err := deps.Create(ctx, dep); err != nil {
			return fmt.Errorf("saving dependency: %w", err)
		}
	}
	return nil
}
