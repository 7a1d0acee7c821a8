package testutil

import (
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/google/uuid"
)

// Day0 is the calendar anchor used by fixtures that speak in day offsets.
var Day0 = domain.Date(2025, 1, 1)

// D returns Day0 shifted by n days.
func D(n int) time.Time {
	return domain.AddDays(Day0, n)
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		StartDate: Day0,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithKind(k domain.TaskKind) TaskOption {
	return func(t *domain.Task) {
		t.Kind = k
		if k == domain.KindMilestone {
			t.PlannedEnd = t.PlannedStart
		}
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

func WithProgress(pct float64) TaskOption {
	return func(t *domain.Task) {
		t.ProgressPct = pct
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithProject(id string) TaskOption {
	return func(t *domain.Task) {
		t.ProjectID = id
	}
}

func WithTitle(title string) TaskOption {
	return func(t *domain.Task) {
		t.Title = title
	}
}

// NewTestTask builds a simple task spanning [start, end). The id doubles as
// the title unless WithTitle is given.
func NewTestTask(id string, start, end time.Time, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:           id,
		Title:        id,
		Kind:         domain.KindTask,
		Status:       domain.StatusNotStarted,
		Priority:     domain.PriorityMedium,
		PlannedStart: start,
		PlannedEnd:   end,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestSpan builds a task that starts at day offset start and lasts dur days.
func NewTestSpan(id string, start, dur int, opts ...TaskOption) *domain.Task {
	return NewTestTask(id, D(start), D(start+dur), opts...)
}

// NewTestMilestone builds a milestone on day offset day.
func NewTestMilestone(id string, day int, opts ...TaskOption) *domain.Task {
	return NewTestTask(id, D(day), D(day), append([]TaskOption{WithKind(domain.KindMilestone)}, opts...)...)
}

// NewTestGroup builds a container; its dates are placeholders until rollup.
func NewTestGroup(id string, opts ...TaskOption) *domain.Task {
	return NewTestTask(id, Day0, Day0, append([]TaskOption{WithKind(domain.KindGroup)}, opts...)...)
}

// NewTestDependency builds an edge with no id (the graph assigns one).
func NewTestDependency(pred, succ string, typ domain.DependencyType, lag int) *domain.Dependency {
	return &domain.Dependency{
		PredecessorID: pred,
		SuccessorID:   succ,
		Type:          typ,
		LagDays:       lag,
	}
}
