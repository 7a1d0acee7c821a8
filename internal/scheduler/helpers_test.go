package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
	"github.com/alexanderramin/taskgraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, tasks []*domain.Task, deps ...*domain.Dependency) *graph.ProjectGraph {
	t.Helper()
	g, err := graph.Build("p1", tasks, deps)
	require.NoError(t, err)
	return g
}

func fs(pred, succ string) *domain.Dependency {
	return testutil.NewTestDependency(pred, succ, domain.FinishToStart, 0)
}

func task(t *testing.T, g *graph.ProjectGraph, id string) *domain.Task {
	t.Helper()
	tk, ok := g.Task(id)
	require.True(t, ok, "task %s missing", id)
	return tk
}

// span returns a task's planned range as day offsets from testutil.Day0.
func span(t *testing.T, g *graph.ProjectGraph, id string) [2]int {
	t.Helper()
	tk := task(t, g, id)
	return [2]int{
		domain.DaysBetween(testutil.Day0, tk.PlannedStart),
		domain.DaysBetween(testutil.Day0, tk.PlannedEnd),
	}
}

func jan(d int) time.Time {
	return domain.Date(2025, time.January, d)
}
