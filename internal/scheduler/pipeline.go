package scheduler

import (
	"sort"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
)

// PipelineResult is what a caller needs to refresh after a schedule write.
type PipelineResult struct {
	// Changed is the sorted set of task ids whose dates, progress, slack or
	// critical flag changed during the run.
	Changed []string
	// Shifted is the subset moved by the solver, in topological order.
	Shifted             []string
	Critical            []string
	ProjectDurationDays int
	EmptyContainers     []string
	Timings             map[string]Timing
}

// Recalculate runs solver, critical path and rollup over g in that order.
// With an empty changedID, or when changedID is a container, the solver
// evaluates every task; otherwise it starts from changedID.
func Recalculate(g *graph.ProjectGraph, changedID string) (*PipelineResult, error) {
	var (
		shifted []string
		err     error
	)
	if t, ok := g.Task(changedID); ok && !t.Kind.IsContainer() {
		shifted, err = Propagate(g, changedID)
	} else if changedID != "" && !ok {
		return nil, domain.NotFound("task", changedID)
	} else {
		shifted, err = PropagateAll(g)
	}
	if err != nil {
		return nil, err
	}

	cp, err := ComputeCriticalPath(g)
	if err != nil {
		return nil, err
	}
	slackChanged := cp.Apply(g)

	rolled, err := Rollup(g)
	if err != nil {
		return nil, err
	}
	floated := floatEmpty(g, rolled.EmptyContainers, cp.ProjectDurationDays)

	return &PipelineResult{
		Changed:             unionSorted(shifted, slackChanged, rolled.Changed, floated),
		Shifted:             shifted,
		Critical:            cp.Critical,
		ProjectDurationDays: cp.ProjectDurationDays,
		EmptyContainers:     rolled.EmptyContainers,
		Timings:             cp.Timings,
	}, nil
}

// floatEmpty gives each empty container the whole project span as slack.
// Its dates are left alone; IsCritical follows slack so a project with no
// dated work marks its empty containers critical.
func floatEmpty(g *graph.ProjectGraph, ids []string, durationDays int) []string {
	var changed []string
	for _, id := range ids {
		t, ok := g.Task(id)
		if !ok {
			continue
		}
		critical := durationDays == 0
		if t.SlackDays != durationDays || t.IsCritical != critical {
			t.SlackDays = durationDays
			t.IsCritical = critical
			changed = append(changed, id)
		}
	}
	return changed
}

// CriticalTasks resolves the critical ids of r against g.
func (r *PipelineResult) CriticalTasks(g *graph.ProjectGraph) []*domain.Task {
	return criticalTasks(g, r.Critical)
}

func unionSorted(sets ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, s := range sets {
		for _, id := range s {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}
