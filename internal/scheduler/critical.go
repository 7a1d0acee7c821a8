package scheduler

import (
	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
)

// Timing holds the zero-baseline schedule of one task, in days from project
// start.
type Timing struct {
	EarlyStart  int
	EarlyFinish int
	LateStart   int
	LateFinish  int
	Slack       int
}

type CriticalPathResult struct {
	Timings map[string]Timing
	// Critical lists every zero-slack task in topological order. It is the
	// union of all zero-slack chains and may branch.
	Critical []string
	// ProjectDurationDays is the latest early finish of any scheduled task.
	ProjectDurationDays int
	// Order is the topological order of the scheduled (non-container) tasks.
	Order []string
}

// ComputeCriticalPath runs the forward and backward passes over every
// non-container task. Containers are summarized by Rollup.
//
// Forward: ES = max(0, bound from each predecessor), EF = ES + duration.
// Backward: LF = the minimum of project end and the bound from each
// successor; LS = LF - duration.
// Slack = LS - ES; a task is critical iff its slack is zero.
func ComputeCriticalPath(g *graph.ProjectGraph) (*CriticalPathResult, error) {
	full, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(full))
	dur := make(map[string]int, len(full))
	for _, id := range full {
		t, _ := g.Task(id)
		if t.Kind.IsContainer() {
			continue
		}
		order = append(order, id)
		dur[id] = t.DurationDays()
	}

	timings := make(map[string]Timing, len(order))
	projectEnd := 0
	for _, id := range order {
		es := 0
		for _, l := range g.Predecessors(id) {
			p := timings[l.TaskID]
			if b := earliestStart(l.Type, p.EarlyStart, p.EarlyFinish, l.LagDays, dur[id]); b > es {
				es = b
			}
		}
		ef := es + dur[id]
		timings[id] = Timing{EarlyStart: es, EarlyFinish: ef}
		if ef > projectEnd {
			projectEnd = ef
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		tm := timings[id]
		lf := projectEnd
		for _, l := range g.Successors(id) {
			s := timings[l.TaskID]
			if b := latestFinish(l.Type, s.LateStart, s.LateFinish, l.LagDays, dur[id]); b < lf {
				lf = b
			}
		}
		tm.LateFinish = lf
		tm.LateStart = lf - dur[id]
		tm.Slack = tm.LateStart - tm.EarlyStart
		if tm.Slack < 0 {
			tm.Slack = 0
		}
		timings[id] = tm
	}

	var critical []string
	for _, id := range order {
		if timings[id].Slack == 0 {
			critical = append(critical, id)
		}
	}

	return &CriticalPathResult{
		Timings:             timings,
		Critical:            critical,
		ProjectDurationDays: projectEnd,
		Order:               order,
	}, nil
}

// Apply writes SlackDays and IsCritical onto the graph's tasks and returns
// the ids whose values changed.
func (r *CriticalPathResult) Apply(g *graph.ProjectGraph) []string {
	var changed []string
	for _, id := range r.Order {
		t, ok := g.Task(id)
		if !ok {
			continue
		}
		tm := r.Timings[id]
		if t.SlackDays == tm.Slack && t.IsCritical == (tm.Slack == 0) {
			continue
		}
		t.SlackDays = tm.Slack
		t.IsCritical = tm.Slack == 0
		changed = append(changed, id)
	}
	return changed
}

// IsCritical reports whether id is on the critical path.
func (r *CriticalPathResult) IsCritical(id string) bool {
	tm, ok := r.Timings[id]
	return ok && tm.Slack == 0
}

func criticalTasks(g *graph.ProjectGraph, ids []string) []*domain.Task {
	out := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := g.Task(id); ok {
			out = append(out, t)
		}
	}
	return out
}
