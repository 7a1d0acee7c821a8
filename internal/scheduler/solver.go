package scheduler

import (
	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
)

// Propagate pushes the consequences of a date change on changedID forward
// through its dependents. Tasks are visited once, in topological order; a
// task is only re-evaluated when one of its predecessors is the changed
// task or was itself shifted. Its required start is the maximum bound over
// all of its incoming edges, and it only ever moves later, keeping its
// duration.
//
// The returned ids are the tasks whose planned range moved, in topological
// order. An empty result means the change was absorbed.
func Propagate(g *graph.ProjectGraph, changedID string) ([]string, error) {
	if _, ok := g.Task(changedID); !ok {
		return nil, domain.NotFound("task", changedID)
	}
	return propagate(g, map[string]bool{changedID: true}, false)
}

// PropagateAll evaluates every task against its predecessors. Used after
// dependency edits and imports, where the origin of a violation is not a
// single date change.
func PropagateAll(g *graph.ProjectGraph) ([]string, error) {
	return propagate(g, nil, true)
}

func propagate(g *graph.ProjectGraph, dirty map[string]bool, all bool) ([]string, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	if dirty == nil {
		dirty = make(map[string]bool)
	}

	var changed []string
	for _, id := range order {
		preds := g.Predecessors(id)
		if len(preds) == 0 {
			continue
		}
		if !all && !anyDirty(preds, dirty) {
			continue
		}

		t, _ := g.Task(id)
		required, ok := requiredStart(g, t, preds)
		if !ok {
			continue
		}
		current := dayNumber(t.PlannedStart)
		if required <= current {
			continue
		}
		shift := required - current
		t.PlannedStart = domain.AddDays(t.PlannedStart, shift)
		t.PlannedEnd = domain.AddDays(t.PlannedEnd, shift)
		dirty[id] = true
		changed = append(changed, id)
	}
	return changed, nil
}

// requiredStart is the tightest lower bound on t's start over preds.
func requiredStart(g *graph.ProjectGraph, t *domain.Task, preds []graph.Link) (int, bool) {
	dur := t.DurationDays()
	best, found := 0, false
	for _, l := range preds {
		p, ok := g.Task(l.TaskID)
		if !ok {
			continue
		}
		b := earliestStart(l.Type, dayNumber(p.PlannedStart), dayNumber(p.PlannedEnd), l.LagDays, dur)
		if !found || b > best {
			best, found = b, true
		}
	}
	return best, found
}

func anyDirty(links []graph.Link, dirty map[string]bool) bool {
	for _, l := range links {
		if dirty[l.TaskID] {
			return true
		}
	}
	return false
}
