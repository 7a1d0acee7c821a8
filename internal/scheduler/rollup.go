package scheduler

import (
	"sort"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
)

type RollupResult struct {
	// Changed lists containers whose range, progress, slack or critical
	// flag moved.
	Changed []string
	// EmptyContainers lists groups and subgroups without children. They are
	// left untouched; this is a data-quality signal, not an error.
	EmptyContainers []string
}

// Rollup recomputes every container bottom-up: deepest containers first, so
// each level sees the already-updated values of the level below.
func Rollup(g *graph.ProjectGraph) (*RollupResult, error) {
	if err := g.ValidateContainment(); err != nil {
		return nil, err
	}

	type entry struct {
		task  *domain.Task
		depth int
		rank  int
	}
	var containers []entry
	for i, t := range g.Tasks() {
		if t.Kind.IsContainer() {
			containers = append(containers, entry{task: t, depth: len(g.Ancestors(t.ID)), rank: i})
		}
	}
	sort.SliceStable(containers, func(i, j int) bool {
		if containers[i].depth != containers[j].depth {
			return containers[i].depth > containers[j].depth
		}
		return containers[i].rank < containers[j].rank
	})

	res := &RollupResult{}
	for _, c := range containers {
		changed, ok := rollupContainer(g, c.task)
		if !ok {
			res.EmptyContainers = append(res.EmptyContainers, c.task.ID)
			continue
		}
		if changed {
			res.Changed = append(res.Changed, c.task.ID)
		}
	}
	return res, nil
}

// RollupAncestors recomputes only the container chain above taskID, nearest
// parent first. Use after a change that cannot affect other branches.
func RollupAncestors(g *graph.ProjectGraph, taskID string) (*RollupResult, error) {
	if _, ok := g.Task(taskID); !ok {
		return nil, domain.NotFound("task", taskID)
	}
	res := &RollupResult{}
	for _, a := range g.Ancestors(taskID) {
		changed, ok := rollupContainer(g, a)
		if !ok {
			res.EmptyContainers = append(res.EmptyContainers, a.ID)
			continue
		}
		if changed {
			res.Changed = append(res.Changed, a.ID)
		}
	}
	return res, nil
}

// rollupContainer derives c from its children. ok is false when c has no
// children with a valid range, in which case c is left unchanged.
func rollupContainer(g *graph.ProjectGraph, c *domain.Task) (changed, ok bool) {
	var kids []*domain.Task
	for _, k := range g.Children(c.ID) {
		if k.Kind.IsContainer() && !hasLeaf(g, k.ID) {
			continue // empty sub-container carries no valid range
		}
		kids = append(kids, k)
	}
	if len(kids) == 0 {
		return false, false
	}

	start, end := kids[0].PlannedStart, kids[0].PlannedEnd
	slack, critical := kids[0].SlackDays, false
	var weighted, weight, plain float64
	for _, k := range kids {
		if k.PlannedStart.Before(start) {
			start = k.PlannedStart
		}
		if k.PlannedEnd.After(end) {
			end = k.PlannedEnd
		}
		if k.SlackDays < slack {
			slack = k.SlackDays
		}
		critical = critical || k.IsCritical
		w := float64(k.DurationDays())
		weighted += k.ProgressPct * w
		weight += w
		plain += k.ProgressPct
	}

	progress := plain / float64(len(kids))
	if weight > 0 {
		progress = weighted / weight
	}

	changed = !c.PlannedStart.Equal(start) || !c.PlannedEnd.Equal(end) ||
		c.ProgressPct != progress || c.SlackDays != slack || c.IsCritical != critical
	c.PlannedStart = start
	c.PlannedEnd = end
	c.ProgressPct = progress
	c.SlackDays = slack
	c.IsCritical = critical
	return changed, true
}

// hasLeaf reports whether any descendant of id is a task or milestone.
func hasLeaf(g *graph.ProjectGraph, id string) bool {
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, k := range g.Children(cur) {
			if !k.Kind.IsContainer() {
				return true
			}
			stack = append(stack, k.ID)
		}
	}
	return false
}
