// Package graph holds one project's tasks, their containment tree and the
// typed dependency edges between them.
//
// ProjectGraph is the source of truth for structural invariants. Every
// mutation validates eagerly and leaves the graph untouched when it fails.
//
// ProjectGraph is not safe for concurrent use. Callers serialize writes per
// project.
package graph

import (
	"sort"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/google/uuid"
)

// Link is one side of a dependency edge as seen from a task: TaskID is the
// task on the other end.
type Link struct {
	TaskID       string
	DependencyID string
	Type         domain.DependencyType
	LagDays      int
}

type edgeKey struct {
	pred string
	succ string
}

// ProjectGraph is an adjacency-list representation keyed by task id.
type ProjectGraph struct {
	projectID string

	tasks map[string]*domain.Task
	index map[string]int // insertion sequence, used for deterministic ordering
	seq   int

	deps  map[string]*domain.Dependency
	pairs map[edgeKey]string
	out   map[string][]string // task id -> outgoing dependency ids
	in    map[string][]string // task id -> incoming dependency ids

	children map[string][]string
}

// New creates an empty graph for the given project.
func New(projectID string) *ProjectGraph {
	return &ProjectGraph{
		projectID: projectID,
		tasks:     make(map[string]*domain.Task),
		index:     make(map[string]int),
		deps:      make(map[string]*domain.Dependency),
		pairs:     make(map[edgeKey]string),
		out:       make(map[string][]string),
		in:        make(map[string][]string),
		children:  make(map[string][]string),
	}
}

// ProjectID returns the project this graph belongs to.
func (g *ProjectGraph) ProjectID() string { return g.projectID }

// Len returns the number of tasks.
func (g *ProjectGraph) Len() int { return len(g.tasks) }

// Task returns the graph-owned task with the given id.
func (g *ProjectGraph) Task(id string) (*domain.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// Tasks returns all tasks in insertion order.
func (g *ProjectGraph) Tasks() []*domain.Task {
	out := make([]*domain.Task, 0, len(g.tasks))
	for _, t := range g.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return g.index[out[i].ID] < g.index[out[j].ID] })
	return out
}

// Dependency returns the dependency with the given id.
func (g *ProjectGraph) Dependency(id string) (*domain.Dependency, bool) {
	d, ok := g.deps[id]
	return d, ok
}

// Dependencies returns all dependency edges ordered by predecessor, then
// by insertion order of the edge.
func (g *ProjectGraph) Dependencies() []*domain.Dependency {
	out := make([]*domain.Dependency, 0, len(g.deps))
	for _, t := range g.Tasks() {
		for _, depID := range g.out[t.ID] {
			out = append(out, g.deps[depID])
		}
	}
	return out
}

// AddTask inserts a copy of task. The parent, if any, must already exist and
// be a container.
func (g *ProjectGraph) AddTask(task *domain.Task) error {
	t := task.Clone()
	t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := g.tasks[t.ID]; exists {
		return domain.Validationf("task %q already exists", t.ID)
	}
	if t.HasParent() {
		if err := g.checkParent(t.ID, t.Parent()); err != nil {
			return err
		}
	}
	if t.ProjectID == "" {
		t.ProjectID = g.projectID
	}

	g.tasks[t.ID] = t
	g.index[t.ID] = g.seq
	g.seq++
	if t.HasParent() {
		g.children[t.Parent()] = append(g.children[t.Parent()], t.ID)
	}
	return nil
}

// RemoveTask deletes a task that has no children and no dependency edges.
func (g *ProjectGraph) RemoveTask(id string) error {
	t, ok := g.tasks[id]
	if !ok {
		return domain.NotFound("task", id)
	}
	if n := len(g.children[id]); n > 0 {
		return domain.Conflictf("task %q still has %d child task(s)", id, n)
	}
	if n := len(g.in[id]) + len(g.out[id]); n > 0 {
		return domain.Conflictf("task %q is still referenced by %d dependency edge(s)", id, n)
	}

	if t.HasParent() {
		g.children[t.Parent()] = removeString(g.children[t.Parent()], id)
		if len(g.children[t.Parent()]) == 0 {
			delete(g.children, t.Parent())
		}
	}
	delete(g.tasks, id)
	delete(g.index, id)
	delete(g.in, id)
	delete(g.out, id)
	return nil
}

// AddDependency inserts a typed edge. An empty ID is filled with a new UUID.
// The stored copy is returned.
//
// Checks run in a fixed order: unknown endpoints (NotFoundError), malformed
// edges (ValidationError), duplicate ordered pair (ConflictError), and
// finally reachability from successor back to predecessor (CycleError).
func (g *ProjectGraph) AddDependency(dep *domain.Dependency) (*domain.Dependency, error) {
	d := *dep
	if d.PredecessorID == "" || d.SuccessorID == "" {
		return nil, domain.Validationf("dependency requires both predecessor and successor ids")
	}
	pred, ok := g.tasks[d.PredecessorID]
	if !ok {
		return nil, domain.NotFound("task", d.PredecessorID)
	}
	succ, ok := g.tasks[d.SuccessorID]
	if !ok {
		return nil, domain.NotFound("task", d.SuccessorID)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if pred.Kind.IsContainer() {
		return nil, domain.Validationf("predecessor %q is a %s; dependencies connect tasks and milestones", pred.ID, pred.Kind)
	}
	if succ.Kind.IsContainer() {
		return nil, domain.Validationf("successor %q is a %s; dependencies connect tasks and milestones", succ.ID, succ.Kind)
	}
	key := edgeKey{pred: d.PredecessorID, succ: d.SuccessorID}
	if existing, dup := g.pairs[key]; dup {
		return nil, domain.Conflictf("dependency %q -> %q already exists (%s)", d.PredecessorID, d.SuccessorID, existing)
	}
	if d.ID != "" {
		if _, dup := g.deps[d.ID]; dup {
			return nil, domain.Conflictf("dependency id %q already exists", d.ID)
		}
	}
	if path := g.pathBetween(d.SuccessorID, d.PredecessorID); path != nil {
		return nil, &domain.CycleError{Graph: "dependency", Path: append([]string{d.PredecessorID}, path...)}
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.ProjectID == "" {
		d.ProjectID = g.projectID
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	g.deps[d.ID] = &d
	g.pairs[key] = d.ID
	g.out[d.PredecessorID] = append(g.out[d.PredecessorID], d.ID)
	g.in[d.SuccessorID] = append(g.in[d.SuccessorID], d.ID)
	return &d, nil
}

// Connect is shorthand for AddDependency with a generated id.
func (g *ProjectGraph) Connect(predecessorID, successorID string, typ domain.DependencyType, lagDays int) (*domain.Dependency, error) {
	return g.AddDependency(&domain.Dependency{
		PredecessorID: predecessorID,
		SuccessorID:   successorID,
		Type:          typ,
		LagDays:       lagDays,
	})
}

// RemoveDependency deletes the edge with the given id.
func (g *ProjectGraph) RemoveDependency(id string) (*domain.Dependency, error) {
	d, ok := g.deps[id]
	if !ok {
		return nil, domain.NotFound("dependency", id)
	}
	delete(g.deps, id)
	delete(g.pairs, edgeKey{pred: d.PredecessorID, succ: d.SuccessorID})
	g.out[d.PredecessorID] = removeString(g.out[d.PredecessorID], id)
	g.in[d.SuccessorID] = removeString(g.in[d.SuccessorID], id)
	if len(g.out[d.PredecessorID]) == 0 {
		delete(g.out, d.PredecessorID)
	}
	if len(g.in[d.SuccessorID]) == 0 {
		delete(g.in, d.SuccessorID)
	}
	return d, nil
}

// Predecessors returns the direct predecessors of a task in edge insertion order.
func (g *ProjectGraph) Predecessors(taskID string) []Link {
	links := make([]Link, 0, len(g.in[taskID]))
	for _, depID := range g.in[taskID] {
		d := g.deps[depID]
		links = append(links, Link{TaskID: d.PredecessorID, DependencyID: d.ID, Type: d.Type, LagDays: d.LagDays})
	}
	return links
}

// Successors returns the direct successors of a task in edge insertion order.
func (g *ProjectGraph) Successors(taskID string) []Link {
	links := make([]Link, 0, len(g.out[taskID]))
	for _, depID := range g.out[taskID] {
		d := g.deps[depID]
		links = append(links, Link{TaskID: d.SuccessorID, DependencyID: d.ID, Type: d.Type, LagDays: d.LagDays})
	}
	return links
}

// Children returns the direct children of a container in insertion order.
func (g *ProjectGraph) Children(id string) []*domain.Task {
	ids := g.children[id]
	out := make([]*domain.Task, 0, len(ids))
	for _, cid := range ids {
		out = append(out, g.tasks[cid])
	}
	return out
}

// Ancestors returns the parent chain of a task, nearest first.
func (g *ProjectGraph) Ancestors(id string) []*domain.Task {
	var out []*domain.Task
	seen := make(map[string]bool)
	t, ok := g.tasks[id]
	for ok && t.HasParent() && !seen[t.Parent()] {
		seen[t.Parent()] = true
		t, ok = g.tasks[t.Parent()]
		if ok {
			out = append(out, t)
		}
	}
	return out
}

// UpdateTaskDates sets the planned range of a leaf task. Container ranges are
// derived by rollup and cannot be edited directly.
func (g *ProjectGraph) UpdateTaskDates(id string, start, end time.Time) error {
	t, ok := g.tasks[id]
	if !ok {
		return domain.NotFound("task", id)
	}
	if t.Kind.IsContainer() {
		return domain.Validationf("%s %q dates are derived from its children", t.Kind, id)
	}
	c := t.Clone()
	c.PlannedStart = domain.Day(start)
	c.PlannedEnd = domain.Day(end)
	if err := c.Validate(); err != nil {
		return err
	}
	t.PlannedStart = c.PlannedStart
	t.PlannedEnd = c.PlannedEnd
	return nil
}

// SetParent moves a task under another container, or to the root when
// parentID is empty.
func (g *ProjectGraph) SetParent(id, parentID string) error {
	t, ok := g.tasks[id]
	if !ok {
		return domain.NotFound("task", id)
	}
	if parentID != "" {
		if err := g.checkParent(id, parentID); err != nil {
			return err
		}
	}
	if t.Parent() == parentID {
		return nil
	}

	if t.HasParent() {
		old := t.Parent()
		g.children[old] = removeString(g.children[old], id)
		if len(g.children[old]) == 0 {
			delete(g.children, old)
		}
	}
	if parentID == "" {
		t.ParentID = nil
		return nil
	}
	pid := parentID
	t.ParentID = &pid
	g.children[parentID] = append(g.children[parentID], id)
	return nil
}

// checkParent validates that parentID can own id without breaking the tree.
func (g *ProjectGraph) checkParent(id, parentID string) error {
	if parentID == id {
		return domain.Validationf("task %q cannot be its own parent", id)
	}
	parent, ok := g.tasks[parentID]
	if !ok {
		return domain.Validationf("parent task %q of %q does not exist", parentID, id)
	}
	if !parent.Kind.IsContainer() {
		return domain.Validationf("parent %q is a %s; only groups and subgroups can contain tasks", parentID, parent.Kind)
	}
	// parentID must not sit below id.
	path := []string{parentID}
	for _, a := range g.Ancestors(parentID) {
		path = append(path, a.ID)
		if a.ID == id {
			return &domain.CycleError{Graph: "containment", Path: append([]string{id}, path...)}
		}
	}
	return nil
}

// Clone returns a deep copy that can be mutated independently.
func (g *ProjectGraph) Clone() *ProjectGraph {
	c := New(g.projectID)
	c.seq = g.seq
	for id, t := range g.tasks {
		c.tasks[id] = t.Clone()
		c.index[id] = g.index[id]
	}
	for id, d := range g.deps {
		dc := *d
		c.deps[id] = &dc
	}
	for k, v := range g.pairs {
		c.pairs[k] = v
	}
	copySliceMap(c.out, g.out)
	copySliceMap(c.in, g.in)
	copySliceMap(c.children, g.children)
	return c
}

func copySliceMap(dst, src map[string][]string) {
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
}

func removeString(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
