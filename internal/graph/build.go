package graph

import "github.com/alexanderramin/taskgraph/internal/domain"

// Build assembles a graph from stored records. Tasks may arrive in any order;
// parent links are resolved after all tasks are known. Every structural
// invariant enforced by AddTask and AddDependency is checked, plus a full
// containment cycle check since stored parent links never passed through
// SetParent.
func Build(projectID string, tasks []*domain.Task, deps []*domain.Dependency) (*ProjectGraph, error) {
	g := New(projectID)

	for _, task := range tasks {
		t := task.Clone()
		t.Normalize()
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, exists := g.tasks[t.ID]; exists {
			return nil, domain.Validationf("task %q already exists", t.ID)
		}
		if t.ProjectID == "" {
			t.ProjectID = projectID
		}
		g.tasks[t.ID] = t
		g.index[t.ID] = g.seq
		g.seq++
	}

	for _, t := range g.Tasks() {
		if !t.HasParent() {
			continue
		}
		parent, ok := g.tasks[t.Parent()]
		if !ok {
			return nil, domain.Validationf("parent task %q of %q does not exist", t.Parent(), t.ID)
		}
		if !parent.Kind.IsContainer() {
			return nil, domain.Validationf("parent %q is a %s; only groups and subgroups can contain tasks", parent.ID, parent.Kind)
		}
		g.children[parent.ID] = append(g.children[parent.ID], t.ID)
	}

	if err := g.ValidateContainment(); err != nil {
		return nil, err
	}

	for _, d := range deps {
		if _, err := g.AddDependency(d); err != nil {
			return nil, err
		}
	}
	return g, nil
}
