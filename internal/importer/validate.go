package importer

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)
	errs = append(errs, validateDefaults(schema.Defaults)...)

	kinds := make(map[string]domain.TaskKind)
	errs = append(errs, validateTasks(schema.Tasks, kinds)...)

	errs = append(errs, validateDependencies(schema.Dependencies, kinds)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.StartDate == "" {
		errs = append(errs, fmt.Errorf("project.start_date is required"))
	} else if _, err := domain.ParseDate(p.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("project.start_date: %w", err))
	}

	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	var errs []error

	if d.Priority != "" && !domain.ValidTaskPriorities[domain.TaskPriority(d.Priority)] {
		errs = append(errs, fmt.Errorf("defaults.priority: invalid value %q", d.Priority))
	}
	if d.DependencyType != "" {
		if _, ok := domain.ParseDependencyType(d.DependencyType); !ok {
			errs = append(errs, fmt.Errorf("defaults.dependency_type: invalid value %q", d.DependencyType))
		}
	}

	return errs
}

// validateTasks records each valid ref's kind in kinds. Parent refs may point
// forward in the list.
func validateTasks(tasks []TaskImport, kinds map[string]domain.TaskKind) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		kind := domain.TaskKind(domain.CoalesceStr(t.Kind, string(domain.KindTask)))
		if !domain.ValidTaskKinds[kind] {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, t.Kind))
		}

		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := kinds[t.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		} else {
			kinds[t.Ref] = kind
		}

		if t.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if t.Status != "" && !domain.ValidTaskStatuses[domain.TaskStatus(t.Status)] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if t.Priority != "" && !domain.ValidTaskPriorities[domain.TaskPriority(t.Priority)] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}
		if t.Progress != nil && (*t.Progress < 0 || *t.Progress > 100) {
			errs = append(errs, fmt.Errorf("%s.progress: %.1f outside 0-100", prefix, *t.Progress))
		}

		if kind.IsContainer() {
			errs = append(errs, validateOptionalDate(prefix+".start", t.Start)...)
			errs = append(errs, validateOptionalDate(prefix+".end", t.End)...)
			continue
		}
		errs = append(errs, validateLeafDates(prefix, kind, t)...)
	}

	for i, t := range tasks {
		if t.ParentRef == nil || *t.ParentRef == "" {
			continue
		}
		prefix := fmt.Sprintf("tasks[%d]", i)
		parentKind, ok := kinds[*t.ParentRef]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found in tasks", prefix, *t.ParentRef))
		case *t.ParentRef == t.Ref:
			errs = append(errs, fmt.Errorf("%s.parent_ref: task %q cannot be its own parent", prefix, t.Ref))
		case !parentKind.IsContainer():
			errs = append(errs, fmt.Errorf("%s.parent_ref: %q is a %s; only groups and subgroups can contain tasks", prefix, *t.ParentRef, parentKind))
		}
	}

	return errs
}

func validateLeafDates(prefix string, kind domain.TaskKind, t TaskImport) []error {
	if t.Start == "" {
		return []error{fmt.Errorf("%s.start is required", prefix)}
	}
	start, err := domain.ParseDate(t.Start)
	if err != nil {
		return []error{fmt.Errorf("%s.start: %w", prefix, err)}
	}
	if t.End == "" {
		if kind == domain.KindMilestone {
			return nil
		}
		return []error{fmt.Errorf("%s.end is required", prefix)}
	}
	end, err := domain.ParseDate(t.End)
	if err != nil {
		return []error{fmt.Errorf("%s.end: %w", prefix, err)}
	}
	if kind == domain.KindMilestone && !end.Equal(start) {
		return []error{fmt.Errorf("%s: milestone end %q must equal start %q", prefix, t.End, t.Start)}
	}
	if end.Before(start) {
		return []error{fmt.Errorf("%s: end %q is before start %q", prefix, t.End, t.Start)}
	}
	return nil
}

func validateDependencies(deps []DependencyImport, kinds map[string]domain.TaskKind) []error {
	var errs []error
	seen := make(map[[2]string]bool)

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		errs = append(errs, validateEndpoint(prefix+".predecessor_ref", d.PredecessorRef, kinds)...)
		errs = append(errs, validateEndpoint(prefix+".successor_ref", d.SuccessorRef, kinds)...)

		if d.PredecessorRef != "" && d.SuccessorRef != "" && d.PredecessorRef == d.SuccessorRef {
			errs = append(errs, fmt.Errorf("%s: self-dependency (predecessor_ref == successor_ref == %q)", prefix, d.PredecessorRef))
		}
		if d.Type != "" {
			if _, ok := domain.ParseDependencyType(d.Type); !ok {
				errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, d.Type))
			}
		}

		pair := [2]string{d.PredecessorRef, d.SuccessorRef}
		if seen[pair] {
			errs = append(errs, fmt.Errorf("%s: duplicate dependency %q -> %q", prefix, d.PredecessorRef, d.SuccessorRef))
		}
		seen[pair] = true
	}

	// Check for circular dependencies
	if len(deps) > 1 {
		errs = append(errs, detectCycles(deps)...)
	}

	return errs
}

func validateEndpoint(field, ref string, kinds map[string]domain.TaskKind) []error {
	if ref == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	kind, ok := kinds[ref]
	if !ok {
		return []error{fmt.Errorf("%s: ref %q not found in tasks", field, ref)}
	}
	if kind.IsContainer() {
		return []error{fmt.Errorf("%s: %q is a %s; dependencies connect tasks and milestones", field, ref, kind)}
	}
	return nil
}

// detectCycles reports one error per dependency cycle reachable from an
// unvisited ref, walking refs in sorted order so messages are stable.
func detectCycles(deps []DependencyImport) []error {
	graph := make(map[string][]string)
	nodes := make(map[string]bool)
	for _, d := range deps {
		if d.PredecessorRef != "" && d.SuccessorRef != "" && d.PredecessorRef != d.SuccessorRef {
			graph[d.PredecessorRef] = append(graph[d.PredecessorRef], d.SuccessorRef)
			nodes[d.PredecessorRef] = true
			nodes[d.SuccessorRef] = true
		}
	}
	order := make([]string, 0, len(nodes))
	for n := range nodes {
		order = append(order, n)
	}
	sort.Strings(order)

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, neighbor := range graph[node] {
			if color[neighbor] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected involving %q and %q", node, neighbor))
				return true
			}
			if color[neighbor] == white {
				if visit(neighbor) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for _, node := range order {
		if color[node] == white {
			visit(node)
		}
	}

	return errs
}

func validateOptionalDate(field, s string) []error {
	if s == "" {
		return nil
	}
	if _, err := domain.ParseDate(s); err != nil {
		return []error{fmt.Errorf("%s: %w", field, err)}
	}
	return nil
}
