package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/google/uuid"
)

// GeneratedProject holds the domain objects produced from an import file,
// ready to be assembled into a graph and persisted.
type GeneratedProject struct {
	Project      *domain.Project
	Tasks        []*domain.Task
	Dependencies []*domain.Dependency
	// Refs maps import refs to the generated task ids.
	Refs map[string]string
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*GeneratedProject, error) {
	now := time.Now().UTC()

	startDate, err := domain.ParseDate(schema.Project.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	project := &domain.Project{
		ID:        uuid.New().String(),
		Name:      schema.Project.Name,
		StartDate: startDate,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	refMap := make(map[string]string, len(schema.Tasks)) // ref -> UUID
	for _, t := range schema.Tasks {
		refMap[t.Ref] = uuid.New().String()
	}

	tasks := make([]*domain.Task, 0, len(schema.Tasks))
	for _, t := range schema.Tasks {
		task, err := convertTask(t, refMap, project, schema.Defaults, now)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	deps := make([]*domain.Dependency, 0, len(schema.Dependencies))
	for _, d := range schema.Dependencies {
		predID, ok := refMap[d.PredecessorRef]
		if !ok {
			return nil, fmt.Errorf("predecessor_ref %q not found", d.PredecessorRef)
		}
		succID, ok := refMap[d.SuccessorRef]
		if !ok {
			return nil, fmt.Errorf("successor_ref %q not found", d.SuccessorRef)
		}

		// Defaults cascade: dependency field > schema defaults > finish-to-start, no lag
		typ, ok := domain.ParseDependencyType(domain.CoalesceStr(d.Type, defaultDependencyType(schema.Defaults), string(domain.FinishToStart)))
		if !ok {
			return nil, fmt.Errorf("dependency %q -> %q: invalid type %q", d.PredecessorRef, d.SuccessorRef, d.Type)
		}
		deps = append(deps, &domain.Dependency{
			ID:            uuid.New().String(),
			ProjectID:     project.ID,
			PredecessorID: predID,
			SuccessorID:   succID,
			Type:          typ,
			LagDays:       domain.IntFromPtrWithDefault(0, d.LagDays, defaultLag(schema.Defaults)),
			CreatedAt:     now,
		})
	}

	return &GeneratedProject{
		Project:      project,
		Tasks:        tasks,
		Dependencies: deps,
		Refs:         refMap,
	}, nil
}

func convertTask(t TaskImport, refMap map[string]string, project *domain.Project, defaults *DefaultsImport, now time.Time) (*domain.Task, error) {
	kind := domain.TaskKind(domain.CoalesceStr(t.Kind, string(domain.KindTask)))

	// Containers without dates start as zero-length placeholders at the
	// project start; rollup replaces them.
	start, end := project.StartDate, project.StartDate
	if t.Start != "" {
		d, err := domain.ParseDate(t.Start)
		if err != nil {
			return nil, fmt.Errorf("task %q start: %w", t.Ref, err)
		}
		start, end = d, d
	}
	if t.End != "" {
		d, err := domain.ParseDate(t.End)
		if err != nil {
			return nil, fmt.Errorf("task %q end: %w", t.Ref, err)
		}
		end = d
	}

	task := &domain.Task{
		ID:           refMap[t.Ref],
		ProjectID:    project.ID,
		Title:        t.Title,
		Kind:         kind,
		Status:       domain.TaskStatus(t.Status),
		Priority:     domain.TaskPriority(domain.CoalesceStr(t.Priority, defaultPriority(defaults), string(domain.PriorityMedium))),
		PlannedStart: start,
		PlannedEnd:   end,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if t.ParentRef != nil && *t.ParentRef != "" {
		pid := refMap[*t.ParentRef]
		task.ParentID = &pid
	}

	// Explicit status wins; otherwise progress drives it.
	progress := domain.Float64FromPtrWithDefault(0, t.Progress)
	if task.Status != "" {
		task.ProgressPct = progress
	} else if err := task.SetProgress(progress, now); err != nil {
		return nil, err
	}
	task.Normalize()
	return task, nil
}

// Export renders stored records back into an import document. Task ids are
// used as refs, so a re-import produces the same structure under new ids.
func Export(project *domain.Project, tasks []*domain.Task, deps []*domain.Dependency) *ImportSchema {
	schema := &ImportSchema{
		Project: ProjectImport{
			Name:      project.Name,
			StartDate: project.StartDate.Format(domain.DateLayout),
		},
		Tasks:        make([]TaskImport, 0, len(tasks)),
		Dependencies: make([]DependencyImport, 0, len(deps)),
	}
	for _, t := range tasks {
		ti := TaskImport{
			Ref:      t.ID,
			Title:    t.Title,
			Kind:     string(t.Kind),
			Start:    t.PlannedStart.Format(domain.DateLayout),
			End:      t.PlannedEnd.Format(domain.DateLayout),
			Status:   string(t.Status),
			Priority: string(t.Priority),
		}
		if t.HasParent() {
			pid := t.Parent()
			ti.ParentRef = &pid
		}
		if !t.Kind.IsContainer() {
			pct := t.ProgressPct
			ti.Progress = &pct
		}
		schema.Tasks = append(schema.Tasks, ti)
	}
	for _, d := range deps {
		lag := d.LagDays
		schema.Dependencies = append(schema.Dependencies, DependencyImport{
			PredecessorRef: d.PredecessorID,
			SuccessorRef:   d.SuccessorID,
			Type:           string(d.Type),
			LagDays:        &lag,
		})
	}
	return schema
}

func defaultPriority(d *DefaultsImport) string {
	if d != nil {
		return d.Priority
	}
	return ""
}

func defaultDependencyType(d *DefaultsImport) string {
	if d != nil {
		return d.DependencyType
	}
	return ""
}

func defaultLag(d *DefaultsImport) *int {
	if d != nil {
		return d.LagDays
	}
	return nil
}
