package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskgraph/internal/db"
	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
	"github.com/alexanderramin/taskgraph/internal/importer"
	"github.com/alexanderramin/taskgraph/internal/repository"
	"github.com/alexanderramin/taskgraph/internal/scheduler"
)

type importService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		projects: projects,
		tasks:    tasks,
		deps:     deps,
		uow:      uow,
		observer: combineObservers(observers),
	}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	run := startUseCase(s.observer, "import-project", "", map[string]any{
		"project":          schema.Project.Name,
		"task_count":       len(schema.Tasks),
		"dependency_count": len(schema.Dependencies),
	})
	defer func() { run.finish(ctx, err) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	g, err := graph.Build(generated.Project.ID, generated.Tasks, generated.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("building project graph: %w", err)
	}
	res, err := scheduler.Recalculate(g, "")
	if err != nil {
		return nil, fmt.Errorf("recalculating schedule: %w", err)
	}
	run.projectID = generated.Project.ID
	run.set("shifted", len(res.Shifted))

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		if err := txProjects.Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		if err := txTasks.SaveAll(ctx, g.Tasks()); err != nil {
			return fmt.Errorf("creating tasks: %w", err)
		}
		for _, dep := range g.Dependencies() {
			if err := txDeps.Create(ctx, dep); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:             generated.Project,
		TaskCount:           g.Len(),
		DependencyCount:     len(g.Dependencies()),
		ShiftedCount:        len(res.Shifted),
		Critical:            res.Critical,
		ProjectDurationDays: res.ProjectDurationDays,
	}, nil
}

func (s *importService) ExportProject(ctx context.Context, projectID, filePath string) (schema *importer.ImportSchema, err error) {
	run := startUseCase(s.observer, "export-project", projectID, map[string]any{"path": filePath})
	defer func() { run.finish(ctx, err) }()

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	deps, err := s.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading dependencies: %w", err)
	}

	schema = importer.Export(project, tasks, deps)
	if filePath != "" {
		if err := importer.WriteImportSchema(filePath, schema); err != nil {
			return nil, err
		}
	}
	return schema, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - " + e.Error())
	}
	return &domain.ValidationError{Msg: b.String()}
}
