package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

// resolveProject accepts a full project id or an unambiguous prefix.
func resolveProject(ctx context.Context, app *App, input string) (*domain.Project, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("project is required (use --project)")
	}
	return app.Projects.Resolve(ctx, input)
}

// resolveTaskID accepts a full task id or an id prefix that matches exactly
// one task across all projects.
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}
	t, err := app.Schedule.GetTask(ctx, input)
	if err == nil {
		return t.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range projects {
		tasks, err := app.Schedule.ListTasks(ctx, p.ID)
		if err != nil {
			return "", err
		}
		for _, t := range tasks {
			if strings.HasPrefix(t.ID, input) {
				matches = append(matches, t.ID)
			}
		}
	}
	return pickMatch("task", input, matches)
}

// resolveDependencyID is resolveTaskID for dependency edges.
func resolveDependencyID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("dependency ID is required")
	}
	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range projects {
		deps, err := app.Schedule.ListDependencies(ctx, p.ID)
		if err != nil {
			return "", err
		}
		for _, d := range deps {
			if d.ID == input {
				return d.ID, nil
			}
			if strings.HasPrefix(d.ID, input) {
				matches = append(matches, d.ID)
			}
		}
	}
	return pickMatch("dependency", input, matches)
}

func pickMatch(entity, input string, matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", domain.NotFound(entity, input)
	case 1:
		return matches[0], nil
	default:
		return "", domain.Conflictf("%s ID prefix %q is ambiguous (%d matches)", entity, input, len(matches))
	}
}
