package repository

import (
	"context"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// GetByIDPrefix resolves a unique id prefix, such as a DisplayID.
	GetByIDPrefix(ctx context.Context, prefix string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByProject returns every task of a project in insertion order.
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	// SaveAll upserts tasks, writing parents before their children.
	SaveAll(ctx context.Context, tasks []*domain.Task) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	GetByID(ctx context.Context, id string) (*domain.Dependency, error)
	// ListByProject returns every dependency of a project in insertion order.
	ListByProject(ctx context.Context, projectID string) ([]*domain.Dependency, error)
	Delete(ctx context.Context, id string) error
}
