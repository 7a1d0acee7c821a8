package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/taskgraph/internal/db"
	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/repository"
	"github.com/alexanderramin/taskgraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (
	repository.ProjectRepo,
	repository.TaskRepo,
	repository.DependencyRepo,
	db.UnitOfWork,
) {
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteTaskRepo(database),
		repository.NewSQLiteDependencyRepo(database),
		testutil.NewTestUoW(database)
}

type scheduleFixture struct {
	database *sql.DB
	svc      ScheduleService
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	project  *domain.Project
	observer *recordingObserver
}

func setupSchedule(t *testing.T) *scheduleFixture {
	t.Helper()
	return setupScheduleOn(t, testutil.NewTestDB(t))
}

func setupScheduleOn(t *testing.T, database *sql.DB) *scheduleFixture {
	t.Helper()
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)
	uow := testutil.NewTestUoW(database)

	proj := testutil.NewTestProject("Fit-out")
	require.NoError(t, projects.Create(context.Background(), proj))
	obs := &recordingObserver{}
	return &scheduleFixture{
		database: database,
		svc:      NewScheduleService(projects, tasks, deps, uow, DefaultAtRiskSlackDays, obs),
		projects: projects,
		tasks:    tasks,
		deps:     deps,
		project:  proj,
		observer: obs,
	}
}

// add stores a task in the fixture project through the service.
func (f *scheduleFixture) add(t *testing.T, task *domain.Task) *ChangeSet {
	t.Helper()
	task.ProjectID = f.project.ID
	cs, err := f.svc.AddTask(context.Background(), task)
	require.NoError(t, err)
	return cs
}

func (f *scheduleFixture) connect(t *testing.T, pred, succ string, typ domain.DependencyType, lag int) *ChangeSet {
	t.Helper()
	cs, err := f.svc.AddDependency(context.Background(), testutil.NewTestDependency(pred, succ, typ, lag))
	require.NoError(t, err)
	return cs
}

// stored reads a task straight from the repository.
func (f *scheduleFixture) stored(t *testing.T, id string) *domain.Task {
	t.Helper()
	task, err := f.tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
