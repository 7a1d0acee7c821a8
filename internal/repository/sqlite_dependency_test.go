package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDependencyRepo(t *testing.T) (*SQLiteDependencyRepo, *SQLiteTaskRepo, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Deps")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	tasks := NewSQLiteTaskRepo(db)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, tasks.Create(ctx, testutil.NewTestSpan(id, 0, 1, testutil.WithProject(proj.ID))))
	}
	return NewSQLiteDependencyRepo(db), tasks, proj.ID
}

func newDep(id, projectID, pred, succ string, typ domain.DependencyType, lag int) *domain.Dependency {
	d := testutil.NewTestDependency(pred, succ, typ, lag)
	d.ID = id
	d.ProjectID = projectID
	return d
}

func TestDependencyRepo_CreateAndList(t *testing.T) {
	repo, _, pid := setupDependencyRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDep("d2", pid, "b", "c", domain.StartToStart, -1)))
	require.NoError(t, repo.Create(ctx, newDep("d1", pid, "a", "b", domain.FinishToStart, 2)))

	deps, err := repo.ListByProject(ctx, pid)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "d2", deps[0].ID)
	assert.Equal(t, domain.StartToStart, deps[0].Type)
	assert.Equal(t, -1, deps[0].LagDays)
	assert.Equal(t, "d1", deps[1].ID)
	assert.Equal(t, "a", deps[1].PredecessorID)
	assert.Equal(t, "b", deps[1].SuccessorID)
}

func TestDependencyRepo_DuplicatePairRejected(t *testing.T) {
	repo, _, pid := setupDependencyRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDep("d1", pid, "a", "b", domain.FinishToStart, 0)))
	err := repo.Create(ctx, newDep("d2", pid, "a", "b", domain.FinishToFinish, 0))
	assert.Error(t, err)
}

func TestDependencyRepo_GetByID(t *testing.T) {
	repo, _, pid := setupDependencyRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDep("d1", pid, "a", "c", domain.StartToFinish, 3)))

	got, err := repo.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.PredecessorID)
	assert.Equal(t, "c", got.SuccessorID)
	assert.Equal(t, domain.StartToFinish, got.Type)
	assert.Equal(t, 3, got.LagDays)
	assert.Equal(t, pid, got.ProjectID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDependencyRepo_Delete(t *testing.T) {
	repo, _, pid := setupDependencyRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDep("d1", pid, "a", "b", domain.FinishToStart, 0)))
	require.NoError(t, repo.Delete(ctx, "d1"))
	assert.ErrorIs(t, repo.Delete(ctx, "d1"), domain.ErrNotFound)

	deps, err := repo.ListByProject(ctx, pid)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestDependencyRepo_TaskDeleteCascades(t *testing.T) {
	repo, tasks, pid := setupDependencyRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDep("d1", pid, "a", "b", domain.FinishToStart, 0)))
	require.NoError(t, tasks.Delete(ctx, "a"))

	deps, err := repo.ListByProject(ctx, pid)
	require.NoError(t, err)
	assert.Empty(t, deps)
}
