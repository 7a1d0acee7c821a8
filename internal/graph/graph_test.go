package graph

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds A -> B -> C (finish-to-start, no lag), two days each.
func chain(t *testing.T) *ProjectGraph {
	t.Helper()
	g := New("p1")
	require.NoError(t, g.AddTask(testutil.NewTestSpan("A", 0, 2)))
	require.NoError(t, g.AddTask(testutil.NewTestSpan("B", 5, 2)))
	require.NoError(t, g.AddTask(testutil.NewTestSpan("C", 3, 2)))
	_, err := g.Connect("A", "B", domain.FinishToStart, 0)
	require.NoError(t, err)
	_, err = g.Connect("B", "C", domain.FinishToStart, 0)
	require.NoError(t, err)
	return g
}

func linkIDs(links []Link) []string {
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.TaskID)
	}
	return ids
}

func TestAddTask_CopiesAndNormalizes(t *testing.T) {
	g := New("p1")
	task := testutil.NewTestSpan("A", 0, 3)
	require.NoError(t, g.AddTask(task))

	task.Title = "mutated after insert"
	stored, ok := g.Task("A")
	require.True(t, ok)
	assert.Equal(t, "A", stored.Title)
	assert.Equal(t, "p1", stored.ProjectID)
}

func TestAddTask_DuplicateID(t *testing.T) {
	g := New("p1")
	require.NoError(t, g.AddTask(testutil.NewTestSpan("A", 0, 1)))
	err := g.AddTask(testutil.NewTestSpan("A", 0, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddTask_ParentRules(t *testing.T) {
	g := New("p1")
	require.NoError(t, g.AddTask(testutil.NewTestGroup("G")))
	require.NoError(t, g.AddTask(testutil.NewTestSpan("X", 0, 1, testutil.WithParent("G"))))

	err := g.AddTask(testutil.NewTestSpan("Y", 0, 1, testutil.WithParent("missing")))
	assert.ErrorIs(t, err, domain.ErrValidation, "unknown parent")

	err = g.AddTask(testutil.NewTestSpan("Z", 0, 1, testutil.WithParent("X")))
	assert.ErrorIs(t, err, domain.ErrValidation, "leaf parent")

	err = g.AddTask(testutil.NewTestGroup("S", testutil.WithParent("S")))
	assert.ErrorIs(t, err, domain.ErrValidation, "self parent")

	assert.Equal(t, []*domain.Task{mustTask(t, g, "X")}, g.Children("G"))
}

func TestRemoveTask(t *testing.T) {
	g := chain(t)

	assert.ErrorIs(t, g.RemoveTask("missing"), domain.ErrNotFound)
	assert.ErrorIs(t, g.RemoveTask("B"), domain.ErrConflict, "B still has edges")

	for _, l := range g.Predecessors("C") {
		_, err := g.RemoveDependency(l.DependencyID)
		require.NoError(t, err)
	}
	require.NoError(t, g.RemoveTask("C"))
	_, ok := g.Task("C")
	assert.False(t, ok)
	assert.Empty(t, g.Successors("B"))
}

func TestRemoveTask_WithChildren(t *testing.T) {
	g := New("p1")
	require.NoError(t, g.AddTask(testutil.NewTestGroup("G")))
	require.NoError(t, g.AddTask(testutil.NewTestSpan("X", 0, 1, testutil.WithParent("G"))))

	assert.ErrorIs(t, g.RemoveTask("G"), domain.ErrConflict)
	require.NoError(t, g.RemoveTask("X"))
	require.NoError(t, g.RemoveTask("G"))
	assert.Equal(t, 0, g.Len())
}

func TestAddDependency_Errors(t *testing.T) {
	g := chain(t)
	require.NoError(t, g.AddTask(testutil.NewTestGroup("G")))

	_, err := g.Connect("A", "missing", domain.FinishToStart, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = g.Connect("A", "A", domain.FinishToStart, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = g.Connect("A", "B", domain.StartToStart, 3)
	assert.ErrorIs(t, err, domain.ErrConflict, "one edge per ordered pair, whatever the type")

	_, err = g.Connect("A", "G", domain.FinishToStart, 0)
	assert.ErrorIs(t, err, domain.ErrValidation, "containers are not dependency endpoints")

	_, err = g.Connect("A", "C", "XX", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddDependency_CycleLeavesGraphUnchanged(t *testing.T) {
	g := chain(t)
	before := map[string][2][]string{}
	for _, id := range []string{"A", "B", "C"} {
		before[id] = [2][]string{linkIDs(g.Predecessors(id)), linkIDs(g.Successors(id))}
	}

	_, err := g.Connect("C", "A", domain.FinishToStart, 0)
	require.Error(t, err)

	var cyc *domain.CycleError
	require.True(t, errors.As(err, &cyc))
	assert.Equal(t, []string{"C", "A", "B", "C"}, cyc.Path)
	assert.Len(t, g.Dependencies(), 2)

	for _, id := range []string{"A", "B", "C"} {
		assert.Equal(t, before[id], [2][]string{linkIDs(g.Predecessors(id)), linkIDs(g.Successors(id))}, id)
	}
}

func TestAddDependency_AssignsIDAndProject(t *testing.T) {
	g := New("p1")
	require.NoError(t, g.AddTask(testutil.NewTestSpan("A", 0, 1)))
	require.NoError(t, g.AddTask(testutil.NewTestSpan("B", 0, 1)))

	d, err := g.AddDependency(testutil.NewTestDependency("A", "B", domain.FinishToFinish, -2))
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "p1", d.ProjectID)
	assert.False(t, d.CreatedAt.IsZero())

	links := g.Successors("A")
	require.Len(t, links, 1)
	assert.Equal(t, Link{TaskID: "B", DependencyID: d.ID, Type: domain.FinishToFinish, LagDays: -2}, links[0])
}

func TestAddRemoveDependency_RoundTrip(t *testing.T) {
	g := chain(t)
	require.NoError(t, g.AddTask(testutil.NewTestSpan("D", 0, 1)))
	predsC, succsA := g.Predecessors("C"), g.Successors("A")

	d, err := g.Connect("A", "C", domain.StartToStart, 1)
	require.NoError(t, err)
	assert.Len(t, g.Predecessors("C"), 2)

	removed, err := g.RemoveDependency(d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, removed.ID)
	assert.Equal(t, predsC, g.Predecessors("C"))
	assert.Equal(t, succsA, g.Successors("A"))

	_, err = g.RemoveDependency(d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The pair is free again.
	_, err = g.Connect("A", "C", domain.FinishToStart, 0)
	assert.NoError(t, err)
}

func TestAddDependency_AcyclicNeverRejected(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		g := New("p")
		const n = 25
		for i := 0; i < n; i++ {
			require.NoError(t, g.AddTask(testutil.NewTestSpan(fmt.Sprintf("t%02d", i), 0, 1+rng.Intn(4))))
		}
		// Edges only from lower to higher index form a DAG.
		var forward [][2]int
		for e := 0; e < 60; e++ {
			a, b := rng.Intn(n), rng.Intn(n)
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			_, err := g.Connect(fmt.Sprintf("t%02d", a), fmt.Sprintf("t%02d", b), domain.FinishToStart, rng.Intn(3))
			if err != nil {
				require.ErrorIs(t, err, domain.ErrConflict, "only duplicates may fail")
				continue
			}
			forward = append(forward, [2]int{a, b})
		}

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assertTopological(t, g, order)

		// Any reversed edge closes a cycle.
		for _, e := range forward {
			edges := len(g.Dependencies())
			_, err := g.Connect(fmt.Sprintf("t%02d", e[1]), fmt.Sprintf("t%02d", e[0]), domain.StartToStart, 0)
			require.ErrorIs(t, err, domain.ErrCycle)
			require.Len(t, g.Dependencies(), edges)
		}
	}
}

func assertTopological(t *testing.T, g *ProjectGraph, order []string) {
	t.Helper()
	require.Len(t, order, g.Len())
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, d := range g.Dependencies() {
		assert.Less(t, pos[d.PredecessorID], pos[d.SuccessorID], "%s before %s", d.PredecessorID, d.SuccessorID)
	}
}

func TestTopologicalOrder_DeterministicTies(t *testing.T) {
	g := New("p1")
	for _, id := range []string{"Z", "Y", "X", "W"} {
		require.NoError(t, g.AddTask(testutil.NewTestSpan(id, 0, 1)))
	}
	_, err := g.Connect("X", "Z", domain.FinishToStart, 0)
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "X", "Z", "W"}, order)
}

func TestTopologicalOrder_DetectsInjectedCycle(t *testing.T) {
	g := chain(t)
	// Bypass the AddDependency guard to simulate a corrupted edge set.
	bad := &domain.Dependency{ID: "bad", PredecessorID: "C", SuccessorID: "A", Type: domain.FinishToStart}
	g.deps[bad.ID] = bad
	g.out["C"] = append(g.out["C"], bad.ID)
	g.in["A"] = append(g.in["A"], bad.ID)

	_, err := g.TopologicalOrder()
	var cyc *domain.CycleError
	require.True(t, errors.As(err, &cyc))
	assert.Equal(t, "dependency", cyc.Graph)
	assert.Equal(t, []string{"A", "B", "C", "A"}, cyc.Path)
}

func TestSetParent(t *testing.T) {
	g := New("p1")
	require.NoError(t, g.AddTask(testutil.NewTestGroup("G")))
	require.NoError(t, g.AddTask(testutil.NewTestTask("S", testutil.Day0, testutil.Day0,
		testutil.WithKind(domain.KindSubgroup), testutil.WithParent("G"))))
	require.NoError(t, g.AddTask(testutil.NewTestSpan("X", 0, 1, testutil.WithParent("S"))))

	err := g.SetParent("G", "S")
	var cyc *domain.CycleError
	require.True(t, errors.As(err, &cyc), "got %v", err)
	assert.Equal(t, "containment", cyc.Graph)
	assert.Equal(t, "G", mustTask(t, g, "S").Parent(), "tree unchanged after failure")

	require.NoError(t, g.SetParent("X", "G"))
	assert.Empty(t, g.Children("S"))
	assert.Len(t, g.Children("G"), 2)

	require.NoError(t, g.SetParent("X", ""))
	assert.False(t, mustTask(t, g, "X").HasParent())
	assert.Len(t, g.Children("G"), 1)

	assert.ErrorIs(t, g.SetParent("missing", "G"), domain.ErrNotFound)
	assert.ErrorIs(t, g.SetParent("S", "X"), domain.ErrValidation)
}

func TestAncestors(t *testing.T) {
	g := New("p1")
	require.NoError(t, g.AddTask(testutil.NewTestGroup("G")))
	require.NoError(t, g.AddTask(testutil.NewTestTask("S", testutil.Day0, testutil.Day0,
		testutil.WithKind(domain.KindSubgroup), testutil.WithParent("G"))))
	require.NoError(t, g.AddTask(testutil.NewTestSpan("X", 0, 1, testutil.WithParent("S"))))

	var ids []string
	for _, a := range g.Ancestors("X") {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"S", "G"}, ids)
	assert.Empty(t, g.Ancestors("G"))
}

func TestUpdateTaskDates(t *testing.T) {
	g := New("p1")
	require.NoError(t, g.AddTask(testutil.NewTestGroup("G")))
	require.NoError(t, g.AddTask(testutil.NewTestSpan("X", 0, 2, testutil.WithParent("G"))))

	require.NoError(t, g.UpdateTaskDates("X", testutil.D(3), testutil.D(6)))
	x := mustTask(t, g, "X")
	assert.Equal(t, testutil.D(3), x.PlannedStart)
	assert.Equal(t, 3, x.DurationDays())

	assert.ErrorIs(t, g.UpdateTaskDates("X", testutil.D(6), testutil.D(3)), domain.ErrValidation)
	assert.Equal(t, testutil.D(3), x.PlannedStart, "unchanged after failure")
	assert.ErrorIs(t, g.UpdateTaskDates("G", testutil.D(0), testutil.D(1)), domain.ErrValidation)
	assert.ErrorIs(t, g.UpdateTaskDates("nope", testutil.D(0), testutil.D(1)), domain.ErrNotFound)
}

func TestReachable(t *testing.T) {
	g := chain(t)
	require.NoError(t, g.AddTask(testutil.NewTestSpan("D", 0, 1)))
	assert.Equal(t, []string{"B", "C"}, g.Reachable("A"))
	assert.Empty(t, g.Reachable("C"))
	assert.Empty(t, g.Reachable("D"))
}

func TestBuild(t *testing.T) {
	tasks := []*domain.Task{
		testutil.NewTestSpan("X", 0, 2, testutil.WithParent("G")),
		testutil.NewTestGroup("G"),
		testutil.NewTestSpan("Y", 2, 2, testutil.WithParent("G")),
	}
	deps := []*domain.Dependency{{ID: "d1", PredecessorID: "X", SuccessorID: "Y", Type: domain.FinishToStart}}

	g, err := Build("p1", tasks, deps)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Len(t, g.Children("G"), 2)
	d, ok := g.Dependency("d1")
	require.True(t, ok)
	assert.Equal(t, "X", d.PredecessorID)
}

func TestBuild_ContainmentCycle(t *testing.T) {
	tasks := []*domain.Task{
		testutil.NewTestGroup("G1", testutil.WithParent("G2")),
		testutil.NewTestGroup("G2", testutil.WithParent("G1")),
	}
	_, err := Build("p1", tasks, nil)
	var cyc *domain.CycleError
	require.True(t, errors.As(err, &cyc), "got %v", err)
	assert.Equal(t, "containment", cyc.Graph)
}

func TestBuild_RejectsStoredCycle(t *testing.T) {
	tasks := []*domain.Task{testutil.NewTestSpan("A", 0, 1), testutil.NewTestSpan("B", 0, 1)}
	deps := []*domain.Dependency{
		testutil.NewTestDependency("A", "B", domain.FinishToStart, 0),
		testutil.NewTestDependency("B", "A", domain.FinishToStart, 0),
	}
	_, err := Build("p1", tasks, deps)
	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestBuild_UnknownParent(t *testing.T) {
	_, err := Build("p1", []*domain.Task{testutil.NewTestSpan("X", 0, 1, testutil.WithParent("nope"))}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClone_Independent(t *testing.T) {
	g := chain(t)
	c := g.Clone()

	require.NoError(t, c.UpdateTaskDates("A", testutil.D(10), testutil.D(12)))
	_, err := c.RemoveDependency(c.Successors("A")[0].DependencyID)
	require.NoError(t, err)

	assert.Equal(t, testutil.D(0), mustTask(t, g, "A").PlannedStart)
	assert.Len(t, g.Successors("A"), 1)
	assert.Empty(t, c.Successors("A"))
}

func mustTask(t *testing.T, g *ProjectGraph, id string) *domain.Task {
	t.Helper()
	task, ok := g.Task(id)
	require.True(t, ok, "task %s", id)
	return task
}
