package scheduler

import (
	"testing"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollup_MilestoneExcludedFromWeighting(t *testing.T) {
	g := build(t, []*domain.Task{
		testutil.NewTestGroup("G"),
		testutil.NewTestSpan("X", 0, 4, testutil.WithParent("G"), testutil.WithProgress(50)),
		testutil.NewTestMilestone("Y", 4, testutil.WithParent("G"), testutil.WithProgress(100)),
	})

	res, err := Rollup(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"G"}, res.Changed)

	grp := task(t, g, "G")
	assert.InDelta(t, 50.0, grp.ProgressPct, 0.001)
	assert.Equal(t, [2]int{0, 4}, span(t, g, "G"))
}

func TestRollup_NestedDeepestFirst(t *testing.T) {
	g := build(t, []*domain.Task{
		testutil.NewTestGroup("G"),
		testutil.NewTestGroup("SG", testutil.WithKind(domain.KindSubgroup), testutil.WithParent("G")),
		testutil.NewTestSpan("A", 0, 2, testutil.WithParent("SG"), testutil.WithProgress(100)),
		testutil.NewTestSpan("B", 3, 4, testutil.WithParent("SG")),
		testutil.NewTestSpan("C", 1, 4, testutil.WithParent("G"), testutil.WithProgress(50)),
	})

	_, err := Rollup(g)
	require.NoError(t, err)

	assert.Equal(t, [2]int{0, 7}, span(t, g, "SG"))
	assert.InDelta(t, 200.0/6.0, task(t, g, "SG").ProgressPct, 0.001)

	// G sees SG's rolled-up seven days, not its placeholder range.
	assert.Equal(t, [2]int{0, 7}, span(t, g, "G"))
	assert.InDelta(t, (200.0/6.0*7+50*4)/11, task(t, g, "G").ProgressPct, 0.001)
}

func TestRollup_EmptyContainerLeftAlone(t *testing.T) {
	g := build(t, []*domain.Task{
		testutil.NewTestGroup("G"),
		testutil.NewTestGroup("SG", testutil.WithKind(domain.KindSubgroup), testutil.WithParent("G")),
		testutil.NewTestSpan("A", 2, 2, testutil.WithParent("G")),
		testutil.NewTestGroup("Empty"),
	})

	res, err := Rollup(g)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"SG", "Empty"}, res.EmptyContainers)
	assert.Equal(t, [2]int{0, 0}, span(t, g, "Empty"))
	// The empty subgroup does not drag G back to its placeholder date.
	assert.Equal(t, [2]int{2, 4}, span(t, g, "G"))
}

func TestRollup_ZeroDurationChildrenUsePlainMean(t *testing.T) {
	g := build(t, []*domain.Task{
		testutil.NewTestGroup("G"),
		testutil.NewTestMilestone("M1", 3, testutil.WithParent("G")),
		testutil.NewTestMilestone("M2", 5, testutil.WithParent("G"), testutil.WithProgress(100)),
	})

	_, err := Rollup(g)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, task(t, g, "G").ProgressPct, 0.001)
	assert.Equal(t, [2]int{3, 5}, span(t, g, "G"))
}

func TestRollup_SlackAndCriticalFromChildren(t *testing.T) {
	g := build(t, []*domain.Task{
		testutil.NewTestGroup("G"),
		testutil.NewTestSpan("A", 0, 5),
		testutil.NewTestSpan("B", 0, 2, testutil.WithParent("G")),
		testutil.NewTestSpan("C", 0, 3, testutil.WithParent("G")),
	})

	cp, err := ComputeCriticalPath(g)
	require.NoError(t, err)
	cp.Apply(g)
	_, err = Rollup(g)
	require.NoError(t, err)

	grp := task(t, g, "G")
	assert.Equal(t, 2, grp.SlackDays)
	assert.False(t, grp.IsCritical)

	require.NoError(t, g.SetParent("A", "G"))
	_, err = Rollup(g)
	require.NoError(t, err)
	assert.Equal(t, 0, grp.SlackDays)
	assert.True(t, grp.IsCritical)
}

func TestRollup_SecondRunReportsNoChange(t *testing.T) {
	g := build(t, []*domain.Task{
		testutil.NewTestGroup("G"),
		testutil.NewTestSpan("A", 1, 2, testutil.WithParent("G")),
	})

	_, err := Rollup(g)
	require.NoError(t, err)
	res, err := Rollup(g)
	require.NoError(t, err)
	assert.Empty(t, res.Changed)
}

func TestRollupAncestors_OnlyTouchesChain(t *testing.T) {
	g := build(t, []*domain.Task{
		testutil.NewTestGroup("G1"),
		testutil.NewTestGroup("SG", testutil.WithKind(domain.KindSubgroup), testutil.WithParent("G1")),
		testutil.NewTestSpan("A", 2, 3, testutil.WithParent("SG")),
		testutil.NewTestGroup("G2"),
		testutil.NewTestSpan("B", 4, 1, testutil.WithParent("G2")),
	})

	res, err := RollupAncestors(g, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"SG", "G1"}, res.Changed)
	assert.Equal(t, [2]int{2, 5}, span(t, g, "G1"))
	assert.Equal(t, [2]int{0, 0}, span(t, g, "G2"))

	_, err = RollupAncestors(g, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
