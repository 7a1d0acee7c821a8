package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/scheduler"
	"github.com/stretchr/testify/assert"
)

func task(id, title string, kind domain.TaskKind, start, end int, parent string) *domain.Task {
	t := &domain.Task{
		ID:           id,
		Title:        title,
		Kind:         kind,
		Status:       domain.StatusNotStarted,
		Priority:     domain.PriorityMedium,
		PlannedStart: domain.AddDays(domain.Date(2025, 1, 1), start),
		PlannedEnd:   domain.AddDays(domain.Date(2025, 1, 1), end),
	}
	if parent != "" {
		t.ParentID = &parent
	}
	return t
}

func TestFormatTaskTree_Hierarchy(t *testing.T) {
	g := task("g1", "Group", domain.KindGroup, 0, 9, "")
	s := task("s1", "Sub", domain.KindSubgroup, 0, 4, "g1")
	x := task("x1", "Deep", domain.KindTask, 0, 4, "s1")
	y := task("y1", "Later", domain.KindTask, 5, 9, "g1")
	y.Status = domain.StatusCompleted
	r := task("r1", "Root", domain.KindTask, 2, 3, "")

	out := stripANSI(FormatTaskTree([]*domain.Task{r, y, x, s, g}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Group g1"))
	assert.True(t, strings.HasPrefix(lines[1], "├─ Sub s1"))
	assert.True(t, strings.HasPrefix(lines[2], "│  └─ Deep x1"))
	assert.True(t, strings.HasPrefix(lines[3], "└─ ✔ Later y1"))
	assert.True(t, strings.HasPrefix(lines[4], "Root r1"))
	assert.Contains(t, lines[2], "2025-01-01 → 2025-01-05")
}

func TestFormatTaskTree_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatTaskTree(nil)), "No tasks.")
}

func TestFormatSchedule(t *testing.T) {
	a := task("a1", "Design", domain.KindTask, 0, 3, "")
	a.IsCritical = true
	b := task("b1", "Docs", domain.KindTask, 0, 1, "")
	b.SlackDays = 2
	empty := task("e1", "Backlog", domain.KindGroup, 0, 0, "")

	out := stripANSI(FormatSchedule(ScheduleData{
		Project: &domain.Project{Name: "Launch", StartDate: domain.Date(2025, 1, 1)},
		Rows: []scheduler.ScheduleRow{
			{Task: a, Risk: scheduler.RiskResult{Level: domain.RiskCritical}},
			{Task: b, Risk: scheduler.RiskResult{Level: domain.RiskAtRisk}},
		},
		Critical:        []*domain.Task{a},
		DurationDays:    3,
		ProjectEnd:      a.PlannedEnd,
		EmptyContainers: []*domain.Task{empty},
		AtRiskSlackDays: 2,
	}))

	assert.Contains(t, out, "SCHEDULE: LAUNCH")
	assert.Contains(t, out, "Duration 3 days")
	assert.Contains(t, out, "End 2025-01-04")
	assert.Contains(t, out, "● CRITICAL")
	assert.Contains(t, out, "● AT RISK")
	assert.Less(t, strings.Index(out, "Design"), strings.Index(out, "Docs"))
	assert.Contains(t, out, "Containers without scheduled tasks:")
	assert.Contains(t, out, "Backlog e1")
}

func TestFormatSchedule_NoRows(t *testing.T) {
	out := stripANSI(FormatSchedule(ScheduleData{
		Project: &domain.Project{Name: "Empty", StartDate: domain.Date(2025, 1, 1)},
	}))
	assert.Contains(t, out, "No scheduled tasks.")
	assert.Contains(t, out, "End --")
}

func TestFormatCriticalPath(t *testing.T) {
	p := &domain.Project{Name: "Launch"}
	a := task("a1", "Design", domain.KindTask, 0, 2, "")
	b := task("b1", "Build", domain.KindTask, 2, 6, "")

	out := stripANSI(FormatCriticalPath(p, []*domain.Task{a, b}, 6))
	assert.Contains(t, out, "1.  Design")
	assert.Contains(t, out, "2.  Build")
	assert.Contains(t, out, "Project duration 6 days")

	out = stripANSI(FormatCriticalPath(p, nil, 0))
	assert.Contains(t, out, "No critical path")
}

func TestFormatChanges(t *testing.T) {
	s := task("s1", "Ship", domain.KindTask, 4, 7, "")
	other := task("o1", "Other", domain.KindTask, 0, 1, "")

	out := stripANSI(FormatChanges(ChangeData{
		Changed:      []*domain.Task{other, s},
		Shifted:      []string{"s1", "missing"},
		Critical:     []string{"s1"},
		DurationDays: 7,
	}))
	assert.Contains(t, out, "Shifted 1 task(s):")
	assert.Contains(t, out, "Ship  2025-01-05 → 2025-01-08 s1")
	assert.NotContains(t, out, "Other")
	assert.Contains(t, out, "Project duration 7 days, critical tasks 1")

	out = stripANSI(FormatChanges(ChangeData{}))
	assert.Contains(t, out, "No tasks shifted.")
}

func TestFormatDependencyList(t *testing.T) {
	deps := []*domain.Dependency{
		{ID: "d1", PredecessorID: "a1", SuccessorID: "zzzzzzzzzz", Type: domain.StartToStart, LagDays: 2},
	}
	out := stripANSI(FormatDependencyList(deps, map[string]string{"a1": "Design"}))
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "SS")
	assert.Contains(t, out, "+2d")
	assert.Contains(t, out, "zzzzzzzz")

	assert.Contains(t, stripANSI(FormatDependencyList(nil, nil)), "No dependencies.")
}
