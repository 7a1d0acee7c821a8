package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

// FormatTaskTree renders a project's tasks as a hierarchy. Siblings are
// ordered by planned start, then title, then id. Tasks whose parent is not
// in the list are shown as roots.
func FormatTaskTree(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}

	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}
	children := make(map[string][]*domain.Task)
	var roots []*domain.Task
	for _, t := range tasks {
		if p := t.Parent(); p != "" && known[p] {
			children[p] = append(children[p], t)
		} else {
			roots = append(roots, t)
		}
	}

	var items []TreeItem
	var walk func(level []*domain.Task, depth int, ancestors []bool)
	walk = func(level []*domain.Task, depth int, ancestors []bool) {
		sortSiblings(level)
		for i, t := range level {
			last := i == len(level)-1
			items = append(items, TreeItem{
				ID:        t.ID,
				Title:     t.Title,
				Kind:      t.Kind,
				Status:    t.Status,
				Level:     depth,
				IsLast:    last,
				Ancestors: append([]bool(nil), ancestors...),
				Detail:    taskDetail(t),
			})
			next := ancestors
			if depth > 0 {
				next = append(append([]bool(nil), ancestors...), last)
			}
			walk(children[t.ID], depth+1, next)
		}
	}
	walk(roots, 0, nil)

	return RenderTree(items)
}

func sortSiblings(ts []*domain.Task) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if !a.PlannedStart.Equal(b.PlannedStart) {
			return a.PlannedStart.Before(b.PlannedStart)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

func taskDetail(t *domain.Task) string {
	if t.Kind == domain.KindMilestone {
		return FormatDate(t.PlannedStart)
	}
	return fmt.Sprintf("%s → %s  %3.0f%%", FormatDate(t.PlannedStart), FormatDate(t.PlannedEnd), t.ProgressPct)
}

// FormatTaskDetail renders every stored field of one task.
func FormatTaskDetail(t *domain.Task) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}

	field("ID", t.ID)
	field("Kind", KindBadge(t.Kind))
	field("Status", TaskStatusPill(t.Status))
	field("Priority", string(t.Priority))
	if t.HasParent() {
		field("Parent", TruncID(t.Parent()))
	}
	field("Start", FormatDate(t.PlannedStart))
	field("End", FormatDate(t.PlannedEnd))
	field("Duration", FormatDays(t.DurationDays()))
	field("Progress", RenderProgress(t.ProgressPct, 20))
	if t.IsCritical {
		field("Slack", StyleRedBold.Render("0d  critical"))
	} else {
		field("Slack", fmt.Sprintf("%dd", t.SlackDays))
	}

	return RenderBox(t.Title, b.String()) + "\n"
}
