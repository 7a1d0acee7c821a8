package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/scheduler"
)

// ScheduleData is everything the schedule report needs.
type ScheduleData struct {
	Project         *domain.Project
	Rows            []scheduler.ScheduleRow
	Critical        []*domain.Task
	DurationDays    int
	ProjectEnd      time.Time
	EmptyContainers []*domain.Task
	AtRiskSlackDays int
}

// FormatSchedule renders the summary line, the risk-ordered task table and
// any containers that have no scheduled children.
func FormatSchedule(data ScheduleData) string {
	var b strings.Builder
	b.WriteString(Header("Schedule: "+data.Project.Name) + "\n")

	fmt.Fprintf(&b, "%s %s   %s %s   %s %s   %s %d\n\n",
		Dim("Start"), FormatDate(data.Project.StartDate),
		Dim("End"), FormatDate(data.ProjectEnd),
		Dim("Duration"), FormatDays(data.DurationDays),
		Dim("Critical tasks"), len(data.Critical),
	)

	if len(data.Rows) == 0 {
		b.WriteString(Dim("No scheduled tasks.") + "\n")
	} else {
		rows := make([][]string, 0, len(data.Rows))
		for _, r := range data.Rows {
			t := r.Task
			rows = append(rows, []string{
				RiskIndicator(r.Risk.Level),
				titleCell(t),
				FormatDate(t.PlannedStart),
				FormatDate(t.PlannedEnd),
				fmt.Sprintf("%d", t.DurationDays()),
				FormatSlack(t.SlackDays, data.AtRiskSlackDays),
				RenderProgress(t.ProgressPct, 10),
				TruncID(t.ID),
			})
		}
		b.WriteString(Table{
			Headers:    []string{"RISK", "TASK", "START", "END", "DAYS", "SLACK", "PROGRESS", "ID"},
			Rows:       rows,
			RightAlign: map[int]bool{4: true, 5: true},
		}.Render())
	}

	if len(data.EmptyContainers) > 0 {
		b.WriteString("\n" + StyleYellow.Render("Containers without scheduled tasks:") + "\n")
		for _, c := range data.EmptyContainers {
			fmt.Fprintf(&b, "  %s %s\n", c.Title, TruncID(c.ID))
		}
	}
	return b.String()
}

func titleCell(t *domain.Task) string {
	title := t.Title
	if t.Kind == domain.KindMilestone {
		title = StylePurple.Render("◆ ") + title
	}
	if t.IsCritical {
		return StyleRedBold.Render(title)
	}
	return title
}

// FormatCriticalPath lists the zero-slack tasks in dependency order.
func FormatCriticalPath(project *domain.Project, critical []*domain.Task, durationDays int) string {
	var b strings.Builder
	b.WriteString(Header("Critical path: "+project.Name) + "\n")
	if len(critical) == 0 {
		b.WriteString(Dim("No critical path: the project has no scheduled tasks.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(critical))
	for i, t := range critical {
		rows = append(rows, []string{
			fmt.Sprintf("%d.", i+1),
			StyleRedBold.Render(t.Title),
			FormatDate(t.PlannedStart),
			FormatDate(t.PlannedEnd),
			fmt.Sprintf("%d", t.DurationDays()),
			TruncID(t.ID),
		})
	}
	b.WriteString(Table{
		Headers:    []string{"#", "TASK", "START", "END", "DAYS", "ID"},
		Rows:       rows,
		RightAlign: map[int]bool{0: true, 4: true},
	}.Render())
	fmt.Fprintf(&b, "\n%s %s\n", Dim("Project duration"), Bold(FormatDays(durationDays)))
	return b.String()
}

// ChangeData summarizes the effect of one schedule edit.
type ChangeData struct {
	Changed      []*domain.Task
	Shifted      []string
	Critical     []string
	DurationDays int
}

// FormatChanges lists every task whose dates moved as a result of an edit.
func FormatChanges(data ChangeData) string {
	var b strings.Builder
	byID := make(map[string]*domain.Task, len(data.Changed))
	for _, t := range data.Changed {
		byID[t.ID] = t
	}

	var shifted []*domain.Task
	for _, id := range data.Shifted {
		if t, ok := byID[id]; ok {
			shifted = append(shifted, t)
		}
	}
	sortSiblings(shifted)

	if len(shifted) == 0 {
		b.WriteString(Dim("No tasks shifted.") + "\n")
	} else {
		fmt.Fprintf(&b, "Shifted %d task(s):\n", len(shifted))
		for _, t := range shifted {
			fmt.Fprintf(&b, "  %s  %s → %s %s\n",
				t.Title, FormatDate(t.PlannedStart), FormatDate(t.PlannedEnd), TruncID(t.ID))
		}
	}
	fmt.Fprintf(&b, "%s %s, %s %d\n",
		Dim("Project duration"), FormatDays(data.DurationDays),
		Dim("critical tasks"), len(data.Critical))
	return b.String()
}
