package formatter

import (
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

// FormatProjectList renders projects inside a bordered box. Start dates are
// annotated relative to now.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	if len(projects) == 0 {
		return Dim("No projects.") + "\n"
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		id := p.DisplayID()
		if id == "" {
			id = "--"
		}
		rows = append(rows, []string{
			Dim(id),
			Bold(p.Name),
			FormatDate(p.StartDate) + " " + Dim("("+RelativeDateFrom(p.StartDate, now)+")"),
			ProjectStatusPill(p.Status),
		})
	}

	table := RenderTable([]string{"ID", "NAME", "START", "STATUS"}, rows)
	return RenderBox("Projects", table) + "\n"
}
