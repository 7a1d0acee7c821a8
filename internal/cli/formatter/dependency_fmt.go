package formatter

import (
	"fmt"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

// FormatLag renders a lag with an explicit sign: "+2d", "-1d", "0d".
func FormatLag(lag int) string {
	if lag > 0 {
		return fmt.Sprintf("+%dd", lag)
	}
	return fmt.Sprintf("%dd", lag)
}

// FormatDependencyList renders dependency edges with task titles looked up
// in titles; unknown ids fall back to the truncated id.
func FormatDependencyList(deps []*domain.Dependency, titles map[string]string) string {
	if len(deps) == 0 {
		return Dim("No dependencies.") + "\n"
	}

	name := func(id string) string {
		if t, ok := titles[id]; ok {
			return t
		}
		return TruncID(id)
	}

	rows := make([][]string, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, []string{
			TruncID(d.ID),
			name(d.PredecessorID),
			StyleBlue.Render(string(d.Type)),
			FormatLag(d.LagDays),
			name(d.SuccessorID),
		})
	}
	return Table{
		Headers:    []string{"ID", "PREDECESSOR", "TYPE", "LAG", "SUCCESSOR"},
		Rows:       rows,
		RightAlign: map[int]bool{3: true},
	}.Render()
}
