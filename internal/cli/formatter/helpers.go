package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + strings.TrimRight(content, "\n")
	}
	return boxStyle.Render(strings.TrimRight(content, "\n"))
}

// RelativeDateFrom describes t relative to now in whole days, weeks or
// months.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// FormatDate renders a planned date as YYYY-MM-DD, or "--" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format(domain.DateLayout)
}

// FormatDays renders a day count such as "1 day" or "12 days".
func FormatDays(n int) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d day", n)
	}
	return fmt.Sprintf("%d days", n)
}

// FormatSlack colors a slack value: zero is red, at or below threshold is
// yellow.
func FormatSlack(slack, atRisk int) string {
	text := fmt.Sprintf("%dd", slack)
	switch {
	case slack <= 0:
		return StyleRed.Render(text)
	case slack <= atRisk:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// ProjectStatusPill returns a colored indicator for a project status.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TaskStatusPill returns a colored indicator for a task status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.StatusNotStarted:
		return StyleBlue.Render("○ Not started")
	case domain.StatusInProgress:
		return StyleYellow.Render("● In progress")
	case domain.StatusCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.StatusOnHold:
		return StyleDim.Render("‖ On hold")
	case domain.StatusCancelled:
		return StyleDim.Render("⊘ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// KindBadge returns a short styled label for a task kind.
func KindBadge(kind domain.TaskKind) string {
	switch kind {
	case domain.KindGroup:
		return StylePurple.Render("group")
	case domain.KindSubgroup:
		return StylePurple.Render("subgroup")
	case domain.KindMilestone:
		return StyleBlue.Render("milestone")
	default:
		return StyleFg.Render(string(kind))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
