package formatter

import (
	"strings"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a task hierarchy.
type TreeItem struct {
	ID     string
	Title  string
	Kind   domain.TaskKind
	Status domain.TaskStatus
	Level  int
	IsLast bool
	// Ancestors records, per level above this one, whether that ancestor was
	// the last of its siblings; it decides where vertical pipes are drawn.
	Ancestors []bool
	Detail    string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders items as an indented tree. Completed tasks are dimmed
// with a check mark, in-progress ones are highlighted, and details are
// aligned in a right-hand column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	width := 0
	for i, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for _, last := range item.Ancestors {
				if last {
					prefix.WriteString(treeBlank)
				} else {
					prefix.WriteString(treePipe)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := item.Title
		if item.Kind.IsContainer() {
			title = Bold(title)
		}
		marker := ""
		switch item.Status {
		case domain.StatusCompleted:
			marker = StyleGreen.Render("✔ ")
			title = Dim(item.Title)
		case domain.StatusInProgress:
			marker = StyleYellowBold.Render("▶ ")
		}
		if item.Kind == domain.KindMilestone {
			marker += StylePurple.Render("◆ ")
		}

		contents[i] = prefix.String() + marker + title + " " + TruncID(item.ID)
		width = max(width, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := width - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
