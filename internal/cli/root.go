package cli

import (
	"time"

	"github.com/alexanderramin/taskgraph/internal/cli/formatter"
	"github.com/alexanderramin/taskgraph/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Schedule service.ScheduleService
	Import   service.ImportService

	// AtRiskSlackDays only affects slack coloring; risk levels come from
	// the schedule service.
	AtRiskSlackDays int
	// Now is the reference time for risk and relative dates. Nil means
	// the wall clock.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// NewRootCmd creates the top-level "taskgraph" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "taskgraph",
		Short:         "Dependency-aware project scheduler",
		Long:          "taskgraph keeps a project's task dates consistent with its dependencies,\nrolls dates and progress up the task hierarchy and reports the critical path.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				formatter.SetColorEnabled(false)
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newDepCmd(app),
		newScheduleCmd(app),
		newCriticalCmd(app),
		newRecalcCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)

	return root
}
