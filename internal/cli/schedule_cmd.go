package cli

import (
	"fmt"

	"github.com/alexanderramin/taskgraph/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the project schedule ordered by risk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			view, err := app.Schedule.Schedule(ctx, p.ID, app.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchedule(formatter.ScheduleData{
				Project:         view.Project,
				Rows:            view.Rows,
				Critical:        view.Critical,
				DurationDays:    view.ProjectDurationDays,
				ProjectEnd:      view.ProjectEnd,
				EmptyContainers: view.EmptyContainers,
				AtRiskSlackDays: app.AtRiskSlackDays,
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or prefix")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newCriticalCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "critical",
		Short: "Show the critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			view, err := app.Schedule.Schedule(ctx, p.ID, app.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCriticalPath(view.Project, view.Critical, view.ProjectDurationDays))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or prefix")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newRecalcCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recompute every derived date, rollup and slack value and save the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			cs, err := app.Schedule.Recalculate(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recalculated %s: %d task(s) updated\n", p.Name, len(cs.Changed))
			printChanges(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or prefix")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
