package cli

import (
	"fmt"

	"github.com/alexanderramin/taskgraph/internal/cli/formatter"
	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"dependency"},
		Short:   "Manage dependencies between tasks",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepListCmd(app),
		newDepRemoveCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var typ domain.DependencyType
	var lag int

	cmd := &cobra.Command{
		Use:   "add PREDECESSOR SUCCESSOR",
		Short: "Add a dependency; the successor is rescheduled if it now starts too early",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			predID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			succID, err := resolveTaskID(ctx, app, args[1])
			if err != nil {
				return err
			}

			cs, err := app.Schedule.AddDependency(ctx, &domain.Dependency{
				PredecessorID: predID,
				SuccessorID:   succID,
				Type:          typ,
				LagDays:       lag,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s dependency %s (lag %s)\n",
				typ, formatter.TruncID(cs.Dependency.ID), formatter.FormatLag(lag))
			printChanges(out, cs)
			return nil
		},
	}

	cmd.Flags().Var(newDepTypeValue(&typ), "type", "FS, SS, FF or SF")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days; negative for lead time")

	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a project's dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			deps, err := app.Schedule.ListDependencies(ctx, p.ID)
			if err != nil {
				return err
			}
			tasks, err := app.Schedule.ListTasks(ctx, p.ID)
			if err != nil {
				return err
			}
			titles := make(map[string]string, len(tasks))
			for _, t := range tasks {
				titles[t.ID] = t.Title
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDependencyList(deps, titles))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or prefix")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm DEPENDENCY",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDependencyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			cs, err := app.Schedule.RemoveDependency(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %s\n", formatter.TruncID(id))
			printChanges(cmd.OutOrStdout(), cs)
			return nil
		},
	}
}
