package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alexanderramin/taskgraph/internal/cli/formatter"
	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks, milestones and groups",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskDatesCmd(app),
		newTaskProgressCmd(app),
		newTaskStatusCmd(app),
		newTaskMoveCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// printChanges reports which tasks an edit shifted.
func printChanges(w io.Writer, cs *service.ChangeSet) {
	fmt.Fprint(w, formatter.FormatChanges(formatter.ChangeData{
		Changed:      cs.Changed,
		Shifted:      cs.Shifted,
		Critical:     cs.Critical,
		DurationDays: cs.ProjectDurationDays,
	}))
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		projectRef, title, parentRef string
		kind                         domain.TaskKind
		priority                     domain.TaskPriority
		start, end                   time.Time
		days                         int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task, milestone, group or subgroup to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}

			endSet, daysSet := cmd.Flags().Changed("end"), cmd.Flags().Changed("days")
			if endSet && daysSet {
				return fmt.Errorf("use either --end or --days, not both")
			}
			if start.IsZero() && !kind.IsContainer() {
				return fmt.Errorf("--start is required for a %s", kind)
			}

			switch {
			case kind == domain.KindMilestone:
				end = start
			case daysSet:
				if days < 0 {
					return fmt.Errorf("--days must not be negative")
				}
				end = domain.AddDays(start, days)
			case endSet:
			case kind.IsContainer():
				end = start
			default:
				return fmt.Errorf("either --end or --days is required for a %s", kind)
			}

			t := &domain.Task{
				ProjectID:    p.ID,
				Title:        title,
				Kind:         kind,
				Status:       domain.StatusNotStarted,
				Priority:     priority,
				PlannedStart: start,
				PlannedEnd:   end,
			}
			if parentRef != "" {
				parentID, err := resolveTaskID(ctx, app, parentRef)
				if err != nil {
					return err
				}
				t.ParentID = &parentID
			}

			cs, err := app.Schedule.AddTask(ctx, t)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s %s %s\n", t.Kind, formatter.Bold(t.Title), formatter.TruncID(t.ID))
			printChanges(out, cs)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or prefix")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().Var(newEnumValue(&kind, domain.KindTask, domain.ValidTaskKinds, "kind"), "kind", "task, milestone, group or subgroup")
	cmd.Flags().Var(newEnumValue(&priority, domain.PriorityMedium, domain.ValidTaskPriorities, "priority"), "priority", "low, medium, high or urgent")
	cmd.Flags().Var(newDateValue(&start), "start", "Planned start (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&end), "end", "Planned end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 0, "Duration in days, instead of --end")
	cmd.Flags().StringVar(&parentRef, "parent", "", "Parent group or subgroup ID")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show a project's task hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd.Context(), app, projectRef)
			if err != nil {
				return err
			}
			tasks, err := app.Schedule.ListTasks(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTree(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or prefix")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TASK",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Schedule.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskDetail(t))
			return nil
		},
	}
}

func newTaskDatesCmd(app *App) *cobra.Command {
	var (
		start, end time.Time
		days       int
	)

	cmd := &cobra.Command{
		Use:   "dates TASK",
		Short: "Change a task's planned dates and propagate to its successors",
		Long: "Change a task's planned dates. Moving only --start keeps the current duration.\n" +
			"Successors and containers are rescheduled; the task itself is still held\n" +
			"to its own predecessors.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			startSet := cmd.Flags().Changed("start")
			endSet, daysSet := cmd.Flags().Changed("end"), cmd.Flags().Changed("days")
			if endSet && daysSet {
				return fmt.Errorf("use either --end or --days, not both")
			}
			if !startSet && !endSet && !daysSet {
				return fmt.Errorf("nothing to change: pass --start, --end or --days")
			}

			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			cur, err := app.Schedule.GetTask(ctx, id)
			if err != nil {
				return err
			}

			newStart := cur.PlannedStart
			if startSet {
				newStart = start
			}
			newEnd := domain.AddDays(newStart, cur.DurationDays())
			switch {
			case endSet:
				newEnd = end
			case daysSet:
				if days < 0 {
					return fmt.Errorf("--days must not be negative")
				}
				newEnd = domain.AddDays(newStart, days)
			}

			cs, err := app.Schedule.UpdateTaskDates(ctx, id, newStart, newEnd)
			if err != nil {
				return err
			}
			printChanges(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	cmd.Flags().Var(newDateValue(&start), "start", "New planned start (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&end), "end", "New planned end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 0, "New duration in days, instead of --end")

	return cmd
}

func newTaskProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress TASK PERCENT",
		Short: "Record progress (0-100) on a task or milestone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid percentage %q: %w", args[1], err)
			}
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			cs, err := app.Schedule.SetProgress(cmd.Context(), id, pct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Progress set to %.0f%%\n", pct)
			printChanges(cmd.OutOrStdout(), cs)
			return nil
		},
	}
}

func newTaskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status TASK STATUS",
		Short: "Set a task's status (not_started, in_progress, completed, on_hold, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			cs, err := app.Schedule.SetStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status set to %s\n", formatter.TaskStatusPill(status))
			printChanges(cmd.OutOrStdout(), cs)
			return nil
		},
	}
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var parentRef string
	var root bool

	cmd := &cobra.Command{
		Use:   "move TASK",
		Short: "Move a task under another group or subgroup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if root == (parentRef != "") {
				return fmt.Errorf("pass exactly one of --parent or --root")
			}
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			parentID := ""
			if !root {
				if parentID, err = resolveTaskID(ctx, app, parentRef); err != nil {
					return err
				}
			}
			cs, err := app.Schedule.MoveTask(ctx, id, parentID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Task moved")
			printChanges(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	cmd.Flags().StringVar(&parentRef, "parent", "", "New parent group or subgroup ID")
	cmd.Flags().BoolVar(&root, "root", false, "Move the task to the top level")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm TASK",
		Short: "Remove a task that has no dependencies and no children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			cs, err := app.Schedule.RemoveTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", formatter.TruncID(id))
			printChanges(cmd.OutOrStdout(), cs)
			return nil
		},
	}
}
