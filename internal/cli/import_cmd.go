package cli

import (
	"fmt"

	"github.com/alexanderramin/taskgraph/internal/cli/formatter"
	"github.com/alexanderramin/taskgraph/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project from a JSON or YAML file",
		Long: "Create a project from a JSON or YAML file. The file is validated as a whole\n" +
			"and every problem is reported; nothing is written unless the whole import\n" +
			"succeeds.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported project %s %s\n", formatter.Bold(res.Project.Name), formatter.TruncID(res.Project.ID))
			fmt.Fprintf(out, "  %d tasks, %d dependencies, %d shifted\n", res.TaskCount, res.DependencyCount, res.ShiftedCount)
			fmt.Fprintf(out, "  duration %s, %d critical\n", formatter.FormatDays(res.ProjectDurationDays), len(res.Critical))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export PROJECT [FILE]",
		Short: "Export a project in import format; prints to stdout without FILE",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 2 {
				path = args[1]
			}

			schema, err := app.Import.ExportProject(ctx, p.ID, path)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s (%d tasks, %d dependencies)\n",
					p.Name, path, len(schema.Tasks), len(schema.Dependencies))
				return nil
			}

			f := importer.FormatYAML
			switch format {
			case "yaml", "yml":
			case "json":
				f = importer.FormatJSON
			default:
				return fmt.Errorf("invalid format %q (one of: json, yaml)", format)
			}
			data, err := importer.MarshalImportSchema(schema, f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format when writing to stdout: json or yaml")

	return cmd
}
