package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/cinner/internal/export"
	"github.com/sadopc/cinner/internal/timesheet"
)

func (a *app) newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <data.json>",
		Short: "Load projects from a data.json file, replacing their sessions",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			projects, err := export.FromJSON(args[0])
			if err != nil {
				return err
			}
			for _, p := range projects {
				if _, err := timesheet.ParseProject(p, a.loc); err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}
			}
			for _, p := range projects {
				if err := a.store.ImportProject(p); err != nil {
					return err
				}
			}
			a.log.Info("data file imported", "path", args[0], "projects", len(projects))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d projects from %s\n", len(projects), args[0])
			return nil
		}),
	}
}

func (a *app) newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <data.json>",
		Short: "Write every project to a data.json file",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			projects, err := a.store.ExportProjects()
			if err != nil {
				return err
			}
			if err := export.ToJSON(projects, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d projects to %s\n", len(projects), args[0])
			return nil
		}),
	}
}
