package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/cinner/internal/report"
	"github.com/sadopc/cinner/internal/timesheet"
)

func (a *app) newProjectsCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"ls"},
		Short:   "List projects with their total hours",
		Args:    cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			projects, err := a.store.ListProjects(all)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects yet")
				return nil
			}

			re := lipgloss.NewRenderer(out)
			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(re.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
				Headers("PROJECT", "SESSIONS", "TOTAL", "STATUS")
			for _, p := range projects {
				snap, err := a.store.GetProject(p.Name)
				if err != nil {
					return err
				}
				total, err := timesheet.TotalHours(snap.Sessions, now)
				if err != nil {
					return fmt.Errorf("project %q: %w", p.Name, err)
				}
				status := ""
				switch {
				case p.Active:
					status = "running"
				case p.Archived:
					status = "archived"
				}
				tbl.Row(p.Name, strconv.Itoa(p.SessionCount), report.FormatClock(total), status)
			}
			fmt.Fprintln(out, tbl.Render())
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include archived projects")
	return cmd
}

func (a *app) newMergeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <source> <destination>",
		Short: "Move every session of source into destination and delete source",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			moved, err := a.store.MergeProjects(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged '%s' into '%s' (%d sessions moved)\n", args[0], args[1], moved)
			return nil
		}),
	}
}

func (a *app) newRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if err := a.store.RenameProject(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed '%s' to '%s'\n", args[0], args[1])
			return nil
		}),
	}
}

func (a *app) newArchiveCommand() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "archive <project>",
		Short: "Hide a project from listings",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if undo {
				if err := a.store.UnarchiveProject(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored '%s'\n", args[0])
				return nil
			}
			if err := a.store.ArchiveProject(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived '%s'\n", args[0])
			return nil
		}),
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "restore an archived project")
	return cmd
}

func (a *app) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project and all of its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if err := a.store.DeleteProject(args[0]); err != nil {
				return err
			}
			a.log.Info("project deleted", "project", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted '%s'\n", args[0])
			return nil
		}),
	}
}
