package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/cinner/internal/report"
	"github.com/sadopc/cinner/internal/timesheet"
)

func (a *app) newToggleCommand() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:     "toggle <project>",
		Aliases: []string{"t"},
		Short:   "Start tracking a project, or stop it if it is running",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			res, err := a.store.Toggle(args[0], comment, now)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case res.Created:
				fmt.Fprintf(out, "Created project '%s' and started tracking at %s\n", res.Project, timesheet.FormatTimestamp(now))
			case res.Started:
				fmt.Fprintf(out, "Started tracking '%s' at %s\n", res.Project, timesheet.FormatTimestamp(now))
			default:
				d, _ := res.Session.Duration(now)
				fmt.Fprintf(out, "Stopped tracking '%s' after %s\n", res.Project, report.FormatClock(d))
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "comment for the opened or closed session")
	return cmd
}

func (a *app) newStartCommand() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "start <project>",
		Short: "Open a new session",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			if _, err := a.store.StartSession(args[0], comment, now); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started tracking '%s' at %s\n", args[0], timesheet.FormatTimestamp(now))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "session comment")
	return cmd
}

func (a *app) newStopCommand() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "stop <project>",
		Short: "Close the running session",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			row, err := a.store.StopSession(args[0], comment, now)
			if err != nil {
				return err
			}
			d, _ := row.Duration(now)
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped tracking '%s' after %s\n", args[0], report.FormatClock(d))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "closing comment")
	return cmd
}

func (a *app) newAddCommand() *cobra.Command {
	var start, end, comment, closing string
	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Record a past session",
		Example: `  cinner add website --start "01/03/25 - 09:00:00" --end "01/03/25 - 12:30:00" -c "layout"`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			from, err := timesheet.ParseTimestamp(start, a.loc)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := timesheet.ParseTimestamp(end, a.loc)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			row, err := a.store.AddManualSession(args[0], from, to, comment, closing)
			if err != nil {
				return err
			}
			d, _ := row.Duration(to)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to '%s'\n", report.FormatClock(d), args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&start, "start", "", `session start "DD/MM/YY - HH:MM:SS"`)
	cmd.Flags().StringVar(&end, "end", "", `session end "DD/MM/YY - HH:MM:SS"`)
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "session comment")
	cmd.Flags().StringVar(&closing, "closing-comment", "", "closing comment")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func (a *app) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show running sessions and today's hours",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			projects, err := a.store.ListProjects(false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var running int
			for _, p := range projects {
				snap, err := a.store.GetProject(p.Name)
				if err != nil {
					return err
				}
				if !snap.Active() {
					continue
				}
				today, err := timesheet.DailyHours(snap.Sessions, now, now)
				if err != nil {
					return err
				}
				running++
				elapsed, _ := snap.Current().Duration(now)
				fmt.Fprintf(out, "● %s  running %s  today %s\n", p.Name, report.FormatClock(elapsed), report.FormatClock(today))
			}
			if running == 0 {
				fmt.Fprintln(out, "No running sessions")
			}
			return nil
		}),
	}
}
