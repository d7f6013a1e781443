package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/cinner/internal/report"
	"github.com/sadopc/cinner/internal/timesheet"
)

func (a *app) newSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions <project>",
		Short: "List a project's sessions with their ids",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			rows, err := a.store.ListSessions(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range rows {
				end := "running"
				if !r.Open() {
					end = timesheet.FormatTimestamp(*r.End)
				}
				dur := "invalid"
				if d, err := r.Duration(now); err == nil {
					dur = report.FormatClock(d)
				}
				fmt.Fprintf(out, "%4d  %s  ->  %-19s  %s", r.ID, timesheet.FormatTimestamp(r.Start), end, dur)
				if r.Comment != "" {
					fmt.Fprintf(out, "  %s", r.Comment)
				}
				fmt.Fprintln(out)
			}
			return nil
		}),
	}
}

func (a *app) newCorrectCommand() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "correct <session-id>",
		Short: "Change the start and end of a closed session",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			from, err := timesheet.ParseTimestamp(start, a.loc)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := timesheet.ParseTimestamp(end, a.loc)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			row, err := a.store.CorrectSession(id, from, to)
			if err != nil {
				return err
			}
			d, _ := row.Duration(to)
			a.log.Info("session corrected", "id", id, "start", start, "end", end)
			fmt.Fprintf(cmd.OutOrStdout(), "Session %d now lasts %s\n", id, report.FormatClock(d))
			return nil
		}),
	}
	cmd.Flags().StringVar(&start, "start", "", `new start "DD/MM/YY - HH:MM:SS"`)
	cmd.Flags().StringVar(&end, "end", "", `new end "DD/MM/YY - HH:MM:SS"`)
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func (a *app) newColorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "color <project> <#rrggbb>",
		Short: "Set the color a project is drawn with",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if !validColor(args[1]) {
				return fmt.Errorf("invalid color %q, want #rrggbb", args[1])
			}
			if err := a.store.SetProjectColor(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set '%s' color to %s\n", args[0], args[1])
			return nil
		}),
	}
}

func validColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}
