package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/cinner/internal/export"
	"github.com/sadopc/cinner/internal/report"
	"github.com/sadopc/cinner/internal/timesheet"
)

// buildReport evaluates a project at the command's now. Unknown projects
// report zero hours.
func (a *app) buildReport(name string) (*report.Report, error) {
	now, err := a.now()
	if err != nil {
		return nil, err
	}
	sessions, err := a.store.Sessions(name)
	if err != nil {
		return nil, err
	}
	rate, err := a.store.HourlyRate()
	if err != nil {
		return nil, err
	}
	return report.Build(&timesheet.Project{Name: name, Sessions: sessions}, now, rate)
}

func (a *app) newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "report <project>",
		Aliases: []string{"r"},
		Short:   "Show total hours and earnings for a project",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			r, err := a.buildReport(args[0])
			if err != nil {
				return err
			}
			return report.WriteTotal(cmd.OutOrStdout(), r, a.cfg.Currency)
		}),
	}
}

func (a *app) newDailyCommand() *cobra.Command {
	var csvPath, from, to string
	var plot bool
	var days int
	cmd := &cobra.Command{
		Use:     "daily <project>",
		Aliases: []string{"d"},
		Short:   "Show merged hours per day for a project",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			r, err := a.buildReport(args[0])
			if err != nil {
				return err
			}
			if from != "" || to != "" {
				if r, err = a.narrow(r, from, to); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if err := report.WriteDaily(out, r); err != nil {
				return err
			}
			if plot {
				chart := report.Chart(r.Window(r.Now, days), 8*days, 12, "#6C63FF")
				fmt.Fprintf(out, "\n%s\nTotal Hours: %s\n", chart.View(), report.FormatHours(r.Total))
			}
			if csvPath != "" {
				if err := export.DailyCSV(r, csvPath); err != nil {
					return err
				}
				a.log.Info("daily report exported", "path", csvPath, "days", len(r.Days))
				fmt.Fprintf(out, "Exported to %s\n", csvPath)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the report to a CSV file")
	cmd.Flags().BoolVarP(&plot, "plot", "P", false, "draw a bar chart of recent days")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to plot")
	cmd.Flags().StringVar(&from, "from", "", "first day to include (DD/MM/YY)")
	cmd.Flags().StringVar(&to, "to", "", "last day to include (DD/MM/YY)")
	return cmd
}

// narrow restricts r to the days between from and to inclusive. Either
// bound may be empty.
func (a *app) narrow(r *report.Report, from, to string) (*report.Report, error) {
	lo, hi := time.Time{}, timesheet.CalendarDay(r.Now)
	var err error
	if from != "" {
		if lo, err = timesheet.ParseDate(from); err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if hi, err = timesheet.ParseDate(to); err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
	}
	if hi.Before(lo) {
		return nil, fmt.Errorf("--to %s is before --from %s", timesheet.FormatDate(hi), timesheet.FormatDate(lo))
	}
	n := *r
	n.Days = r.Range(lo, hi)
	n.Total = timesheet.Sum(n.Days)
	return &n, nil
}
