package report

import (
	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/cinner/internal/timesheet"
)

// Chart draws one bar per day in fractional hours.
func Chart(days []timesheet.DayTotal, width, height int, color lipgloss.Color) barchart.Model {
	if width < 20 {
		width = 20
	}
	if height < 6 {
		height = 6
	}
	chart := barchart.New(width, height)

	style := lipgloss.NewStyle().Foreground(color)
	bars := make([]barchart.BarData, 0, len(days))
	for _, d := range days {
		bars = append(bars, barchart.BarData{
			Label: d.Date.Format("Mon 02"),
			Values: []barchart.BarValue{{
				Name:  d.Date.Format("2006-01-02"),
				Value: d.Hours(),
				Style: style,
			}},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart
}
