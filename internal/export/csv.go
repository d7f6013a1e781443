package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/cinner/internal/report"
)

// DailyCSV writes one row per reported day followed by a Total row.
func DailyCSV(r *report.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Seconds", "Duration", "Hours"}); err != nil {
		return err
	}

	for _, d := range r.Days {
		row := []string{
			d.Date.Format("2006-01-02"),
			strconv.FormatInt(int64(d.Duration.Seconds()), 10),
			report.FormatClock(d.Duration),
			report.FormatHours(d.Duration),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	total := []string{
		"Total",
		strconv.FormatInt(int64(r.Total.Seconds()), 10),
		report.FormatClock(r.Total),
		report.FormatHours(r.Total),
	}
	if err := w.Write(total); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
