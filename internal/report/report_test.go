package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/sadopc/cinner/internal/timesheet"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := timesheet.ParseTimestamp(s, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func sampleProject(t *testing.T) *timesheet.Project {
	t.Helper()
	end := func(s string) *time.Time { v := ts(t, s); return &v }
	return &timesheet.Project{
		Name: "Client",
		Sessions: []timesheet.Session{
			{Start: ts(t, "01/01/25 - 09:00:00"), End: end("01/01/25 - 12:00:00")},
			{Start: ts(t, "01/01/25 - 11:00:00"), End: end("01/01/25 - 13:30:00")},
			{Start: ts(t, "03/01/25 - 23:00:00"), End: end("04/01/25 - 01:00:00")},
		},
	}
}

func TestBuild(t *testing.T) {
	r, err := Build(sampleProject(t), ts(t, "05/01/25 - 00:00:00"), 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(r.Days))
	}
	if r.Total != 6*time.Hour+30*time.Minute {
		t.Fatalf("total = %v, want 6h30m", r.Total)
	}
	if r.Hours() != 6.5 {
		t.Fatalf("hours = %v", r.Hours())
	}
	if r.Amount() != 650 {
		t.Fatalf("amount = %v, want 650", r.Amount())
	}
}

func TestBuildNilProject(t *testing.T) {
	r, err := Build(nil, time.Now(), 125)
	if err != nil {
		t.Fatal(err)
	}
	if r.Total != 0 || len(r.Days) != 0 || r.Amount() != 0 {
		t.Fatalf("expected empty report, got %+v", r)
	}
}

func TestBuildIntegrityError(t *testing.T) {
	end := ts(t, "01/01/25 - 08:00:00")
	p := &timesheet.Project{Name: "Bad", Sessions: []timesheet.Session{
		{Start: ts(t, "01/01/25 - 09:00:00"), End: &end},
	}}
	_, err := Build(p, ts(t, "02/01/25 - 00:00:00"), 1)
	var die *timesheet.DataIntegrityError
	if !errors.As(err, &die) {
		t.Fatalf("expected DataIntegrityError, got %v", err)
	}
}

func TestDayAndRange(t *testing.T) {
	r, _ := Build(sampleProject(t), ts(t, "05/01/25 - 00:00:00"), 0)

	if got := r.Day(ts(t, "03/01/25 - 15:00:00")); got != time.Hour {
		t.Fatalf("Day(03/01) = %v, want 1h", got)
	}
	if got := r.Day(ts(t, "02/01/25 - 00:00:00")); got != 0 {
		t.Fatalf("Day(02/01) = %v, want 0", got)
	}

	days := r.Range(ts(t, "02/01/25 - 18:00:00"), ts(t, "04/01/25 - 00:00:00"))
	if len(days) != 2 {
		t.Fatalf("expected 2 days in range, got %d", len(days))
	}
	if !days[0].Date.Equal(ts(t, "03/01/25 - 00:00:00")) {
		t.Fatalf("first day = %v", days[0].Date)
	}
}

func TestWindow(t *testing.T) {
	r, _ := Build(sampleProject(t), ts(t, "05/01/25 - 00:00:00"), 0)
	w := r.Window(ts(t, "04/01/25 - 10:00:00"), 7)
	if len(w) != 7 {
		t.Fatalf("expected 7 days, got %d", len(w))
	}
	if !w[6].Date.Equal(ts(t, "04/01/25 - 00:00:00")) {
		t.Fatalf("window should end on 04/01, got %v", w[6].Date)
	}
	if !w[0].Date.Equal(ts(t, "29/12/24 - 00:00:00")) {
		t.Fatalf("window should start on 29/12, got %v", w[0].Date)
	}
	var sum time.Duration
	for _, d := range w {
		sum += d.Duration
	}
	if sum != r.Total {
		t.Fatalf("window sum = %v, want %v", sum, r.Total)
	}
	if r.Window(time.Now(), 0) != nil {
		t.Fatal("empty window should be nil")
	}
}

func TestWriteDaily(t *testing.T) {
	r, _ := Build(sampleProject(t), ts(t, "05/01/25 - 00:00:00"), 0)
	var buf bytes.Buffer
	if err := WriteDaily(&buf, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"=== Daily Hours Report ===",
		"Total hours worked on 2025-01-01: 4.50 hours",
		"Total hours worked on 2025-01-03: 1.00 hours",
		"Total hours worked on 2025-01-04: 1.00 hours",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTotal(t *testing.T) {
	r, _ := Build(sampleProject(t), ts(t, "05/01/25 - 00:00:00"), 125)
	var buf bytes.Buffer
	if err := WriteTotal(&buf, r, "$"); err != nil {
		t.Fatal(err)
	}
	want := "Total hours worked on 'Client': 6.50 hours for $812.50"
	if !strings.Contains(buf.String(), want) {
		t.Fatalf("got %q, want it to contain %q", buf.String(), want)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.00"},
		{30 * time.Minute, "0.50"},
		{8*time.Hour + 30*time.Minute, "8.50"},
		{20 * time.Minute, "0.33"},
	}
	for _, tt := range tests {
		if got := FormatHours(tt.d); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{61 * time.Minute, "01:01:00"},
		{3661 * time.Second, "01:01:01"},
		{25*time.Hour + 61*time.Second, "25:01:01"},
		{-time.Second, "00:00:00"},
		{1499 * time.Millisecond, "00:00:01"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.d); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestChart(t *testing.T) {
	r, _ := Build(sampleProject(t), ts(t, "05/01/25 - 00:00:00"), 0)
	chart := Chart(r.Window(ts(t, "04/01/25 - 00:00:00"), 7), 70, 10, "#6C63FF")
	out := chart.View()
	if out == "" {
		t.Fatal("chart should render")
	}
}

func TestWindowAcrossSkippedMidnight(t *testing.T) {
	santiago, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Fatal(err)
	}
	start, _ := timesheet.ParseTimestamp("08/09/24 - 12:00:00", santiago)
	end, _ := timesheet.ParseTimestamp("09/09/24 - 02:00:00", santiago)
	p := &timesheet.Project{Name: "Chile", Sessions: []timesheet.Session{{Start: start, End: &end}}}
	now, _ := timesheet.ParseTimestamp("10/09/24 - 09:00:00", santiago)

	r, err := Build(p, now, 0)
	if err != nil {
		t.Fatal(err)
	}
	w := r.Window(now, 4)
	want := []string{"2024-09-07", "2024-09-08", "2024-09-09", "2024-09-10"}
	hours := []time.Duration{0, 12 * time.Hour, 2 * time.Hour, 0}
	for i, d := range w {
		if got := d.Date.Format("2006-01-02"); got != want[i] || d.Duration != hours[i] {
			t.Fatalf("day %d = %s %v, want %s %v", i, got, d.Duration, want[i], hours[i])
		}
	}
	if got := r.Day(now.AddDate(0, 0, -2)); got != 12*time.Hour {
		t.Fatalf("Day(08/09) = %v, want 12h", got)
	}
}
