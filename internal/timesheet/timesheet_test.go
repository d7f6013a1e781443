package timesheet

import (
	"errors"
	"math/rand"
	"testing"
	"time"
	_ "time/tzdata"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := ParseTimestamp(s, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func closed(t *testing.T, start, end string) Session {
	t.Helper()
	e := ts(t, end)
	return Session{Start: ts(t, start), End: &e}
}

func open(t *testing.T, start string) Session {
	t.Helper()
	return Session{Start: ts(t, start)}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func zone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return loc
}

func closedIn(t *testing.T, loc *time.Location, start, end string) Session {
	t.Helper()
	s, err := ParseTimestamp(start, loc)
	if err != nil {
		t.Fatal(err)
	}
	e, err := ParseTimestamp(end, loc)
	if err != nil {
		t.Fatal(err)
	}
	return Session{Start: s, End: &e}
}

var evalNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// ============================================================
// Timestamp format
// ============================================================

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("31/12/24 - 23:59:58", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 12, 31, 23, 59, 58, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if FormatTimestamp(got) != "31/12/24 - 23:59:58" {
		t.Fatalf("format round trip: %q", FormatTimestamp(got))
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	cases := []string{
		"",
		"2025-01-01 10:00:00",
		"01/01/25 10:00:00",
		"32/01/25 - 10:00:00",
		"01/01/25 - 25:00:00",
		"1/1/25 - 10:00:00",
	}
	for _, c := range cases {
		_, err := ParseTimestamp(c, time.UTC)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseTimestamp(%q): expected *ParseError, got %v", c, err)
			continue
		}
		if pe.Value != c {
			t.Errorf("ParseError.Value = %q, want %q", pe.Value, c)
		}
	}
}

func TestParseSessionFields(t *testing.T) {
	end := "01/01/25 - 11:00:00"
	s, err := ParseSession(Record{Start: "01/01/25 - 10:00:00", End: &end, Comment: "a", ClosingComment: "b"}, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if s.Open() {
		t.Fatal("session with end should be closed")
	}
	if s.Comment != "a" || s.ClosingComment != "b" {
		t.Fatalf("comments not passed through: %+v", s)
	}

	bad := "nope"
	_, err = ParseSession(Record{Start: "01/01/25 - 10:00:00", End: &bad}, time.UTC)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Field != "end" {
		t.Fatalf("expected end ParseError, got %v", err)
	}
	_, err = ParseSession(Record{Start: "bad"}, time.UTC)
	if !errors.As(err, &pe) || pe.Field != "start" {
		t.Fatalf("expected start ParseError, got %v", err)
	}
}

func TestParseSessionsStopsOnFirstError(t *testing.T) {
	records := []Record{
		{Start: "01/01/25 - 10:00:00"},
		{Start: "garbage"},
	}
	_, err := ParseSessions(records, time.UTC)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestRecordRoundTripOpenSession(t *testing.T) {
	s := open(t, "05/02/25 - 08:30:00")
	s.Comment = "working"
	r := s.Record()
	if r.End != nil {
		t.Fatal("open session should have nil end")
	}
	back, err := ParseSession(r, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Open() || !back.Start.Equal(s.Start) || back.Comment != "working" {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestProjectCurrentAndActive(t *testing.T) {
	var p Project
	if p.Current() != nil || p.Active() {
		t.Fatal("empty project has no current session")
	}
	p.Sessions = []Session{closed(t, "01/01/25 - 10:00:00", "01/01/25 - 11:00:00")}
	if p.Active() {
		t.Fatal("closed last session should not be active")
	}
	p.Sessions = append(p.Sessions, open(t, "01/01/25 - 12:00:00"))
	if !p.Active() {
		t.Fatal("open last session should be active")
	}
}

// ============================================================
// Interval normaliser
// ============================================================

func TestSessionDays(t *testing.T) {
	s := closed(t, "30/12/24 - 22:00:00", "02/01/25 - 01:00:00")
	days, err := s.Days(evalNow)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"30/12/24", "31/12/24", "01/01/25", "02/01/25"}
	if len(days) != len(want) {
		t.Fatalf("got %d days, want %d", len(days), len(want))
	}
	for i, d := range days {
		if FormatDate(d) != want[i] {
			t.Errorf("day %d = %s, want %s", i, FormatDate(d), want[i])
		}
	}
}

func TestSessionDaysOpenUsesNow(t *testing.T) {
	s := open(t, "27/02/25 - 09:00:00")
	days, err := s.Days(evalNow)
	if err != nil {
		t.Fatal(err)
	}
	// 27/02, 28/02, 01/03
	if len(days) != 3 {
		t.Fatalf("expected 3 days up to now, got %d", len(days))
	}
}

func TestClip(t *testing.T) {
	s := closed(t, "01/01/25 - 22:00:00", "02/01/25 - 02:00:00")

	iv, ok, err := Clip(s, day(t, "01/01/25"), evalNow)
	if err != nil || !ok {
		t.Fatalf("clip day 1: ok=%v err=%v", ok, err)
	}
	if iv.Len() != 2*time.Hour {
		t.Fatalf("day 1 clip = %v, want 2h", iv.Len())
	}

	iv, ok, _ = Clip(s, day(t, "02/01/25"), evalNow)
	if !ok || iv.Len() != 2*time.Hour {
		t.Fatalf("day 2 clip = %v ok=%v, want 2h", iv.Len(), ok)
	}

	_, ok, _ = Clip(s, day(t, "03/01/25"), evalNow)
	if ok {
		t.Fatal("session should not touch 03/01/25")
	}
}

func TestClipAcceptsAnyInstantInDay(t *testing.T) {
	s := closed(t, "01/01/25 - 10:00:00", "01/01/25 - 11:00:00")
	iv, ok, err := Clip(s, ts(t, "01/01/25 - 17:45:00"), evalNow)
	if err != nil || !ok || iv.Len() != time.Hour {
		t.Fatalf("got %v ok=%v err=%v", iv.Len(), ok, err)
	}
}

func TestClipEndingAtMidnight(t *testing.T) {
	s := closed(t, "01/01/25 - 23:00:00", "02/01/25 - 00:00:00")
	iv, ok, err := Clip(s, day(t, "02/01/25"), evalNow)
	if err != nil || !ok {
		t.Fatalf("midnight end should touch next day: ok=%v err=%v", ok, err)
	}
	if iv.Len() != 0 {
		t.Fatalf("expected zero-length clip, got %v", iv.Len())
	}
}

func TestInvertedSessionIsIntegrityError(t *testing.T) {
	s := closed(t, "01/01/25 - 12:00:00", "01/01/25 - 11:00:00")
	var die *DataIntegrityError

	if _, _, err := Clip(s, day(t, "01/01/25"), evalNow); !errors.As(err, &die) {
		t.Fatalf("Clip: expected DataIntegrityError, got %v", err)
	}
	if _, err := EnumerateDays([]Session{s}, evalNow); !errors.As(err, &die) {
		t.Fatalf("EnumerateDays: expected DataIntegrityError, got %v", err)
	}
	if _, err := DailyHours([]Session{s}, day(t, "01/01/25"), evalNow); !errors.As(err, &die) {
		t.Fatalf("DailyHours: expected DataIntegrityError, got %v", err)
	}
	if _, err := TotalHours([]Session{s}, evalNow); !errors.As(err, &die) {
		t.Fatalf("TotalHours: expected DataIntegrityError, got %v", err)
	}
}

func TestOpenSessionStartingAfterNow(t *testing.T) {
	s := open(t, "02/03/25 - 09:00:00") // after evalNow
	report, err := AssembleDailyReport([]Session{s}, evalNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(report) != 1 || report[0].Duration != 0 {
		t.Fatalf("expected one zero-length day, got %+v", report)
	}
}

// ============================================================
// Interval merge
// ============================================================

func TestMergeIntervals(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 1, 1, h, 0, 0, 0, time.UTC) }
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{"empty", nil, nil},
		{"single", []Interval{{at(1), at(2)}}, []Interval{{at(1), at(2)}}},
		{"disjoint unsorted", []Interval{{at(5), at(6)}, {at(1), at(2)}}, []Interval{{at(1), at(2)}, {at(5), at(6)}}},
		{"overlap", []Interval{{at(10), at(12)}, {at(11), at(13)}}, []Interval{{at(10), at(13)}}},
		{"touching", []Interval{{at(8), at(9)}, {at(9), at(10)}}, []Interval{{at(8), at(10)}}},
		{"contained", []Interval{{at(8), at(18)}, {at(9), at(10)}}, []Interval{{at(8), at(18)}}},
		{"same start", []Interval{{at(8), at(9)}, {at(8), at(11)}}, []Interval{{at(8), at(11)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeIntervals(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d intervals, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Start.Equal(tt.want[i].Start) || !got[i].End.Equal(tt.want[i].End) {
					t.Fatalf("interval %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMergeIntervalsDoesNotMutateInput(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 1, 1, h, 0, 0, 0, time.UTC) }
	in := []Interval{{at(5), at(6)}, {at(1), at(2)}}
	MergeIntervals(in)
	if !in[0].Start.Equal(at(5)) {
		t.Fatal("input was reordered")
	}
}

// ============================================================
// Aggregation scenarios
// ============================================================

func TestSingleHourSession(t *testing.T) {
	sessions := []Session{closed(t, "01/01/25 - 10:00:00", "01/01/25 - 11:00:00")}
	total, err := TotalHours(sessions, evalNow)
	if err != nil {
		t.Fatal(err)
	}
	if total != time.Hour {
		t.Fatalf("total = %v, want 1h", total)
	}
	if total.Hours() != 1 {
		t.Fatalf("hours = %v, want 1", total.Hours())
	}
}

func TestSeveralSessionsSameDay(t *testing.T) {
	sessions := []Session{
		closed(t, "01/01/25 - 08:00:00", "01/01/25 - 12:00:00"),
		closed(t, "01/01/25 - 13:00:00", "01/01/25 - 15:00:00"),
		closed(t, "01/01/25 - 16:00:00", "01/01/25 - 18:00:00"),
	}
	report, err := AssembleDailyReport(sessions, evalNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 day entry, got %d", len(report))
	}
	if report[0].Duration != 8*time.Hour {
		t.Fatalf("daily total = %v, want 8h", report[0].Duration)
	}
}

func TestOverlappingSessionsMerged(t *testing.T) {
	sessions := []Session{
		closed(t, "01/01/25 - 10:00:00", "01/01/25 - 12:00:00"),
		closed(t, "01/01/25 - 11:00:00", "01/01/25 - 13:00:00"),
	}
	got, err := DailyHours(sessions, day(t, "01/01/25"), evalNow)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3*time.Hour {
		t.Fatalf("merged total = %v, want 3h", got)
	}
}

func TestSessionSpanningMidnight(t *testing.T) {
	sessions := []Session{closed(t, "01/01/25 - 22:00:00", "02/01/25 - 02:00:00")}
	report, err := AssembleDailyReport(sessions, evalNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(report) != 2 {
		t.Fatalf("expected 2 day entries, got %d", len(report))
	}
	if FormatDate(report[0].Date) != "01/01/25" || report[0].Duration != 2*time.Hour {
		t.Fatalf("day 1 = %s %v, want 01/01/25 2h", FormatDate(report[0].Date), report[0].Duration)
	}
	if FormatDate(report[1].Date) != "02/01/25" || report[1].Duration != 2*time.Hour {
		t.Fatalf("day 2 = %s %v, want 02/01/25 2h", FormatDate(report[1].Date), report[1].Duration)
	}
	total, _ := TotalHours(sessions, evalNow)
	if total != 4*time.Hour {
		t.Fatalf("total = %v, want 4h", total)
	}
}

func TestZeroDurationSession(t *testing.T) {
	sessions := []Session{closed(t, "01/01/25 - 10:00:00", "01/01/25 - 10:00:00")}
	days, err := EnumerateDays(sessions, evalNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 || FormatDate(days[0]) != "01/01/25" {
		t.Fatalf("expected 01/01/25 listed, got %v", days)
	}
	report, _ := AssembleDailyReport(sessions, evalNow)
	if len(report) != 1 || report[0].Duration != 0 {
		t.Fatalf("expected one zero-length entry, got %+v", report)
	}
}

func TestNoSessions(t *testing.T) {
	days, err := EnumerateDays(nil, evalNow)
	if err != nil || len(days) != 0 {
		t.Fatalf("expected no days, got %v %v", days, err)
	}
	report, err := AssembleDailyReport(nil, evalNow)
	if err != nil || len(report) != 0 {
		t.Fatalf("expected empty report, got %v %v", report, err)
	}
	total, err := TotalHours(nil, evalNow)
	if err != nil || total != 0 {
		t.Fatalf("expected zero total, got %v %v", total, err)
	}
}

func TestOpenSessionCountsUntilNow(t *testing.T) {
	sessions := []Session{
		closed(t, "01/03/25 - 08:00:00", "01/03/25 - 09:00:00"),
		open(t, "01/03/25 - 10:30:00"),
	}
	got, err := DailyHours(sessions, day(t, "01/03/25"), evalNow)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Hour + 90*time.Minute
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	later, _ := DailyHours(sessions, day(t, "01/03/25"), evalNow.Add(time.Hour))
	if later <= got {
		t.Fatal("open session duration should grow with now")
	}
}

func TestDailyHoursFullDayCap(t *testing.T) {
	sessions := []Session{
		closed(t, "31/12/24 - 12:00:00", "03/01/25 - 12:00:00"),
		closed(t, "01/01/25 - 00:00:00", "01/01/25 - 23:00:00"),
	}
	got, err := DailyHours(sessions, day(t, "01/01/25"), evalNow)
	if err != nil {
		t.Fatal(err)
	}
	if got != 24*time.Hour {
		t.Fatalf("got %v, want 24h", got)
	}
}

func TestDailyHoursDayWithoutSessions(t *testing.T) {
	sessions := []Session{closed(t, "01/01/25 - 10:00:00", "01/01/25 - 11:00:00")}
	got, err := DailyHours(sessions, day(t, "05/01/25"), evalNow)
	if err != nil || got != 0 {
		t.Fatalf("got %v %v, want 0", got, err)
	}
}

func TestSubSecondRounding(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour - 2*time.Millisecond)
	sessions := []Session{{Start: start, End: &end}}
	got, err := DailyHours(sessions, start, evalNow)
	if err != nil {
		t.Fatal(err)
	}
	if got != time.Hour {
		t.Fatalf("got %v, want rounded 1h", got)
	}
}

// ============================================================
// Properties
// ============================================================

func sampleSessions(t *testing.T) []Session {
	return []Session{
		closed(t, "01/01/25 - 08:00:00", "01/01/25 - 12:00:00"),
		closed(t, "01/01/25 - 11:00:00", "01/01/25 - 14:30:00"),
		closed(t, "01/01/25 - 22:00:00", "02/01/25 - 03:15:00"),
		closed(t, "02/01/25 - 01:00:00", "02/01/25 - 02:00:00"),
		closed(t, "04/01/25 - 09:00:00", "04/01/25 - 09:00:00"),
		closed(t, "04/01/25 - 10:00:00", "04/01/25 - 10:45:10"),
		closed(t, "04/01/25 - 10:45:10", "04/01/25 - 11:00:00"),
	}
}

func TestOrderIndependence(t *testing.T) {
	base := sampleSessions(t)
	wantReport, err := AssembleDailyReport(base, evalNow)
	if err != nil {
		t.Fatal(err)
	}
	wantTotal, _ := TotalHours(base, evalNow)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		perm := make([]Session, len(base))
		for j, k := range rng.Perm(len(base)) {
			perm[j] = base[k]
		}
		report, err := AssembleDailyReport(perm, evalNow)
		if err != nil {
			t.Fatal(err)
		}
		if len(report) != len(wantReport) {
			t.Fatalf("permutation %d: %d days, want %d", i, len(report), len(wantReport))
		}
		for j := range report {
			if !report[j].Date.Equal(wantReport[j].Date) || report[j].Duration != wantReport[j].Duration {
				t.Fatalf("permutation %d day %d: %+v, want %+v", i, j, report[j], wantReport[j])
			}
		}
		total, _ := TotalHours(perm, evalNow)
		if total != wantTotal {
			t.Fatalf("permutation %d: total %v, want %v", i, total, wantTotal)
		}
	}
}

func TestMergedNeverExceedsRaw(t *testing.T) {
	sessions := sampleSessions(t)
	days, _ := EnumerateDays(sessions, evalNow)
	for _, d := range days {
		merged, err := DailyHours(sessions, d, evalNow)
		if err != nil {
			t.Fatal(err)
		}
		var raw time.Duration
		for _, s := range sessions {
			if iv, ok, _ := Clip(s, d, evalNow); ok {
				raw += iv.Len()
			}
		}
		if merged > raw {
			t.Fatalf("%s: merged %v > raw %v", FormatDate(d), merged, raw)
		}
		if merged > 24*time.Hour || merged < 0 {
			t.Fatalf("%s: merged %v out of range", FormatDate(d), merged)
		}
	}
}

func TestReportCoversEnumeratedDays(t *testing.T) {
	sessions := sampleSessions(t)
	days, _ := EnumerateDays(sessions, evalNow)
	report, _ := AssembleDailyReport(sessions, evalNow)
	if len(days) != len(report) {
		t.Fatalf("days %d != report %d", len(days), len(report))
	}
	for i := range days {
		if !days[i].Equal(report[i].Date) {
			t.Fatalf("day %d mismatch: %v vs %v", i, days[i], report[i].Date)
		}
	}
	total, _ := TotalHours(sessions, evalNow)
	if total != Sum(report) {
		t.Fatalf("total %v != sum %v", total, Sum(report))
	}
}

func TestSampleSessionsTotals(t *testing.T) {
	report, err := AssembleDailyReport(sampleSessions(t), evalNow)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]time.Duration{
		"01/01/25": 6*time.Hour + 30*time.Minute + 2*time.Hour, // 08:00-14:30 + 22:00-24:00
		"02/01/25": 3*time.Hour + 15*time.Minute,
		"04/01/25": time.Hour,
	}
	if len(report) != len(want) {
		t.Fatalf("got %d days, want %d", len(report), len(want))
	}
	for _, d := range report {
		if w := want[FormatDate(d.Date)]; d.Duration != w {
			t.Errorf("%s = %v, want %v", FormatDate(d.Date), d.Duration, w)
		}
	}
}

// ============================================================
// DST transitions
// ============================================================

func TestDSTDays(t *testing.T) {
	newYork := zone(t, "America/New_York")
	santiago := zone(t, "America/Santiago")

	tests := []struct {
		name     string
		loc      *time.Location
		start    string
		end      string
		want     map[string]time.Duration
		days     []string
	}{
		{
			// 02:00 does not exist on 10/03/24.
			name:  "spring forward",
			loc:   newYork,
			start: "09/03/24 - 22:00:00",
			end:   "10/03/24 - 04:00:00",
			days:  []string{"09/03/24", "10/03/24"},
			want:  map[string]time.Duration{"09/03/24": 2 * time.Hour, "10/03/24": 4 * time.Hour},
		},
		{
			name:  "spring forward full day",
			loc:   newYork,
			start: "10/03/24 - 00:00:00",
			end:   "11/03/24 - 00:00:00",
			days:  []string{"10/03/24", "11/03/24"},
			want:  map[string]time.Duration{"10/03/24": 24 * time.Hour, "11/03/24": 0},
		},
		{
			// 01:00-02:00 happens twice on 03/11/24, 25h of real time.
			name:  "fall back full day",
			loc:   newYork,
			start: "03/11/24 - 00:00:00",
			end:   "04/11/24 - 00:00:00",
			days:  []string{"03/11/24", "04/11/24"},
			want:  map[string]time.Duration{"03/11/24": 24 * time.Hour, "04/11/24": 0},
		},
		{
			// Midnight does not exist on 08/09/24 in Santiago.
			name:  "skipped midnight",
			loc:   santiago,
			start: "08/09/24 - 12:00:00",
			end:   "09/09/24 - 02:00:00",
			days:  []string{"08/09/24", "09/09/24"},
			want:  map[string]time.Duration{"08/09/24": 12 * time.Hour, "09/09/24": 2 * time.Hour},
		},
		{
			name:  "skipped midnight spanning transition",
			loc:   santiago,
			start: "07/09/24 - 22:00:00",
			end:   "08/09/24 - 03:00:00",
			days:  []string{"07/09/24", "08/09/24"},
			want:  map[string]time.Duration{"07/09/24": 2 * time.Hour, "08/09/24": 3 * time.Hour},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := []Session{closedIn(t, tt.loc, tt.start, tt.end)}
			report, err := AssembleDailyReport(sessions, evalNow)
			if err != nil {
				t.Fatal(err)
			}
			if len(report) != len(tt.days) {
				t.Fatalf("got %d days, want %d: %+v", len(report), len(tt.days), report)
			}
			var sum time.Duration
			for i, d := range report {
				if got := FormatDate(d.Date); got != tt.days[i] {
					t.Fatalf("day %d = %s, want %s", i, got, tt.days[i])
				}
				if d.Duration != tt.want[tt.days[i]] {
					t.Errorf("%s = %v, want %v", tt.days[i], d.Duration, tt.want[tt.days[i]])
				}
				if d.Duration > 24*time.Hour {
					t.Errorf("%s = %v exceeds 86400s", tt.days[i], d.Duration)
				}
				sum += d.Duration
			}
			total, err := TotalHours(sessions, evalNow)
			if err != nil || total != sum {
				t.Fatalf("total = %v %v, want %v", total, err, sum)
			}
		})
	}
}

func TestDSTDailyHoursAnyInstant(t *testing.T) {
	santiago := zone(t, "America/Santiago")
	sessions := []Session{closedIn(t, santiago, "08/09/24 - 12:00:00", "09/09/24 - 02:00:00")}

	// Any instant of the local day selects it, whatever its offset.
	noon, _ := ParseTimestamp("08/09/24 - 18:30:00", santiago)
	got, err := DailyHours(sessions, noon, evalNow)
	if err != nil || got != 12*time.Hour {
		t.Fatalf("DailyHours(08/09) = %v %v, want 12h", got, err)
	}
	late, _ := ParseTimestamp("07/09/24 - 23:30:00", santiago)
	if got, _ := DailyHours(sessions, late, evalNow); got != 0 {
		t.Fatalf("DailyHours(07/09) = %v, want 0", got)
	}
}

func TestDSTRepeatedHour(t *testing.T) {
	newYork := zone(t, "America/New_York")
	// 01:30 EDT then 01:10 EST, forty minutes later in real time.
	start := time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC).In(newYork)
	end := time.Date(2024, 11, 3, 6, 10, 0, 0, time.UTC).In(newYork)
	s := Session{Start: start, End: &end}

	if d, err := s.Duration(evalNow); err != nil || d != 40*time.Minute {
		t.Fatalf("Duration = %v %v, want 40m", d, err)
	}
	got, err := DailyHours([]Session{s}, start, evalNow)
	if err != nil {
		t.Fatalf("wall-clock inversion is not an integrity error: %v", err)
	}
	if got != 0 {
		t.Fatalf("DailyHours = %v, want 0 on the wall clock", got)
	}
}

func TestCalendarDay(t *testing.T) {
	santiago := zone(t, "America/Santiago")
	v, _ := ParseTimestamp("08/09/24 - 12:00:00", santiago)
	d := CalendarDay(v)
	if d.Location() != time.UTC || d.Hour() != 0 || FormatDate(d) != "08/09/24" {
		t.Fatalf("CalendarDay = %v", d)
	}
	if !d.Equal(day(t, "08/09/24")) {
		t.Fatalf("CalendarDay %v != ParseDate %v", d, day(t, "08/09/24"))
	}
	w := Wall(v)
	if w.Location() != time.UTC || w.Hour() != 12 {
		t.Fatalf("Wall = %v", w)
	}
}
