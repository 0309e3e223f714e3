package weekly

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kazu/uniquest/internal/jst"
	"github.com/kazu/uniquest/internal/store"
	"github.com/kazu/uniquest/internal/store/sqlite"
)

type fakeGenerator struct {
	comment string
	err     error
	calls   int
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.comment, f.err
}

func openTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	d, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestWeekRange(t *testing.T) {
	cases := []struct {
		today, start, end string
	}{
		{"2024-01-03", "2024-01-01", "2024-01-07"}, // Wednesday
		{"2024-01-01", "2024-01-01", "2024-01-07"}, // Monday
		{"2024-01-07", "2024-01-01", "2024-01-07"}, // Sunday
	}
	for _, c := range cases {
		today, _ := jst.ParseDate(c.today)
		start, end := WeekRange(today)
		if jst.FormatDate(start) != c.start || jst.FormatDate(end) != c.end {
			t.Errorf("WeekRange(%s) = %s..%s, want %s..%s",
				c.today, jst.FormatDate(start), jst.FormatDate(end), c.start, c.end)
		}
	}
}

func TestFetchEmptyWeek(t *testing.T) {
	d := openTestStore(t)
	a := New(d, d, d, &fakeGenerator{})
	today, _ := jst.ParseDate("2024-01-03")

	s, err := a.Fetch(context.Background(), today)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if s.IdealCount != 0 || s.ActualCount != 0 {
		t.Errorf("expected zero counts, got %+v", s)
	}
	if s.Rate != "0%" {
		t.Errorf("rate = %q, want 0%%", s.Rate)
	}
	if s.AvgFocus != "0%" {
		t.Errorf("avg focus = %q, want 0%%", s.AvgFocus)
	}
	if s.TopEmoji != "😐" {
		t.Errorf("top emoji = %q, want neutral", s.TopEmoji)
	}
}

func TestFetchCountsAndRate(t *testing.T) {
	d := openTestStore(t)
	ctx := context.Background()
	// Two active days, three completions: ideal 6, actual 3, rate 50%.
	for _, rec := range []store.CompletionRecord{
		{Date: "2024-01-01", Subject: "a", Title: "x", Timestamp: "t"},
		{Date: "2024-01-01", Subject: "a", Title: "y", Timestamp: "t"},
		{Date: "2024-01-03", Subject: "b", Title: "z", Timestamp: "t"},
		{Date: "2023-12-31", Subject: "c", Title: "w", Timestamp: "t"}, // previous week
	} {
		if err := d.AppendCompletion(ctx, rec); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	a := New(d, d, d, &fakeGenerator{})
	today, _ := jst.ParseDate("2024-01-03")
	s, err := a.Fetch(ctx, today)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if s.ActualCount != 3 {
		t.Errorf("actual = %d, want 3", s.ActualCount)
	}
	if s.IdealCount != 6 {
		t.Errorf("ideal = %d, want 6", s.IdealCount)
	}
	if s.Rate != "50%" {
		t.Errorf("rate = %q, want 50%%", s.Rate)
	}
	if s.Range != "2024-01-01 ~ 2024-01-07" {
		t.Errorf("range = %q", s.Range)
	}
}

func TestFetchMoodStats(t *testing.T) {
	d := openTestStore(t)
	ctx := context.Background()
	for _, rec := range []store.MoodRecord{
		{Date: "2024-01-01", Emoji: "😊", Focus: "80%"},
		{Date: "2024-01-02", Emoji: "😊", Focus: "60%"},
		{Date: "2024-01-03", Emoji: "😩", Focus: "70%"},
		{Date: "2024-01-04", Emoji: "🔥", Focus: "not a number"}, // skipped for focus
		{Date: "2024-01-10", Emoji: "🎉", Focus: "90%"},          // next week: excluded
	} {
		if err := d.AppendMood(ctx, rec); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	a := New(d, d, d, &fakeGenerator{})
	today, _ := jst.ParseDate("2024-01-03")
	s, err := a.Fetch(ctx, today)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if s.AvgFocus != "70%" {
		t.Errorf("avg focus = %q, want 70%%", s.AvgFocus)
	}
	if s.TopEmoji != "😊" {
		t.Errorf("top emoji = %q, want 😊", s.TopEmoji)
	}
}

func TestReportPersistsAndRenders(t *testing.T) {
	d := openTestStore(t)
	gen := &fakeGenerator{comment: "今週もよく頑張りました！"}
	a := New(d, d, d, gen)
	today, _ := jst.ParseDate("2024-01-03")

	msg, err := a.Report(context.Background(), today)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
	if !strings.Contains(msg, "今週のUniQuestレポート") {
		t.Errorf("missing header: %q", msg)
	}
	if !strings.Contains(msg, "今週もよく頑張りました！") {
		t.Errorf("missing comment: %q", msg)
	}
}

type recordingReportLog struct {
	rows []store.ReportRow
}

func (r *recordingReportLog) AppendReport(_ context.Context, row store.ReportRow) error {
	r.rows = append(r.rows, row)
	return nil
}

func TestReportGenerationFailureStillStoresNumbers(t *testing.T) {
	d := openTestStore(t)
	reports := &recordingReportLog{}
	gen := &fakeGenerator{err: errors.New("rate limited")}
	a := New(d, d, reports, gen)
	today, _ := jst.ParseDate("2024-01-03")

	_, err := a.Report(context.Background(), today)
	if err == nil {
		t.Fatal("expected generation error")
	}
	if len(reports.rows) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(reports.rows))
	}
	if reports.rows[0].Comment != "" {
		t.Errorf("expected empty comment in stored row, got %q", reports.rows[0].Comment)
	}
	if reports.rows[0].Rate != "0%" {
		t.Errorf("rate = %q, want 0%%", reports.rows[0].Rate)
	}
}
