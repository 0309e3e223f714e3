package bot

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/kazu/uniquest/internal/catalog"
	"github.com/kazu/uniquest/internal/jst"
	"github.com/kazu/uniquest/internal/store"
	"github.com/kazu/uniquest/internal/store/sqlite"
	"github.com/kazu/uniquest/internal/weekly"
)

type fakeGenerator struct {
	comment string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return f.comment, f.err
}

func fixedNow(t *testing.T, date string) func() time.Time {
	t.Helper()
	d, err := jst.ParseDate(date)
	if err != nil {
		t.Fatalf("parsing %q: %v", date, err)
	}
	return func() time.Time { return d.Add(10 * time.Hour) }
}

func newTestBot(t *testing.T, tasks catalog.Static, today string) (*Bot, *sqlite.DB) {
	t.Helper()
	d, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	agg := weekly.New(d, d, d, &fakeGenerator{comment: "調子いいね！"})
	b := New(tasks, d, agg, fixedNow(t, today), rand.New(rand.NewSource(1)))
	return b, d
}

func TestHandleCompletionAndDedup(t *testing.T) {
	b, d := newTestBot(t, nil, "2024-01-05")
	ctx := context.Background()

	reply := b.Handle(ctx, "達成：数学：微分 第1回")
	if !strings.Contains(reply, "達成を記録したよ") {
		t.Errorf("unexpected reply: %q", reply)
	}

	// Same identity with formatting drift: dedup, store untouched.
	reply = b.Handle(ctx, "達成：数学 ：微分　第１回")
	if !strings.Contains(reply, "すでに記録済み") {
		t.Errorf("expected duplicate reply, got %q", reply)
	}

	recs, err := d.ListCompletions(ctx)
	if err != nil {
		t.Fatalf("ListCompletions: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(recs))
	}
	if recs[0].Date != "2024-01-05" {
		t.Errorf("date = %q, want 2024-01-05", recs[0].Date)
	}
}

func TestHandleCompletionMissingSeparator(t *testing.T) {
	b, d := newTestBot(t, nil, "2024-01-05")
	ctx := context.Background()

	reply := b.Handle(ctx, "達成：数学微分")
	if !strings.Contains(reply, "形式が正しくないよ") {
		t.Errorf("expected format error, got %q", reply)
	}
	recs, _ := d.ListCompletions(ctx)
	if len(recs) != 0 {
		t.Errorf("store mutated on malformed command: %d records", len(recs))
	}
}

func TestHandleQuest(t *testing.T) {
	tasks := catalog.Static{
		{Subject: "Math", Title: "Lesson1 第1回", Deadline: "2024-01-10"},
		{Subject: "Math", Title: "Lesson2 第2回", Deadline: "2024-01-11"},
	}
	b, _ := newTestBot(t, tasks, "2024-01-05")

	reply := b.Handle(context.Background(), "クエスト")
	if !strings.Contains(reply, "今日のクエストはこちら") {
		t.Errorf("unexpected reply: %q", reply)
	}
	if !strings.Contains(reply, "Lesson1 第1回") {
		t.Errorf("expected lowest lesson, got %q", reply)
	}
	if strings.Contains(reply, "Lesson2") {
		t.Errorf("one task per subject violated: %q", reply)
	}
}

func TestHandleQuestNothingToDo(t *testing.T) {
	b, _ := newTestBot(t, catalog.Static{}, "2024-01-05")
	reply := b.Handle(context.Background(), "クエスト")
	if !strings.Contains(reply, "今日のクエストはありません") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestHandleTotal(t *testing.T) {
	tasks := catalog.Static{
		{Subject: "Math", Title: "Lesson1 第1回", Deadline: "2024-01-10"},
		{Subject: "Math", Title: "Lesson2 第2回", Deadline: "2024-01-11"},
		{Subject: "Math", Title: "Lesson0 第0回", Deadline: "2023-12-01"},
	}
	b, _ := newTestBot(t, tasks, "2024-01-05")
	ctx := context.Background()

	b.Handle(ctx, "達成：Math：Lesson1 第1回")
	reply := b.Handle(ctx, "残りタスク")
	if !strings.Contains(reply, "1 件") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestHandleMood(t *testing.T) {
	b, d := newTestBot(t, nil, "2024-01-05")
	ctx := context.Background()

	reply := b.Handle(ctx, "気分：😊 70% 今日は集中できた")
	if !strings.Contains(reply, "気分を記録したよ") {
		t.Errorf("unexpected reply: %q", reply)
	}
	moods, _ := d.ListMoods(ctx)
	if len(moods) != 1 {
		t.Fatalf("expected 1 mood, got %d", len(moods))
	}
	if moods[0].Emoji != "😊" || moods[0].Focus != "70%" || moods[0].Comment != "今日は集中できた" {
		t.Errorf("got %+v", moods[0])
	}
}

func TestHandleMoodEmptyCommentEchoesNone(t *testing.T) {
	b, _ := newTestBot(t, nil, "2024-01-05")
	reply := b.Handle(context.Background(), "気分：😩 40%")
	if !strings.Contains(reply, "コメント：なし") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestHandleMoodBadTemplate(t *testing.T) {
	b, d := newTestBot(t, nil, "2024-01-05")
	reply := b.Handle(context.Background(), "気分：すごく良い")
	if !strings.Contains(reply, "形式が正しくないよ") {
		t.Errorf("unexpected reply: %q", reply)
	}
	moods, _ := d.ListMoods(context.Background())
	if len(moods) != 0 {
		t.Errorf("store mutated on malformed mood: %d", len(moods))
	}
}

func TestHandleReview(t *testing.T) {
	b, _ := newTestBot(t, nil, "2024-01-05")
	reply := b.Handle(context.Background(), "復習：数学：微分 第1回【3】")
	if !strings.Contains(reply, "復習を記録したよ") || !strings.Contains(reply, "ステージ3") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestHandleReviewBadFormat(t *testing.T) {
	b, _ := newTestBot(t, nil, "2024-01-05")
	for _, msg := range []string{"復習：数学 微分【3】", "復習：数学：微分", "復習：数学：微分【9】"} {
		reply := b.Handle(context.Background(), msg)
		if !strings.Contains(reply, "⚠️") {
			t.Errorf("Handle(%q) = %q, expected a format error", msg, reply)
		}
	}
}

func TestHandleWeeklyReport(t *testing.T) {
	b, _ := newTestBot(t, nil, "2024-01-05")
	reply := b.Handle(context.Background(), "週報")
	if !strings.Contains(reply, "今週のUniQuestレポート") {
		t.Errorf("unexpected reply: %q", reply)
	}
	if !strings.Contains(reply, "調子いいね！") {
		t.Errorf("missing generated comment: %q", reply)
	}
}

func TestHandleWeeklyReportGenerationFailure(t *testing.T) {
	d, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	agg := weekly.New(d, d, d, &fakeGenerator{err: errors.New("quota exceeded")})
	b := New(catalog.Static{}, d, agg, fixedNow(t, "2024-01-05"), rand.New(rand.NewSource(1)))

	reply := b.Handle(context.Background(), "週報")
	if !strings.Contains(reply, "週報の作成に失敗したよ") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestHandleUnknownMessage(t *testing.T) {
	b, _ := newTestBot(t, nil, "2024-01-05")
	reply := b.Handle(context.Background(), "こんにちは")
	if !strings.Contains(reply, "達成：科目：タイトル") {
		t.Errorf("expected usage hint, got %q", reply)
	}
}

func TestHandleHalfWidthColons(t *testing.T) {
	b, d := newTestBot(t, nil, "2024-01-05")
	reply := b.Handle(context.Background(), "達成:数学:微分 第2回")
	if !strings.Contains(reply, "達成を記録したよ") {
		t.Errorf("unexpected reply: %q", reply)
	}
	recs, _ := d.ListCompletions(context.Background())
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
}

func TestHandleStripsControlCharacters(t *testing.T) {
	b, _ := newTestBot(t, nil, "2024-01-05")
	reply := b.Handle(context.Background(), "\u0000クエスト\r\n")
	if !strings.Contains(reply, "クエスト") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestReviewMessage(t *testing.T) {
	b, d := newTestBot(t, nil, "2024-01-15")
	ctx := context.Background()
	d.AppendCompletion(ctx, completionOn("2024-01-08", "英語", "Reading 第1回")) // 7 days → stage 3
	d.AppendCompletion(ctx, completionOn("2024-01-12", "物理", "力学 第1回"))      // 3 days → stage 2
	d.AppendCompletion(ctx, completionOn("2024-01-11", "化学", "有機 第1回"))      // 4 days → nothing

	msg, ok := b.ReviewMessage(ctx)
	if !ok {
		t.Fatal("expected a review message")
	}
	if !strings.Contains(msg, "英語") || !strings.Contains(msg, "ステージ3") {
		t.Errorf("missing stage-3 target: %q", msg)
	}
	if !strings.Contains(msg, "物理") || !strings.Contains(msg, "ステージ2") {
		t.Errorf("missing stage-2 target: %q", msg)
	}
	if strings.Contains(msg, "化学") {
		t.Errorf("unexpected target: %q", msg)
	}
}

func TestReviewMessageNothingDue(t *testing.T) {
	b, _ := newTestBot(t, nil, "2024-01-15")
	if msg, ok := b.ReviewMessage(context.Background()); ok {
		t.Errorf("expected no message, got %q", msg)
	}
}

func completionOn(date, subject, title string) store.CompletionRecord {
	return store.CompletionRecord{
		Date:      date,
		Subject:   subject,
		Title:     title,
		Timestamp: date + "T10:00:00",
	}
}
