package bot

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kazu/uniquest/internal/jst"
	"github.com/kazu/uniquest/internal/normalize"
	"github.com/kazu/uniquest/internal/quest"
	"github.com/kazu/uniquest/internal/review"
	"github.com/kazu/uniquest/internal/store"
)

const (
	completionMarker = "達成"
	moodMarker       = "気分"
	reviewMarker     = "復習"

	questCommand  = "クエスト"
	reportCommand = "週報"
	totalCommand  = "残りタスク"
)

const usageHint = "📖 使い方\n" +
	"「達成：科目：タイトル」 … 達成を記録\n" +
	"「クエスト」 … 今日のクエストを表示\n" +
	"「気分：😊 70% ひとこと」 … 気分を記録\n" +
	"「復習：科目：タイトル【2】」 … 復習を記録\n" +
	"「週報」 … 今週のレポート\n" +
	"「残りタスク」 … 未完了タスク数"

// moodPattern is the fixed mood template: emoji token, focus
// percentage, then an optional free-text comment.
var moodPattern = regexp.MustCompile(`^(\S+)\s+(\d{1,3})[%％]\s*(.*)$`)

// reviewPattern is subject：title【stage】.
var reviewPattern = regexp.MustCompile(`^(.+?)[：:](.+?)【(\d+)】$`)

// clean strips control characters and trims the message before matching.
func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// hasMarker reports whether text starts with marker followed by a
// full-width or half-width colon.
func hasMarker(text, marker string) bool {
	return strings.HasPrefix(text, marker+"：") || strings.HasPrefix(text, marker+":")
}

// payload strips the marker and its colon.
func payload(text, marker string) string {
	text = strings.TrimPrefix(text, marker)
	text = strings.TrimPrefix(text, "：")
	text = strings.TrimPrefix(text, ":")
	return strings.TrimSpace(text)
}

// splitColon splits on the first full-width or half-width colon.
func splitColon(s string) (string, string, bool) {
	if i := strings.IndexAny(s, "：:"); i >= 0 {
		sep := 1
		if strings.HasPrefix(s[i:], "：") {
			sep = len("：")
		}
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+sep:]), true
	}
	return "", "", false
}

func (b *Bot) handleCompletion(ctx context.Context, payload string) string {
	subject, title, ok := splitColon(payload)
	if !ok || subject == "" || title == "" {
		return "⚠️ 形式が正しくないよ。「達成：科目：タイトル」の形で送ってね"
	}

	existing, err := b.store.ListCompletions(ctx)
	if err != nil {
		log.Printf("bot: listing completions: %v", err)
		return "⚠️ 記録の確認に失敗したよ。少し待ってからもう一度試してね"
	}
	id := normalize.Identity(subject, title)
	for _, rec := range existing {
		if normalize.Identity(rec.Subject, rec.Title) == id {
			return fmt.Sprintf("⚠️ 「%s｜%s」はすでに記録済みだよ！", subject, title)
		}
	}

	now := b.now()
	rec := store.CompletionRecord{
		Date:      jst.FormatDate(now),
		Subject:   subject,
		Title:     title,
		Timestamp: jst.FormatTimestamp(now),
	}
	if err := b.store.AppendCompletion(ctx, rec); err != nil {
		log.Printf("bot: appending completion: %v", err)
		return "⚠️ 記録に失敗したよ。少し待ってからもう一度試してね"
	}
	return fmt.Sprintf("✅ 達成を記録したよ！\n📘 %s｜%s", subject, title)
}

// QuestMessage runs the quest selector and renders the result. It never
// fails into the caller: catalog or store trouble becomes reply text.
// The daily push reuses this.
func (b *Bot) QuestMessage(ctx context.Context) string {
	tasks, err := b.catalog.Load()
	if err != nil {
		log.Printf("bot: loading catalog: %v", err)
		return "⚠️ タスク一覧の読み込みに失敗したよ"
	}
	completions, err := b.store.ListCompletions(ctx)
	if err != nil {
		log.Printf("bot: listing completions: %v", err)
		return "⚠️ 達成記録の読み込みに失敗したよ"
	}

	b.mu.Lock()
	picks := quest.SelectToday(tasks, completions, b.today(), quest.DefaultMax, b.rng)
	b.mu.Unlock()

	if len(picks) == 0 {
		return "🎯 今日のクエストはありません！ゆっくり休もう✨️"
	}
	var sb strings.Builder
	sb.WriteString("📅 今日のクエストはこちら！\n")
	for _, q := range picks {
		fmt.Fprintf(&sb, "\n📘 %s | %s (締切：%s)", q.Subject, q.Title, q.Deadline)
	}
	return sb.String()
}

func (b *Bot) handleWeeklyReport(ctx context.Context) string {
	msg, err := b.weekly.Report(ctx, b.today())
	if err != nil {
		log.Printf("bot: weekly report: %v", err)
		return fmt.Sprintf("⚠️ 週報の作成に失敗したよ：%v", err)
	}
	return msg
}

func (b *Bot) handleTotal(ctx context.Context) string {
	tasks, err := b.catalog.Load()
	if err != nil {
		log.Printf("bot: loading catalog: %v", err)
		return "⚠️ タスク一覧の読み込みに失敗したよ"
	}
	completions, err := b.store.ListCompletions(ctx)
	if err != nil {
		log.Printf("bot: listing completions: %v", err)
		return "⚠️ 達成記録の読み込みに失敗したよ"
	}
	n := quest.CountRemaining(tasks, completions, b.today())
	return fmt.Sprintf("🗒 未完了タスクは %d 件だよ！", n)
}

func (b *Bot) handleMood(ctx context.Context, payload string) string {
	m := moodPattern.FindStringSubmatch(payload)
	if m == nil {
		return "⚠️ 形式が正しくないよ。「気分：😊 70% ひとこと」の形で送ってね"
	}
	emoji, focus, comment := m[1], m[2]+"%", strings.TrimSpace(m[3])

	rec := store.MoodRecord{
		Date:    jst.FormatDate(b.now()),
		Emoji:   emoji,
		Focus:   focus,
		Comment: comment,
	}
	if err := b.store.AppendMood(ctx, rec); err != nil {
		log.Printf("bot: appending mood: %v", err)
		return "⚠️ 記録に失敗したよ。少し待ってからもう一度試してね"
	}
	if comment == "" {
		comment = "なし"
	}
	return fmt.Sprintf("🧠 気分を記録したよ！\n感情：%s\n集中度：%s\nコメント：%s", emoji, focus, comment)
}

func (b *Bot) handleReview(ctx context.Context, payload string) string {
	m := reviewPattern.FindStringSubmatch(payload)
	if m == nil {
		return "⚠️ 形式が正しくないよ。「復習：科目：タイトル【2】」の形で送ってね"
	}
	subject, title := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	stage, err := strconv.Atoi(m[3])
	if err != nil || stage < 1 || stage > len(review.Offsets) {
		return fmt.Sprintf("⚠️ ステージは1〜%dで指定してね", len(review.Offsets))
	}

	now := b.now()
	rec := store.ReviewRecord{
		Date:      jst.FormatDate(now),
		Subject:   subject,
		Title:     title,
		Stage:     stage,
		Timestamp: jst.FormatTimestamp(now),
	}
	if err := b.store.AppendReview(ctx, rec); err != nil {
		log.Printf("bot: appending review: %v", err)
		return "⚠️ 記録に失敗したよ。少し待ってからもう一度試してね"
	}
	return fmt.Sprintf("📚 復習を記録したよ！（ステージ%d）\n📘 %s｜%s", stage, subject, title)
}

// ReviewMessage renders today's spaced-review reminder, or ok=false
// when nothing is due. The evening push uses this.
func (b *Bot) ReviewMessage(ctx context.Context) (string, bool) {
	completions, err := b.store.ListCompletions(ctx)
	if err != nil {
		log.Printf("bot: listing completions for review: %v", err)
		return "", false
	}
	targets := review.Targets(completions, b.today())
	if len(targets) == 0 {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString("🔁 今日の復習クエスト！\n")
	for _, tg := range targets {
		fmt.Fprintf(&sb, "\n📘 %s｜%s（%s達成・ステージ%d）", tg.Subject, tg.Title, tg.Date, tg.Stage)
	}
	sb.WriteString("\n\n終わったら「復習：科目：タイトル【ステージ】」で教えてね！")
	return sb.String(), true
}

// WeeklyMessage builds the weekly report for the scheduled push.
func (b *Bot) WeeklyMessage(ctx context.Context) (string, error) {
	return b.weekly.Report(ctx, b.today())
}
