// Package weekly builds the Monday-to-Sunday study report: the numeric
// summary from the logs plus an LLM-written closing comment.
package weekly

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kazu/uniquest/internal/jst"
	"github.com/kazu/uniquest/internal/llm"
	"github.com/kazu/uniquest/internal/store"
)

// dailyTarget is the ideal number of completions per active day.
const dailyTarget = 3

const neutralEmoji = "😐"

const commentSystemPrompt = "あなたは学習支援アシスタントです。"

// Summary holds one week's figures.
type Summary struct {
	Range       string // "2024-01-01 ~ 2024-01-07"
	IdealCount  int
	ActualCount int
	Rate        string // "67%" — "0%" when IdealCount is 0
	AvgFocus    string // "72%"
	TopEmoji    string
}

type Aggregator struct {
	completions store.CompletionLog
	moods       store.MoodLog
	reports     store.ReportLog
	generator   llm.Client
}

func New(completions store.CompletionLog, moods store.MoodLog, reports store.ReportLog, generator llm.Client) *Aggregator {
	return &Aggregator{
		completions: completions,
		moods:       moods,
		reports:     reports,
		generator:   generator,
	}
}

// WeekRange returns the Monday and Sunday of the week containing today.
func WeekRange(today time.Time) (start, end time.Time) {
	today = jst.Midnight(today)
	weekday := int(today.Weekday()+6) % 7 // Monday = 0
	start = today.AddDate(0, 0, -weekday)
	end = start.AddDate(0, 0, 6)
	return start, end
}

func inRange(dateStr string, start, end time.Time) bool {
	d, err := jst.ParseDate(dateStr)
	if err != nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

// Fetch computes the numeric summary for the week containing today.
// Store failures propagate; individual bad rows degrade to defaults.
func (a *Aggregator) Fetch(ctx context.Context, today time.Time) (Summary, error) {
	start, end := WeekRange(today)

	completions, err := a.completions.ListCompletions(ctx)
	if err != nil {
		return Summary{}, err
	}
	actualCount := 0
	activeDays := make(map[string]bool)
	for _, rec := range completions {
		if !inRange(rec.Date, start, end) {
			continue
		}
		actualCount++
		activeDays[rec.Date] = true
	}
	idealCount := len(activeDays) * dailyTarget

	rate := "0%"
	if idealCount > 0 {
		rate = fmt.Sprintf("%d%%", int(math.Round(float64(actualCount)/float64(idealCount)*100)))
	}

	moods, err := a.moods.ListMoods(ctx)
	if err != nil {
		return Summary{}, err
	}
	var focusSum, focusN int
	emojiCount := make(map[string]int)
	var emojiOrder []string
	for _, rec := range moods {
		if !inRange(rec.Date, start, end) {
			continue
		}
		if focus, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(rec.Focus, "%"))); err == nil {
			focusSum += focus
			focusN++
		} else {
			log.Printf("weekly: unparsable focus %q on %s, skipping", rec.Focus, rec.Date)
		}
		if emojiCount[rec.Emoji] == 0 {
			emojiOrder = append(emojiOrder, rec.Emoji)
		}
		emojiCount[rec.Emoji]++
	}

	avgFocus := 0
	if focusN > 0 {
		avgFocus = int(math.Round(float64(focusSum) / float64(focusN)))
	}

	topEmoji := neutralEmoji
	best := 0
	for _, e := range emojiOrder {
		if emojiCount[e] > best {
			best = emojiCount[e]
			topEmoji = e
		}
	}

	return Summary{
		Range:       fmt.Sprintf("%s ~ %s", jst.FormatDate(start), jst.FormatDate(end)),
		IdealCount:  idealCount,
		ActualCount: actualCount,
		Rate:        rate,
		AvgFocus:    fmt.Sprintf("%d%%", avgFocus),
		TopEmoji:    topEmoji,
	}, nil
}

func commentPrompt(s Summary) string {
	return fmt.Sprintf(
		"以下は、ある学生の1週間の学習活動のサマリーです：\n"+
			"- 週の期間：%s\n"+
			"- 理想達成数：%d件\n"+
			"- 実達成数：%d件\n"+
			"- 達成率：%s\n"+
			"- 平均集中度：%s\n"+
			"- 感情傾向：%s\n\n"+
			"このデータをもとに、学生に向けてポジティブで具体的な振り返りコメントを100文字以内で書いてください。",
		s.Range, s.IdealCount, s.ActualCount, s.Rate, s.AvgFocus, s.TopEmoji)
}

// RenderMessage formats the outgoing weekly report text.
func RenderMessage(s Summary, comment string) string {
	return fmt.Sprintf(
		"📊 【今週のUniQuestレポート】\n\n"+
			"🎯 クエスト達成まとめ（%s）\n"+
			"合計達成数：%d件（理想値：%d件）\n"+
			"達成率：%s\n\n"+
			"🧠 今週の気分と集中度\n"+
			"平均集中度：%s\n"+
			"感情傾向：%s\n\n"+
			"🤖 総括コメント：\n%s\n",
		s.Range, s.ActualCount, s.IdealCount, s.Rate, s.AvgFocus, s.TopEmoji, comment)
}

// Report computes the summary, persists it, and returns the rendered
// report. The numeric row is stored even when comment generation fails;
// the generation failure is then returned so the caller reports the
// delivery error instead of sending a half report.
func (a *Aggregator) Report(ctx context.Context, today time.Time) (string, error) {
	summary, err := a.Fetch(ctx, today)
	if err != nil {
		return "", fmt.Errorf("fetching weekly summary: %w", err)
	}

	comment, genErr := a.generator.Generate(ctx, commentSystemPrompt, commentPrompt(summary))
	if genErr != nil {
		comment = ""
	}

	row := store.ReportRow{
		Range:       summary.Range,
		IdealCount:  summary.IdealCount,
		ActualCount: summary.ActualCount,
		Rate:        summary.Rate,
		AvgFocus:    summary.AvgFocus,
		TopEmoji:    summary.TopEmoji,
		Comment:     comment,
	}
	if err := a.reports.AppendReport(ctx, row); err != nil {
		log.Printf("weekly: storing report row: %v", err)
	}

	if genErr != nil {
		return "", fmt.Errorf("generating weekly comment: %w", genErr)
	}
	return RenderMessage(summary, comment), nil
}
