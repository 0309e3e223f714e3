// Package scheduler drives the three periodic pushes: morning quests,
// evening review reminders, and the Sunday weekly report. The same
// messages are also reachable through the manual push endpoints, for
// hosts whose own cron (e.g. Render) triggers them over HTTP.
package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/kazu/uniquest/internal/bot"
)

// Pusher delivers a message to the single configured user. Delivery is
// fire-and-forget: failures are logged here, never retried.
type Pusher interface {
	Push(ctx context.Context, userID, text string) error
}

type Config struct {
	DailyQuestCron     string
	ReviewReminderCron string
	WeeklyReportCron   string
	UserID             string
}

type Scheduler struct {
	cron   *cron.Cron
	bot    *bot.Bot
	pusher Pusher
	cfg    Config
}

func New(b *bot.Bot, pusher Pusher, cfg Config) *Scheduler {
	return &Scheduler{cron: cron.New(), bot: b, pusher: pusher, cfg: cfg}
}

func (s *Scheduler) Start() {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"daily-quests", s.cfg.DailyQuestCron, s.PushDailyQuests},
		{"review-reminder", s.cfg.ReviewReminderCron, s.PushReviewReminder},
		{"weekly-report", s.cfg.WeeklyReportCron, s.PushWeeklyReport},
	}
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			log.Printf("scheduler: invalid cron %q for %s: %v", j.spec, j.name, err)
		}
	}
	s.cron.Start()
	log.Println("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// PushDailyQuests sends today's quest selection.
func (s *Scheduler) PushDailyQuests() {
	ctx := context.Background()
	s.deliver("daily-quests", s.bot.QuestMessage(ctx))
}

// PushReviewReminder sends today's spaced-review targets, staying
// silent when nothing is due.
func (s *Scheduler) PushReviewReminder() {
	ctx := context.Background()
	msg, ok := s.bot.ReviewMessage(ctx)
	if !ok {
		log.Println("scheduler[review-reminder]: nothing due today")
		return
	}
	s.deliver("review-reminder", msg)
}

// PushWeeklyReport builds and sends the weekly report.
func (s *Scheduler) PushWeeklyReport() {
	ctx := context.Background()
	msg, err := s.bot.WeeklyMessage(ctx)
	if err != nil {
		log.Printf("scheduler[weekly-report]: %v", err)
		return
	}
	s.deliver("weekly-report", msg)
}

func (s *Scheduler) deliver(label, content string) {
	if err := s.pusher.Push(context.Background(), s.cfg.UserID, content); err != nil {
		log.Printf("scheduler[%s]: push failed: %v", label, err)
		return
	}
	log.Printf("scheduler[%s]: delivered", label)
}
