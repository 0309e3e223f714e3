package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kazu/uniquest/config"
	"github.com/kazu/uniquest/internal/bot"
	"github.com/kazu/uniquest/internal/catalog"
	"github.com/kazu/uniquest/internal/llm"
	"github.com/kazu/uniquest/internal/messenger"
	"github.com/kazu/uniquest/internal/scheduler"
	"github.com/kazu/uniquest/internal/store"
	"github.com/kazu/uniquest/internal/store/sheets"
	"github.com/kazu/uniquest/internal/store/sqlite"
	"github.com/kazu/uniquest/internal/weekly"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	st, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer cleanup()

	apiKey := cfg.OpenAIKey
	if cfg.LLMProvider == "anthropic" {
		apiKey = cfg.AnthropicKey
	}
	client, err := llm.NewClient(llm.ProviderConfig{
		Provider: cfg.LLMProvider,
		APIKey:   apiKey,
		Model:    cfg.LLMModel,
	})
	if err != nil {
		log.Fatalf("failed to create LLM client: %v", err)
	}

	agg := weekly.New(st, st, st, client)
	b := bot.New(&catalog.FileLoader{Path: cfg.TasksPath}, st, agg, nil, nil)

	var pusher scheduler.Pusher
	mux := http.NewServeMux()

	if cfg.LINEChannelToken != "" {
		line, err := messenger.NewLINE(cfg.LINEChannelToken, cfg.LINEChannelSecret, b)
		if err != nil {
			log.Fatalf("failed to create LINE client: %v", err)
		}
		mux.HandleFunc("/callback", line.Callback)
		pusher = line
	}

	if cfg.DiscordToken != "" {
		dc, err := messenger.NewDiscord(cfg.DiscordToken, b)
		if err != nil {
			log.Fatalf("failed to start Discord bot: %v", err)
		}
		defer dc.Close()
		if pusher == nil {
			pusher = dc
		}
	}

	if pusher == nil {
		log.Fatal("no messenger configured: set LINE_CHANNEL_ACCESS_TOKEN or DISCORD_BOT_TOKEN")
	}

	sched := scheduler.New(b, pusher, scheduler.Config{
		DailyQuestCron:     cfg.DailyQuestCron,
		ReviewReminderCron: cfg.ReviewReminderCron,
		WeeklyReportCron:   cfg.WeeklyReportCron,
		UserID:             cfg.LINEUserID,
	})
	sched.Start()
	defer sched.Stop()

	// Manual triggers for hosts that run their own cron over HTTP.
	mux.HandleFunc("/push/daily", pushHandler(sched.PushDailyQuests))
	mux.HandleFunc("/push/review", pushHandler(sched.PushReviewReminder))
	mux.HandleFunc("/push/weekly", pushHandler(sched.PushWeeklyReport))

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	log.Println("bot is running. Press Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down.")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "sqlite":
		d, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return d, func() { d.Close() }, nil
	default:
		c, err := sheets.New(ctx, []byte(cfg.GoogleCredsJSON), cfg.SpreadsheetID)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	}
}

func pushHandler(run func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
