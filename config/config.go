package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	LINEChannelToken  string
	LINEChannelSecret string
	LINEUserID        string // push target (single-user bot)
	DiscordToken      string

	StoreBackend    string // sheets, sqlite
	GoogleCredsJSON string
	SpreadsheetID   string
	DatabasePath    string

	LLMProvider  string // openai, anthropic
	OpenAIKey    string
	AnthropicKey string
	LLMModel     string

	TasksPath string
	Port      string

	DailyQuestCron     string
	ReviewReminderCron string
	WeeklyReportCron   string
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	return &Config{
		LINEChannelToken:  os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		LINEChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
		LINEUserID:        os.Getenv("LINE_USER_ID"),
		DiscordToken:      os.Getenv("DISCORD_BOT_TOKEN"),

		StoreBackend:    envOr("STORE_BACKEND", "sheets"),
		GoogleCredsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		DatabasePath:    envOr("DATABASE_PATH", "./uniquest.db"),

		LLMProvider:  envOr("LLM_PROVIDER", "openai"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		LLMModel:     os.Getenv("LLM_MODEL"),

		TasksPath: envOr("TASKS_PATH", "./tasks.json"),
		Port:      envOr("PORT", "8080"),

		// JST mornings: quests at 7, review at 20, weekly report Sunday night
		DailyQuestCron:     envOr("DAILY_QUEST_CRON", "0 7 * * *"),
		ReviewReminderCron: envOr("REVIEW_REMINDER_CRON", "0 20 * * *"),
		WeeklyReportCron:   envOr("WEEKLY_REPORT_CRON", "0 21 * * 0"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
