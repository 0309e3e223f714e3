// Package store defines the record types and append-only log interfaces
// backing the bot. Two backends exist: Google Sheets (production, the
// spreadsheet the user already owns) and SQLite (local/offline).
package store

import (
	"context"
	"errors"
)

// ErrStoreUnavailable wraps any transport or auth failure talking to a
// backend. Row-level parse problems never surface as this error; bad rows
// are skipped at read time.
var ErrStoreUnavailable = errors.New("store unavailable")

// CompletionRecord is one declared-done task. Date and Timestamp are JST
// strings in the sheet layouts (YYYY-MM-DD / YYYY-MM-DDTHH:MM:SS).
type CompletionRecord struct {
	Date      string
	Subject   string
	Title     string
	Timestamp string
}

// MoodRecord is one mood/focus log entry. Focus keeps the raw "70%" form
// the user typed; the weekly aggregator parses it leniently.
type MoodRecord struct {
	Date    string
	Emoji   string
	Focus   string
	Comment string
}

// ReviewRecord is an acknowledged spaced review at a given stage (1..5).
type ReviewRecord struct {
	Date      string
	Subject   string
	Title     string
	Stage     int
	Timestamp string
}

// ReportRow is a persisted weekly summary.
type ReportRow struct {
	Range       string
	IdealCount  int
	ActualCount int
	Rate        string
	AvgFocus    string
	TopEmoji    string
	Comment     string
}

// CompletionLog is the authoritative done-set. Append never checks for
// duplicates; the interpreter dedups against List before appending
// (best-effort, races between near-simultaneous declarations may both
// land).
type CompletionLog interface {
	AppendCompletion(ctx context.Context, rec CompletionRecord) error
	ListCompletions(ctx context.Context) ([]CompletionRecord, error)
}

type MoodLog interface {
	AppendMood(ctx context.Context, rec MoodRecord) error
	ListMoods(ctx context.Context) ([]MoodRecord, error)
}

type ReviewLog interface {
	AppendReview(ctx context.Context, rec ReviewRecord) error
}

type ReportLog interface {
	AppendReport(ctx context.Context, row ReportRow) error
}

// Store bundles the four logs; both backends implement all of them.
type Store interface {
	CompletionLog
	MoodLog
	ReviewLog
	ReportLog
}
