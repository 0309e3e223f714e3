// Package sqlite is the local store backend. It mirrors the sheet
// layouts row for row so the two backends stay interchangeable.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kazu/uniquest/internal/store"
)

//go:embed schema.sql
var schema string

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) AppendCompletion(ctx context.Context, rec store.CompletionRecord) error {
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO completions (date, subject, title, recorded_at) VALUES (?, ?, ?, ?)",
		rec.Date, rec.Subject, rec.Title, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("%w: appending completion: %v", store.ErrStoreUnavailable, err)
	}
	return nil
}

func (d *DB) ListCompletions(ctx context.Context) ([]store.CompletionRecord, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT date, subject, title, recorded_at FROM completions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: querying completions: %v", store.ErrStoreUnavailable, err)
	}
	defer rows.Close()
	var recs []store.CompletionRecord
	for rows.Next() {
		var r store.CompletionRecord
		if err := rows.Scan(&r.Date, &r.Subject, &r.Title, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (d *DB) AppendMood(ctx context.Context, rec store.MoodRecord) error {
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO moods (date, emoji, focus, comment) VALUES (?, ?, ?, ?)",
		rec.Date, rec.Emoji, rec.Focus, rec.Comment,
	)
	if err != nil {
		return fmt.Errorf("%w: appending mood: %v", store.ErrStoreUnavailable, err)
	}
	return nil
}

func (d *DB) ListMoods(ctx context.Context) ([]store.MoodRecord, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT date, emoji, focus, comment FROM moods ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: querying moods: %v", store.ErrStoreUnavailable, err)
	}
	defer rows.Close()
	var recs []store.MoodRecord
	for rows.Next() {
		var r store.MoodRecord
		if err := rows.Scan(&r.Date, &r.Emoji, &r.Focus, &r.Comment); err != nil {
			return nil, fmt.Errorf("scanning mood: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (d *DB) AppendReview(ctx context.Context, rec store.ReviewRecord) error {
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO reviews (date, subject, title, stage, recorded_at) VALUES (?, ?, ?, ?, ?)",
		rec.Date, rec.Subject, rec.Title, rec.Stage, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("%w: appending review: %v", store.ErrStoreUnavailable, err)
	}
	return nil
}

func (d *DB) AppendReport(ctx context.Context, row store.ReportRow) error {
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO weekly_reports (week_range, ideal_count, actual_count, rate, avg_focus, top_emoji, comment) VALUES (?, ?, ?, ?, ?, ?, ?)",
		row.Range, row.IdealCount, row.ActualCount, row.Rate, row.AvgFocus, row.TopEmoji, row.Comment,
	)
	if err != nil {
		return fmt.Errorf("%w: appending weekly report: %v", store.ErrStoreUnavailable, err)
	}
	return nil
}
