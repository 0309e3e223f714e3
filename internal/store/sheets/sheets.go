// Package sheets is the spreadsheet store backend, one worksheet per
// record kind inside a single spreadsheet the user owns:
//
//	達成記録      date, subject, title, timestamp
//	感情ログ      date, emoji, focus, comment
//	復習記録      date, subject, title, stage, timestamp
//	週次レポート  range, ideal, actual, rate, avg focus, emoji, comment
//
// Rows are append-only. Reads tolerate hand-edited junk: a row missing a
// required cell is logged and skipped, never fatal.
package sheets

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/kazu/uniquest/internal/store"
)

const (
	completionSheet = "達成記録"
	moodSheet       = "感情ログ"
	reviewSheet     = "復習記録"
	reportSheet     = "週次レポート"
)

type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

// New builds a client from service-account credentials JSON (the raw
// value of GOOGLE_CREDENTIALS_JSON, same as the gspread setup).
func New(ctx context.Context, credsJSON []byte, spreadsheetID string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []interface{}) error {
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:Z",
		&sheets.ValueRange{Values: [][]interface{}{row}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: appending to %s: %v", store.ErrStoreUnavailable, sheet, err)
	}
	return nil
}

// readRows returns all data rows of a worksheet, skipping the header.
func (c *Client) readRows(ctx context.Context, sheet string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!A:Z").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", store.ErrStoreUnavailable, sheet, err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}
	return resp.Values[1:], nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}

func (c *Client) AppendCompletion(ctx context.Context, rec store.CompletionRecord) error {
	return c.appendRow(ctx, completionSheet,
		[]interface{}{rec.Date, rec.Subject, rec.Title, rec.Timestamp})
}

func (c *Client) ListCompletions(ctx context.Context) ([]store.CompletionRecord, error) {
	rows, err := c.readRows(ctx, completionSheet)
	if err != nil {
		return nil, err
	}
	var recs []store.CompletionRecord
	for i, row := range rows {
		rec := store.CompletionRecord{
			Date:      cell(row, 0),
			Subject:   cell(row, 1),
			Title:     cell(row, 2),
			Timestamp: cell(row, 3),
		}
		if rec.Date == "" || rec.Subject == "" || rec.Title == "" {
			log.Printf("sheets: %s row %d missing required cells, skipping", completionSheet, i+2)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (c *Client) AppendMood(ctx context.Context, rec store.MoodRecord) error {
	return c.appendRow(ctx, moodSheet,
		[]interface{}{rec.Date, rec.Emoji, rec.Focus, rec.Comment})
}

func (c *Client) ListMoods(ctx context.Context) ([]store.MoodRecord, error) {
	rows, err := c.readRows(ctx, moodSheet)
	if err != nil {
		return nil, err
	}
	var recs []store.MoodRecord
	for i, row := range rows {
		rec := store.MoodRecord{
			Date:    cell(row, 0),
			Emoji:   cell(row, 1),
			Focus:   cell(row, 2),
			Comment: cell(row, 3),
		}
		if rec.Date == "" || rec.Emoji == "" {
			log.Printf("sheets: %s row %d missing required cells, skipping", moodSheet, i+2)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (c *Client) AppendReview(ctx context.Context, rec store.ReviewRecord) error {
	return c.appendRow(ctx, reviewSheet,
		[]interface{}{rec.Date, rec.Subject, rec.Title, strconv.Itoa(rec.Stage), rec.Timestamp})
}

func (c *Client) AppendReport(ctx context.Context, row store.ReportRow) error {
	return c.appendRow(ctx, reportSheet, []interface{}{
		row.Range,
		strconv.Itoa(row.IdealCount),
		strconv.Itoa(row.ActualCount),
		row.Rate,
		row.AvgFocus,
		row.TopEmoji,
		row.Comment,
	})
}
