// Package jst pins all date arithmetic to Asia/Tokyo. The catalog
// deadlines, the sheet rows, and the review offsets all assume JST days;
// comparing them against server-local time shifts results around midnight.
package jst

import "time"

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05"
)

var Location = mustLoad()

func mustLoad() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// Asia/Tokyo is UTC+9 with no DST; a fixed zone is equivalent.
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// Now returns the current instant in JST.
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns the current JST date truncated to midnight.
func Today() time.Time {
	return Midnight(Now())
}

// Midnight truncates t to the start of its JST day.
func Midnight(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// FormatDate renders t as YYYY-MM-DD in JST.
func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// FormatTimestamp renders t as an ISO-like local timestamp in JST.
func FormatTimestamp(t time.Time) string {
	return t.In(Location).Format(TimestampLayout)
}

// ParseDate parses a YYYY-MM-DD string as a JST midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Location)
}

// DaysBetween returns the number of whole days from a to b, midnight to
// midnight in JST. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}
