// Package review computes which past completions are due for spaced
// review today.
package review

import (
	"log"
	"time"

	"github.com/kazu/uniquest/internal/jst"
	"github.com/kazu/uniquest/internal/store"
)

// Offsets is the forgetting-curve schedule: a completion resurfaces
// these many days after its original date. Index+1 is the stage.
var Offsets = []int{1, 3, 7, 14, 30}

// Target is a completion due for review today.
type Target struct {
	Date    string
	Subject string
	Title   string
	Stage   int
}

// Targets scans the completion log and emits a target for every record
// whose age in days exactly matches one of the offsets. Records with
// unparsable dates are skipped with a warning. The same completion is
// flagged once per matching offset day; no dedup against the review log
// happens here.
func Targets(completions []store.CompletionRecord, today time.Time) []Target {
	var targets []Target
	for _, rec := range completions {
		done, err := jst.ParseDate(rec.Date)
		if err != nil {
			log.Printf("review: unparsable date %q for %s | %s, skipping", rec.Date, rec.Subject, rec.Title)
			continue
		}
		daysSince := jst.DaysBetween(done, today)
		for i, offset := range Offsets {
			if daysSince == offset {
				targets = append(targets, Target{
					Date:    rec.Date,
					Subject: rec.Subject,
					Title:   rec.Title,
					Stage:   i + 1,
				})
				break
			}
		}
	}
	return targets
}
