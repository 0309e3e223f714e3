// Package quest computes today's recommended task set from the static
// catalog and the completion log.
package quest

import (
	"log"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"github.com/kazu/uniquest/internal/catalog"
	"github.com/kazu/uniquest/internal/normalize"
	"github.com/kazu/uniquest/internal/store"
)

// DefaultMax is the daily quest cap.
const DefaultMax = 3

// lessonMarker matches the 第N回 round marker in lesson titles. Titles
// are canonicalized before matching so full-width digits count too.
var lessonMarker = regexp.MustCompile(`第(\d+)回`)

// LessonNumber extracts the lesson-sequence number from a title. Titles
// without a marker sort last: they are picked only when no numbered
// title exists in the subject.
func LessonNumber(title string) int {
	m := lessonMarker.FindStringSubmatch(normalize.Canon(title))
	if m == nil {
		return math.MaxInt
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return math.MaxInt
	}
	return n
}

// CompletedSet builds the normalized done-set from the completion log.
func CompletedSet(completions []store.CompletionRecord) map[string]bool {
	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		done[normalize.Identity(c.Subject, c.Title)] = true
	}
	return done
}

// eligible filters the catalog down to tasks that are not yet completed
// and whose deadline is today or later. Entries with unparsable deadlines
// are skipped, never fatal.
func eligible(tasks []catalog.Task, done map[string]bool, today time.Time) []catalog.Task {
	var out []catalog.Task
	for _, t := range tasks {
		if t.Subject == "" || t.Title == "" {
			log.Printf("quest: skipping catalog entry with missing fields: %+v", t)
			continue
		}
		deadline, err := catalog.ParseDeadline(t.Deadline)
		if err != nil {
			log.Printf("quest: skipping %s | %s: %v", t.Subject, t.Title, err)
			continue
		}
		if deadline.Before(today) {
			continue
		}
		if done[normalize.Identity(t.Subject, t.Title)] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SelectToday returns up to max quests: one task per subject (the lowest
// lesson number in the subject), in shuffled order. Shuffle order comes
// from rng so tests can pin it; selection deliberately has no preferred
// subject order.
func SelectToday(tasks []catalog.Task, completions []store.CompletionRecord, today time.Time, max int, rng *rand.Rand) []catalog.Task {
	if max <= 0 {
		max = DefaultMax
	}
	done := CompletedSet(completions)

	bySubject := make(map[string]catalog.Task)
	var order []string
	for _, t := range eligible(tasks, done, today) {
		key := normalize.Canon(t.Subject)
		best, ok := bySubject[key]
		if !ok {
			bySubject[key] = t
			order = append(order, key)
			continue
		}
		if LessonNumber(t.Title) < LessonNumber(best.Title) {
			bySubject[key] = t
		}
	}

	picks := make([]catalog.Task, 0, len(order))
	for _, key := range order {
		picks = append(picks, bySubject[key])
	}
	rng.Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})
	if len(picks) > max {
		picks = picks[:max]
	}
	return picks
}

// CountRemaining returns how many catalog tasks are still open: the same
// filter as SelectToday with no grouping, shuffle, or cap.
func CountRemaining(tasks []catalog.Task, completions []store.CompletionRecord, today time.Time) int {
	return len(eligible(tasks, CompletedSet(completions), today))
}
