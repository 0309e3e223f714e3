// Package bot is the command interpreter: it turns one inbound chat
// message into one reply, reading and appending the external logs as
// needed. It is transport-agnostic; the LINE webhook and the Discord
// front end both route here.
package bot

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/kazu/uniquest/internal/catalog"
	"github.com/kazu/uniquest/internal/jst"
	"github.com/kazu/uniquest/internal/store"
	"github.com/kazu/uniquest/internal/weekly"
)

type Bot struct {
	catalog catalog.Loader
	store   store.Store
	weekly  *weekly.Aggregator

	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// New wires the interpreter. now and rng are injectable for tests; pass
// nil for the JST clock and a time-seeded source.
func New(loader catalog.Loader, st store.Store, agg *weekly.Aggregator, now func() time.Time, rng *rand.Rand) *Bot {
	if now == nil {
		now = jst.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Bot{catalog: loader, store: st, weekly: agg, now: now, rng: rng}
}

func (b *Bot) today() time.Time {
	return jst.Midnight(b.now())
}

// Handle interprets one message and always returns a reply. Internal
// failures come back as user-facing text; an inbound message is never
// left unanswered.
func (b *Bot) Handle(ctx context.Context, text string) string {
	text = clean(text)
	switch {
	case hasMarker(text, completionMarker):
		return b.handleCompletion(ctx, payload(text, completionMarker))
	case text == questCommand:
		return b.QuestMessage(ctx)
	case text == reportCommand:
		return b.handleWeeklyReport(ctx)
	case text == totalCommand:
		return b.handleTotal(ctx)
	case hasMarker(text, moodMarker):
		return b.handleMood(ctx, payload(text, moodMarker))
	case hasMarker(text, reviewMarker):
		return b.handleReview(ctx, payload(text, reviewMarker))
	default:
		return usageHint
	}
}
