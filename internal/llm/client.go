// Package llm wraps the text-generation collaborator behind a one-call
// interface. The bot only ever needs single-shot generation (the weekly
// comment); there is no conversation state and no tool use.
package llm

import (
	"context"
	"errors"
)

// ErrGenerationUnavailable wraps any provider failure.
var ErrGenerationUnavailable = errors.New("generation unavailable")

type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
