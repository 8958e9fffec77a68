package mediator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pario-ai/stash/pkg/cache"
	"github.com/pario-ai/stash/pkg/fetch"
	"github.com/pario-ai/stash/pkg/models"
	"github.com/pario-ai/stash/pkg/storage"
	"github.com/pario-ai/stash/pkg/stream"
)

// Prompt requests a model's answer to Text.
type Prompt struct {
	Model string
	Text  string
}

// historyPolicy answers from a HistoryCollection and fetches with an Inferrer.
type historyPolicy struct {
	inferrer fetch.Inferrer
}

// Lookup matches on model and prompt substring. The oldest match wins.
func (p historyPolicy) Lookup(c *models.HistoryCollection, q Prompt) (string, bool) {
	return c.FindResponse(q.Model, q.Text)
}

// Resolve continues the most recent conversation with q.Model.
func (p historyPolicy) Resolve(ctx context.Context, c *models.HistoryCollection, q Prompt) (Answer, bool) {
	prior := c.FindLatestContext(q.Model)
	raw, ok := p.inferrer.Infer(ctx, q.Model, q.Text, prior)
	if !ok {
		return Answer{}, false
	}
	text, next := stream.Decode(raw)
	return Answer{Text: text, Context: next}, true
}

func (p historyPolicy) Record(c *models.HistoryCollection, q Prompt, a Answer) {
	c.Append(q.Model, q.Text, a.Text, a.Context)
}

func (p historyPolicy) Clear(c *models.HistoryCollection) { c.Clear() }

func (p historyPolicy) Len(c *models.HistoryCollection) int { return c.Len() }

func (p historyPolicy) Describe(q Prompt, e *zerolog.Event) *zerolog.Event {
	return e.Str("model", q.Model).Int("prompt_len", len(q.Text))
}

// History is a Mediator over a bounded conversation log.
type History struct {
	*Mediator[*models.HistoryCollection, Prompt]
}

// NewHistory creates a History mediator for the document at path.
func NewHistory(provider storage.Provider, path string, inferrer fetch.Inferrer, opts cache.Options) *History {
	store := cache.New(provider, path, models.NewHistoryCollection, opts)
	return &History{
		Mediator: New[*models.HistoryCollection, Prompt](store, historyPolicy{inferrer: inferrer}, opts.Logger),
	}
}

// Ask returns a recorded response for prompt, or asks model and records
// the answer.
func (h *History) Ask(ctx context.Context, model, prompt string) (string, bool) {
	return h.GetOrFetch(ctx, Prompt{Model: model, Text: prompt})
}
