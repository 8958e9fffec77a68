// Package mediator answers requests from a persisted cache and falls back to
// an external provider on a miss.
package mediator

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pario-ai/stash/pkg/cache"
	"github.com/pario-ai/stash/pkg/models"
)

// Answer is what a provider produced for a request.
type Answer struct {
	Text string
	// Context is conversational state to record alongside Text, if any.
	Context []uint64
}

// Policy decides freshness for collection C and requests Q, and knows how to
// obtain and record an answer on a miss.
type Policy[C, Q any] interface {
	// Lookup returns a usable cached answer for q.
	Lookup(c C, q Q) (string, bool)
	// Resolve asks the external provider for q. It returns false when the
	// provider has no answer.
	Resolve(ctx context.Context, c C, q Q) (Answer, bool)
	// Record writes a resolved answer into c.
	Record(c C, q Q, a Answer)
	// Clear removes every entry from c.
	Clear(c C)
	// Len reports the number of entries in c.
	Len(c C) int
	// Describe returns fields identifying q in log lines.
	Describe(q Q, e *zerolog.Event) *zerolog.Event
}

// Mediator runs the get-or-fetch cycle for one cache document.
type Mediator[C, Q any] struct {
	store  *cache.Store[C]
	policy Policy[C, Q]
	logger zerolog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Mediator over store using policy.
func New[C, Q any](store *cache.Store[C], policy Policy[C, Q], logger zerolog.Logger) *Mediator[C, Q] {
	return &Mediator[C, Q]{
		store:  store,
		policy: policy,
		logger: logger.With().Str("cache_path", store.Path()).Logger(),
	}
}

// GetOrFetch returns the cached answer for q, or resolves, records and
// returns a fresh one. It returns false when no answer is available.
func (m *Mediator[C, Q]) GetOrFetch(ctx context.Context, q Q) (string, bool) {
	c := m.store.Load(ctx)
	if text, ok := m.policy.Lookup(c, q); ok {
		m.hits.Add(1)
		m.policy.Describe(q, m.logger.Debug()).Msg("cache hit")
		return text, true
	}

	m.misses.Add(1)
	m.policy.Describe(q, m.logger.Debug()).Msg("cache miss or stale entry, fetching")

	answer, ok := m.policy.Resolve(ctx, c, q)
	if !ok {
		m.policy.Describe(q, m.logger.Warn()).Msg("failed to fetch response")
		return "", false
	}

	// The write-back reloads under the path lock so an update made by a
	// concurrent call while we were fetching is kept.
	m.store.Update(ctx, func(c C) {
		m.policy.Record(c, q, answer)
	})
	return answer.Text, true
}

// Clear empties the cache document.
func (m *Mediator[C, Q]) Clear(ctx context.Context) {
	m.store.Update(ctx, m.policy.Clear)
}

// Stats returns the entry count of the stored document and the hit and miss
// counters of this Mediator.
func (m *Mediator[C, Q]) Stats(ctx context.Context) models.CacheStats {
	return models.CacheStats{
		Entries: int64(m.policy.Len(m.store.Load(ctx))),
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
	}
}
