package mediator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pario-ai/stash/pkg/cache"
	"github.com/pario-ai/stash/pkg/fetch"
	"github.com/pario-ai/stash/pkg/models"
	"github.com/pario-ai/stash/pkg/storage"
)

// TTLQuery requests the body for Key as of Now.
type TTLQuery struct {
	Key string
	Now time.Time
}

// ttlPolicy answers from a TTLCollection and fetches with a Getter.
type ttlPolicy struct {
	getter fetch.Getter
}

func (p ttlPolicy) Lookup(c *models.TTLCollection, q TTLQuery) (string, bool) {
	return c.Lookup(q.Key, q.Now)
}

func (p ttlPolicy) Resolve(ctx context.Context, _ *models.TTLCollection, q TTLQuery) (Answer, bool) {
	body, ok := p.getter.Get(ctx, q.Key)
	if !ok {
		return Answer{}, false
	}
	return Answer{Text: body}, true
}

// Record stores the body without expiry or validators.
func (p ttlPolicy) Record(c *models.TTLCollection, q TTLQuery, a Answer) {
	c.Upsert(q.Key, a.Text, nil, nil, nil)
}

func (p ttlPolicy) Clear(c *models.TTLCollection) { c.Clear() }

func (p ttlPolicy) Len(c *models.TTLCollection) int { return c.Len() }

func (p ttlPolicy) Describe(q TTLQuery, e *zerolog.Event) *zerolog.Event {
	return e.Str("key", q.Key)
}

// TTL is a Mediator over a key/expiry cache document.
type TTL struct {
	*Mediator[*models.TTLCollection, TTLQuery]
}

// NewTTL creates a TTL mediator for the document at path.
func NewTTL(provider storage.Provider, path string, getter fetch.Getter, opts cache.Options) *TTL {
	store := cache.New(provider, path, models.NewTTLCollection, opts)
	return &TTL{
		Mediator: New[*models.TTLCollection, TTLQuery](store, ttlPolicy{getter: getter}, opts.Logger),
	}
}

// Get returns the body cached under key if fresh at now, otherwise fetches
// key, stores the body and returns it.
func (t *TTL) Get(ctx context.Context, key string, now time.Time) (string, bool) {
	return t.GetOrFetch(ctx, TTLQuery{Key: key, Now: now})
}

// Put stores body under key, replacing any existing entry. A zero ttl stores
// the entry without expiry.
func (t *TTL) Put(ctx context.Context, key, body string, ttl time.Duration, now time.Time) {
	var expiry *int64
	if ttl > 0 {
		e := now.Add(ttl).Unix()
		expiry = &e
	}
	t.store.Update(ctx, func(c *models.TTLCollection) {
		c.Upsert(key, body, expiry, nil, nil)
	})
}

// Invalidate removes the entry stored under key.
func (t *TTL) Invalidate(ctx context.Context, key string) {
	t.store.Update(ctx, func(c *models.TTLCollection) {
		c.Invalidate(key)
	})
}
