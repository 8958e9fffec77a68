package models

import (
	"strings"
	"time"
)

// MaxHistoryItems caps the number of entries kept in a HistoryCollection.
const MaxHistoryItems = 1000

// CacheEntry stores a fetched body under an opaque key.
// ETag and LastModified are persisted but never consulted when deciding freshness.
type CacheEntry struct {
	Body         string  `json:"body"`
	Expiry       *int64  `json:"expiry,omitempty"`
	ETag         *string `json:"etag,omitempty"`
	LastModified *int64  `json:"last_modified,omitempty"`
}

// TTLCollection maps keys to entries that may carry an expiry timestamp.
type TTLCollection struct {
	Entries map[string]CacheEntry `json:"entries"`
}

// NewTTLCollection returns an empty TTLCollection.
func NewTTLCollection() *TTLCollection {
	return &TTLCollection{Entries: make(map[string]CacheEntry)}
}

// Lookup returns the body stored under key if it is present and not expired.
// An entry whose expiry equals now is still fresh.
func (c *TTLCollection) Lookup(key string, now time.Time) (string, bool) {
	entry, ok := c.Entries[key]
	if !ok {
		return "", false
	}
	if entry.Expiry != nil && now.Unix() > *entry.Expiry {
		return "", false
	}
	return entry.Body, true
}

// Upsert replaces any entry stored under key.
func (c *TTLCollection) Upsert(key, body string, expiry *int64, etag *string, lastModified *int64) {
	if c.Entries == nil {
		c.Entries = make(map[string]CacheEntry)
	}
	c.Entries[key] = CacheEntry{
		Body:         body,
		Expiry:       expiry,
		ETag:         etag,
		LastModified: lastModified,
	}
}

// Invalidate removes the entry stored under key, if any.
func (c *TTLCollection) Invalidate(key string) {
	delete(c.Entries, key)
}

// Clear drops every entry.
func (c *TTLCollection) Clear() {
	c.Entries = make(map[string]CacheEntry)
}

// Len returns the number of stored entries.
func (c *TTLCollection) Len() int {
	return len(c.Entries)
}

// HistoryEntry is one recorded model exchange. Context is opaque
// conversational state produced by the inference provider.
type HistoryEntry struct {
	Model    string   `json:"model"`
	Prompt   string   `json:"prompt"`
	Response string   `json:"response"`
	Context  []uint64 `json:"context"`
}

// HistoryCollection is a chronological log of exchanges, oldest first.
type HistoryCollection struct {
	Entries []HistoryEntry `json:"entries"`
}

// NewHistoryCollection returns an empty HistoryCollection.
func NewHistoryCollection() *HistoryCollection {
	return &HistoryCollection{Entries: []HistoryEntry{}}
}

// FindResponse returns the response of the oldest entry whose model equals
// model and whose prompt contains prompt, both compared case-insensitively.
func (c *HistoryCollection) FindResponse(model, prompt string) (string, bool) {
	model = strings.ToLower(model)
	prompt = strings.ToLower(prompt)
	for _, e := range c.Entries {
		if strings.ToLower(e.Model) == model && strings.Contains(strings.ToLower(e.Prompt), prompt) {
			return e.Response, true
		}
	}
	return "", false
}

// FindLatestContext returns the context of the newest entry for model.
// It never returns nil.
func (c *HistoryCollection) FindLatestContext(model string) []uint64 {
	for i := len(c.Entries) - 1; i >= 0; i-- {
		if strings.EqualFold(c.Entries[i].Model, model) {
			out := make([]uint64, len(c.Entries[i].Context))
			copy(out, c.Entries[i].Context)
			return out
		}
	}
	return []uint64{}
}

// Append adds an entry at the newest end, first dropping the oldest entry
// when the log is full.
func (c *HistoryCollection) Append(model, prompt, response string, context []uint64) {
	if len(c.Entries) >= MaxHistoryItems {
		c.Entries = c.Entries[len(c.Entries)-MaxHistoryItems+1:]
	}
	if context == nil {
		context = []uint64{}
	}
	c.Entries = append(c.Entries, HistoryEntry{
		Model:    model,
		Prompt:   prompt,
		Response: response,
		Context:  context,
	})
}

// Clear drops every entry.
func (c *HistoryCollection) Clear() {
	c.Entries = []HistoryEntry{}
}

// Len returns the number of stored entries.
func (c *HistoryCollection) Len() int {
	return len(c.Entries)
}

// CacheStats reports cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
