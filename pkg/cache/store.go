// Package cache persists a whole cache collection as one JSON document.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pario-ai/stash/pkg/storage"
)

// DefaultTimeout bounds a single storage read or write.
const DefaultTimeout = 5 * time.Second

// pathLocks serializes read-modify-write cycles per document path across
// every Store in the process.
var pathLocks sync.Map

func lockFor(path string) *sync.Mutex {
	mu, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Options configures a Store.
type Options struct {
	// Timeout bounds each storage call. Zero means DefaultTimeout.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Store loads and saves a collection of type C, which must be a pointer to a
// JSON-decodable struct. Nothing is kept in memory between calls.
type Store[C any] struct {
	provider storage.Provider
	path     string
	empty    func() C
	timeout  time.Duration
	logger   zerolog.Logger
}

// New creates a Store for the document at path. empty builds the collection
// used when nothing usable is stored.
func New[C any](provider storage.Provider, path string, empty func() C, opts Options) *Store[C] {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store[C]{
		provider: provider,
		path:     path,
		empty:    empty,
		timeout:  timeout,
		logger:   opts.Logger.With().Str("cache_path", path).Logger(),
	}
}

// Path returns the document path.
func (s *Store[C]) Path() string {
	return s.path
}

// Load returns the stored collection, or an empty one if the document is
// missing, unreadable or not valid JSON.
func (s *Store[C]) Load(ctx context.Context) C {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.provider.Read(ctx, s.path)
	if err != nil {
		s.logger.Debug().Err(err).Msg("cache unreadable, starting empty")
		return s.empty()
	}

	c := s.empty()
	if err := json.Unmarshal(data, c); err != nil {
		s.logger.Debug().Err(err).Msg("cache corrupt, starting empty")
		return s.empty()
	}
	return c
}

// Save overwrites the stored document with c. Encoding and write failures
// are logged and otherwise ignored.
func (s *Store[C]) Save(ctx context.Context, c C) {
	data, err := json.Marshal(c)
	if err != nil {
		s.logger.Debug().Err(err).Msg("cache encode failed, skipping save")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.provider.Write(ctx, s.path, data); err != nil {
		s.logger.Warn().Err(err).Msg("cache write failed")
	}
}

// Update loads the collection, applies fn and saves the result while holding
// the lock for this path, so concurrent updates are not lost.
func (s *Store[C]) Update(ctx context.Context, fn func(C)) C {
	mu := lockFor(s.path)
	mu.Lock()
	defer mu.Unlock()

	c := s.Load(ctx)
	fn(c)
	s.Save(ctx, c)
	return c
}
