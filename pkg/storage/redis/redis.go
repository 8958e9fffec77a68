// Package redis stores cache documents as Redis string values.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pario-ai/stash/pkg/storage"
)

// DefaultPrefix namespaces document keys.
const DefaultPrefix = "stash:doc:"

// Provider implements storage.Provider with one Redis key per path.
type Provider struct {
	client goredis.UniversalClient
	prefix string
}

var _ storage.Provider = (*Provider)(nil)

// New connects to the Redis server at addr and verifies it answers PING.
func New(ctx context.Context, addr, prefix string) (*Provider, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewWithClient(client, prefix), nil
}

// NewWithClient wraps an existing client. An empty prefix uses DefaultPrefix.
func NewWithClient(client goredis.UniversalClient, prefix string) *Provider {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Provider{client: client, prefix: prefix}
}

func (p *Provider) key(path string) string {
	return p.prefix + path
}

// Read returns the document stored at path.
func (p *Provider) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := p.client.Get(ctx, p.key(path)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the document stored at path. Documents never expire.
func (p *Provider) Write(ctx context.Context, path string, data []byte) error {
	if err := p.client.Set(ctx, p.key(path), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	return p.client.Close()
}
