package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/stash/pkg/storage"
)

// newTestProvider connects to STASH_TEST_REDIS_ADDR or skips.
func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	addr := os.Getenv("STASH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STASH_TEST_REDIS_ADDR not set")
	}
	prefix := fmt.Sprintf("stash:test:%d:", time.Now().UnixNano())
	p, err := New(context.Background(), addr, prefix)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestReadMissing(t *testing.T) {
	p := newTestProvider(t)
	_, err := p.Read(context.Background(), "cache.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWriteAndRead(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()
	t.Cleanup(func() { p.client.Del(context.Background(), p.key("cache.json")) })

	require.NoError(t, p.Write(ctx, "cache.json", []byte("one")))
	require.NoError(t, p.Write(ctx, "cache.json", []byte("two")))

	data, err := p.Read(ctx, "cache.json")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestDefaultPrefix(t *testing.T) {
	p := NewWithClient(nil, "")
	assert.Equal(t, DefaultPrefix+"a.json", p.key("a.json"))
}

func TestNewUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := New(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
}
