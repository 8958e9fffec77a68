package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherGet(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "stash-test/1.0", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/ok":
			fmt.Fprint(w, "hello world")
		case "/missing":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer upstream.Close()

	f := NewHTTPFetcher(time.Second, "stash-test/1.0", zerolog.Nop())
	ctx := context.Background()

	body, ok := f.Get(ctx, upstream.URL+"/ok")
	require.True(t, ok)
	assert.Equal(t, "hello world", body)

	_, ok = f.Get(ctx, upstream.URL+"/missing")
	assert.False(t, ok, "404 must be absent")

	_, ok = f.Get(ctx, upstream.URL+"/boom")
	assert.False(t, ok, "500 must be absent")
}

func TestHTTPFetcherTransportError(t *testing.T) {
	f := NewHTTPFetcher(time.Second, "", zerolog.Nop())
	_, ok := f.Get(context.Background(), "http://127.0.0.1:1/unreachable")
	assert.False(t, ok)

	_, ok = f.Get(context.Background(), "::not a url")
	assert.False(t, ok)
}

func TestHTTPFetcherTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer upstream.Close()

	f := NewHTTPFetcher(50*time.Millisecond, "", zerolog.Nop())
	_, ok := f.Get(context.Background(), upstream.URL)
	assert.False(t, ok)
}

func TestOllamaFetcherInfer(t *testing.T) {
	var got generateRequest
	var rawBody map[string]json.RawMessage
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		raw, _ := json.Marshal(rawBody)
		assert.NoError(t, json.Unmarshal(raw, &got))

		fmt.Fprint(w, "{\"response\":\"Hel\"}\n\n  \n{\"response\":\"lo\"}\n{\"done\":true,\"context\":[1,2,3]}")
	}))
	defer upstream.Close()

	f := NewOllamaFetcher(upstream.URL+"/", true, time.Second, zerolog.Nop())
	raw, ok := f.Infer(context.Background(), "mistral", "hi", []uint64{7, 8})
	require.True(t, ok)
	assert.Equal(t, "{\"response\":\"Hel\"}\n{\"response\":\"lo\"}\n{\"done\":true,\"context\":[1,2,3]}\n", raw)

	assert.Equal(t, "mistral", got.Model)
	assert.Equal(t, "hi", got.Prompt)
	assert.True(t, got.Stream)
	assert.Equal(t, []uint64{7, 8}, got.Context)
}

func TestOllamaFetcherOmitsEmptyContext(t *testing.T) {
	var rawBody map[string]json.RawMessage
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		fmt.Fprint(w, `{"response":"x","done":true,"context":[1]}`)
	}))
	defer upstream.Close()

	f := NewOllamaFetcher(upstream.URL, false, time.Second, zerolog.Nop())
	_, ok := f.Infer(context.Background(), "mistral", "hi", []uint64{})
	require.True(t, ok)

	_, hasContext := rawBody["context"]
	assert.False(t, hasContext)
	assert.JSONEq(t, "false", string(rawBody["stream"]))
}

func TestOllamaFetcherFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"model not found"}`)
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {}},
		{"blank lines only", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "\n \n\n")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.handler)
			defer upstream.Close()

			f := NewOllamaFetcher(upstream.URL, false, time.Second, zerolog.Nop())
			_, ok := f.Infer(context.Background(), "mistral", "hi", nil)
			assert.False(t, ok)
		})
	}
}

func TestOllamaFetcherUnreachable(t *testing.T) {
	f := NewOllamaFetcher("http://127.0.0.1:1", false, time.Second, zerolog.Nop())
	_, ok := f.Infer(context.Background(), "mistral", "hi", nil)
	assert.False(t, ok)
}
