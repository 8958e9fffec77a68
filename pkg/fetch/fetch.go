// Package fetch performs the expensive external operations a cache miss
// falls back to.
package fetch

import (
	"context"
	"net/http"
	"time"
)

// Getter retrieves the body at a URL.
type Getter interface {
	// Get returns the response body, or false on any transport error or
	// non-success status.
	Get(ctx context.Context, url string) (string, bool)
}

// Inferrer runs a model inference.
type Inferrer interface {
	// Infer returns the raw newline-delimited response stream, or false when
	// the provider produced nothing. prior carries the conversation context.
	Infer(ctx context.Context, model, prompt string, prior []uint64) (string, bool)
}

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second

// userAgentRoundTripper sets a fixed User-Agent on every request.
type userAgentRoundTripper struct {
	wrapped   http.RoundTripper
	userAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", rt.userAgent)
	return rt.wrapped.RoundTrip(clone)
}

// newHTTPClient builds a client with the given timeout and User-Agent.
func newHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var transport http.RoundTripper = http.DefaultTransport
	if userAgent != "" {
		transport = &userAgentRoundTripper{wrapped: transport, userAgent: userAgent}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
