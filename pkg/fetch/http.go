package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPFetcher performs plain GET requests.
type HTTPFetcher struct {
	client *http.Client
	logger zerolog.Logger
}

var _ Getter = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates an HTTPFetcher with the given timeout and User-Agent.
func NewHTTPFetcher(timeout time.Duration, userAgent string, logger zerolog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: newHTTPClient(timeout, userAgent),
		logger: logger,
	}
}

// Get fetches url and returns its body.
func (f *HTTPFetcher) Get(ctx context.Context, url string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("invalid fetch url")
		return "", false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("fetch failed")
		return "", false
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		f.logger.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("fetch returned non-success status")
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("read fetch body")
		return "", false
	}

	f.logger.Debug().Int("bytes", len(body)).Str("url", url).Msg("fetched")
	return string(body), true
}
