package fetch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultOllamaURL is the local Ollama server.
const DefaultOllamaURL = "http://localhost:11434"

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Context []uint64 `json:"context,omitempty"`
}

// OllamaFetcher calls an Ollama-compatible generate endpoint.
type OllamaFetcher struct {
	baseURL string
	stream  bool
	client  *http.Client
	logger  zerolog.Logger
}

var _ Inferrer = (*OllamaFetcher)(nil)

// NewOllamaFetcher creates an OllamaFetcher for the server at baseURL.
// With stream set the server answers one JSON chunk per line; otherwise it
// sends a single terminal chunk.
func NewOllamaFetcher(baseURL string, stream bool, timeout time.Duration, logger zerolog.Logger) *OllamaFetcher {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return &OllamaFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		stream:  stream,
		client:  newHTTPClient(timeout, ""),
		logger:  logger,
	}
}

// Infer posts the prompt and returns the non-blank response lines, each
// terminated by a newline. prior is the context returned by an earlier
// call; an empty one is not sent.
func (f *OllamaFetcher) Infer(ctx context.Context, model, prompt string, prior []uint64) (string, bool) {
	raw, err := f.generate(ctx, generateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  f.stream,
		Context: prior,
	})
	if err != nil {
		f.logger.Warn().Err(err).Str("model", model).Msg("inference failed")
		return "", false
	}
	if strings.TrimSpace(raw) == "" {
		f.logger.Warn().Str("model", model).Msg("model returned no response")
		return "", false
	}
	return raw, true
}

func (f *OllamaFetcher) generate(ctx context.Context, payload generateRequest) (string, error) {
	target, err := url.Parse(f.baseURL + "/api/generate")
	if err != nil {
		return "", fmt.Errorf("invalid inference URL: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var lines strings.Builder
	reader := bufio.NewReader(resp.Body)
	for {
		line, readErr := reader.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines.WriteString(trimmed)
			lines.WriteByte('\n')
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return "", fmt.Errorf("read response: %w", readErr)
		}
	}
	return lines.String(), nil
}
