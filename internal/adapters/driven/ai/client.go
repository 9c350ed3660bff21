package ai

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	requestTimeout       = 60 * time.Second
)

// newClient builds an OpenAI-compatible API client.
// Ollama serves the same API under /v1 and ignores the key.
func newClient(apiKey, baseURL string) (*openai.Client, *http.Client) {
	httpClient := &http.Client{Timeout: requestTimeout}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = httpClient

	return openai.NewClientWithConfig(cfg), httpClient
}

// wrapAPIError marks transport and 5xx failures as service unavailability
func wrapAPIError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode >= 500 {
			return fmt.Errorf("%s: %w: %s", op, domain.ErrServiceUnavailable, apiErr.Message)
		}
		return fmt.Errorf("%s: API error %d: %s", op, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%s: %w: status %d", op, domain.ErrServiceUnavailable, reqErr.HTTPStatusCode)
	}
	return fmt.Errorf("%s: %w", op, err)
}
