package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaClient implements Generator against an Ollama server's streaming
// generate endpoint.
type OllamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

// NewOllama accepts either the server base URL or the full
// ".../api/generate" endpoint URL.
func NewOllama(endpoint, model string, timeout time.Duration) (*OllamaClient, error) {
	base, err := ollamaBase(endpoint)
	if err != nil {
		return nil, err
	}
	return &OllamaClient{
		client:  api.NewClient(base, &http.Client{}),
		model:   model,
		timeout: timeout,
	}, nil
}

func ollamaBase(endpoint string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid api_url %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("ollama: api_url %q must be an absolute URL", endpoint)
	}
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/api/generate")
	u.RawQuery = ""
	return u, nil
}

func (c *OllamaClient) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	stream := true
	var out strings.Builder
	chunks := 0
	err := c.client.Generate(ctx, &api.GenerateRequest{
		Model:   model,
		Prompt:  req.Prompt,
		System:  req.System,
		Stream:  &stream,
		Options: map[string]any{"temperature": req.Temperature},
	}, func(r api.GenerateResponse) error {
		chunks++
		out.WriteString(r.Response)
		return nil
	})
	if err != nil {
		var se api.StatusError
		if errors.As(err, &se) {
			return "", &StatusError{Backend: "ollama", StatusCode: se.StatusCode, Body: se.ErrorMessage}
		}
		return "", fmt.Errorf("ollama: %w", err)
	}
	if chunks == 0 {
		return "", ErrMalformed
	}
	return StripThink(out.String()), nil
}

var _ Generator = (*OllamaClient)(nil)
