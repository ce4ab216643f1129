// Package ai talks to the text generation backends that turn an item into
// post text. Every call is a single attempt.
package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"news-herald/internal/config"
)

// ErrMalformed is returned when a backend answers with an unusable body.
var ErrMalformed = errors.New("malformed generation response")

// Request is one prompt sent to a generation backend.
type Request struct {
	System      string
	Prompt      string
	Model       string // overrides the client's model when set
	Temperature float32
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// IsMalformed reports whether err came from an unusable backend body.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// StatusError reports a non-success HTTP response from a backend.
type StatusError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: generation failed: status=%d body=%s", e.Backend, e.StatusCode, e.Body)
}

var thinkRE = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThink removes <think>...</think> reasoning blocks some models emit
// and trims surrounding whitespace.
func StripThink(text string) string {
	return strings.TrimSpace(thinkRE.ReplaceAllString(text, ""))
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// New builds the generator selected by cfg.Provider.
func New(cfg config.LLMConfig) (Generator, error) {
	timeout := config.Duration(cfg.Timeout, 60*time.Second)
	switch cfg.Provider {
	case config.ProviderOllama:
		return NewOllama(cfg.APIURL, cfg.Model, timeout)
	case config.ProviderOpenAI:
		if cfg.Model == "" {
			return nil, errors.New("llm.model is required for openai")
		}
		return NewOpenAI(Config{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.APIURL, Timeout: timeout}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
