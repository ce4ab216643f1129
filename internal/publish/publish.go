// Package publish delivers composed posts to an external platform.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"news-herald/internal/config"
)

// Post is one outbound message.
type Post struct {
	Key   string // item fingerprint
	Title string
	Text  string
	Link  string
}

// Poster publishes a post and returns the id the platform assigned to it.
type Poster interface {
	Publish(ctx context.Context, p Post) (string, error)
}

// Kind classifies a publishing failure.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindRateLimit  Kind = "rate_limit"
	KindValidation Kind = "validation"
	KindServer     Kind = "server"
	KindUnknown    Kind = "unknown"
)

// Error is a non-success response from a publishing backend.
type Error struct {
	Backend    string
	StatusCode int
	Kind       Kind
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: publish failed (%s): status=%d body=%s", e.Backend, e.Kind, e.StatusCode, e.Body)
}

// KindOf returns the failure kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// New builds the poster selected by cfg.Backend, or a DryRun poster when
// cfg.DryRun is set.
func New(cfg config.PublishConfig) (Poster, error) {
	if cfg.DryRun {
		return DryRun{Backend: cfg.Backend}, nil
	}
	timeout := config.Duration(cfg.Timeout, 20*time.Second)
	switch cfg.Backend {
	case config.BackendX:
		return NewX(cfg.X.BaseURL, cfg.X.AccessToken, timeout), nil
	case config.BackendQuaily:
		return NewQuaily(cfg.Quaily.BaseURL, cfg.Quaily.APIKey, cfg.Quaily.ChannelSlug, timeout), nil
	default:
		return nil, fmt.Errorf("unknown publish backend %q", cfg.Backend)
	}
}
