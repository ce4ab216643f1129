package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// QuailyClient creates a post in a Quaily channel and publishes it.
type QuailyClient struct {
	baseURL     string
	apiKey      string
	channelSlug string
	http        *http.Client
	// Endpoints
	createPath  string // Template: "/lists/%s/posts"
	publishPath string // Template: "/lists/%s/posts/%s/publish"
}

// NewQuaily creates a new Quaily client.
// baseURL should be like "https://api.quaily.com/v1" (no trailing slash).
func NewQuaily(baseURL, apiKey, channelSlug string, timeout time.Duration) *QuailyClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QuailyClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		channelSlug: channelSlug,
		http:        &http.Client{Timeout: timeout},
		createPath:  "/lists/%s/posts",
		publishPath: "/lists/%s/posts/%s/publish",
	}
}

// Slug derives a stable post slug from the item fingerprint so the same item
// maps to the same Quaily post.
func Slug(key string) string {
	if len(key) > 12 {
		key = key[:12]
	}
	return "herald-" + key
}

func (c *QuailyClient) Publish(ctx context.Context, p Post) (string, error) {
	if c == nil {
		return "", errors.New("nil quaily client")
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = Slug(p.Key)
	}
	params := map[string]any{
		"channel_slug": c.channelSlug,
		"title":        title,
		"slug":         Slug(p.Key),
		"content":      p.Text,
		"datetime":     time.Now().UTC().Format(time.RFC3339),
	}
	id, err := c.createPost(ctx, params)
	if err != nil {
		return "", err
	}
	if err := c.publishPost(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

func (c *QuailyClient) createPost(ctx context.Context, params map[string]any) (string, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	url := c.baseURL + fmt.Sprintf(c.createPath, c.channelSlug)
	b, err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return "", fmt.Errorf("quaily: decode create response: %w", err)
	}
	// Try common patterns for id
	if id := idOf(out); id != "" {
		return id, nil
	}
	if data, ok := out["data"].(map[string]any); ok {
		if id := idOf(data); id != "" {
			return id, nil
		}
	}
	return "", errors.New("quaily: create post: missing id in response")
}

func (c *QuailyClient) publishPost(ctx context.Context, id string) error {
	url := c.baseURL + fmt.Sprintf(c.publishPath, c.channelSlug, id)
	_, err := c.do(ctx, http.MethodPut, url, http.NoBody)
	return err
}

func (c *QuailyClient) do(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quaily: request failed: %w", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Backend: "quaily", StatusCode: resp.StatusCode, Kind: classify(resp.StatusCode), Body: string(b)}
	}
	return b, nil
}

func idOf(m map[string]any) string {
	switch v := m["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
