package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// XClient posts to the X API v2 create-post endpoint with an OAuth 2.0 user
// access token.
type XClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewX(baseURL, token string, timeout time.Duration) *XClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &XClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type xCreateResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (c *XClient) Publish(ctx context.Context, p Post) (string, error) {
	if c == nil {
		return "", errors.New("nil x client")
	}
	body, err := json.Marshal(map[string]string{"text": p.Text})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("x: request failed: %w", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{Backend: "x", StatusCode: resp.StatusCode, Kind: classify(resp.StatusCode), Body: string(b)}
	}
	var out xCreateResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return "", fmt.Errorf("x: decode response: %w", err)
	}
	if out.Data.ID == "" {
		return "", errors.New("x: missing id in response")
	}
	return out.Data.ID, nil
}
