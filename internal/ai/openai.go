package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Generator using the Chat Completions API of OpenAI
// or any compatible server.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
	Timeout time.Duration
}

func NewOpenAI(cfg Config) *OpenAIClient {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	if cfg.Model == "" {
		panic("OpenAI model must be specified")
	}
	return &OpenAIClient{client: c, model: cfg.Model, timeout: cfg.Timeout}
}

func (o *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	model := o.model
	if req.Model != "" {
		model = req.Model
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		slog.Error("openai: chat completion error", "model", model, "err", err)
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &StatusError{Backend: "openai", StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &StatusError{Backend: "openai", StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrMalformed
	}
	return StripThink(resp.Choices[0].Message.Content), nil
}

var _ Generator = (*OpenAIClient)(nil)
