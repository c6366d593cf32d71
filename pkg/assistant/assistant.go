// Package assistant wraps the OpenAI chat completion API for the back-office
// helper endpoint. Staff ask free-form questions ("draft a reminder message
// for overdue customers") and get plain text back.
package assistant

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
	apperrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

const defaultSystemInstruction = "You are an assistant for the staff of a Thai construction-supply store. Answer briefly and practically."

// ChatCompleter is the slice of the OpenAI client the assistant needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api   ChatCompleter
	model string
}

// NewClient builds the assistant from config. Returns nil when no API key is
// configured so callers can treat the feature as disabled.
func NewClient(cfg config.OpenAIConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	return &Client{
		api:   openai.NewClient(cfg.APIKey),
		model: cfg.Model,
	}
}

// NewClientWithAPI is used by tests to inject a fake completer.
func NewClientWithAPI(api ChatCompleter, model string) *Client {
	return &Client{api: api, model: model}
}

// Ask sends one prompt and returns the assistant's reply text.
func (c *Client) Ask(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if c == nil || c.api == nil {
		return "", apperrors.New(apperrors.CodeDependency, "assistant is not configured")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", apperrors.New(apperrors.CodeValidation, "prompt is required")
	}
	if systemInstruction == "" {
		systemInstruction = defaultSystemInstruction
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "assistant request failed")
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.CodeDependency, "assistant returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
