package assistant

import (
	"context"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
	apperrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

type fakeCompleter struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestNewClientDisabledWithoutKey(t *testing.T) {
	if c := NewClient(config.OpenAIConfig{}); c != nil {
		t.Fatal("expected nil client without api key")
	}
}

func TestAskUsesSystemInstruction(t *testing.T) {
	fake := &fakeCompleter{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "  answer  "}},
		},
	}}
	c := NewClientWithAPI(fake, "gpt-4o-mini")

	got, err := c.Ask(context.Background(), "who owes the most?", "custom instruction")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got != "answer" {
		t.Fatalf("unexpected reply: %q", got)
	}
	if len(fake.lastReq.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(fake.lastReq.Messages))
	}
	if fake.lastReq.Messages[0].Content != "custom instruction" {
		t.Fatalf("system instruction not forwarded: %q", fake.lastReq.Messages[0].Content)
	}
}

func TestAskDefaultsSystemInstruction(t *testing.T) {
	fake := &fakeCompleter{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "ok"}},
		},
	}}
	c := NewClientWithAPI(fake, "gpt-4o-mini")

	if _, err := c.Ask(context.Background(), "hello", ""); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if fake.lastReq.Messages[0].Content != defaultSystemInstruction {
		t.Fatal("expected default system instruction")
	}
}

func TestAskRejectsEmptyPrompt(t *testing.T) {
	c := NewClientWithAPI(&fakeCompleter{}, "gpt-4o-mini")

	_, err := c.Ask(context.Background(), "   ", "")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAskEmptyChoices(t *testing.T) {
	c := NewClientWithAPI(&fakeCompleter{}, "gpt-4o-mini")

	_, err := c.Ask(context.Background(), "hello", "")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
