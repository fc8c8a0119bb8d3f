package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/salutethegenius/kemis-studio-stable/logging"

	openai "github.com/sashabaranov/go-openai"
)

func TestGenerateImagePrompt_Success(t *testing.T) {
	stub := &stubChatClient{
		responses: map[string]string{
			"gpt-4": "A sunlit Bahamian beachside market stall with fresh produce, photo-realistic, landscape",
		},
	}
	g := NewPromptGeneratorWithClient(stub, testConfig(), logging.NewTestLogger())

	got := g.GenerateImagePrompt(context.Background(), FallbackContent("market day"))
	if !strings.Contains(got, "Bahamian beachside market") {
		t.Errorf("prompt = %q, want model output", got)
	}
	if len(stub.calls) != 1 {
		t.Errorf("calls = %v, want one", stub.calls)
	}
}

func TestGenerateImagePrompt_APIErrorUsesFallback(t *testing.T) {
	stub := &stubChatClient{
		errs: map[string]error{"gpt-4": errors.New("rate limit exceeded")},
	}
	g := NewPromptGeneratorWithClient(stub, testConfig(), logging.NewTestLogger())

	got := g.GenerateImagePrompt(context.Background(), FallbackContent("x"))
	if got != FallbackImagePrompt {
		t.Errorf("prompt = %q, want fallback", got)
	}
}

func TestGenerateImagePrompt_EmptyResponseUsesFallback(t *testing.T) {
	stub := &stubChatClient{
		responses: map[string]string{"gpt-4": ""},
	}
	g := NewPromptGeneratorWithClient(stub, testConfig(), logging.NewTestLogger())

	got := g.GenerateImagePrompt(context.Background(), FallbackContent("x"))
	if got != FallbackImagePrompt {
		t.Errorf("prompt = %q, want fallback", got)
	}
}

func TestGenerateImagePrompt_ContentSerializedIntoRequest(t *testing.T) {
	var captured openai.ChatCompletionRequest
	stub := &capturingChatClient{response: "ok"}
	g := NewPromptGeneratorWithClient(stub, testConfig(), logging.NewTestLogger())

	c := FallbackContent("lobster night")
	g.GenerateImagePrompt(context.Background(), c)
	captured = stub.lastRequest

	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(captured.Messages))
	}
	if !strings.Contains(captured.Messages[1].Content, "lobster night") {
		t.Errorf("user message missing content JSON: %q", captured.Messages[1].Content)
	}
}

type capturingChatClient struct {
	response    string
	lastRequest openai.ChatCompletionRequest
}

func (c *capturingChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.lastRequest = req
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: c.response}},
		},
	}, nil
}
