package content

import (
	"context"
	"errors"
	"testing"

	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/logging"

	openai "github.com/sashabaranov/go-openai"
)

// stubChatClient returns canned responses keyed by model name, or an error.
type stubChatClient struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls = append(s.calls, req.Model)
	if err, ok := s.errs[req.Model]; ok {
		return openai.ChatCompletionResponse{}, err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.responses[req.Model]}},
		},
	}, nil
}

func testConfig() *core.Config {
	return &core.Config{
		PrimaryModel:   "gpt-4",
		SecondaryModel: "gpt-3.5-turbo",
	}
}

func TestGenerateContent_PrimarySucceeds(t *testing.T) {
	stub := &stubChatClient{
		responses: map[string]string{
			"gpt-4": `{"subject_line": "Fresh Conch Fridays", "cta_text": "ORDER NOW"}`,
		},
	}
	g := NewGeneratorWithClient(stub, testConfig(), logging.NewTestLogger())

	c := g.GenerateContent(context.Background(), "conch fritters promo")
	if c.SubjectLine != "Fresh Conch Fridays" {
		t.Errorf("SubjectLine = %q", c.SubjectLine)
	}
	if len(stub.calls) != 1 || stub.calls[0] != "gpt-4" {
		t.Errorf("calls = %v, want single gpt-4 call", stub.calls)
	}

	// Missing fields were filled from the fallback record.
	if c.HeroTitle != "SPECIAL OFFER" {
		t.Errorf("HeroTitle = %q, want filled default", c.HeroTitle)
	}
}

func TestGenerateContent_FallsBackToSecondary(t *testing.T) {
	stub := &stubChatClient{
		errs: map[string]error{"gpt-4": errors.New("rate limit exceeded")},
		responses: map[string]string{
			"gpt-3.5-turbo": `{"subject_line": "Weekend Special", "cta_url": "https://start.kemis.net"}`,
		},
	}
	g := NewGeneratorWithClient(stub, testConfig(), logging.NewTestLogger())

	c := g.GenerateContent(context.Background(), "weekend special")
	if c.SubjectLine != "Weekend Special" {
		t.Errorf("SubjectLine = %q", c.SubjectLine)
	}
	if len(stub.calls) != 2 {
		t.Errorf("calls = %v, want primary then secondary", stub.calls)
	}
}

func TestGenerateContent_UnparseableResponseFallsThrough(t *testing.T) {
	stub := &stubChatClient{
		responses: map[string]string{
			"gpt-4":         "I'm sorry, I can't produce JSON today.",
			"gpt-3.5-turbo": `{"subject_line": "Recovered"}`,
		},
	}
	g := NewGeneratorWithClient(stub, testConfig(), logging.NewTestLogger())

	c := g.GenerateContent(context.Background(), "anything")
	if c.SubjectLine != "Recovered" {
		t.Errorf("SubjectLine = %q, want secondary model result", c.SubjectLine)
	}
}

func TestGenerateContent_AllModelsFail(t *testing.T) {
	stub := &stubChatClient{
		errs: map[string]error{
			"gpt-4":         errors.New("quota exceeded"),
			"gpt-3.5-turbo": errors.New("quota exceeded"),
		},
	}
	g := NewGeneratorWithClient(stub, testConfig(), logging.NewTestLogger())

	c := g.GenerateContent(context.Background(), "20% off conch salad this weekend")
	if c.SubjectLine != "Special Offer: 20% off conch salad this weekend" {
		t.Errorf("SubjectLine = %q, want static fallback", c.SubjectLine)
	}
	if c.CTAText != "LEARN MORE" {
		t.Errorf("CTAText = %q, want static fallback", c.CTAText)
	}
}
