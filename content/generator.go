package content

import (
	"context"

	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/logging"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatClient is the subset of the OpenAI client used for chat completions.
// *openai.Client satisfies it; tests substitute a stub.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const contentTemperature = 0.7

// contentSystemPrompt instructs the model to return campaign copy as a JSON
// object matching CampaignContent.
const contentSystemPrompt = `You are a professional email marketing expert. Create SHORT, CLEAN email content that:
- Uses professional, engaging marketing language
- Uses clear, friendly greetings like "Hi" or "Hello"
- Is structured with headlines, subheadlines, and bullet points for clarity
- Use single space after periods, no double spacing
- Include 2-3 relevant emojis maximum
- Focus on the specific business/promotion mentioned
- Has a clear call-to-action
- No long paragraphs or run-on sentences

Return the content in JSON format with these fields:
{
    "subject_line": "Email subject line",
    "hero_title": "Main headline (max 3 words)",
    "greeting": "Personal greeting with [Name,fallback=there]",
    "headline": "Main value proposition headline (compelling benefit)",
    "subheadline": "Supporting subheadline that expands on the value",
    "bullet_points": ["Key benefit 1", "Key benefit 2", "Key benefit 3"],
    "main_content": "Closing paragraph - 2-3 short lines maximum, separated by &nbsp;",
    "cta_text": "Call to action button text",
    "cta_url": "Call to action URL",
    "urgency_text": "Urgency message if applicable",
    "offer_details": "Unique action-focused summary for CTA box (e.g., 'Click below to claim your 20% discount before Friday!') - must be different from main_content"
}`

// Generator produces campaign copy from a one-line promotion prompt.
//
// Generation walks a fixed chain: the primary model, then the secondary
// model, then FallbackContent. GenerateContent never returns an error; a
// campaign always gets usable copy.
type Generator struct {
	client ChatClient
	cfg    *core.Config
	log    *logging.Logger
}

// NewGenerator creates a Generator backed by the configured OpenAI client.
func NewGenerator(cfg *core.Config, log *logging.Logger) *Generator {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		log:    log.Named("content"),
	}
}

// NewGeneratorWithClient creates a Generator with an explicit chat client.
// Used in tests.
func NewGeneratorWithClient(client ChatClient, cfg *core.Config, log *logging.Logger) *Generator {
	return &Generator{
		client: client,
		cfg:    cfg,
		log:    log.Named("content"),
	}
}

// GenerateContent produces campaign copy for the given promotion prompt.
//
// The primary model is tried first; any error (API failure, unparseable
// response) falls through to the secondary model, and any failure there
// falls through to the static fallback record. The path taken is logged.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) *CampaignContent {
	for _, model := range []string{g.cfg.PrimaryModel, g.cfg.SecondaryModel} {
		if model == "" {
			continue
		}

		c, err := g.generateWithModel(ctx, model, prompt)
		if err != nil {
			g.log.Warn("content generation attempt failed",
				zap.String("model", model),
				zap.Error(err),
			)
			continue
		}

		c.FillDefaults(prompt)
		g.log.Info("content generated",
			zap.String("model", model),
			zap.String("subject_line", c.SubjectLine),
		)
		return c
	}

	g.log.Warn("all models failed, using fallback content",
		zap.String("prompt", prompt),
	)
	return FallbackContent(prompt)
}

func (g *Generator) generateWithModel(ctx context.Context, model, prompt string) (*CampaignContent, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: contentTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: contentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Create an email campaign for: " + prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errNoChoices
	}

	return ParseContentJSON(resp.Choices[0].Message.Content)
}
