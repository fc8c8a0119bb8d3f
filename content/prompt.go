package content

import (
	"context"
	"encoding/json"

	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/logging"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const imagePromptTemperature = 0.8

// FallbackImagePrompt is returned when the model call fails for any reason.
const FallbackImagePrompt = "Professional email marketing image with modern design, bright lighting, and engaging visual elements"

const imagePromptSystemPrompt = `You are an expert at creating image prompts for email marketing. Create a detailed, specific prompt for DALL-E that will generate a professional, engaging image for an email campaign.

The image should:
- Be landscape orientation
- Be photo-realistic
- Have bright, professional lighting
- Include Bahamian elements when relevant
- Be suitable for email marketing
- Have no text overlay
- Be visually appealing and modern

Format your response as a detailed image description that DALL-E can understand.`

// PromptGenerator turns campaign copy into a DALL-E image prompt.
//
// A single model call is made; any failure yields FallbackImagePrompt, so
// image generation always has a prompt to work with.
type PromptGenerator struct {
	client ChatClient
	cfg    *core.Config
	log    *logging.Logger
}

// NewPromptGenerator creates a PromptGenerator backed by the configured
// OpenAI client.
func NewPromptGenerator(cfg *core.Config, log *logging.Logger) *PromptGenerator {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)

	return &PromptGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		log:    log.Named("imageprompt"),
	}
}

// NewPromptGeneratorWithClient creates a PromptGenerator with an explicit
// chat client. Used in tests.
func NewPromptGeneratorWithClient(client ChatClient, cfg *core.Config, log *logging.Logger) *PromptGenerator {
	return &PromptGenerator{
		client: client,
		cfg:    cfg,
		log:    log.Named("imageprompt"),
	}
}

// GenerateImagePrompt produces a DALL-E prompt from campaign copy. The copy
// is serialized as JSON and handed to the model for visual interpretation.
// Errors are logged and swallowed; the fallback prompt is returned instead.
func (g *PromptGenerator) GenerateImagePrompt(ctx context.Context, c *CampaignContent) string {
	encoded, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		g.log.Warn("failed to encode content for image prompt", zap.Error(err))
		return FallbackImagePrompt
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.cfg.PrimaryModel,
		Temperature: imagePromptTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: imagePromptSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Create an image prompt for this email content: " + string(encoded)},
		},
	})
	if err != nil {
		g.log.Warn("image prompt generation failed, using fallback", zap.Error(err))
		return FallbackImagePrompt
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		g.log.Warn("image prompt response empty, using fallback")
		return FallbackImagePrompt
	}

	return resp.Choices[0].Message.Content
}
