// Package imagegen provides hero image generation for email campaigns.
//
// provider.go implements the Provider interface and its OpenAI DALL-E
// implementation. Providers return temporary URLs; downloading and
// recompression are handled by the Downloader and Processor.
package imagegen

import (
	"context"
	"fmt"

	"github.com/salutethegenius/kemis-studio-stable/core"

	openai "github.com/sashabaranov/go-openai"
)

// Provider is the interface for image generation backends.
//
// Generate takes a prompt and returns the URL of the generated image.
// The URL is temporary (OpenAI URLs expire after about an hour) and should
// be downloaded promptly.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIProvider implements Provider using the OpenAI DALL-E API.
//
// Thread Safety: OpenAIProvider is safe for concurrent use.
// The underlying OpenAI client handles connection pooling.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI image generation provider from the
// service configuration.
func NewOpenAIProvider(cfg *core.Config) (*OpenAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("imagegen: OpenAI API key is required for image generation")
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)

	model := cfg.ImageModel
	if model == "" {
		model = "dall-e-3"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Generate creates a 1024x1024 standard-quality image from the prompt and
// returns its temporary URL.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("imagegen: prompt cannot be empty")
	}

	response, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          p.model,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		ResponseFormat: openai.CreateImageResponseFormatURL,
		N:              1,
	})
	if err != nil {
		return "", fmt.Errorf("imagegen: OpenAI image generation failed: %w", err)
	}

	if len(response.Data) == 0 {
		return "", fmt.Errorf("imagegen: OpenAI returned empty Data array")
	}
	if response.Data[0].URL == "" {
		return "", fmt.Errorf("imagegen: OpenAI returned empty image URL")
	}

	return response.Data[0].URL, nil
}

// Model returns the configured image model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

var _ Provider = (*OpenAIProvider)(nil)
