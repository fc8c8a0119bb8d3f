package imagegen

import (
	"context"

	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists processed images and returns their public URL.
// storage.LocalStore and storage.Chain satisfy it.
type Store interface {
	Save(name string, data []byte) (string, error)
}

// Generator runs the full hero image pipeline: prompt to provider, download
// the temporary URL, recompress for email, optionally persist to storage.
//
// Image generation is best-effort. Every failure is logged and yields a nil
// artifact; campaigns render without a hero image rather than failing.
type Generator struct {
	provider   Provider
	downloader *Downloader
	processor  *Processor
	store      Store
	log        *logging.Logger
}

// NewGenerator wires the pipeline from the service configuration. store may
// be nil, in which case images travel inline as data URIs.
func NewGenerator(cfg *core.Config, store Store, log *logging.Logger) (*Generator, error) {
	provider, err := NewOpenAIProvider(cfg)
	if err != nil {
		return nil, err
	}

	return &Generator{
		provider:   provider,
		downloader: NewDownloader(cfg),
		processor:  NewProcessor(cfg.ImageSizeLimit),
		store:      store,
		log:        log.Named("imagegen"),
	}, nil
}

// NewGeneratorWithParts builds a Generator from explicit components.
// Used in tests.
func NewGeneratorWithParts(provider Provider, downloader *Downloader, processor *Processor, store Store, log *logging.Logger) *Generator {
	return &Generator{
		provider:   provider,
		downloader: downloader,
		processor:  processor,
		store:      store,
		log:        log.Named("imagegen"),
	}
}

// Generate runs the pipeline with a random artifact name.
func (g *Generator) Generate(ctx context.Context, prompt string) *Artifact {
	return g.GenerateNamed(ctx, prompt, uuid.New().String())
}

// GenerateNamed runs the pipeline, persisting the result under the given
// base name when a store is configured. Returns nil on any failure.
func (g *Generator) GenerateNamed(ctx context.Context, prompt, baseName string) *Artifact {
	url, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		g.log.Warn("image generation failed", zap.Error(err))
		return nil
	}

	data, err := g.downloader.DownloadBytes(ctx, url)
	if err != nil {
		g.log.Warn("image download failed", zap.Error(err))
		return nil
	}

	processed, err := g.processor.Process(data)
	if err != nil {
		g.log.Warn("image processing failed",
			zap.Int("original_bytes", len(data)),
			zap.Error(err),
		)
		return nil
	}

	artifact := &Artifact{Data: processed, MIME: "image/jpeg"}

	if g.store != nil {
		publicURL, err := g.store.Save(baseName+".jpg", processed)
		if err != nil {
			g.log.Warn("image storage failed, embedding inline",
				zap.String("name", baseName),
				zap.Error(err),
			)
		} else {
			artifact.URL = publicURL
		}
	}

	g.log.Info("image generated",
		zap.Int("bytes", len(processed)),
		zap.Bool("stored", artifact.URL != ""),
	)
	return artifact
}
