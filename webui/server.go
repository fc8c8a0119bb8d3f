// Package webui exposes the campaign studio over HTTP: content generation,
// preview, delivery, list lookup, and serving of stored assets.
package webui

import (
	"context"
	"net/http"
	"time"

	"github.com/salutethegenius/kemis-studio-stable/content"
	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/dispatch"
	"github.com/salutethegenius/kemis-studio-stable/imagegen"
	"github.com/salutethegenius/kemis-studio-stable/logging"
	"github.com/salutethegenius/kemis-studio-stable/render"
	"github.com/salutethegenius/kemis-studio-stable/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ContentGenerator produces campaign copy from a prompt.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) *content.CampaignContent
}

// ImagePromptGenerator turns copy into a DALL-E prompt.
type ImagePromptGenerator interface {
	GenerateImagePrompt(ctx context.Context, c *content.CampaignContent) string
}

// ImageGenerator runs the hero image pipeline.
type ImageGenerator interface {
	GenerateNamed(ctx context.Context, prompt, baseName string) *imagegen.Artifact
}

// CampaignDispatcher delivers campaigns and looks up lists.
type CampaignDispatcher interface {
	Send(ctx context.Context, req *dispatch.Request) (*dispatch.Result, error)
	FetchLists(ctx context.Context) ([]dispatch.List, error)
}

// Server wires the campaign pipeline behind HTTP routes.
type Server struct {
	cfg        *core.Config
	brand      *core.Brand
	contentGen ContentGenerator
	promptGen  ImagePromptGenerator
	imageGen   ImageGenerator
	renderer   render.Renderer
	dispatcher CampaignDispatcher
	images     *storage.LocalStore
	templates  *storage.LocalStore
	log        *logging.Logger
	router     chi.Router
}

// NewServer builds the HTTP server. imageGen may be nil when image
// generation is unavailable; campaigns then render without a hero image.
func NewServer(
	cfg *core.Config,
	brand *core.Brand,
	contentGen ContentGenerator,
	promptGen ImagePromptGenerator,
	imageGen ImageGenerator,
	renderer render.Renderer,
	dispatcher CampaignDispatcher,
	images *storage.LocalStore,
	templates *storage.LocalStore,
	log *logging.Logger,
) *Server {
	s := &Server{
		cfg:        cfg,
		brand:      brand,
		contentGen: contentGen,
		promptGen:  promptGen,
		imageGen:   imageGen,
		renderer:   renderer,
		dispatcher: dispatcher,
		images:     images,
		templates:  templates,
		log:        log.Named("webui"),
	}
	s.router = s.routes()
	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Post("/generate", s.handleGenerate)
	r.Post("/preview", s.handlePreview)
	r.Post("/campaigns/send", s.handleSend)
	r.Post("/campaigns/test", s.handleTestSend)
	r.Get("/lists", s.handleLists)
	r.Get("/config/verify", s.handleVerifyConfig)
	r.Get("/images/{name}", s.handleImage)
	r.Get("/templates/{name}", s.handleTemplate)

	return r
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
