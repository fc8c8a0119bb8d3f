package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/salutethegenius/kemis-studio-stable/content"
	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/core/validation"
	"github.com/salutethegenius/kemis-studio-stable/dispatch"
	"github.com/salutethegenius/kemis-studio-stable/imagegen"
	"github.com/salutethegenius/kemis-studio-stable/logging"
	"github.com/salutethegenius/kemis-studio-stable/render"
	"github.com/salutethegenius/kemis-studio-stable/shutdown"
	"github.com/salutethegenius/kemis-studio-stable/storage"
	"github.com/salutethegenius/kemis-studio-stable/webui"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	isDevelopment := os.Getenv("DEV_MODE") == "true"

	logger, err := logging.NewLogger(isDevelopment, "app.log")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(core.ExitCodeError)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Printf("Failed to sync logger: %v\n", syncErr)
		}
	}()

	if exitCode := runStartupValidation(logger); exitCode != core.ExitCodeSuccess {
		os.Exit(exitCode)
	}

	config, err := core.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	brand, err := core.LoadBrand(config.BrandConfigPath)
	if err != nil {
		logger.Fatal("Failed to load brand configuration",
			zap.String("path", config.BrandConfigPath), zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("brand", brand.Name),
		zap.String("content_model", config.PrimaryModel),
		zap.String("content_fallback_model", config.SecondaryModel),
		zap.String("image_model", config.ImageModel),
		zap.String("sendy_base_url", config.SendyBaseURL),
		zap.Bool("sendy_configured", config.HasSendyCredential()),
		zap.String("images_dir", config.ImagesDir),
		zap.String("templates_dir", config.TemplatesDir),
		zap.Duration("ai_timeout", config.AITimeout),
		zap.Duration("dispatch_timeout", config.DispatchTimeout),
		zap.Bool("dev_mode", isDevelopment),
	)

	images := storage.NewLocalStore(config.ImagesDir, config.BaseURL, "/images")
	templates := storage.NewLocalStore(config.TemplatesDir, config.BaseURL, "/templates")

	contentGen := content.NewGenerator(config, logger)
	promptGen := content.NewPromptGenerator(config, logger)

	var imageGen webui.ImageGenerator
	if gen, err := imagegen.NewGenerator(config, images, logger); err != nil {
		logger.Warn("Image generation unavailable, campaigns will render without hero images",
			zap.Error(err))
	} else {
		imageGen = gen
	}

	renderer, err := render.NewTemplateRenderer(brand)
	if err != nil {
		logger.Fatal("Failed to parse email template", zap.Error(err))
	}

	dispatcher := dispatch.NewDispatcher(config, brand, logger)

	server := webui.NewServer(config, brand, contentGen, promptGen, imageGen,
		renderer, dispatcher, images, templates, logger)

	addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // content and image generation run inline
	}

	coordinator := shutdown.NewCoordinator(logger, shutdown.WithTimeout(20*time.Second))
	coordinator.Register("http-server", 10, func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})
	coordinator.Register("log-flush", 50, func(context.Context) error {
		return logger.Sync()
	})
	coordinator.Start()

	var serverErr error
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr = err
			logger.Error("HTTP server failed", zap.Error(err))
			coordinator.Trigger()
		}
	}()

	coordinator.Wait()

	if err := coordinator.Run(); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(core.ExitCodeError)
	}
	if serverErr != nil {
		os.Exit(core.ExitCodeError)
	}

	logger.Info("Goodbye!")
}

// runStartupValidation runs the configuration validation suite before any
// work is accepted.
//
// Returns ExitCodeSuccess (0) when all checks pass, ExitCodeError (1)
// otherwise.
func runStartupValidation(logger *logging.Logger) int {
	logger.Info("Starting startup validation...")

	allowSelfSigned := os.Getenv("ALLOW_SELF_SIGNED_CERTS") == "true"

	suite := validation.NewValidationSuite().
		WithAllowSelfSignedCerts(allowSelfSigned).
		WithShowProgress(true)

	result := suite.Validate()

	if !result.Success {
		logger.Error("Configuration validation failed",
			zap.Int("passed", result.PassedSteps),
			zap.Int("failed", result.FailedSteps),
			zap.Duration("duration", result.Duration),
		)

		for _, step := range result.Steps {
			if step.Status == validation.StepFailed {
				logger.Error("Validation step failed",
					zap.String("step", step.Name),
					zap.String("message", step.Message),
					zap.Error(step.Error),
				)
			}
		}
		return core.ExitCodeError
	}

	logger.Info("Configuration validation passed",
		zap.Int("checks_passed", result.PassedSteps),
		zap.Int("warnings", result.Warnings),
		zap.Duration("duration", result.Duration),
	)
	return core.ExitCodeSuccess
}
