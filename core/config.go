package core

import (
	"crypto/tls"
	"net/http"
	"time"
)

// Config holds all configuration values for the campaign studio service.
// It is loaded once at startup from the process environment and treated as
// immutable afterwards; components receive it by injection and never read
// the environment themselves.
type Config struct {
	// OpenAI API configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Model Selection
	PrimaryModel   string // chat model for the first content attempt
	SecondaryModel string // cheaper fallback chat model
	ImageModel     string // image generation model

	// Sendy (campaign platform) configuration.
	// SendyAPIKey is optional at startup: the dispatcher rejects sends with a
	// configuration error when it is missing, but generation still works.
	SendyAPIKey  string
	SendyBaseURL string

	// Brand configuration file (YAML). Optional; built-in defaults apply.
	BrandConfigPath string

	// Artifact storage
	BaseURL      string // public base URL for locally stored artifacts
	ImagesDir    string
	TemplatesDir string

	// Server Configuration
	Host string
	Port int

	// Timeouts. Probes are short; real work gets longer budgets.
	AITimeout       time.Duration
	ProbeTimeout    time.Duration
	DispatchTimeout time.Duration
	DownloadTimeout time.Duration

	// Payload ceilings in bytes
	ResponseSizeLimit int // HTML returned to the caller
	DispatchSizeLimit int // HTML submitted to the platform
	ImageSizeLimit    int // encoded hero image

	AllowSelfSignedCerts bool
}

// Default ceilings. The image ceiling exists because the artifact may end up
// inline base64 inside an HTML document with its own ceiling.
const (
	DefaultResponseSizeLimit = 800 * 1024
	DefaultDispatchSizeLimit = 1024 * 1024
	DefaultImageSizeLimit    = 300 * 1024
)

// LoadConfig loads configuration from environment variables with sensible
// defaults. Only the OpenAI API key is required; every other integration
// degrades (local storage, dispatch refused with a config error).
func LoadConfig() (*Config, error) {
	openAIKey := GetEnvOrDefault("OPENAI_API_KEY", "")
	if openAIKey == "" {
		openAIKey = GetEnvOrDefault("OPENAI_KEY", "") // legacy name
	}
	if openAIKey == "" {
		return nil, ErrMissingAuth("openai")
	}

	return &Config{
		OpenAIAPIKey:  openAIKey,
		OpenAIBaseURL: GetEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		PrimaryModel:   GetEnvOrDefault("CONTENT_MODEL", "gpt-4"),
		SecondaryModel: GetEnvOrDefault("CONTENT_FALLBACK_MODEL", "gpt-3.5-turbo"),
		ImageModel:     GetEnvOrDefault("IMAGE_GEN_MODEL", "dall-e-3"),

		SendyAPIKey:  GetEnvOrDefault("SENDY_API_KEY", ""),
		SendyBaseURL: GetEnvOrDefault("SENDY_BASE_URL", "https://kemis.net/sendy"),

		BrandConfigPath: GetEnvOrDefault("BRAND_CONFIG", ""),

		BaseURL:      GetEnvOrDefault("BASE_URL", ""),
		ImagesDir:    GetEnvOrDefault("IMAGES_DIR", "./images"),
		TemplatesDir: GetEnvOrDefault("TEMPLATES_DIR", "./templates"),

		Host: GetEnvOrDefault("HOST", "0.0.0.0"),
		Port: ParseIntEnv("PORT", 5000),

		AITimeout:       ParseDurationEnv("AI_TIMEOUT", 60),
		ProbeTimeout:    ParseDurationEnv("PROBE_TIMEOUT", 10),
		DispatchTimeout: ParseDurationEnv("DISPATCH_TIMEOUT", 30),
		DownloadTimeout: ParseDurationEnv("DOWNLOAD_TIMEOUT", 60),

		ResponseSizeLimit: ParseIntEnv("RESPONSE_SIZE_LIMIT", DefaultResponseSizeLimit),
		DispatchSizeLimit: ParseIntEnv("DISPATCH_SIZE_LIMIT", DefaultDispatchSizeLimit),
		ImageSizeLimit:    ParseIntEnv("IMAGE_SIZE_LIMIT", DefaultImageSizeLimit),

		AllowSelfSignedCerts: ParseBoolEnv("ALLOW_SELF_SIGNED_CERTS", false),
	}, nil
}

// HasSendyCredential reports whether a dispatch credential is configured.
func (c *Config) HasSendyCredential() bool {
	return c.SendyAPIKey != ""
}

// GetHTTPClient returns an HTTP client with the given timeout and the TLS
// settings from config. All outbound HTTP goes through clients built here so
// the self-signed-certificate setting is respected everywhere.
func GetHTTPClient(cfg *Config, timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
	}

	if cfg != nil && cfg.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return client
}

// GetDefaultHTTPClient returns an HTTP client with a 30s timeout.
func GetDefaultHTTPClient(cfg *Config) *http.Client {
	return GetHTTPClient(cfg, 30*time.Second)
}
