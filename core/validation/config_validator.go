package validation

import (
	"strings"

	"github.com/salutethegenius/kemis-studio-stable/core"
)

// ValidationResult represents the outcome of a single configuration check.
// Warning marks a check that passed but deserves operator attention.
type ValidationResult struct {
	Valid   bool
	Warning bool
	Message string
	Error   error
}

// ConfigValidator checks the environment this service starts from: the
// OpenAI credential the content pipeline requires, the optional Sendy
// dispatch configuration, and the asset directories.
type ConfigValidator struct {
	envPath string
}

// NewConfigValidator creates a ConfigValidator with default settings.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{envPath: ".env"}
}

// WithEnvPath sets a custom path for the .env file.
func (v *ConfigValidator) WithEnvPath(path string) *ConfigValidator {
	v.envPath = path
	return v
}

// CheckEnvFile reports whether a .env file is present. A missing file is a
// warning, not a failure: containerized deployments pass configuration
// through the process environment.
func (v *ConfigValidator) CheckEnvFile() ValidationResult {
	if err := CheckFileExists(v.envPath); err != nil {
		return ValidationResult{
			Valid:   true,
			Warning: true,
			Message: "No " + v.envPath + " file found, using process environment",
		}
	}
	return ValidationResult{
		Valid:   true,
		Message: "Environment file found",
	}
}

// CheckOpenAIKey validates the OPENAI_API_KEY environment variable. The
// service cannot generate campaign content without it.
func (v *ConfigValidator) CheckOpenAIKey() ValidationResult {
	key := core.GetEnvOrDefault("OPENAI_API_KEY", "")
	if key == "" {
		key = core.GetEnvOrDefault("OPENAI_KEY", "")
	}

	if key == "" {
		return ValidationResult{
			Valid:   false,
			Message: "OPENAI_API_KEY required. Content and image generation need an OpenAI credential.",
			Error:   core.ErrMissingAuth("openai"),
		}
	}
	if !looksLikeOpenAIKey(key) {
		return ValidationResult{
			Valid:   true,
			Warning: true,
			Message: "OPENAI_API_KEY does not look like an OpenAI secret key",
		}
	}
	return ValidationResult{
		Valid:   true,
		Message: "OpenAI credential configured",
	}
}

// CheckSendyConfig validates the Sendy dispatch configuration. Dispatch is
// an optional integration, so a missing credential only warns; a malformed
// base URL fails because every dispatch attempt would be wasted.
func (v *ConfigValidator) CheckSendyConfig() ValidationResult {
	apiKey := core.GetEnvOrDefault("SENDY_API_KEY", "")
	baseURL := core.GetEnvOrDefault("SENDY_BASE_URL", "")

	if apiKey == "" {
		return ValidationResult{
			Valid:   true,
			Warning: true,
			Message: "SENDY_API_KEY not set, campaign dispatch disabled",
		}
	}
	if baseURL != "" {
		if err := ValidateBaseURL(baseURL); err != nil {
			return ValidationResult{
				Valid:   false,
				Message: "Invalid Sendy base URL: " + baseURL,
				Error:   core.ErrInvalidPlatformURL(baseURL, err.Error()),
			}
		}
	}
	return ValidationResult{
		Valid:   true,
		Message: "Sendy dispatch configured",
	}
}

// CheckStorageDirs ensures the image and template directories are writable.
func (v *ConfigValidator) CheckStorageDirs() ValidationResult {
	dirs := []string{
		core.GetEnvOrDefault("IMAGES_DIR", "./images"),
		core.GetEnvOrDefault("TEMPLATES_DIR", "./templates"),
	}

	var failures []string
	var firstErr error
	for _, dir := range dirs {
		if err := CheckDirWritable(dir); err != nil {
			failures = append(failures, dir)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if len(failures) > 0 {
		return ValidationResult{
			Valid:   false,
			Message: "Asset directories not writable: " + strings.Join(failures, ", "),
			Error:   firstErr,
		}
	}
	return ValidationResult{
		Valid:   true,
		Message: "Asset directories writable",
	}
}
