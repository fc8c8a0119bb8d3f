package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeMissingAuth         = "MISSING_AUTH"
	ErrCodeMissingConfig       = "MISSING_CONFIG"
	ErrCodeInvalidPlatformURL  = "INVALID_PLATFORM_URL"
	ErrCodePlatformUnreachable = "PLATFORM_UNREACHABLE"
)

// ErrMissingAuth returns an error for missing authentication credentials.
func ErrMissingAuth(service string) *ConfigError {
	var action string
	switch service {
	case "openai":
		action = "Set OPENAI_API_KEY in your .env file"
	case "sendy":
		action = "Set SENDY_API_KEY in your .env file to enable campaign dispatch"
	default:
		action = fmt.Sprintf("Set the required API key for %s in your .env file", service)
	}
	return &ConfigError{
		Code:    ErrCodeMissingAuth,
		Message: fmt.Sprintf("Missing authentication credentials for %s", service),
		Action:  action,
	}
}

// ErrMissingConfig returns an error for missing required configuration.
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file", varName),
	}
}

// ErrInvalidPlatformURL returns an error for a malformed platform base URL.
func ErrInvalidPlatformURL(url string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidPlatformURL,
		Message: fmt.Sprintf("Invalid SENDY_BASE_URL '%s': %s", url, reason),
		Action:  "Set SENDY_BASE_URL to the root of your Sendy installation (e.g., https://example.com/sendy)",
	}
}

// ErrPlatformUnreachable returns an error when the campaign platform cannot be reached.
func ErrPlatformUnreachable(url string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodePlatformUnreachable,
		Message: fmt.Sprintf("Cannot connect to campaign platform at %s: %s", url, reason),
		Action:  "Check that SENDY_BASE_URL is correct and the server is running. For self-signed certificates, set ALLOW_SELF_SIGNED_CERTS=true",
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	if configErr, ok := err.(*ConfigError); ok {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError.
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
