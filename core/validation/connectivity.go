package validation

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/salutethegenius/kemis-studio-stable/core"
)

// ConnectivityResult represents the result of a connectivity check.
type ConnectivityResult struct {
	Reachable  bool
	StatusCode int
	Message    string
	Latency    time.Duration
	Error      error
}

// ConnectivityChecker verifies that the configured Sendy installation
// answers HTTP requests before the service accepts dispatch work.
type ConnectivityChecker struct {
	timeout              time.Duration
	allowSelfSignedCerts bool
}

// NewConnectivityChecker creates a ConnectivityChecker with a 10 second
// timeout.
func NewConnectivityChecker() *ConnectivityChecker {
	return &ConnectivityChecker{timeout: 10 * time.Second}
}

// WithTimeout sets the timeout for connectivity checks. Non-positive
// values keep the default.
func (c *ConnectivityChecker) WithTimeout(timeout time.Duration) *ConnectivityChecker {
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

// WithAllowSelfSignedCerts configures whether to allow self-signed certificates.
func (c *ConnectivityChecker) WithAllowSelfSignedCerts(allow bool) *ConnectivityChecker {
	c.allowSelfSignedCerts = allow
	return c
}

// CheckSendyConnectivity performs a GET against the Sendy base URL. Any
// HTTP response counts as reachable: Sendy serves its login page on the
// root path, so a 2xx, 3xx, or even 4xx still proves the host is up.
func (c *ConnectivityChecker) CheckSendyConnectivity(baseURL string) ConnectivityResult {
	if err := ValidateBaseURL(baseURL); err != nil {
		return ConnectivityResult{
			Reachable: false,
			Message:   "Invalid URL format",
			Error:     core.ErrInvalidPlatformURL(baseURL, err.Error()),
		}
	}

	client := &http.Client{Timeout: c.timeout}
	if c.allowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/", nil)
	if err != nil {
		return ConnectivityResult{
			Reachable: false,
			Message:   "Failed to build request",
			Error:     err,
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return ConnectivityResult{
			Reachable: false,
			Message:   "Sendy installation not reachable",
			Latency:   latency,
			Error:     core.ErrPlatformUnreachable(baseURL, err.Error()),
		}
	}
	defer resp.Body.Close()

	return ConnectivityResult{
		Reachable:  true,
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("Sendy responded with HTTP %d", resp.StatusCode),
		Latency:    latency,
	}
}
