package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/salutethegenius/kemis-studio-stable/core"
)

// Downloader fetches generated images from their temporary URLs.
//
// Thread Safety: Downloader is safe for concurrent use.
// Each download creates its own HTTP request.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a downloader using the HTTP and TLS settings from
// the service configuration.
func NewDownloader(cfg *core.Config) *Downloader {
	return &Downloader{
		client: core.GetHTTPClient(cfg, cfg.DownloadTimeout),
	}
}

// NewDownloaderWithClient creates a downloader with an explicit HTTP client.
// Used in tests.
func NewDownloaderWithClient(client *http.Client) *Downloader {
	return &Downloader{client: client}
}

// DownloadBytes downloads an image and returns the raw bytes.
// Any non-200 response is an error.
func (d *Downloader) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("imagegen: URL cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("imagegen: failed to create download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagegen: failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagegen: download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("imagegen: failed to read image data: %w", err)
	}

	return data, nil
}
