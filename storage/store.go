// Package storage persists generated campaign assets (images, rendered
// templates) and hands back the public URL templates should reference.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a requested asset does not exist.
var ErrNotFound = errors.New("storage: asset not found")

// Store persists an asset and returns its public URL.
type Store interface {
	Save(name string, data []byte) (string, error)
}

// LocalStore writes assets to a directory on the local filesystem.
//
// Public URLs are built from BaseURL when configured; otherwise a relative
// path is returned so the embedded file server can resolve it.
type LocalStore struct {
	// Dir is the directory assets are written into. Created on first save.
	Dir string

	// BaseURL is the externally reachable address of this service, without
	// a trailing slash. Empty means relative URLs.
	BaseURL string

	// URLPrefix is the path under which the directory is served,
	// e.g. "/images". Defaults to "/" + filepath.Base(Dir).
	URLPrefix string
}

// NewLocalStore creates a LocalStore serving dir under urlPrefix.
func NewLocalStore(dir, baseURL, urlPrefix string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: baseURL, URLPrefix: urlPrefix}
}

// Save writes the asset and returns its public URL. The name is flattened
// to its base component so callers cannot escape the storage directory.
func (s *LocalStore) Save(name string, data []byte) (string, error) {
	safe := SanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("storage: invalid asset name %q", name)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: failed to create directory: %w", err)
	}

	path := filepath.Join(s.Dir, safe)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: failed to write asset: %w", err)
	}

	return s.publicURL(safe), nil
}

// Read returns a stored asset's bytes.
func (s *LocalStore) Read(name string) ([]byte, error) {
	safe := SanitizeName(name)
	if safe == "" {
		return nil, fmt.Errorf("storage: invalid asset name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, safe))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: failed to read asset: %w", err)
	}
	return data, nil
}

func (s *LocalStore) publicURL(name string) string {
	prefix := s.URLPrefix
	if prefix == "" {
		prefix = "/" + filepath.Base(s.Dir)
	}
	prefix = "/" + strings.Trim(prefix, "/")

	if s.BaseURL == "" {
		return prefix + "/" + name
	}
	return strings.TrimRight(s.BaseURL, "/") + prefix + "/" + name
}

// SanitizeName strips any path components and rejects names that would
// resolve outside the storage directory.
func SanitizeName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// Chain tries each store in order, returning the first successful save.
// It mirrors a preferred-remote-then-local fallback arrangement.
type Chain struct {
	stores []Store
}

// NewChain creates a Chain over the given stores.
func NewChain(stores ...Store) *Chain {
	return &Chain{stores: stores}
}

// Save attempts each store in order. All errors are joined if every store
// fails.
func (c *Chain) Save(name string, data []byte) (string, error) {
	if len(c.stores) == 0 {
		return "", errors.New("storage: chain has no stores")
	}

	var errs []error
	for _, store := range c.stores {
		url, err := store.Save(name, data)
		if err == nil {
			return url, nil
		}
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}

var (
	_ Store = (*LocalStore)(nil)
	_ Store = (*Chain)(nil)
)
