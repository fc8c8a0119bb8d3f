package imagegen

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/salutethegenius/kemis-studio-stable/logging"
)

type stubProvider struct {
	url string
	err error
}

func (s *stubProvider) Generate(_ context.Context, _ string) (string, error) {
	return s.url, s.err
}

type memStore struct {
	saved map[string][]byte
	err   error
}

func (m *memStore) Save(name string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[name] = data
	return "https://cdn.example.com/" + name, nil
}

// imageServer serves a valid 1024x1024 PNG.
func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	png := makePNG(t, 1024, 1024, color.RGBA{R: 30, G: 60, B: 120, A: 255})
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
}

func TestGenerateNamed_FullPipeline(t *testing.T) {
	server := imageServer(t)
	defer server.Close()

	store := &memStore{}
	g := NewGeneratorWithParts(
		&stubProvider{url: server.URL},
		NewDownloaderWithClient(server.Client()),
		NewProcessor(300*1024),
		store,
		logging.NewTestLogger(),
	)

	artifact := g.GenerateNamed(context.Background(), "beach scene", "summer-sale")
	if artifact == nil {
		t.Fatal("expected artifact, got nil")
	}
	if artifact.URL != "https://cdn.example.com/summer-sale.jpg" {
		t.Errorf("URL = %q", artifact.URL)
	}
	if _, ok := store.saved["summer-sale.jpg"]; !ok {
		t.Error("expected image saved to store")
	}
	if artifact.Ref() != artifact.URL {
		t.Errorf("Ref() should prefer URL, got %q", artifact.Ref())
	}
}

func TestGenerateNamed_NoStoreEmbedsInline(t *testing.T) {
	server := imageServer(t)
	defer server.Close()

	g := NewGeneratorWithParts(
		&stubProvider{url: server.URL},
		NewDownloaderWithClient(server.Client()),
		NewProcessor(300*1024),
		nil,
		logging.NewTestLogger(),
	)

	artifact := g.Generate(context.Background(), "beach scene")
	if artifact == nil {
		t.Fatal("expected artifact, got nil")
	}
	if artifact.URL != "" {
		t.Errorf("URL = %q, want empty without store", artifact.URL)
	}
	if !strings.HasPrefix(artifact.Ref(), "data:image/jpeg;base64,") {
		t.Errorf("Ref() = %q, want data URI", artifact.Ref()[:40])
	}
}

func TestGenerateNamed_ProviderFailureReturnsNil(t *testing.T) {
	g := NewGeneratorWithParts(
		&stubProvider{err: errors.New("rate limit exceeded")},
		NewDownloaderWithClient(http.DefaultClient),
		NewProcessor(300*1024),
		nil,
		logging.NewTestLogger(),
	)

	if got := g.Generate(context.Background(), "x"); got != nil {
		t.Errorf("expected nil artifact, got %+v", got)
	}
}

func TestGenerateNamed_DownloadFailureReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	g := NewGeneratorWithParts(
		&stubProvider{url: server.URL},
		NewDownloaderWithClient(server.Client()),
		NewProcessor(300*1024),
		nil,
		logging.NewTestLogger(),
	)

	if got := g.Generate(context.Background(), "x"); got != nil {
		t.Errorf("expected nil artifact, got %+v", got)
	}
}

func TestGenerateNamed_OversizeReturnsNil(t *testing.T) {
	server := imageServer(t)
	defer server.Close()

	g := NewGeneratorWithParts(
		&stubProvider{url: server.URL},
		NewDownloaderWithClient(server.Client()),
		NewProcessor(10), // nothing fits
		nil,
		logging.NewTestLogger(),
	)

	if got := g.Generate(context.Background(), "x"); got != nil {
		t.Errorf("expected nil artifact, got %+v", got)
	}
}

func TestGenerateNamed_StoreFailureFallsBackInline(t *testing.T) {
	server := imageServer(t)
	defer server.Close()

	g := NewGeneratorWithParts(
		&stubProvider{url: server.URL},
		NewDownloaderWithClient(server.Client()),
		NewProcessor(300*1024),
		&memStore{err: errors.New("disk full")},
		logging.NewTestLogger(),
	)

	artifact := g.GenerateNamed(context.Background(), "x", "promo")
	if artifact == nil {
		t.Fatal("store failure should not lose the image")
	}
	if artifact.URL != "" {
		t.Errorf("URL = %q, want empty after store failure", artifact.URL)
	}
}
