package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/salutethegenius/kemis-studio-stable/content"
	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/dispatch"
	"github.com/salutethegenius/kemis-studio-stable/imagegen"
	"github.com/salutethegenius/kemis-studio-stable/logging"
	"github.com/salutethegenius/kemis-studio-stable/render"
	"github.com/salutethegenius/kemis-studio-stable/storage"
)

type stubContentGen struct{}

func (stubContentGen) GenerateContent(_ context.Context, prompt string) *content.CampaignContent {
	return content.FallbackContent(prompt)
}

type stubPromptGen struct{ calls int }

func (s *stubPromptGen) GenerateImagePrompt(context.Context, *content.CampaignContent) string {
	s.calls++
	return "a tropical storefront"
}

type stubImageGen struct {
	calls    int
	lastName string
	artifact *imagegen.Artifact
}

func (s *stubImageGen) GenerateNamed(_ context.Context, _, baseName string) *imagegen.Artifact {
	s.calls++
	s.lastName = baseName
	return s.artifact
}

type stubDispatcher struct {
	lastReq *dispatch.Request
	result  *dispatch.Result
	err     error
	lists   []dispatch.List
}

func (s *stubDispatcher) Send(_ context.Context, req *dispatch.Request) (*dispatch.Result, error) {
	s.lastReq = req
	return s.result, s.err
}

func (s *stubDispatcher) FetchLists(context.Context) ([]dispatch.List, error) {
	return s.lists, s.err
}

type serverFixture struct {
	server     *Server
	promptGen  *stubPromptGen
	imageGen   *stubImageGen
	dispatcher *stubDispatcher
	images     *storage.LocalStore
	templates  *storage.LocalStore
}

func newFixture(t *testing.T) *serverFixture {
	t.Helper()

	cfg := &core.Config{
		OpenAIAPIKey:      "sk-test",
		SendyAPIKey:       "sendykey",
		SendyBaseURL:      "https://kemis.net/sendy",
		ResponseSizeLimit: core.DefaultResponseSizeLimit,
		DispatchSizeLimit: core.DefaultDispatchSizeLimit,
	}
	brand := core.DefaultBrand()

	renderer, err := render.NewTemplateRenderer(brand)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	f := &serverFixture{
		promptGen: &stubPromptGen{},
		imageGen: &stubImageGen{
			artifact: &imagegen.Artifact{URL: "https://start.kemis.net/images/x.jpg"},
		},
		dispatcher: &stubDispatcher{result: &dispatch.Result{Success: true}},
		images:     storage.NewLocalStore(t.TempDir(), "", "/images"),
		templates:  storage.NewLocalStore(t.TempDir(), "", "/templates"),
	}
	f.server = NewServer(cfg, brand, stubContentGen{}, f.promptGen, f.imageGen,
		renderer, f.dispatcher, f.images, f.templates, logging.NewTestLogger())
	return f
}

func (f *serverFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return body
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestGenerate_FullPipeline(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/generate", generateRequest{
		Prompt:       "50% off island tours",
		CampaignName: "Island Tours Promo",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}

	html, _ := body["html"].(string)
	if !strings.Contains(html, "50% off island tours") {
		t.Error("html missing campaign copy")
	}
	if !strings.Contains(html, "https://start.kemis.net/images/x.jpg") {
		t.Error("html missing hero image ref")
	}

	if f.promptGen.calls != 1 || f.imageGen.calls != 1 {
		t.Errorf("prompt calls = %d, image calls = %d, want 1 each", f.promptGen.calls, f.imageGen.calls)
	}
	if f.imageGen.lastName != "island-tours-promo" {
		t.Errorf("image base name = %q, want campaign slug", f.imageGen.lastName)
	}

	if tmpl, _ := body["template_url"].(string); tmpl != "/templates/island-tours-promo.html" {
		t.Errorf("template_url = %q", tmpl)
	}
	if _, err := f.templates.Read("island-tours-promo.html"); err != nil {
		t.Errorf("template not persisted: %v", err)
	}
}

func TestGenerate_ImageOptionNone(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/generate", generateRequest{
		Prompt:      "promo",
		ImageOption: ImageOptionNone,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.imageGen.calls != 0 || f.promptGen.calls != 0 {
		t.Error("image pipeline should be skipped")
	}
}

func TestGenerate_ImageOptionUpload(t *testing.T) {
	f := newFixture(t)
	upload := &imagegen.Artifact{Data: []byte("fake png bytes"), MIME: "image/png"}

	rec := f.do(t, http.MethodPost, "/generate", generateRequest{
		Prompt:       "promo",
		CampaignName: "Upload Promo",
		ImageOption:  ImageOptionUpload,
		ImageData:    []string{upload.DataURI()},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if f.imageGen.calls != 0 {
		t.Error("AI image pipeline should not run for uploads")
	}

	body := decodeBody(t, rec)
	refs, _ := body["image_refs"].([]interface{})
	if len(refs) != 1 || refs[0] != "/images/upload-promo-1.png" {
		t.Errorf("image_refs = %v", body["image_refs"])
	}
	if _, err := f.images.Read("upload-promo-1.png"); err != nil {
		t.Errorf("upload not persisted: %v", err)
	}
}

func TestGenerate_ImageOptionUpload_Invalid(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/generate", generateRequest{
		Prompt:      "promo",
		ImageOption: ImageOptionUpload,
		ImageData:   []string{"not-a-data-uri"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/generate", generateRequest{
		Prompt:      "promo",
		ImageOption: ImageOptionUpload,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without image_data", rec.Code)
	}
}

func TestGenerate_InvalidImageOption(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/generate", generateRequest{
		Prompt:      "promo",
		ImageOption: "gallery",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerate_CTAOverride(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/generate", generateRequest{
		Prompt:  "promo",
		CTALink: "https://example.com/landing",
	})

	body := decodeBody(t, rec)
	html, _ := body["html"].(string)
	if !strings.Contains(html, "https://example.com/landing") {
		t.Error("custom CTA link not applied")
	}
}

func TestGenerate_MissingPrompt(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/generate", generateRequest{})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerate_ImageFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.imageGen.artifact = nil // pipeline failure yields nil

	rec := f.do(t, http.MethodPost, "/generate", generateRequest{Prompt: "promo"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("campaign should succeed without an image")
	}
	if _, hasRefs := body["image_refs"]; hasRefs {
		t.Error("image_refs should be omitted when generation fails")
	}
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/preview", previewRequest{
		Content:   content.FallbackContent("edited promo"),
		ImageRefs: []string{"https://start.kemis.net/images/x.jpg"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	html, _ := body["html"].(string)
	if !strings.Contains(html, "edited promo") {
		t.Error("preview html missing content")
	}
}

func TestPreview_MissingContent(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/preview", previewRequest{})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSend_Draft(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/campaigns/send", sendRequest{
		Content: content.FallbackContent("x"),
		HTML:    "<html>x</html>",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.dispatcher.lastReq.Option != dispatch.OptionDraft {
		t.Errorf("option = %q, want draft default", f.dispatcher.lastReq.Option)
	}
}

func TestSend_InvalidOption(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/campaigns/send", sendRequest{
		Content:    content.FallbackContent("x"),
		HTML:       "<html>x</html>",
		SendOption: "blast",
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSend_ScheduleRequiresTimestamp(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/campaigns/send", sendRequest{
		Content:    content.FallbackContent("x"),
		HTML:       "<html>x</html>",
		SendOption: "schedule",
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSend_OversizePayload(t *testing.T) {
	f := newFixture(t)
	f.server.cfg.DispatchSizeLimit = 100

	rec := f.do(t, http.MethodPost, "/campaigns/send", sendRequest{
		Content: content.FallbackContent("x"),
		HTML:    strings.Repeat("z", 500),
	})

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["limit"] != float64(100) {
		t.Errorf("limit = %v", body["limit"])
	}
}

func TestSend_ConfigErrorSurfaced(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.err = core.ErrMissingAuth("sendy")
	f.dispatcher.result = nil

	rec := f.do(t, http.MethodPost, "/campaigns/send", sendRequest{
		Content: content.FallbackContent("x"),
		HTML:    "<html>x</html>",
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != core.ErrCodeMissingAuth {
		t.Errorf("code = %v", body["code"])
	}
	if action, _ := body["action"].(string); !strings.Contains(action, "SENDY_API_KEY") {
		t.Errorf("action = %q", action)
	}
}

func TestTestSend(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/campaigns/test", testSendRequest{
		Content: content.FallbackContent("x"),
		HTML:    "<html>x</html>",
		Email:   "qa@kemis.net",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.dispatcher.lastReq.TestEmail != "qa@kemis.net" {
		t.Errorf("TestEmail = %q", f.dispatcher.lastReq.TestEmail)
	}
}

func TestTestSend_InvalidEmail(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/campaigns/test", testSendRequest{
		Content: content.FallbackContent("x"),
		HTML:    "<html>x</html>",
		Email:   "not-an-email",
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLists(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.lists = []dispatch.List{{ID: "abc", Name: "Clients"}}

	rec := f.do(t, http.MethodGet, "/lists", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	lists, _ := body["lists"].([]interface{})
	if len(lists) != 1 {
		t.Errorf("lists = %v", body["lists"])
	}
}

func TestVerifyConfig(t *testing.T) {
	f := newFixture(t)

	sendy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer sendy.Close()
	f.server.cfg.SendyBaseURL = sendy.URL
	f.server.cfg.ProbeTimeout = 2 * time.Second

	rec := f.do(t, http.MethodGet, "/config/verify", nil)

	body := decodeBody(t, rec)
	if body["openai_configured"] != true || body["sendy_configured"] != true {
		t.Errorf("body = %v", body)
	}
	if body["sendy_reachable"] != true {
		t.Errorf("sendy_reachable = %v", body["sendy_reachable"])
	}
	if strings.Contains(rec.Body.String(), "sendykey") {
		t.Error("credential material leaked in config verify")
	}
}

func TestVerifyConfig_NoDispatchProbeWithoutCredential(t *testing.T) {
	f := newFixture(t)
	f.server.cfg.SendyAPIKey = ""

	rec := f.do(t, http.MethodGet, "/config/verify", nil)

	body := decodeBody(t, rec)
	if body["sendy_configured"] != false {
		t.Errorf("sendy_configured = %v", body["sendy_configured"])
	}
	if _, probed := body["sendy_reachable"]; probed {
		t.Error("connectivity should not be probed without a credential")
	}
}

func TestServeImage(t *testing.T) {
	f := newFixture(t)
	if _, err := f.images.Save("hero.jpg", []byte("jpeg-bytes")); err != nil {
		t.Fatal(err)
	}

	rec := f.do(t, http.MethodGet, "/images/hero.jpg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServeImage_UnknownExtension(t *testing.T) {
	f := newFixture(t)
	if _, err := f.images.Save("notes.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}

	rec := f.do(t, http.MethodGet, "/images/notes.txt", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown extension", rec.Code)
	}
}

func TestServeImage_Missing(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/images/nope.jpg", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServeTemplate(t *testing.T) {
	f := newFixture(t)
	if _, err := f.templates.Save("promo.html", []byte("<html></html>")); err != nil {
		t.Fatal(err)
	}

	rec := f.do(t, http.MethodGet, "/templates/promo.html", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Island Tours Promo", "island-tours-promo"},
		{"  50% OFF!!  ", "50-off"},
		{"already-slugged", "already-slugged"},
		{"***", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"qa@kemis.net", "first.last+tag@sub.example.co"}
	invalid := []string{"", "plain", "a@b", "a b@c.com"}

	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = true, want false", e)
		}
	}
}
