package webui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/salutethegenius/kemis-studio-stable/content"
	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/core/validation"
	"github.com/salutethegenius/kemis-studio-stable/dispatch"
	"github.com/salutethegenius/kemis-studio-stable/imagegen"
	"github.com/salutethegenius/kemis-studio-stable/sizeguard"
	"github.com/salutethegenius/kemis-studio-stable/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Hero image sources for POST /generate.
const (
	ImageOptionAI     = "ai"
	ImageOptionUpload = "upload"
	ImageOptionNone   = "none"
)

// generateRequest is the payload for POST /generate.
type generateRequest struct {
	Prompt       string `json:"prompt"`
	CampaignName string `json:"campaign_name,omitempty"`

	// ImageOption selects the hero image source: "ai" (default),
	// "upload", or "none".
	ImageOption string `json:"image_option,omitempty"`

	// ImageData holds uploaded images as base64 data URIs, used with the
	// "upload" option.
	ImageData []string `json:"image_data,omitempty"`

	// CTALink overrides the generated call-to-action URL.
	CTALink string `json:"cta_link,omitempty"`

	// SuppressPreheader leaves the hidden preview text empty.
	SuppressPreheader bool `json:"suppress_preheader,omitempty"`
}

type generateResponse struct {
	Success     bool                     `json:"success"`
	Content     *content.CampaignContent `json:"content"`
	HTML        string                   `json:"html"`
	ImageRefs   []string                 `json:"image_refs,omitempty"`
	TemplateURL string                   `json:"template_url,omitempty"`
}

// handleGenerate runs the full pipeline: copy, image prompt, hero image,
// HTML render, size constraint, template persistence.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	imageOption := req.ImageOption
	if imageOption == "" {
		imageOption = ImageOptionAI
	}
	switch imageOption {
	case ImageOptionAI, ImageOptionUpload, ImageOptionNone:
	default:
		writeError(w, http.StatusBadRequest, "image_option must be ai, upload, or none")
		return
	}

	ctx := r.Context()
	c := s.contentGen.GenerateContent(ctx, req.Prompt)

	if req.CTALink != "" {
		c.CTAURL = req.CTALink
	}
	if req.SuppressPreheader {
		c.Preheader = " " // a space renders as empty preview text
	}

	baseName := Slugify(req.CampaignName)
	if baseName == "" {
		baseName = uuid.New().String()
	}

	var imageRefs []string
	switch imageOption {
	case ImageOptionAI:
		if s.imageGen != nil {
			prompt := s.promptGen.GenerateImagePrompt(ctx, c)
			if artifact := s.imageGen.GenerateNamed(ctx, prompt, baseName); artifact != nil {
				imageRefs = append(imageRefs, artifact.Ref())
			}
		}
	case ImageOptionUpload:
		refs, err := s.storeUploads(baseName, req.ImageData)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		imageRefs = refs
	}

	html, err := s.renderer.Render(c, imageRefs)
	if err != nil {
		s.log.Error("render failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render template")
		return
	}

	html, err = sizeguard.Constrain(html, s.cfg.ResponseSizeLimit)
	if err != nil {
		s.writeOversize(w, err)
		return
	}

	resp := generateResponse{
		Success:   true,
		Content:   c,
		HTML:      html,
		ImageRefs: imageRefs,
	}

	if s.templates != nil {
		url, err := s.templates.Save(baseName+".html", []byte(html))
		if err != nil {
			s.log.Warn("template save failed", zap.String("name", baseName), zap.Error(err))
		} else {
			resp.TemplateURL = url
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// storeUploads decodes uploaded data URIs and persists them to the image
// store. Unsupported or undecodable uploads reject the whole request.
// When persistence fails the image falls back to inline embedding.
func (s *Server) storeUploads(baseName string, uploads []string) ([]string, error) {
	if len(uploads) == 0 {
		return nil, errors.New("image_data is required with the upload option")
	}

	var refs []string
	for i, uri := range uploads {
		artifact, err := imagegen.ParseDataURI(uri)
		if err != nil {
			return nil, fmt.Errorf("image_data[%d] is not a valid image data URI", i)
		}
		ext := artifact.Ext()
		if ext == "" {
			return nil, fmt.Errorf("image_data[%d] has unsupported type %s", i, artifact.MIME)
		}

		ref := artifact.DataURI()
		if s.images != nil {
			name := fmt.Sprintf("%s-%d%s", baseName, i+1, ext)
			if url, err := s.images.Save(name, artifact.Data); err != nil {
				s.log.Warn("upload save failed, embedding inline",
					zap.String("name", name), zap.Error(err))
			} else {
				ref = url
			}
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// previewRequest re-renders edited content without regenerating anything.
type previewRequest struct {
	Content   *content.CampaignContent `json:"content"`
	ImageRefs []string                 `json:"image_refs,omitempty"`
	CTALink   string                   `json:"cta_link,omitempty"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	if req.CTALink != "" {
		req.Content.CTAURL = req.CTALink
	}

	html, err := s.renderer.Render(req.Content, req.ImageRefs)
	if err != nil {
		s.log.Error("preview render failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render template")
		return
	}

	html, err = sizeguard.Constrain(html, s.cfg.ResponseSizeLimit)
	if err != nil {
		s.writeOversize(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"html":    html,
	})
}

// sendRequest is the payload for POST /campaigns/send.
type sendRequest struct {
	Content *content.CampaignContent `json:"content"`
	HTML    string                   `json:"html"`
	ListIDs []string                 `json:"list_ids,omitempty"`

	// SendOption is "draft", "send_now", or "schedule".
	SendOption string `json:"send_option,omitempty"`

	// ScheduledAt is a Unix timestamp, required for "schedule".
	ScheduledAt int64 `json:"scheduled_at,omitempty"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Content == nil || req.HTML == "" {
		writeError(w, http.StatusBadRequest, "content and html are required")
		return
	}

	option := dispatch.SendOption(req.SendOption)
	switch option {
	case dispatch.OptionSendNow, dispatch.OptionSchedule:
	case "", dispatch.OptionDraft:
		option = dispatch.OptionDraft
	default:
		writeError(w, http.StatusBadRequest, "send_option must be draft, send_now, or schedule")
		return
	}
	if option == dispatch.OptionSchedule && req.ScheduledAt == 0 {
		writeError(w, http.StatusBadRequest, "scheduled_at is required for scheduled sends")
		return
	}

	html, err := sizeguard.Constrain(req.HTML, s.cfg.DispatchSizeLimit)
	if err != nil {
		s.writeOversize(w, err)
		return
	}

	result, err := s.dispatcher.Send(r.Context(), &dispatch.Request{
		Content:     req.Content,
		HTML:        html,
		ListIDs:     req.ListIDs,
		Option:      option,
		ScheduledAt: time.Unix(req.ScheduledAt, 0),
	})
	if err != nil {
		s.writeDispatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// testSendRequest is the payload for POST /campaigns/test.
type testSendRequest struct {
	Content *content.CampaignContent `json:"content"`
	HTML    string                   `json:"html"`
	Email   string                   `json:"email"`
}

func (s *Server) handleTestSend(w http.ResponseWriter, r *http.Request) {
	var req testSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Content == nil || req.HTML == "" {
		writeError(w, http.StatusBadRequest, "content and html are required")
		return
	}
	if !IsValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "a valid email address is required")
		return
	}

	html, err := sizeguard.Constrain(req.HTML, s.cfg.DispatchSizeLimit)
	if err != nil {
		s.writeOversize(w, err)
		return
	}

	result, err := s.dispatcher.Send(r.Context(), &dispatch.Request{
		Content:   req.Content,
		HTML:      html,
		Option:    dispatch.OptionSendNow,
		TestEmail: req.Email,
	})
	if err != nil {
		s.writeDispatchError(w, err)
		return
	}

	if result.Success {
		result.Message = "Test email sent. Check " + req.Email + " for delivery."
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.dispatcher.FetchLists(r.Context())
	if err != nil {
		s.writeDispatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"lists":   lists,
	})
}

// handleVerifyConfig reports which integrations are configured without
// exposing any credential material. When dispatch is configured it also
// probes the Sendy installation.
func (s *Server) handleVerifyConfig(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"success":           true,
		"openai_configured": s.cfg.OpenAIAPIKey != "",
		"sendy_configured":  s.cfg.HasSendyCredential(),
		"sendy_base_url":    s.cfg.SendyBaseURL,
		"image_generation":  s.imageGen != nil,
		"brand":             s.brand.Name,
	}

	if s.cfg.HasSendyCredential() {
		checker := validation.NewConnectivityChecker().
			WithTimeout(s.cfg.ProbeTimeout).
			WithAllowSelfSignedCerts(s.cfg.AllowSelfSignedCerts)
		result := checker.CheckSendyConnectivity(s.cfg.SendyBaseURL)
		resp["sendy_reachable"] = result.Reachable
		if result.Reachable {
			resp["sendy_latency_ms"] = result.Latency.Milliseconds()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	s.serveStored(w, r, s.images, map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
	})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	s.serveStored(w, r, s.templates, map[string]string{
		".html": "text/html; charset=utf-8",
	})
}

// serveStored serves an asset from a local store, restricted to known
// extensions. Names are sanitized against path traversal.
func (s *Server) serveStored(w http.ResponseWriter, r *http.Request, store *storage.LocalStore, types map[string]string) {
	if store == nil {
		http.NotFound(w, r)
		return
	}

	name := storage.SanitizeName(chi.URLParam(r, "name"))
	contentType, ok := types[strings.ToLower(path.Ext(name))]
	if name == "" || !ok {
		http.NotFound(w, r)
		return
	}

	data, err := store.Read(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.Error("asset read failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// writeOversize maps a sizeguard failure to 413.
func (s *Server) writeOversize(w http.ResponseWriter, err error) {
	var oversize *sizeguard.OversizeError
	if errors.As(err, &oversize) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]interface{}{
			"success": false,
			"error":   oversize.Error(),
			"size":    oversize.Size,
			"limit":   oversize.Limit,
		})
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// writeDispatchError maps configuration errors to a response that tells the
// operator what to fix.
func (s *Server) writeDispatchError(w http.ResponseWriter, err error) {
	var cfgErr *core.ConfigError
	if errors.As(err, &cfgErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   cfgErr.Message,
			"code":    cfgErr.Code,
			"action":  cfgErr.Action,
		})
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}
