// Package dispatch delivers rendered campaigns to a Sendy installation.
//
// Sendy deployments differ in which API route and request encoding they
// accept, so delivery brute-forces a fixed endpoint and encoding matrix
// until one attempt succeeds. Failures produce a diagnostic with the
// endpoints tried and a reconstructed curl command for manual testing.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/salutethegenius/kemis-studio-stable/content"
	"github.com/salutethegenius/kemis-studio-stable/core"
	"github.com/salutethegenius/kemis-studio-stable/logging"

	"go.uber.org/zap"
)

// SendOption controls how Sendy treats the created campaign.
type SendOption string

const (
	// OptionDraft creates the campaign without sending.
	OptionDraft SendOption = "draft"
	// OptionSendNow creates and immediately sends the campaign.
	OptionSendNow SendOption = "send_now"
	// OptionSchedule creates the campaign with a schedule_date_time.
	OptionSchedule SendOption = "schedule"
)

// campaignTitleLimit caps how much of the subject line goes into the
// campaign title shown in Sendy's dashboard.
const campaignTitleLimit = 30

// endpointPaths are the campaign creation routes tried in order. Different
// Sendy versions and rewrite configurations expose different ones.
var endpointPaths = []string{
	"api/campaigns/create.php",
	"api/campaigns/create",
	"api/campaigns.php",
	"api/campaigns",
}

// attemptConfig is one request encoding variant.
type attemptConfig struct {
	name    string
	asJSON  bool
	headers map[string]string
}

// attemptConfigs are the encoding variants tried against each endpoint.
var attemptConfigs = []attemptConfig{
	{
		name:    "form",
		headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	},
	{
		name:    "form-bare",
		headers: map[string]string{},
	},
	{
		name: "form-browserlike",
		headers: map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
			"User-Agent":   "KemisEmail/1.0",
			"Accept":       "*/*",
		},
	},
	{
		name:    "json",
		asJSON:  true,
		headers: map[string]string{"Content-Type": "application/json"},
	},
}

// Request describes one campaign delivery.
type Request struct {
	Content *content.CampaignContent
	HTML    string

	// ListIDs are the target Sendy lists. Empty falls back to the brand's
	// default lists.
	ListIDs []string

	Option SendOption

	// ScheduledAt is the requested send time when Option is OptionSchedule.
	// It gets rounded to the nearest 5-minute mark.
	ScheduledAt time.Time

	// TestEmail, when set, turns the request into a direct test send: the
	// campaign goes only to this address, with a "[TEST] " subject prefix
	// and no lists attached.
	TestEmail string
}

// Diagnostic carries debugging details when every delivery attempt failed.
type Diagnostic struct {
	EndpointsTried []string `json:"endpoints_tried"`
	CurlCommand    string   `json:"curl_command"`
	Suggestions    []string `json:"suggestions"`
}

// Result is the outcome of a delivery.
type Result struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Response   string      `json:"response,omitempty"`
	Endpoint   string      `json:"endpoint,omitempty"`
	Error      string      `json:"error,omitempty"`
	Diagnostic *Diagnostic `json:"debug_info,omitempty"`
}

// Dispatcher sends campaigns to the configured Sendy installation.
//
// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	cfg         *core.Config
	brand       *core.Brand
	client      *http.Client
	probeClient *http.Client
	log         *logging.Logger
	now         func() time.Time
}

// NewDispatcher creates a Dispatcher from the service configuration.
func NewDispatcher(cfg *core.Config, brand *core.Brand, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:         cfg,
		brand:       brand,
		client:      core.GetHTTPClient(cfg, cfg.DispatchTimeout),
		probeClient: core.GetHTTPClient(cfg, cfg.ProbeTimeout),
		log:         log.Named("dispatch"),
		now:         time.Now,
	}
}

// Send delivers a campaign.
//
// A missing SENDY_API_KEY fails with a ConfigError before any network
// traffic. The base URL is probed first; an unreachable installation is a
// terminal failure. A credential probe against subscribers.php runs next
// but only logs its outcome. Then each endpoint is tried with each
// encoding; the first 2xx response wins.
func (d *Dispatcher) Send(ctx context.Context, req *Request) (*Result, error) {
	if !d.cfg.HasSendyCredential() {
		return nil, core.ErrMissingAuth("sendy")
	}

	if err := d.probeLiveness(ctx); err != nil {
		d.log.Error("Sendy installation unreachable", zap.Error(err))
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("Sendy installation not accessible: %v", err),
		}, nil
	}

	d.probeCredential(ctx)

	values := d.buildCampaignValues(req)

	var tried []string
	for _, path := range endpointPaths {
		endpoint := d.endpointURL(path)
		tried = append(tried, endpoint)

		for _, config := range attemptConfigs {
			status, body, err := d.attempt(ctx, endpoint, config, values)
			if err != nil {
				d.log.Warn("delivery attempt failed",
					zap.String("endpoint", endpoint),
					zap.String("config", config.name),
					zap.Error(err),
				)
				continue
			}

			if status >= 200 && status < 300 {
				d.log.Info("campaign delivered",
					zap.String("endpoint", endpoint),
					zap.String("config", config.name),
					zap.String("title", values.Get("title")),
				)
				return &Result{
					Success:  true,
					Message:  fmt.Sprintf("Successfully sent to Sendy using %s", endpoint),
					Response: body,
					Endpoint: endpoint,
				}, nil
			}

			d.log.Warn("delivery attempt rejected",
				zap.String("endpoint", endpoint),
				zap.String("config", config.name),
				zap.Int("status", status),
				zap.String("body", truncate(body, 200)),
			)
		}
	}

	d.log.Error("all Sendy endpoints and configurations failed",
		zap.Strings("endpoints", tried),
	)
	return &Result{
		Success:    false,
		Error:      "Sendy API error: all endpoints rejected the campaign. This suggests a server configuration issue. Try the curl command in debug_info to test manually.",
		Diagnostic: d.buildDiagnostic(tried),
	}, nil
}

// probeLiveness checks that the Sendy base URL answers at all.
func (d *Dispatcher) probeLiveness(ctx context.Context) error {
	probeURL := strings.TrimRight(d.cfg.SendyBaseURL, "/") + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return err
	}

	resp, err := d.probeClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	d.log.Debug("Sendy accessibility probe", zap.Int("status", resp.StatusCode))
	return nil
}

// probeCredential exercises the API key against subscribers.php. The result
// is informational only; some installations reject this route while still
// accepting campaign creation.
func (d *Dispatcher) probeCredential(ctx context.Context) {
	values := url.Values{
		"api_key": {d.cfg.SendyAPIKey},
		"list":    {d.brand.ProbeListID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.endpointURL("api/subscribers.php"),
		strings.NewReader(values.Encode()))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.probeClient.Do(req)
	if err != nil {
		d.log.Warn("API key probe failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 100))
	d.log.Debug("API key probe",
		zap.Int("status", resp.StatusCode),
		zap.String("body", string(body)),
	)
}

// buildCampaignValues assembles the Sendy campaign form fields.
func (d *Dispatcher) buildCampaignValues(req *Request) url.Values {
	now := d.now()
	subject := req.Content.SubjectLine
	title := truncate(subject, campaignTitleLimit) + " - " + now.Format("01-02-2006")

	listIDs := req.ListIDs
	if len(listIDs) == 0 {
		listIDs = d.brand.DefaultListIDs
	}

	values := url.Values{
		"api_key":    {d.cfg.SendyAPIKey},
		"brand_id":   {d.brand.BrandID},
		"from_name":  {d.brand.FromName},
		"from_email": {d.brand.FromEmail},
		"reply_to":   {d.brand.ReplyTo},
		"title":      {title},
		"subject":    {subject},
		"html_text":  {req.HTML},
		"plain_text": {PlainText(req.Content, d.brand)},
		"list_ids":   {strings.Join(listIDs, ",")},
	}

	if req.TestEmail != "" {
		// Direct test sends go only to the given address.
		values.Set("subject", "[TEST] "+subject)
		values.Set("list_ids", "")
		values.Set("send_campaign", "0")
		values.Set("test_email", req.TestEmail)
		return values
	}

	switch req.Option {
	case OptionSendNow:
		values.Set("send_campaign", "1")
	case OptionSchedule:
		scheduled := RoundToSchedule(req.ScheduledAt)
		values.Set("schedule_date_time", FormatScheduleTime(scheduled))
		// Sendy treats send_campaign=1 plus schedule_date_time as a
		// scheduled send rather than an immediate one.
		values.Set("send_campaign", "1")
	default:
		values.Set("send_campaign", "0")
	}

	return values
}

// attempt performs one delivery attempt with the given encoding.
func (d *Dispatcher) attempt(ctx context.Context, endpoint string, config attemptConfig, values url.Values) (int, string, error) {
	var body io.Reader
	if config.asJSON {
		payload := make(map[string]string, len(values))
		for key := range values {
			payload[key] = values.Get(key)
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, "", err
		}
		body = bytes.NewReader(encoded)
	} else {
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return 0, "", err
	}
	for key, value := range config.headers {
		req.Header.Set(key, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}

	return resp.StatusCode, string(data), nil
}

// buildDiagnostic reconstructs a manual curl command and remediation hints
// for the failure result. The API key is referenced as a shell variable so
// the command is copy-pasteable without leaking the credential.
func (d *Dispatcher) buildDiagnostic(tried []string) *Diagnostic {
	base := strings.TrimRight(d.cfg.SendyBaseURL, "/")
	now := d.now()

	curl := fmt.Sprintf(`curl -X POST %s/api/campaigns/create.php \
  -d "api_key=$SENDY_API_KEY" \
  -d "brand_id=%s" \
  -d "from_name=%s" \
  -d "from_email=%s" \
  -d "reply_to=%s" \
  -d "title=Test Campaign - %s" \
  -d "subject=Test Subject" \
  -d "html_text=<b>Hello</b>" \
  -d "plain_text=Hello" \
  -d "list_ids=%s" \
  -d "send_campaign=0"`,
		base,
		d.brand.BrandID,
		d.brand.FromName,
		d.brand.FromEmail,
		d.brand.ReplyTo,
		now.Format("01-02-2006 15:04"),
		d.brand.ProbeListID,
	)

	return &Diagnostic{
		EndpointsTried: tried,
		CurlCommand:    curl,
		Suggestions: []string{
			fmt.Sprintf("Check if Sendy API is accessible at %s/", base),
			"Verify API key in Sendy settings",
			"Check server .htaccess or firewall rules",
			"Try the curl command above to test manually",
		},
	}
}

func (d *Dispatcher) endpointURL(path string) string {
	return strings.TrimRight(d.cfg.SendyBaseURL, "/") + "/" + path
}

// truncate limits s to n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
