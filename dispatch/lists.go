package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/salutethegenius/kemis-studio-stable/core"

	"go.uber.org/zap"
)

// List is one subscriber list known to Sendy.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FetchLists retrieves the brand's subscriber lists from Sendy.
//
// Sendy returns lists as an object keyed list1, list2, ...; the response is
// flattened to an array. When the brand configures AllowedListNames, only
// those lists are returned.
func (d *Dispatcher) FetchLists(ctx context.Context) ([]List, error) {
	if !d.cfg.HasSendyCredential() {
		return nil, core.ErrMissingAuth("sendy")
	}

	values := url.Values{
		"api_key":        {d.cfg.SendyAPIKey},
		"brand_id":       {d.brand.BrandID},
		"include_hidden": {"no"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.endpointURL("api/lists/get-lists.php"),
		strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "KemisEmail/1.0")
	req.Header.Set("Accept", "*/*")

	resp, err := d.probeClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lists: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lists response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lists request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var raw map[string]List
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse lists response: %w", err)
	}

	var lists []List
	for _, l := range raw {
		if l.ID != "" && l.Name != "" {
			lists = append(lists, l)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].Name < lists[j].Name })

	filtered := d.filterAllowed(lists)
	d.log.Info("fetched Sendy lists",
		zap.Int("total", len(lists)),
		zap.Int("allowed", len(filtered)),
	)
	return filtered, nil
}

// filterAllowed keeps only lists whose names the brand exposes to the UI.
// An empty allow-list means everything is visible.
func (d *Dispatcher) filterAllowed(lists []List) []List {
	if len(d.brand.AllowedListNames) == 0 {
		return lists
	}

	allowed := make(map[string]bool, len(d.brand.AllowedListNames))
	for _, name := range d.brand.AllowedListNames {
		allowed[name] = true
	}

	var filtered []List
	for _, l := range lists {
		if allowed[l.Name] {
			filtered = append(filtered, l)
		}
	}
	return filtered
}
