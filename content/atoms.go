package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errNoChoices indicates the API returned an empty choice list.
var errNoChoices = errors.New("no response choices returned from OpenAI")

// ExtractJSONFromText returns the substring from the first '{' to the last
// '}' in text. Models often wrap JSON in prose or markdown fences; this strips
// everything outside the outermost object.
func ExtractJSONFromText(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}

	return text[start : end+1], nil
}

// ParseContentJSON extracts and decodes a CampaignContent from raw model
// output.
func ParseContentJSON(text string) (*CampaignContent, error) {
	raw, err := ExtractJSONFromText(text)
	if err != nil {
		return nil, err
	}

	var c CampaignContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("failed to decode content JSON: %w", err)
	}

	return &c, nil
}
