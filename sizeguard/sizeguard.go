// Package sizeguard keeps rendered campaign HTML under transport size
// ceilings by stripping inline base64 images before giving up.
package sizeguard

import (
	"fmt"
	"regexp"
)

// Placeholder replaces stripped inline images. Renderers and email clients
// treat it as a broken image rather than megabytes of base64.
const Placeholder = "data:image/jpeg;base64,PLACEHOLDER_IMAGE_REMOVED"

// inlineImagePattern matches embedded data URIs with a base64 payload large
// enough to matter. Short data URIs (icons, the placeholder itself) pass
// untouched.
var inlineImagePattern = regexp.MustCompile(`data:image/[^;]+;base64,[A-Za-z0-9+/=]{1000,}`)

// OversizeError reports HTML that exceeds its ceiling even after inline
// images were stripped.
type OversizeError struct {
	Size  int
	Limit int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("sizeguard: payload is %d bytes after stripping images, limit is %d", e.Size, e.Limit)
}

// Constrain returns html unchanged when it fits under limit. Oversize HTML
// gets its large inline images replaced with Placeholder; if the result
// still exceeds the limit an OversizeError is returned.
func Constrain(html string, limit int) (string, error) {
	if len(html) <= limit {
		return html, nil
	}

	stripped := StripInlineImages(html)
	if len(stripped) <= limit {
		return stripped, nil
	}

	return "", &OversizeError{Size: len(stripped), Limit: limit}
}

// StripInlineImages replaces every large inline base64 image with
// Placeholder.
func StripInlineImages(html string) string {
	return inlineImagePattern.ReplaceAllString(html, Placeholder)
}
