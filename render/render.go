// Package render turns campaign content and image references into email
// HTML.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/salutethegenius/kemis-studio-stable/content"
	"github.com/salutethegenius/kemis-studio-stable/core"
)

// Renderer produces email HTML for a campaign.
type Renderer interface {
	Render(c *content.CampaignContent, imageRefs []string) (string, error)
}

// Func adapts a plain function to the Renderer interface.
type Func func(c *content.CampaignContent, imageRefs []string) (string, error)

// Render calls f.
func (f Func) Render(c *content.CampaignContent, imageRefs []string) (string, error) {
	return f(c, imageRefs)
}

// Hero title colors keyed by title keywords.
const (
	heroColorDefault = "#00CED1" // turquoise
	heroColorSale    = "#FF6B35" // orange for sales and deals
	heroColorFlash   = "#FFD700" // yellow for flash deals
)

const preheaderLimit = 100

// TemplateRenderer renders campaigns with an embedded html/template. The
// layout is email-client friendly: table-based, inline styles, a hidden
// preheader, fixed-width hero image.
type TemplateRenderer struct {
	brand *core.Brand
	tmpl  *template.Template
}

// NewTemplateRenderer creates a renderer for the given brand.
func NewTemplateRenderer(brand *core.Brand) (*TemplateRenderer, error) {
	tmpl, err := template.New("email").Parse(emailTemplate)
	if err != nil {
		return nil, fmt.Errorf("render: failed to parse email template: %w", err)
	}
	return &TemplateRenderer{brand: brand, tmpl: tmpl}, nil
}

// templateData is the payload handed to the email template.
type templateData struct {
	Content   *content.CampaignContent
	Brand     *core.Brand
	Preheader string
	HeroColor string
	ImageRefs []template.URL
}

// Render produces the campaign HTML. Image references may be public URLs or
// base64 data URIs; each becomes an <img> above the body copy.
func (r *TemplateRenderer) Render(c *content.CampaignContent, imageRefs []string) (string, error) {
	refs := make([]template.URL, 0, len(imageRefs))
	for _, ref := range imageRefs {
		if ref != "" {
			refs = append(refs, template.URL(ref))
		}
	}

	var out strings.Builder
	err := r.tmpl.Execute(&out, templateData{
		Content:   c,
		Brand:     r.brand,
		Preheader: PreheaderFor(c),
		HeroColor: HeroColorFor(c.HeroTitle),
		ImageRefs: refs,
	})
	if err != nil {
		return "", fmt.Errorf("render: template execution failed: %w", err)
	}

	return out.String(), nil
}

// HeroColorFor picks the hero title color from title keywords.
func HeroColorFor(heroTitle string) string {
	lower := strings.ToLower(heroTitle)
	switch {
	case strings.Contains(lower, "flash"):
		return heroColorFlash
	case strings.Contains(lower, "sale"), strings.Contains(lower, "deal"):
		return heroColorSale
	default:
		return heroColorDefault
	}
}

// PreheaderFor returns the hidden preview text. An explicit preheader wins;
// otherwise the first 100 characters of the main content are used, with an
// ellipsis when truncated.
func PreheaderFor(c *content.CampaignContent) string {
	if c.Preheader != "" {
		return c.Preheader
	}

	runes := []rune(c.MainContent)
	if len(runes) <= preheaderLimit {
		return c.MainContent
	}
	return string(runes[:preheaderLimit-3]) + "..."
}

var _ Renderer = (*TemplateRenderer)(nil)
