package dispatch

import (
	"strings"

	"github.com/salutethegenius/kemis-studio-stable/content"
	"github.com/salutethegenius/kemis-studio-stable/core"
)

// PlainText builds the plain-text alternative for a campaign. Sendy sends
// this to clients that reject HTML, so it mirrors the template structure:
// header navigation, hero, body copy, call to action, and the footer with
// the unsubscribe line.
func PlainText(c *content.CampaignContent, brand *core.Brand) string {
	var parts []string

	parts = append(parts,
		"View online version [weblink]",
		"",
		brand.Name,
		"Home "+brand.Links.Home+"\tServices "+brand.Links.Services+"\tStatistics "+brand.Links.Statistics+"\tContact "+brand.Links.Contact,
		"Join Our List "+brand.Links.SignUp,
		"",
		c.HeroTitle,
		c.Greeting,
		"",
		c.MainContent,
		"",
		c.CTAText,
	)

	if c.UrgencyText != "" {
		parts = append(parts, c.UrgencyText)
	}
	if c.OfferDetails != "" {
		parts = append(parts, c.OfferDetails)
	}

	parts = append(parts,
		"",
		c.CTAText,
		"Link: "+c.CTAURL,
		"",
		brand.Footer.Tagline,
		"",
		brand.Footer.Copyright,
		"",
		brand.Footer.Address,
		"",
		"Sign Up "+brand.Links.SignUp,
		"Privacy Policy #",
		"Terms of Use #",
		brand.Footer.Reason,
		"",
		"Click here to unsubscribe if this is no longer of interest.",
	)

	return strings.Join(parts, "\n")
}
