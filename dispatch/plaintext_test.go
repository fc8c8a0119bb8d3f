package dispatch

import (
	"strings"
	"testing"

	"github.com/salutethegenius/kemis-studio-stable/content"
	"github.com/salutethegenius/kemis-studio-stable/core"
)

func TestPlainText_Structure(t *testing.T) {
	c := content.FallbackContent("lobster special")
	brand := core.DefaultBrand()

	text := PlainText(c, brand)
	lines := strings.Split(text, "\n")

	if lines[0] != "View online version [weblink]" {
		t.Errorf("first line = %q", lines[0])
	}

	// Ordering: header nav before hero, hero before CTA, CTA before footer.
	idx := func(substr string) int {
		for i, line := range lines {
			if strings.Contains(line, substr) {
				return i
			}
		}
		t.Fatalf("missing line containing %q", substr)
		return -1
	}

	nav := idx("Home " + brand.Links.Home)
	hero := idx(c.HeroTitle)
	cta := idx("Link: " + c.CTAURL)
	unsubscribe := idx("unsubscribe")

	if !(nav < hero && hero < cta && cta < unsubscribe) {
		t.Errorf("section order wrong: nav=%d hero=%d cta=%d unsubscribe=%d", nav, hero, cta, unsubscribe)
	}

	if !strings.Contains(text, brand.Footer.Copyright) {
		t.Error("missing copyright line")
	}
	if !strings.Contains(text, brand.Footer.Reason) {
		t.Error("missing subscription reason line")
	}
}

func TestPlainText_OmitsEmptyOptionalSections(t *testing.T) {
	c := content.FallbackContent("x")
	c.UrgencyText = ""
	c.OfferDetails = ""
	brand := core.DefaultBrand()

	text := PlainText(c, brand)
	if strings.Contains(text, "Limited time offer!") {
		t.Error("urgency text should be omitted when empty")
	}

	// CTA text still appears twice: once in the body, once above the link.
	if got := strings.Count(text, c.CTAText); got != 2 {
		t.Errorf("CTA text occurrences = %d, want 2", got)
	}
}
