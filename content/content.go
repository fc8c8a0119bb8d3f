// Package content generates email campaign copy with OpenAI, falling back
// through a secondary model and finally a static record so that campaign
// generation never fails outright.
package content

// CampaignContent is the structured copy for one email campaign. Field names
// match the JSON schema the model is instructed to return.
type CampaignContent struct {
	SubjectLine  string   `json:"subject_line"`
	Preheader    string   `json:"preheader,omitempty"`
	HeroTitle    string   `json:"hero_title"`
	Greeting     string   `json:"greeting"`
	Headline     string   `json:"headline"`
	Subheadline  string   `json:"subheadline"`
	BulletPoints []string `json:"bullet_points"`
	MainContent  string   `json:"main_content"`
	CTAText      string   `json:"cta_text"`
	CTAURL       string   `json:"cta_url"`
	UrgencyText  string   `json:"urgency_text"`
	OfferDetails string   `json:"offer_details"`
}

// FallbackContent returns the static record used when every model attempt
// fails. The prompt is folded into the subject and body so the campaign is
// still recognizably about the requested promotion.
func FallbackContent(prompt string) *CampaignContent {
	return &CampaignContent{
		SubjectLine:  "Special Offer: " + prompt,
		HeroTitle:    "SPECIAL OFFER",
		Greeting:     "Hi [Name,fallback=there]! 🎉",
		Headline:     "Exclusive Deal Just For You",
		Subheadline:  "Limited Time Opportunity",
		BulletPoints: []string{"Great value", "Quality service", "Special pricing"},
		MainContent:  "Check out this amazing deal! " + prompt,
		CTAText:      "LEARN MORE",
		CTAURL:       "https://www.kemis.net",
		UrgencyText:  "Limited time offer!",
		OfferDetails: "Act now to secure your discount before this offer expires!",
	}
}

// FillDefaults replaces any empty field with its fallback value so the
// renderer never sees a hole in the content. Model responses that omit
// optional fields still produce a complete campaign.
func (c *CampaignContent) FillDefaults(prompt string) {
	fb := FallbackContent(prompt)

	if c.SubjectLine == "" {
		c.SubjectLine = fb.SubjectLine
	}
	if c.HeroTitle == "" {
		c.HeroTitle = fb.HeroTitle
	}
	if c.Greeting == "" {
		c.Greeting = fb.Greeting
	}
	if c.Headline == "" {
		c.Headline = fb.Headline
	}
	if c.Subheadline == "" {
		c.Subheadline = fb.Subheadline
	}
	if len(c.BulletPoints) == 0 {
		c.BulletPoints = fb.BulletPoints
	}
	if c.MainContent == "" {
		c.MainContent = fb.MainContent
	}
	if c.CTAText == "" {
		c.CTAText = fb.CTAText
	}
	if c.CTAURL == "" {
		c.CTAURL = fb.CTAURL
	}
	if c.UrgencyText == "" {
		c.UrgencyText = fb.UrgencyText
	}
	if c.OfferDetails == "" {
		c.OfferDetails = fb.OfferDetails
	}
}
