package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Brand holds the sender identity and the static copy that surrounds every
// campaign: navigation links, footer lines, default recipient lists. It is
// loaded once at startup from an optional YAML file; the built-in defaults
// describe the KemisEmail brand.
type Brand struct {
	Name      string `yaml:"name"`
	BrandID   string `yaml:"brand_id"`
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`
	ReplyTo   string `yaml:"reply_to"`

	Links struct {
		Home       string `yaml:"home"`
		Services   string `yaml:"services"`
		Statistics string `yaml:"statistics"`
		Contact    string `yaml:"contact"`
		SignUp     string `yaml:"sign_up"`
		CTADefault string `yaml:"cta_default"`
	} `yaml:"links"`

	Footer struct {
		Tagline   string `yaml:"tagline"`
		Copyright string `yaml:"copyright"`
		Address   string `yaml:"address"`
		Reason    string `yaml:"reason"`
	} `yaml:"footer"`

	// DefaultListIDs are used when a dispatch request carries no lists.
	DefaultListIDs []string `yaml:"default_list_ids"`

	// AllowedListNames filters the platform list lookup; empty means no filter.
	AllowedListNames []string `yaml:"allowed_list_names"`

	// ProbeListID is the list used for the harmless credential probe.
	ProbeListID string `yaml:"probe_list_id"`
}

// DefaultBrand returns the built-in brand identity.
func DefaultBrand() *Brand {
	b := &Brand{
		Name:        "KemisEmail",
		BrandID:     "1",
		FromName:    "KemisEmail",
		FromEmail:   "offers@kemis.net",
		ReplyTo:     "offers@kemis.net",
		ProbeListID: "DU0p7BsJdnwE0MXNZusbMQ",
		DefaultListIDs: []string{
			"DU0p7BsJdnwE0MXNZusbMQ",
			"fO6BdhtVFBdzyQBMcG6Yiw",
		},
		AllowedListNames: []string{
			"🔥 Engaged Core – Bahamas (Openers)",
			"Drewber Team",
			"LawBey Users",
			"Bahamas Attorneys",
			"Clients",
		},
	}

	b.Links.Home = "https://start.kemis.net"
	b.Links.Services = "https://start.kemis.net/services"
	b.Links.Statistics = "https://start.kemis.net/statistics"
	b.Links.Contact = "https://start.kemis.net/contact"
	b.Links.SignUp = "https://dzvs3n3sqle.typeform.com/to/JxCYlnLb"
	b.Links.CTADefault = "https://www.kemis.net"

	b.Footer.Tagline = "KemisEmail – Delivering Local Deals and Offers Since 2005"
	b.Footer.Copyright = "2025 © Kemis Group of Companies Inc. All rights reserved."
	b.Footer.Address = "Nassau West, New Providence, The Bahamas"
	b.Footer.Reason = "You are receiving this because you signed up for our Deals and Offers list."

	return b
}

// LoadBrand loads brand configuration from a YAML file, falling back to the
// built-in defaults for any field the file leaves empty. An empty path
// returns the defaults unchanged.
func LoadBrand(path string) (*Brand, error) {
	brand := DefaultBrand()
	if path == "" {
		return brand, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("core: failed to open brand config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(brand); err != nil {
		return nil, fmt.Errorf("core: failed to parse brand config: %w", err)
	}

	return brand, nil
}
