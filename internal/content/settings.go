// internal/content/settings.go
//
// Typed view over the tenant `settings` JSON bag.
//
// Context
// -------
// The authoring system stores tenant preferences as free-form JSON.  The
// SEO extractor only needs a handful of keys, so we decode them once, at
// the tenant boundary, into named optional fields.  Everything else in the
// bag is ignored.
//
// Fallback order (documented here, applied in internal/seo):
//
//   • image:       seo.og_image → branding.social_image → branding.logo_url
//                  → branding.favicon_url
//   • description: seo.description → "Welcome to {name}"
//   • site name:   seo.site_name → tenant name
package content

import (
	"encoding/json"
	"strings"
)

// SEOSettings is `settings.seo`.
type SEOSettings struct {
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
	OGImage     string `json:"og_image"    yaml:"og_image"`
	SiteName    string `json:"site_name"   yaml:"site_name"`
	Keywords    string `json:"keywords"    yaml:"keywords"`
}

// BrandingSettings is `settings.branding`.
type BrandingSettings struct {
	LogoURL        string `json:"logo_url"     yaml:"logo_url"`
	SocialImageURL string `json:"social_image" yaml:"social_image"`
	FaviconURL     string `json:"favicon_url"  yaml:"favicon_url"`
}

// TenantSettings is the subset of the settings bag the engine reads.
type TenantSettings struct {
	SEO      SEOSettings      `json:"seo"      yaml:"seo"`
	Branding BrandingSettings `json:"branding" yaml:"branding"`
}

// ParseSettings decodes raw settings JSON.  Empty input yields the zero
// value.  Malformed input also yields the zero value together with the
// decode error so callers can log it; it is never fatal.
func ParseSettings(raw []byte) (TenantSettings, error) {
	var s TenantSettings
	if len(strings.TrimSpace(string(raw))) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return TenantSettings{}, err
	}
	s.trim()
	return s, nil
}

func (s *TenantSettings) trim() {
	for _, p := range []*string{
		&s.SEO.Title, &s.SEO.Description, &s.SEO.OGImage, &s.SEO.SiteName, &s.SEO.Keywords,
		&s.Branding.LogoURL, &s.Branding.SocialImageURL, &s.Branding.FaviconURL,
	} {
		*p = strings.TrimSpace(*p)
	}
}
