// Package seo derives the SEO payload (title, description, canonical URL,
// robots, social image, and site name) for a resolved piece of content.
//
// Every field follows a fixed fallback chain, page-level first, then
// content-level, then tenant-level, then the request host.  The result
// always carries a SourceTrace naming where the data came from.
package seo

// Source traces for results that did not reach page level.
const (
	TraceFallback = "fallback_no_data"
)

// IDs are the identifiers behind a Resolved, surfaced as debug headers.
type IDs struct {
	TenantID    string `json:"tenant_id,omitempty"`
	DomainID    string `json:"domain_id,omitempty"`
	WebsiteID   string `json:"website_id,omitempty"`
	WebsiteName string `json:"website_name,omitempty"`
	FunnelID    string `json:"funnel_id,omitempty"`
	CourseID    string `json:"course_area_id,omitempty"`
	PageID      string `json:"page_id,omitempty"`
	PageTitle   string `json:"page_title,omitempty"`
	Slug        string `json:"slug,omitempty"`
}

// Resolved is the single object the renderer consumes.  It is JSON-encoded
// by the shared cache tier, so every field is exported and tagged.
type Resolved struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Keywords     string `json:"keywords,omitempty"`
	CanonicalURL string `json:"canonical_url"`
	Robots       string `json:"robots"`
	OGImage      string `json:"og_image,omitempty"`
	SiteName     string `json:"site_name"`
	OGType       string `json:"og_type"`
	SourceTrace  string `json:"source_trace"`
	IDs          IDs    `json:"ids"`
}

// IsFallback reports whether no tenant data backed this result.
func (r Resolved) IsFallback() bool { return r.SourceTrace == TraceFallback }
