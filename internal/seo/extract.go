// internal/seo/extract.go
//
// Fallback chains.
//
// Context
// -------
// Extract receives whatever the resolvers managed to find: a page or a
// step when slug resolution succeeded, otherwise the website, funnel, or
// course area, otherwise just the tenant, otherwise nothing.  Each field
// takes the first non-empty value along its chain:
//
//	title        SEOTitle → Title → content Name → settings.seo.title →
//	             tenant Name → host
//	description  SEODescription → Summarize(Content) → content Description →
//	             settings.seo.description → "Welcome to {name}"
//	image        SocialImageURL → OGImage → PreviewImageURL →
//	             settings.seo.og_image → branding social → logo → favicon
//	canonical    CanonicalURL → https://{host}{path}
//	robots       MetaRobots → "index, follow"
//	keywords     SEOKeywords → settings.seo.keywords
//	site name    settings.seo.site_name → tenant Name → content Name → host
//
// Notes
// -----
// • "{name}" in the welcome line is the tenant name, else the content
//   name, else the host.
// • Oxford commas, two spaces after periods.

package seo

import (
	"fmt"
	"strings"

	"github.com/yanizio/seoedge/internal/content"
)

// DefaultRobots applies when no page-level directive exists.
const DefaultRobots = "index, follow"

// fallbackRobots keeps soft-404 documents out of search indexes.
const fallbackRobots = "noindex, follow"

// Input is everything the resolvers found for one request.  Nil pointers
// mean "not resolved".  Page and Step are mutually exclusive.
type Input struct {
	Host     string // normalised request host
	Path     string // normalised request path
	DomainID string

	Tenant   *content.Tenant
	Settings content.TenantSettings

	Website    *content.Website
	Funnel     *content.Funnel
	CourseArea *content.CourseArea

	Page *content.Page
	Step *content.Step
}

// Extract applies the fallback chains to in.
func Extract(in Input) Resolved {
	if in.Tenant == nil && in.Website == nil && in.Funnel == nil && in.CourseArea == nil {
		return Fallback(in.Host, in.Path)
	}

	var (
		seoFields   content.SEOFields
		docTitle    string
		doc         []byte
		contentName string
		contentDesc string
	)
	switch {
	case in.Page != nil:
		seoFields, docTitle, doc = in.Page.SEOFields, in.Page.Title, in.Page.Content
	case in.Step != nil:
		seoFields, docTitle, doc = in.Step.SEOFields, in.Step.Title, in.Step.Content
	}
	switch {
	case in.Website != nil:
		contentName, contentDesc = in.Website.Name, in.Website.Description
	case in.Funnel != nil:
		contentName, contentDesc = in.Funnel.Name, in.Funnel.Description
	case in.CourseArea != nil:
		contentName, contentDesc = in.CourseArea.Name, in.CourseArea.Description
	}

	var tenantName string
	if in.Tenant != nil {
		tenantName = in.Tenant.Name
	}
	s := in.Settings

	out := Resolved{
		Title: first(
			seoFields.SEOTitle,
			docTitle,
			contentName,
			s.SEO.Title,
			tenantName,
			in.Host,
		),
		Keywords: first(seoFields.SEOKeywords, s.SEO.Keywords),
		OGImage: first(
			seoFields.SocialImageURL,
			seoFields.OGImage,
			seoFields.PreviewImageURL,
			s.SEO.OGImage,
			s.Branding.SocialImageURL,
			s.Branding.LogoURL,
			s.Branding.FaviconURL,
		),
		CanonicalURL: first(seoFields.CanonicalURL, CanonicalURL(in.Host, in.Path)),
		Robots:       first(seoFields.MetaRobots, DefaultRobots),
		SiteName:     first(s.SEO.SiteName, tenantName, contentName, in.Host),
		OGType:       "website",
		SourceTrace:  Trace(in),
		IDs:          ids(in),
	}

	// Summarize is only worth running when no explicit description exists.
	out.Description = first(seoFields.SEODescription)
	if out.Description == "" {
		out.Description = first(
			Summarize(doc),
			contentDesc,
			s.SEO.Description,
			"Welcome to "+first(tenantName, contentName, in.Host),
		)
	}
	return out
}

// Fallback is the no-data document: title is the bare host.
func Fallback(host, path string) Resolved {
	return Resolved{
		Title:        host,
		Description:  "Welcome to " + host,
		CanonicalURL: CanonicalURL(host, path),
		Robots:       fallbackRobots,
		SiteName:     host,
		OGType:       "website",
		SourceTrace:  TraceFallback,
	}
}

// Trace names the most specific source in.
func Trace(in Input) string {
	switch {
	case in.Page != nil:
		return fmt.Sprintf("website_page|website:%s|slug:%s", in.Page.WebsiteID, in.Page.Slug)
	case in.Step != nil:
		return fmt.Sprintf("funnel_step|funnel:%s|slug:%s", in.Step.FunnelID, in.Step.Slug)
	case in.Website != nil:
		return "website|website:" + in.Website.ID
	case in.Funnel != nil:
		return "funnel|funnel:" + in.Funnel.ID
	case in.CourseArea != nil:
		return "course_area|course_area:" + in.CourseArea.ID
	case in.Tenant != nil:
		return "tenant|store:" + in.Tenant.ID
	}
	return TraceFallback
}

// CanonicalURL synthesises https://{host}{path}.
func CanonicalURL(host, path string) string {
	if path == "" {
		path = "/"
	}
	return "https://" + host + path
}

func ids(in Input) IDs {
	var out IDs
	out.DomainID = in.DomainID
	if in.Tenant != nil {
		out.TenantID = in.Tenant.ID
	}
	if in.Website != nil {
		out.WebsiteID, out.WebsiteName = in.Website.ID, in.Website.Name
		if out.TenantID == "" {
			out.TenantID = in.Website.TenantID
		}
	}
	if in.Funnel != nil {
		out.FunnelID = in.Funnel.ID
		if out.TenantID == "" {
			out.TenantID = in.Funnel.TenantID
		}
	}
	if in.CourseArea != nil {
		out.CourseID = in.CourseArea.ID
	}
	switch {
	case in.Page != nil:
		out.PageID, out.PageTitle, out.Slug = in.Page.ID, in.Page.Title, in.Page.Slug
	case in.Step != nil:
		out.PageID, out.PageTitle, out.Slug = in.Step.ID, in.Step.Title, in.Step.Slug
	}
	return out
}

// first returns the first value that is non-empty after trimming.
func first(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
