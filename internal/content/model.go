// internal/content/model.go
//
// Row models for the tenant content tables.
//
// Context
// -------
// These structs mirror the rows the authoring system writes.  The routing
// engine only ever reads them, so they carry no behaviour beyond small
// predicates.  Column tags match the sqlstore queries; the YAML tags match
// the memstore fixture format.
//
// Schema reference (2025-09-01)
//
//	custom_domains     (id, domain, store_id, is_verified, dns_configured)
//	domain_connections (id, domain_id, content_type, content_id, path, is_homepage)
//	websites           (id, store_id, name, slug, description)
//	website_pages      (id, website_id, slug, title, is_homepage, is_published, seo_*, content)
//	funnels            (id, store_id, name, slug, description)
//	funnel_steps       (id, funnel_id, slug, title, step_order, step_type, is_homepage, is_published, seo_*, content)
//	course_areas       (id, store_id, name, description)
//	stores             (id, name, slug, settings)
//
// Notes
// -----
// • Nullable text columns are COALESCEd to '' in SQL, so plain strings are
//   safe here.
// • `Content` holds the raw structured document (JSON) used as a
//   description fallback; see internal/seo.Summarize.
// • Oxford commas, two spaces after periods.
package content

// CustomDomain mirrors one row in `custom_domains`.
type CustomDomain struct {
	ID            string `db:"id"             yaml:"id"`
	Domain        string `db:"domain"         yaml:"domain"`
	TenantID      string `db:"store_id"       yaml:"tenant_id"`
	IsVerified    bool   `db:"is_verified"    yaml:"is_verified"`
	DNSConfigured bool   `db:"dns_configured" yaml:"dns_configured"`
}

// Routable reports whether the domain may receive traffic.  Both flags are
// owned by the external verification process.
func (d CustomDomain) Routable() bool { return d.IsVerified && d.DNSConfigured }

// Connection binds a domain (optionally a sub-path of it) to one piece of
// content.
type Connection struct {
	ID         string
	DomainID   string
	Kind       Kind
	ContentID  string
	Path       string // mount prefix, "" or "/" when mounted at the root
	IsHomepage bool
}

// Website owns zero or more pages.
type Website struct {
	ID          string `db:"id"          yaml:"id"`
	TenantID    string `db:"store_id"    yaml:"tenant_id"`
	Name        string `db:"name"        yaml:"name"`
	Slug        string `db:"slug"        yaml:"slug"`
	Description string `db:"description" yaml:"description"`
}

// Funnel owns an ordered list of steps.
type Funnel struct {
	ID          string `db:"id"          yaml:"id"`
	TenantID    string `db:"store_id"    yaml:"tenant_id"`
	Name        string `db:"name"        yaml:"name"`
	Slug        string `db:"slug"        yaml:"slug"`
	Description string `db:"description" yaml:"description"`
}

// CourseArea is a members-only learning area.  Only its name and
// description are relevant to SEO.
type CourseArea struct {
	ID          string `db:"id"          yaml:"id"`
	TenantID    string `db:"store_id"    yaml:"tenant_id"`
	Name        string `db:"name"        yaml:"name"`
	Description string `db:"description" yaml:"description"`
}

// SEOFields are the per-page overrides shared by pages and funnel steps.
type SEOFields struct {
	SEOTitle        string `db:"seo_title"         yaml:"seo_title"`
	SEODescription  string `db:"seo_description"   yaml:"seo_description"`
	SEOKeywords     string `db:"seo_keywords"      yaml:"seo_keywords"`
	OGImage         string `db:"og_image"          yaml:"og_image"`
	SocialImageURL  string `db:"social_image_url"  yaml:"social_image_url"`
	PreviewImageURL string `db:"preview_image_url" yaml:"preview_image_url"`
	CanonicalURL    string `db:"canonical_url"     yaml:"canonical_url"`
	MetaRobots      string `db:"meta_robots"       yaml:"meta_robots"`
}

// Page mirrors one row in `website_pages`.
type Page struct {
	ID          string `db:"id"           yaml:"id"`
	WebsiteID   string `db:"website_id"   yaml:"website_id"`
	Slug        string `db:"slug"         yaml:"slug"`
	Title       string `db:"title"        yaml:"title"`
	IsHomepage  bool   `db:"is_homepage"  yaml:"is_homepage"`
	IsPublished bool   `db:"is_published" yaml:"is_published"`
	SEOFields   `yaml:",inline"`
	Content     []byte `db:"content" yaml:"-"`
}

// StepType classifies a funnel step.
type StepType string

const (
	StepLanding  StepType = "landing"
	StepCheckout StepType = "checkout"
	StepUpsell   StepType = "upsell"
	StepDownsell StepType = "downsell"
	StepThankYou StepType = "thank_you"
)

// Step mirrors one row in `funnel_steps`.
type Step struct {
	ID          string   `db:"id"           yaml:"id"`
	FunnelID    string   `db:"funnel_id"    yaml:"funnel_id"`
	Slug        string   `db:"slug"         yaml:"slug"`
	Title       string   `db:"title"        yaml:"title"`
	StepOrder   int      `db:"step_order"   yaml:"step_order"`
	StepType    StepType `db:"step_type"    yaml:"step_type"`
	IsHomepage  bool     `db:"is_homepage"  yaml:"is_homepage"`
	IsPublished bool     `db:"is_published" yaml:"is_published"`
	SEOFields   `yaml:",inline"`
	Content     []byte `db:"content" yaml:"-"`
}

// Tenant mirrors one row in `stores`.  Settings is the raw JSON bag; use
// ParseSettings to read it.
type Tenant struct {
	ID       string `db:"id"       yaml:"id"`
	Name     string `db:"name"     yaml:"name"`
	Slug     string `db:"slug"     yaml:"slug"`
	Settings []byte `db:"settings" yaml:"-"`
}
