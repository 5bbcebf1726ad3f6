// internal/hostmatch/hostmatch.go
//
// Hostname pattern matcher.
//
// Context
// -------
// Every inbound (host, path) pair is classified into exactly one routing
// Mode before any store lookup happens.  Rules run in a fixed order and the
// first match wins:
//
//  1. /funnel/{slug}[/{step}]            → ModeFunnelRoute
//  2. host outside the platform family   → ModeCustomDomain (host)
//  3. {sub}.{platform}, sub not reserved → ModePlatformSubdomain (sub)
//  4. /store/{slug}[...]                 → ModeStoreSlug
//  5. /site/{slug}[...]                  → ModeSiteSlug
//  6. anything else                      → ModeCustomDomain (host)
//
// Rule 1 precedes rule 2 because a tenant's custom domain can itself serve
// a funnel mounted at /funnel/....  Match is total: malformed input simply
// lands on rule 6.
//
// Notes
// -----
// • The platform family is the platform apex, any host under it,
//   `localhost`, and the configured extra hosts.
// • Oxford commas, two spaces after periods.

package hostmatch

import (
	"net"
	"strings"
)

// Mode is the routing mode of a request.  Values double as metric labels
// and the X-SEO-Mode header.
type Mode string

const (
	ModeFunnelRoute       Mode = "funnel_route"
	ModeCustomDomain      Mode = "custom_domain"
	ModePlatformSubdomain Mode = "platform_subdomain"
	ModeStoreSlug         Mode = "store_slug"
	ModeSiteSlug          Mode = "site_slug"
)

// Modes lists every Mode Match can return.
var Modes = []Mode{
	ModeFunnelRoute,
	ModeCustomDomain,
	ModePlatformSubdomain,
	ModeStoreSlug,
	ModeSiteSlug,
}

// Route is the matcher's verdict.
type Route struct {
	Mode        Mode   `json:"mode"`
	Identifier  string `json:"identifier"`
	ContentPath string `json:"content_path"` // normalised, "/" for root
	Host        string `json:"host"`         // normalised request host
	Path        string `json:"path"`         // normalised request path
}

// DefaultReserved are platform subdomains that never name a tenant.
var DefaultReserved = []string{"www", "app"}

// Matcher holds the platform's own domain family.  The zero value treats
// every host as a custom domain except localhost.
type Matcher struct {
	platform string
	reserved map[string]struct{}
	extra    map[string]struct{}
}

// New builds a Matcher.  Inputs are normalised, so configuration may use
// any case or a trailing dot.
func New(platformDomain string, reserved, extraHosts []string) *Matcher {
	m := &Matcher{
		platform: NormalizeHost(platformDomain),
		reserved: make(map[string]struct{}, len(reserved)+len(DefaultReserved)),
		extra:    make(map[string]struct{}, len(extraHosts)),
	}
	for _, r := range DefaultReserved {
		m.reserved[r] = struct{}{}
	}
	for _, r := range reserved {
		m.reserved[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	for _, h := range extraHosts {
		if h = NormalizeHost(h); h != "" {
			m.extra[h] = struct{}{}
		}
	}
	return m
}

// PlatformDomain returns the normalised platform apex.
func (m *Matcher) PlatformDomain() string { return m.platform }

// Match classifies (host, path).
func (m *Matcher) Match(host, path string) Route {
	h := NormalizeHost(host)
	segs := Segments(path)
	p := BuildPath(segs...)

	route := Route{Host: h, Path: p}

	switch {
	case len(segs) >= 2 && segs[0] == "funnel":
		route.Mode = ModeFunnelRoute
		route.Identifier = segs[1]
		route.ContentPath = BuildPath(segs[2:]...)

	case !m.IsPlatformHost(h):
		route.Mode = ModeCustomDomain
		route.Identifier = h
		route.ContentPath = p

	case m.tenantLabel(h) != "":
		route.Mode = ModePlatformSubdomain
		route.Identifier = m.tenantLabel(h)
		route.ContentPath = p

	case len(segs) >= 2 && segs[0] == "store":
		route.Mode = ModeStoreSlug
		route.Identifier = segs[1]
		route.ContentPath = BuildPath(segs[2:]...)

	case len(segs) >= 2 && segs[0] == "site":
		route.Mode = ModeSiteSlug
		route.Identifier = segs[1]
		route.ContentPath = BuildPath(segs[2:]...)

	default:
		route.Mode = ModeCustomDomain
		route.Identifier = h
		route.ContentPath = p
	}
	return route
}

// IsPlatformHost reports whether h (already normalised) belongs to the
// platform's own domain family.
func (m *Matcher) IsPlatformHost(h string) bool {
	if h == "localhost" {
		return true
	}
	if _, ok := m.extra[h]; ok {
		return true
	}
	if m.platform == "" {
		return false
	}
	return h == m.platform || strings.HasSuffix(h, "."+m.platform)
}

// tenantLabel returns sub for "{sub}.{platform}" when sub is a single,
// non-reserved label.  Otherwise "".
func (m *Matcher) tenantLabel(h string) string {
	if m.platform == "" || !strings.HasSuffix(h, "."+m.platform) {
		return ""
	}
	sub := strings.TrimSuffix(h, "."+m.platform)
	if sub == "" || strings.Contains(sub, ".") {
		return ""
	}
	if _, ok := m.reserved[sub]; ok {
		return ""
	}
	return sub
}

// NormalizeHost lower-cases h and strips surrounding space, any port, and
// a trailing dot.  IPv6 literals lose their brackets.
func NormalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if h == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	} else if strings.HasPrefix(h, "[") && strings.HasSuffix(h, "]") {
		h = h[1 : len(h)-1]
	}
	return strings.TrimSuffix(h, ".")
}
