package render

import (
	"net/http"
	"strings"

	"github.com/yanizio/seoedge/internal/resolve"
)

// maxHeaderValue caps provenance header length.
const maxHeaderValue = 256

// SetProvenance writes the X-SEO-* headers that make misrouting
// diagnosable from a curl.  Optional id headers are omitted when empty.
func SetProvenance(h http.Header, res resolve.Result) {
	c := res.Content
	h.Set("X-SEO-Source", headerValue(c.SourceTrace))
	h.Set("X-SEO-Website", headerValue(c.IDs.WebsiteName))
	h.Set("X-SEO-Page", headerValue(c.IDs.PageTitle))
	h.Set("X-SEO-Domain", headerValue(res.Route.Host))
	h.Set("X-SEO-Path", headerValue(res.Route.Path))
	h.Set("X-SEO-Mode", string(res.Route.Mode))

	optional := map[string]string{
		"X-SEO-Website-Id": c.IDs.WebsiteID,
		"X-SEO-Page-Id":    c.IDs.PageID,
		"X-SEO-Slug":       c.IDs.Slug,
	}
	for k, v := range optional {
		if v != "" {
			h.Set(k, headerValue(v))
		}
	}
}

// headerValue drops control characters and truncates.  Non-ASCII text is
// kept; net/http writes it as raw bytes.
func headerValue(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxHeaderValue {
		s = s[:maxHeaderValue]
		s = strings.ToValidUTF8(s, "")
	}
	return s
}
