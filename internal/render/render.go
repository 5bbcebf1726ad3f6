// internal/render/render.go
//
// SEO document renderer.
//
// Context
// -------
// Automated clients receive a complete HTML document built from one
// resolve.Result: <title>, meta description/keywords/robots, canonical
// link, Open Graph, Twitter Card, and a JSON-LD WebPage block.  The
// fallback result renders through the same template, so bots always get a
// valid document with status 200.
//
// Every value passes through head.Builder (escaped on entry) or
// html/template (contextual escaping), never string concatenation.
//
// Headers
// -------
//   - Content-Type: text/html; charset=utf-8
//   - Cache-Control: public, max-age=N, s-maxage=N
//   - Vary: User-Agent
//   - X-SEO-* provenance headers (headers.go)
//
// Notes
// -----
// • HEAD requests receive headers only.
// • Oxford commas, two spaces after periods.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/seoedge/internal/head"
	"github.com/yanizio/seoedge/internal/resolve"
)

// DefaultMaxAge is the shared-cache lifetime of a bot document.
const DefaultMaxAge = 5 * time.Minute

//go:embed document.html.tmpl
var documentSrc string

var document = template.Must(template.New("document").Parse(documentSrc))

// Renderer writes bot documents.  Safe for concurrent use.
type Renderer struct {
	maxAge int // seconds
}

// New returns a Renderer.  maxAge <= 0 selects DefaultMaxAge.
func New(maxAge time.Duration) *Renderer {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Renderer{maxAge: int(maxAge / time.Second)}
}

// CacheControl returns the header value used for bot documents.
func (rd *Renderer) CacheControl() string {
	n := strconv.Itoa(rd.maxAge)
	return "public, max-age=" + n + ", s-maxage=" + n
}

type page struct {
	Head        *head.Builder
	Title       string
	Description string
	Image       string
	URL         string
	SiteName    string
}

// Bot writes the SEO document for res.
func (rd *Renderer) Bot(w http.ResponseWriter, r *http.Request, res resolve.Result) {
	body, err := Document(res)
	if err != nil {
		zap.S().Errorw("render document failed", "host", res.Route.Host, "path", res.Route.Path, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", rd.CacheControl())
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Add("Vary", "User-Agent")
	SetProvenance(h, res)

	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// Document renders the HTML for res.
func Document(res resolve.Result) ([]byte, error) {
	c := res.Content
	b := head.New()

	b.SetTitle(c.Title)
	b.Name("description", c.Description)
	b.Name("keywords", c.Keywords)
	b.Name("robots", c.Robots)
	b.Canonical(c.CanonicalURL)

	b.Property("og:title", c.Title)
	b.Property("og:description", c.Description)
	b.Property("og:url", c.CanonicalURL)
	b.Property("og:type", c.OGType)
	b.Property("og:site_name", c.SiteName)
	b.Property("og:image", c.OGImage)

	card := "summary"
	if c.OGImage != "" {
		card = "summary_large_image"
	}
	b.Name("twitter:card", card)
	b.Name("twitter:title", c.Title)
	b.Name("twitter:description", c.Description)
	b.Name("twitter:image", c.OGImage)

	if err := b.JSONLD(webPage(res)); err != nil {
		return nil, fmt.Errorf("render: json-ld: %w", err)
	}

	var buf bytes.Buffer
	err := document.Execute(&buf, page{
		Head:        b,
		Title:       c.Title,
		Description: c.Description,
		Image:       c.OGImage,
		URL:         c.CanonicalURL,
		SiteName:    c.SiteName,
	})
	if err != nil {
		return nil, fmt.Errorf("render: execute: %w", err)
	}
	return buf.Bytes(), nil
}

// webPage builds the schema.org WebPage block.
func webPage(res resolve.Result) map[string]any {
	c := res.Content
	ld := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebPage",
		"name":        c.Title,
		"description": c.Description,
		"url":         c.CanonicalURL,
		"isPartOf": map[string]any{
			"@type": "WebSite",
			"name":  c.SiteName,
			"url":   "https://" + res.Route.Host + "/",
		},
	}
	if c.OGImage != "" {
		ld["image"] = c.OGImage
	}
	return ld
}
