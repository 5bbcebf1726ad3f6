// internal/head/builder.go
//
// The Builder collects everything that belongs inside the <head> of an SEO
// document.  It is scoped to a single render call: the renderer pushes
// tags, then the document template emits each slice in a fixed order.
//
// Features
// --------
//   - SetTitle                 – single <title> tag (last call wins).
//   - Name, Property           – <meta name> and <meta property> tags,
//     escaped, empty values skipped, one tag per key.
//   - Canonical, Link          – <link> tags.
//   - JSONLD                   – marshals a value and wraps it in
//     <script type="application/ld+json">…</script>.
//   - Render helpers           – concat methods that return template.HTML.
//
// Every value is escaped on the way in, so the render helpers can hand
// back template.HTML without a second pass.
package head

import (
	"encoding/json"
	"html/template"
	"strings"
	"sync"
)

// Builder is safe for concurrent writes, although one goroutine per
// render is the normal case.
type Builder struct {
	mu sync.Mutex

	title string

	metas  []string
	links  []string
	jsonLD []string

	// seen holds meta/link keys so the first writer of a key wins.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + esc(b.title) + "</title>")
}

// ------------------------------------------------------------------
// Tag helpers
// ------------------------------------------------------------------

// Name adds <meta name="…" content="…">.
func (b *Builder) Name(name, content string) {
	if content == "" {
		return
	}
	b.add("name:"+name, &b.metas, `<meta name="`+esc(name)+`" content="`+esc(content)+`">`)
}

// Property adds <meta property="…" content="…"> (Open Graph).
func (b *Builder) Property(prop, content string) {
	if content == "" {
		return
	}
	b.add("property:"+prop, &b.metas, `<meta property="`+esc(prop)+`" content="`+esc(content)+`">`)
}

// Canonical adds <link rel="canonical">.
func (b *Builder) Canonical(href string) { b.Link("canonical", href) }

// Link adds <link rel="…" href="…">.  One link per rel.
func (b *Builder) Link(rel, href string) {
	if href == "" {
		return
	}
	b.add("link:"+rel, &b.links, `<link rel="`+esc(rel)+`" href="`+esc(href)+`">`)
}

// JSONLD marshals v as a structured-data block.  encoding/json escapes <,
// >, and & so the payload cannot close the script element.
func (b *Builder) JSONLD(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.jsonLD = append(b.jsonLD, string(raw))
	b.mu.Unlock()
	return nil
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering helpers called from the document template
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML { return b.concat(b.metas) }
func (b *Builder) Links() template.HTML { return b.concat(b.links) }

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

// concat joins pre-escaped tags, one per line.
func (b *Builder) concat(sl []string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(sl) == 0 {
		return ""
	}
	return template.HTML(strings.Join(sl, "\n") + "\n")
}

func esc(s string) string { return template.HTMLEscapeString(s) }
