// components/preview/preview.go
//
// Social-preview component.
//
// Link-unfurl workers that cannot present the real Host header call
//
//	GET /api/seo/preview?host=shop.example.com&path=/about
//
// and receive the same document the edge would serve for that URL.  Humans
// who follow such a link are sent to the real page with a 302, but only for
// hosts the platform actually serves, so the endpoint is not an open
// redirect.
package preview

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/seoedge/internal/component"
	"github.com/yanizio/seoedge/internal/hostmatch"
	"github.com/yanizio/seoedge/internal/metrics"
	"github.com/yanizio/seoedge/internal/requestinfo"
	"github.com/yanizio/seoedge/internal/seo"
)

// Route is where the component mounts.
const Route = "/api/seo/preview"

var _ component.Component = (*Comp)(nil)

func init() { component.Register(&Comp{}) }

type Comp struct{}

func (c *Comp) Name() string { return "preview" }

func (c *Comp) Mount(r chi.Router, d component.Deps) {
	h := &handler{deps: d}
	r.Get(Route, h.serve)
	r.Head(Route, h.serve)
}

type handler struct {
	deps component.Deps
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	host := hostmatch.NormalizeHost(q.Get("host"))
	if host == "" || strings.ContainsAny(host, "/?#@ ") {
		http.Error(w, "host parameter required", http.StatusBadRequest)
		return
	}
	path := q.Get("path")
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	info := requestinfo.FromContext(r.Context())
	if info == nil {
		info = requestinfo.Build(r, requestinfo.Options{})
	}
	metrics.Requests.WithLabelValues("preview", info.Class()).Inc()

	res := h.deps.Engine.Resolve(r.Context(), host, path)
	if info.Automated {
		h.deps.Renderer.Bot(w, r, res)
		return
	}

	if !res.Found() && !h.deps.Engine.Matcher().IsPlatformHost(res.Route.Host) {
		http.NotFound(w, r)
		return
	}
	w.Header().Add("Vary", "User-Agent")
	http.Redirect(w, r, seo.CanonicalURL(res.Route.Host, res.Route.Path), http.StatusFound)
}
