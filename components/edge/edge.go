// components/edge/edge.go
//
// Edge component: the catch-all entry point behind the CDN.
//
// Every GET or HEAD that no other component claims lands here.  Automated
// clients get the SEO document for (Host, path); humans get whatever the
// configured human strategy does, and the engine runs for them only when
// that strategy needs the route.
package edge

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/seoedge/internal/component"
	"github.com/yanizio/seoedge/internal/metrics"
	"github.com/yanizio/seoedge/internal/requestinfo"
	"github.com/yanizio/seoedge/internal/resolve"
)

var _ component.Component = (*Comp)(nil)

func init() { component.Register(&Comp{}) }

// Comp implements component.Component.
type Comp struct{}

func (c *Comp) Name() string { return "edge" }

func (c *Comp) Mount(r chi.Router, d component.Deps) {
	h := &handler{deps: d}
	r.Get("/*", h.serve)
	r.Head("/*", h.serve)
}

type handler struct {
	deps component.Deps
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request) {
	info := requestinfo.FromContext(r.Context())
	if info == nil {
		info = requestinfo.Build(r, requestinfo.Options{})
	}
	metrics.Requests.WithLabelValues("edge", info.Class()).Inc()

	var res resolve.Result
	if info.Automated || h.deps.Human.NeedsRoute() {
		res = h.deps.Engine.Resolve(r.Context(), r.Host, r.URL.Path)
	}

	if info.Automated {
		h.deps.Renderer.Bot(w, r, res)
		return
	}
	h.deps.Human.ServeHuman(w, r, res)
}
