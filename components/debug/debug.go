// components/debug/debug.go
//
// Debug component that explains one resolution as JSON.
//
//	GET /__seo/debug?host=shop.example.com&path=/about
//
// host defaults to the request's own Host and path to "/".  The response
// carries the matched route, every stage decision, the resolved content,
// the degraded flag, and the caller's RequestInfo, which is usually enough
// to see why a URL rendered the way it did without reading logs.
package debug

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/seoedge/internal/component"
	"github.com/yanizio/seoedge/internal/metrics"
	"github.com/yanizio/seoedge/internal/requestinfo"
)

// Route is where the component mounts.
const Route = "/__seo/debug"

var _ component.Component = (*Comp)(nil)

func init() { component.Register(&Comp{}) }

type Comp struct{}

func (c *Comp) Name() string { return "debug" }

func (c *Comp) Mount(r chi.Router, d component.Deps) {
	r.Get(Route, func(w http.ResponseWriter, r *http.Request) { serve(d, w, r) })
}

// serve writes a JSON blob describing the resolution.
func serve(d component.Deps, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	host := q.Get("host")
	if host == "" {
		host = r.Host
	}
	path := q.Get("path")
	if path == "" {
		path = "/"
	}

	info := requestinfo.FromContext(r.Context())
	class := "human"
	if info != nil {
		class = info.Class()
	}
	metrics.Requests.WithLabelValues("debug", class).Inc()

	res := d.Engine.Resolve(r.Context(), host, path)
	out := map[string]any{
		"route":     res.Route,
		"outcome":   res.Outcome,
		"decisions": res.Decisions,
		"degraded":  res.Degraded,
		"resolved":  res.Content,
		"request":   info,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
