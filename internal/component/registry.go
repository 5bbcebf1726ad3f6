// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each HTTP entry point lives under components/<name> and calls
// component.Register() in an init() function.  internal/server mounts
// every enabled component on the shared chi router, handing it the Deps
// built once by cmd/web.  Components hold no state of their own beyond
// what Deps gives them; the resolution engine is the single source of
// routing truth and the components are thin adapters over it.

package component

import (
	"slices"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/seoedge/internal/config"
	"github.com/yanizio/seoedge/internal/render"
	"github.com/yanizio/seoedge/internal/resolve"
)

// Deps is everything a component may use.
type Deps struct {
	Engine   *resolve.Engine
	Renderer *render.Renderer
	Human    render.HumanHandler
	Config   *config.Config
}

// Component contract.
//
// Mount registers the component's routes, e.g.:
//
//	func (c) Mount(r chi.Router, d component.Deps) {
//		h := &handler{deps: d}
//		r.Get("/api/seo/preview", h.serve)
//	}
type Component interface {
	Name() string
	Mount(r chi.Router, d Deps)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Enabled filters All by name.  An empty list enables everything.
func Enabled(names []string) []Component {
	all := All()
	if len(names) == 0 {
		return all
	}
	return slices.DeleteFunc(all, func(c Component) bool { return !slices.Contains(names, c.Name()) })
}
