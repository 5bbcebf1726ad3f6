// internal/resolve/connection.go
//
// Connection selection.
//
// Context
// -------
// One domain may carry several connections (a website, a funnel or two,
// and a course area), yet the request path is flat.  chooseConnection
// picks exactly one, in this order:
//
//	0. mount     – a connection mounted at a non-root Path that prefixes
//	               the request path; longest mount wins, prefix stripped.
//	1. root      – homepage flag → website → course area → funnel.
//	2. course    – first segment "courses" or "members" → course area.
//	3. site route – "product", "collection", or "search" as the last (or
//	               first) segment → website.
//	4. system    – "payment-processing", "order-confirmation", "cart", or
//	               "checkout" as the last segment → funnel, else website.
//	5. probe     – the first funnel holding a published step whose slug is
//	               the last segment (see probe.go).
//	6. default   – website.
//
// Rules 1 through 6 consider only root-mounted connections unless every
// connection is mounted.  Ties within a kind go to the lowest id; more
// than one homepage flag is logged as an anomaly.
//
// Notes
// -----
// • Each branch records `connection:rule=<name>` in the decisions.
package resolve

import (
	"context"
	"slices"

	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/hostmatch"
)

var (
	courseRoots   = map[string]bool{"courses": true, "members": true}
	websiteRoutes = map[string]bool{"product": true, "collection": true, "search": true}
	systemRoutes  = map[string]bool{
		"payment-processing": true,
		"order-confirmation": true,
		"cart":               true,
		"checkout":           true,
	}
)

// pick is a selected connection plus whatever the selection already
// loaded, so slug resolution does not fetch it twice.
type pick struct {
	conn    content.Connection
	path    string // content path after mount stripping
	website *content.Website
	funnel  *content.Funnel
	step    *content.Step // set when a funnel probe matched

	// appRoute is set when the path names an application route (cart,
	// checkout, product, and so on) rather than a page slug.  Those keep
	// content-level metadata when no page row matches.
	appRoute bool
}

// selectConnection loads the domain's connections and picks one.
func (e *Engine) selectConnection(ctx context.Context, st *state, domainID, path string) (pick, bool) {
	conns, err := e.store.FindConnections(ctx, domainID)
	if e.miss(st, "connection", err) || len(conns) == 0 {
		st.note("connection:none domain=%s", domainID)
		return pick{}, false
	}
	return e.chooseConnection(ctx, st, sortByID(conns), path)
}

// chooseConnection applies rules 0 through 6 to conns (sorted by id).
func (e *Engine) chooseConnection(ctx context.Context, st *state, conns []content.Connection, path string) (pick, bool) {
	segs := hostmatch.Segments(path)

	if len(segs) > 0 {
		if c, rest, ok := longestMount(conns, path); ok {
			st.note("connection:rule=mount id=%s mount=%s", c.ID, hostmatch.NormalizePath(c.Path))
			return pick{conn: c, path: rest}, true
		}
	}

	general := rootMounted(conns)
	found := func(rule string, c content.Connection) (pick, bool) {
		st.note("connection:rule=%s id=%s kind=%s", rule, c.ID, c.Kind)
		return pick{conn: c, path: path}, true
	}
	foundRoute := func(rule string, c content.Connection) (pick, bool) {
		p, ok := found(rule, c)
		p.appRoute = true
		return p, ok
	}

	// 1. root
	if len(segs) == 0 {
		var homes []content.Connection
		for _, c := range general {
			if c.IsHomepage {
				homes = append(homes, c)
			}
		}
		if len(homes) > 1 {
			st.note("connection:anomaly homepages=%d", len(homes))
			e.log.Warnw("multiple homepage connections", "host", st.route.Host, "count", len(homes), "picked", homes[0].ID)
		}
		if len(homes) > 0 {
			return found("root_homepage", homes[0])
		}
		for _, k := range []content.Kind{content.KindWebsite, content.KindCourseArea, content.KindFunnel} {
			if c, ok := firstOfKind(general, k); ok {
				return found("root_"+k.String(), c)
			}
		}
		st.note("connection:none")
		return pick{}, false
	}

	first, last := segs[0], segs[len(segs)-1]

	// 2. course area prefix
	if courseRoots[first] {
		if c, ok := firstOfKind(general, content.KindCourseArea); ok {
			return found("course_prefix", c)
		}
	}

	// 3. website system routes
	if websiteRoutes[last] || websiteRoutes[first] {
		if c, ok := firstOfKind(general, content.KindWebsite); ok {
			return foundRoute("website_route", c)
		}
	}

	// 4. generic system routes
	if systemRoutes[last] {
		if c, ok := firstOfKind(general, content.KindFunnel); ok {
			return foundRoute("system_route_funnel", c)
		}
		if c, ok := firstOfKind(general, content.KindWebsite); ok {
			return foundRoute("system_route_website", c)
		}
	}

	// 5. funnel probe
	var funnels []content.Connection
	for _, c := range general {
		if c.Kind == content.KindFunnel {
			funnels = append(funnels, c)
		}
	}
	if len(funnels) > 0 {
		if i, step, ok := e.probeFunnels(ctx, st, funnels, last); ok {
			st.note("connection:rule=funnel_probe id=%s kind=%s", funnels[i].ID, funnels[i].Kind)
			return pick{conn: funnels[i], path: path, step: step}, true
		}
	}

	// 6. default
	if c, ok := firstOfKind(general, content.KindWebsite); ok {
		return found("default_website", c)
	}
	st.note("connection:none")
	return pick{}, false
}

// longestMount returns the connection with the longest non-root Path that
// prefixes path, and path with that prefix removed.
func longestMount(conns []content.Connection, path string) (content.Connection, string, bool) {
	var (
		best     content.Connection
		bestRest string
		bestLen  int
	)
	for _, c := range conns {
		n := len(hostmatch.Segments(c.Path))
		if n == 0 || n <= bestLen {
			continue
		}
		if rest, ok := hostmatch.StripPrefix(path, c.Path); ok {
			best, bestRest, bestLen = c, rest, n
		}
	}
	return best, bestRest, bestLen > 0
}

// rootMounted drops connections with a mount path, unless that leaves
// nothing.
func rootMounted(conns []content.Connection) []content.Connection {
	var out []content.Connection
	for _, c := range conns {
		if hostmatch.IsRoot(c.Path) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return conns
	}
	return out
}

func firstOfKind(conns []content.Connection, k content.Kind) (content.Connection, bool) {
	for _, c := range conns {
		if c.Kind == k {
			return c, true
		}
	}
	return content.Connection{}, false
}

// sortByID returns conns ordered by id; stores already do this, but the
// choice must not depend on it.
func sortByID(conns []content.Connection) []content.Connection {
	out := append([]content.Connection(nil), conns...)
	slices.SortStableFunc(out, func(a, b content.Connection) int {
		switch {
		case lessID(a.ID, b.ID):
			return -1
		case lessID(b.ID, a.ID):
			return 1
		}
		return 0
	})
	return out
}
