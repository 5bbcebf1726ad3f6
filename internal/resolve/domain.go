package resolve

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/yanizio/seoedge/internal/content"
)

// Candidates returns {host, apex, "www."+apex} without duplicates, where
// apex is host minus a leading "www.".  Order is lookup precedence.
func Candidates(host string) []string {
	if host == "" {
		return nil
	}
	apex := strings.TrimPrefix(host, "www.")
	out := make([]string, 0, 3)
	for _, c := range []string{host, apex, "www." + apex} {
		if c == "" || c == "www." || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// resolveDomain finds the verified, DNS-configured domain for host.  When
// several rows match, the one whose name appears first in Candidates wins,
// then the lowest id.  The extra rows are logged as an anomaly.
func (e *Engine) resolveDomain(ctx context.Context, st *state, host string) (content.CustomDomain, bool) {
	cands := Candidates(host)
	if len(cands) == 0 {
		st.note("domain:miss host=%q", host)
		return content.CustomDomain{}, false
	}

	rows, err := e.store.FindVerifiedDomains(ctx, cands)
	if e.miss(st, "domain", err) {
		st.note("domain:miss host=%s", host)
		return content.CustomDomain{}, false
	}

	var routable []content.CustomDomain
	for _, d := range rows {
		if d.Routable() {
			routable = append(routable, d)
		}
	}
	if len(routable) == 0 {
		st.note("domain:miss host=%s", host)
		return content.CustomDomain{}, false
	}

	best := pickDomain(routable, cands)
	if len(routable) > 1 {
		st.note("domain:anomaly rows=%d", len(routable))
		e.log.Warnw("multiple verified domains match host",
			"host", host,
			"rows", len(routable),
			"picked", best.ID,
		)
	}
	st.note("domain:match id=%s name=%s tenant=%s", best.ID, best.Domain, best.TenantID)
	return best, true
}

// pickDomain applies candidate order, then lowest id.  rows is non-empty.
func pickDomain(rows []content.CustomDomain, cands []string) content.CustomDomain {
	rank := func(d content.CustomDomain) int {
		for i, c := range cands {
			if strings.EqualFold(d.Domain, c) {
				return i
			}
		}
		return len(cands)
	}
	best := rows[0]
	for _, d := range rows[1:] {
		rb, rd := rank(best), rank(d)
		if rd < rb || (rd == rb && lessID(d.ID, best.ID)) {
			best = d
		}
	}
	return best
}

// lessID orders numeric ids numerically and anything else lexically.
func lessID(a, b string) bool {
	ai, aerr := strconv.ParseUint(a, 10, 64)
	bi, berr := strconv.ParseUint(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
