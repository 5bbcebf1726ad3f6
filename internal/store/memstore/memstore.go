// internal/store/memstore/memstore.go
//
// In-memory Store backed by plain slices.
//
// Context
// -------
// memstore serves two callers:
//
//   • tests across the module, which build fixtures in Go, and
//   • the `database.driver: memory` dev mode, which loads a YAML fixture
//     file through Load (see fixtures.go).
//
// Semantics match sqlstore exactly: published-only page and step lookups,
// id ordering for multi-row results, ErrNotFound on misses.  Slices are
// never mutated after construction, so concurrent reads need no locking.
//
// Notes
// -----
// • Hooks lets tests inject latency or failures per method.
// • Oxford commas, two spaces after periods.
package memstore

import (
	"context"
	"sort"

	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/store"
)

// Data is the full fixture set.
type Data struct {
	Tenants     []content.Tenant
	Domains     []content.CustomDomain
	Connections []content.Connection
	Websites    []content.Website
	Pages       []content.Page
	Funnels     []content.Funnel
	Steps       []content.Step
	CourseAreas []content.CourseArea
}

// Hook runs before every lookup.  A non-nil error is returned to the caller
// in place of the lookup result.
type Hook func(ctx context.Context, method string, args ...string) error

// Store implements store.Store.
type Store struct {
	data Data
	hook Hook
}

var _ store.Store = (*Store)(nil)

// New returns a Store over d.
func New(d Data) *Store { return &Store{data: d} }

// WithHook returns a copy of s that calls h before every lookup.
func (s *Store) WithHook(h Hook) *Store { return &Store{data: s.data, hook: h} }

func (s *Store) before(ctx context.Context, method string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.hook != nil {
		return s.hook(ctx, method, args...)
	}
	return nil
}

func (s *Store) FindVerifiedDomains(ctx context.Context, candidates []string) ([]content.CustomDomain, error) {
	if err := s.before(ctx, "FindVerifiedDomains", candidates...); err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		want[c] = struct{}{}
	}
	var out []content.CustomDomain
	for _, d := range s.data.Domains {
		if _, ok := want[d.Domain]; ok && d.Routable() {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindConnections(ctx context.Context, domainID string) ([]content.Connection, error) {
	if err := s.before(ctx, "FindConnections", domainID); err != nil {
		return nil, err
	}
	var out []content.Connection
	for _, c := range s.data.Connections {
		if c.DomainID == domainID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindWebsitePage(ctx context.Context, websiteID, slug string) (*content.Page, error) {
	if err := s.before(ctx, "FindWebsitePage", websiteID, slug); err != nil {
		return nil, err
	}
	for i := range s.data.Pages {
		p := &s.data.Pages[i]
		if p.WebsiteID != websiteID || !p.IsPublished {
			continue
		}
		if (slug == "" && p.IsHomepage) || (slug != "" && p.Slug == slug) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindFunnelStep(ctx context.Context, funnelID, slug string) (*content.Step, error) {
	if err := s.before(ctx, "FindFunnelStep", funnelID, slug); err != nil {
		return nil, err
	}
	var best *content.Step
	for i := range s.data.Steps {
		st := &s.data.Steps[i]
		if st.FunnelID != funnelID || !st.IsPublished {
			continue
		}
		if slug != "" {
			if st.Slug == slug {
				cp := *st
				return &cp, nil
			}
			continue
		}
		// Homepage step first, then lowest step_order.
		if best == nil ||
			(st.IsHomepage && !best.IsHomepage) ||
			(st.IsHomepage == best.IsHomepage && st.StepOrder < best.StepOrder) {
			best = st
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (s *Store) FindTenant(ctx context.Context, tenantID string) (*content.Tenant, error) {
	if err := s.before(ctx, "FindTenant", tenantID); err != nil {
		return nil, err
	}
	for _, t := range s.data.Tenants {
		if t.ID == tenantID {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindTenantBySlug(ctx context.Context, slug string) (*content.Tenant, error) {
	if err := s.before(ctx, "FindTenantBySlug", slug); err != nil {
		return nil, err
	}
	for _, t := range s.data.Tenants {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

// FindTenantWebsite returns the tenant's website with the lowest id.
func (s *Store) FindTenantWebsite(ctx context.Context, tenantID string) (*content.Website, error) {
	if err := s.before(ctx, "FindTenantWebsite", tenantID); err != nil {
		return nil, err
	}
	var best *content.Website
	for i := range s.data.Websites {
		w := &s.data.Websites[i]
		if w.TenantID == tenantID && (best == nil || w.ID < best.ID) {
			best = w
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (s *Store) FindWebsite(ctx context.Context, websiteID string) (*content.Website, error) {
	if err := s.before(ctx, "FindWebsite", websiteID); err != nil {
		return nil, err
	}
	for _, w := range s.data.Websites {
		if w.ID == websiteID {
			return &w, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindWebsiteBySlug(ctx context.Context, slug string) (*content.Website, error) {
	if err := s.before(ctx, "FindWebsiteBySlug", slug); err != nil {
		return nil, err
	}
	for _, w := range s.data.Websites {
		if w.Slug == slug {
			return &w, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindFunnel(ctx context.Context, funnelID string) (*content.Funnel, error) {
	if err := s.before(ctx, "FindFunnel", funnelID); err != nil {
		return nil, err
	}
	for _, f := range s.data.Funnels {
		if f.ID == funnelID {
			return &f, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindFunnelBySlug(ctx context.Context, tenantID, slug string) (*content.Funnel, error) {
	if err := s.before(ctx, "FindFunnelBySlug", tenantID, slug); err != nil {
		return nil, err
	}
	for _, f := range s.data.Funnels {
		if f.Slug == slug && (tenantID == "" || f.TenantID == tenantID) {
			return &f, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindCourseArea(ctx context.Context, courseAreaID string) (*content.CourseArea, error) {
	if err := s.before(ctx, "FindCourseArea", courseAreaID); err != nil {
		return nil, err
	}
	for _, c := range s.data.CourseAreas {
		if c.ID == courseAreaID {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) Ping(ctx context.Context) error { return s.before(ctx, "Ping") }
