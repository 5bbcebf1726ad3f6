package resolve

import (
	"context"

	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/hostmatch"
)

// resolveContent loads the picked content and resolves the last path
// segment to a published page or step.  An empty path means the homepage
// (websites) or the homepage, else first, step (funnels).  Course areas
// resolve at content level only.
//
// A non-empty slug that matches nothing is not found, unless the path is an
// application route.  The store already filters unpublished rows; the
// checks here make sure a store that does not still cannot leak a draft.
func (e *Engine) resolveContent(ctx context.Context, st *state, p pick) {
	slug := hostmatch.LastSegment(p.path)

	switch p.conn.Kind {
	case content.KindWebsite:
		w := p.website
		if w == nil {
			var err error
			if w, err = e.store.FindWebsite(ctx, p.conn.ContentID); e.miss(st, "content", err) {
				st.note("content:miss website=%s", p.conn.ContentID)
				return
			}
		}
		st.in.Website = w
		e.loadTenant(ctx, st, w.TenantID)

		page, err := e.store.FindWebsitePage(ctx, w.ID, slug)
		if e.miss(st, "slug", err) || !visiblePage(page, w.ID, slug) {
			st.note("slug:miss website=%s slug=%q", w.ID, slug)
			st.unmatched(p.path, p.appRoute)
			return
		}
		st.in.Page = page
		st.note("slug:page id=%s slug=%s", page.ID, page.Slug)

	case content.KindFunnel:
		f := p.funnel
		if f == nil {
			var err error
			if f, err = e.store.FindFunnel(ctx, p.conn.ContentID); e.miss(st, "content", err) {
				st.note("content:miss funnel=%s", p.conn.ContentID)
				return
			}
		}
		st.in.Funnel = f
		e.loadTenant(ctx, st, f.TenantID)

		step := p.step
		if step == nil {
			var err error
			if step, err = e.store.FindFunnelStep(ctx, f.ID, slug); e.miss(st, "slug", err) {
				st.note("slug:miss funnel=%s slug=%q", f.ID, slug)
				st.unmatched(p.path, p.appRoute)
				return
			}
		}
		if !visibleStep(step, f.ID, slug) {
			st.note("slug:miss funnel=%s slug=%q", f.ID, slug)
			st.unmatched(p.path, p.appRoute)
			return
		}
		st.in.Step = step
		st.note("slug:step id=%s slug=%s order=%d", step.ID, step.Slug, step.StepOrder)

	case content.KindCourseArea:
		ca, err := e.store.FindCourseArea(ctx, p.conn.ContentID)
		if e.miss(st, "content", err) {
			st.note("content:miss course_area=%s", p.conn.ContentID)
			return
		}
		st.in.CourseArea = ca
		e.loadTenant(ctx, st, ca.TenantID)
		st.note("content:course_area id=%s", ca.ID)

	default:
		st.note("content:unknown_kind kind=%s", p.conn.Kind)
	}
}

func visiblePage(p *content.Page, websiteID, slug string) bool {
	if p == nil || !p.IsPublished || p.WebsiteID != websiteID {
		return false
	}
	return slug == "" || p.Slug == slug
}

func visibleStep(s *content.Step, funnelID, slug string) bool {
	if s == nil || !s.IsPublished || s.FunnelID != funnelID {
		return false
	}
	return slug == "" || s.Slug == slug
}
