// internal/store/sqlstore/sqlstore.go
//
// MySQL-backed Store (sqlx).
//
// Context
// -------
// Read-only access to the content tables for the routing engine.  Every
// helper executes exactly one parameterised SELECT and honours the request
// context, so a cancelled request or an expired pipeline deadline abandons
// the query.
//
// Workflow
// --------
//  1. cmd/web opens a *sqlx.DB through internal/database.
//  2. New wraps it; the engine only sees the store.Store interface.
//  3. Misses map to store.ErrNotFound; every other error is returned
//     wrapped so the engine can count it as an upstream failure.
//
// Notes
// -----
//   - Nullable text columns are COALESCEd to '' so models stay plain strings.
//   - Page and step queries filter `is_published = 1` at SQL level.  The
//     engine re-checks the flag, but the query is the primary guard.
//   - Column lists match the fields in internal/content; update both
//     together.
//   - Oxford commas, two spaces after periods, no m-dash.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/store"
)

// Store implements store.Store over a *sqlx.DB.
type Store struct {
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open pool.
func New(db *sqlx.DB) *Store { return &Store{db: db} }

/*──────────────────────────── column lists ─────────────────────────────────*/

const seoCols = `
        COALESCE(seo_title, '')         AS seo_title,
        COALESCE(seo_description, '')   AS seo_description,
        COALESCE(seo_keywords, '')      AS seo_keywords,
        COALESCE(og_image, '')          AS og_image,
        COALESCE(social_image_url, '')  AS social_image_url,
        COALESCE(preview_image_url, '') AS preview_image_url,
        COALESCE(canonical_url, '')     AS canonical_url,
        COALESCE(meta_robots, '')       AS meta_robots,
        COALESCE(content, '')           AS content`

const pageCols = `id, website_id, slug, COALESCE(title, '') AS title,
        is_homepage, is_published,` + seoCols

const stepCols = `id, funnel_id, slug, COALESCE(title, '') AS title,
        step_order, step_type, is_homepage, is_published,` + seoCols

const websiteCols = `id, store_id, name, slug, COALESCE(description, '') AS description`

const funnelCols = websiteCols

/*──────────────────────────── domains ──────────────────────────────────────*/

// FindVerifiedDomains returns every routable row whose domain is in
// candidates.  The caller picks among multiple rows.
func (s *Store) FindVerifiedDomains(ctx context.Context, candidates []string) ([]content.CustomDomain, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(`
        SELECT id, domain, store_id, is_verified, dns_configured
        FROM   custom_domains
        WHERE  domain IN (?)
          AND  is_verified    = 1
          AND  dns_configured = 1
        ORDER  BY id`, candidates)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build domain query: %w", err)
	}

	var rows []content.CustomDomain
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("sqlstore: find domains: %w", err)
	}
	return rows, nil
}

/*──────────────────────────── connections ──────────────────────────────────*/

type connectionRow struct {
	ID          string `db:"id"`
	DomainID    string `db:"domain_id"`
	ContentType string `db:"content_type"`
	ContentID   string `db:"content_id"`
	Path        string `db:"path"`
	IsHomepage  bool   `db:"is_homepage"`
}

// FindConnections returns a domain's bindings ordered by id.  Rows with an
// unknown content_type are skipped and logged; they can never route.
func (s *Store) FindConnections(ctx context.Context, domainID string) ([]content.Connection, error) {
	const q = `
        SELECT id, domain_id, content_type, content_id,
               COALESCE(path, '') AS path, is_homepage
        FROM   domain_connections
        WHERE  domain_id = ?
        ORDER  BY id`

	var rows []connectionRow
	if err := s.db.SelectContext(ctx, &rows, q, domainID); err != nil {
		return nil, fmt.Errorf("sqlstore: find connections: %w", err)
	}

	out := make([]content.Connection, 0, len(rows))
	for _, r := range rows {
		kind, err := content.ParseKind(r.ContentType)
		if err != nil {
			zap.S().Warnw("skipping connection", "connection", r.ID, "domain", domainID, "err", err)
			continue
		}
		out = append(out, content.Connection{
			ID:         r.ID,
			DomainID:   r.DomainID,
			Kind:       kind,
			ContentID:  r.ContentID,
			Path:       r.Path,
			IsHomepage: r.IsHomepage,
		})
	}
	return out, nil
}

/*──────────────────────────── pages and steps ──────────────────────────────*/

func (s *Store) FindWebsitePage(ctx context.Context, websiteID, slug string) (*content.Page, error) {
	var (
		q    string
		args []any
	)
	if slug == "" {
		q = `SELECT ` + pageCols + `
        FROM   website_pages
        WHERE  website_id = ? AND is_homepage = 1 AND is_published = 1
        ORDER  BY id
        LIMIT  1`
		args = []any{websiteID}
	} else {
		q = `SELECT ` + pageCols + `
        FROM   website_pages
        WHERE  website_id = ? AND slug = ? AND is_published = 1
        ORDER  BY id
        LIMIT  1`
		args = []any{websiteID, slug}
	}

	var p content.Page
	if err := s.db.GetContext(ctx, &p, q, args...); err != nil {
		return nil, wrap("find website page", err)
	}
	return &p, nil
}

func (s *Store) FindFunnelStep(ctx context.Context, funnelID, slug string) (*content.Step, error) {
	var (
		q    string
		args []any
	)
	if slug == "" {
		q = `SELECT ` + stepCols + `
        FROM   funnel_steps
        WHERE  funnel_id = ? AND is_published = 1
        ORDER  BY is_homepage DESC, step_order ASC, id ASC
        LIMIT  1`
		args = []any{funnelID}
	} else {
		q = `SELECT ` + stepCols + `
        FROM   funnel_steps
        WHERE  funnel_id = ? AND slug = ? AND is_published = 1
        ORDER  BY id
        LIMIT  1`
		args = []any{funnelID, slug}
	}

	var st content.Step
	if err := s.db.GetContext(ctx, &st, q, args...); err != nil {
		return nil, wrap("find funnel step", err)
	}
	return &st, nil
}

/*──────────────────────────── tenants ──────────────────────────────────────*/

const tenantCols = `id, name, slug, COALESCE(settings, '') AS settings`

func (s *Store) FindTenant(ctx context.Context, tenantID string) (*content.Tenant, error) {
	return s.getTenant(ctx, `SELECT `+tenantCols+` FROM stores WHERE id = ? LIMIT 1`, tenantID)
}

func (s *Store) FindTenantBySlug(ctx context.Context, slug string) (*content.Tenant, error) {
	return s.getTenant(ctx, `SELECT `+tenantCols+` FROM stores WHERE slug = ? LIMIT 1`, slug)
}

func (s *Store) getTenant(ctx context.Context, q string, arg string) (*content.Tenant, error) {
	var t content.Tenant
	if err := s.db.GetContext(ctx, &t, q, arg); err != nil {
		return nil, wrap("find tenant", err)
	}
	return &t, nil
}

/*──────────────────────────── content roots ────────────────────────────────*/

// FindTenantWebsite returns the tenant's oldest website, which the platform
// treats as its primary site.
func (s *Store) FindTenantWebsite(ctx context.Context, tenantID string) (*content.Website, error) {
	var w content.Website
	q := `SELECT ` + websiteCols + ` FROM websites WHERE store_id = ? ORDER BY id LIMIT 1`
	if err := s.db.GetContext(ctx, &w, q, tenantID); err != nil {
		return nil, wrap("find tenant website", err)
	}
	return &w, nil
}

func (s *Store) FindWebsite(ctx context.Context, websiteID string) (*content.Website, error) {
	var w content.Website
	q := `SELECT ` + websiteCols + ` FROM websites WHERE id = ? LIMIT 1`
	if err := s.db.GetContext(ctx, &w, q, websiteID); err != nil {
		return nil, wrap("find website", err)
	}
	return &w, nil
}

func (s *Store) FindWebsiteBySlug(ctx context.Context, slug string) (*content.Website, error) {
	var w content.Website
	q := `SELECT ` + websiteCols + ` FROM websites WHERE slug = ? ORDER BY id LIMIT 1`
	if err := s.db.GetContext(ctx, &w, q, slug); err != nil {
		return nil, wrap("find website by slug", err)
	}
	return &w, nil
}

func (s *Store) FindFunnel(ctx context.Context, funnelID string) (*content.Funnel, error) {
	var f content.Funnel
	q := `SELECT ` + funnelCols + ` FROM funnels WHERE id = ? LIMIT 1`
	if err := s.db.GetContext(ctx, &f, q, funnelID); err != nil {
		return nil, wrap("find funnel", err)
	}
	return &f, nil
}

func (s *Store) FindFunnelBySlug(ctx context.Context, tenantID, slug string) (*content.Funnel, error) {
	var (
		f    content.Funnel
		q    = `SELECT ` + funnelCols + ` FROM funnels WHERE slug = ? ORDER BY id LIMIT 1`
		args = []any{slug}
	)
	if tenantID != "" {
		q = `SELECT ` + funnelCols + ` FROM funnels WHERE store_id = ? AND slug = ? ORDER BY id LIMIT 1`
		args = []any{tenantID, slug}
	}
	if err := s.db.GetContext(ctx, &f, q, args...); err != nil {
		return nil, wrap("find funnel by slug", err)
	}
	return &f, nil
}

func (s *Store) FindCourseArea(ctx context.Context, courseAreaID string) (*content.CourseArea, error) {
	var c content.CourseArea
	q := `SELECT id, store_id, name, COALESCE(description, '') AS description
        FROM course_areas WHERE id = ? LIMIT 1`
	if err := s.db.GetContext(ctx, &c, q, courseAreaID); err != nil {
		return nil, wrap("find course area", err)
	}
	return &c, nil
}

// Ping checks the pool; used by /healthz.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

/*──────────────────────────── helpers ──────────────────────────────────────*/

// wrap maps sql.ErrNoRows onto store.ErrNotFound and annotates the rest.
func wrap(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return fmt.Errorf("sqlstore: %s: %w", op, err)
}
