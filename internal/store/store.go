// Package store defines the read-only content store the routing engine
// consumes.  The engine never assumes a storage technology; sqlstore
// (MySQL via sqlx) and memstore (in-memory fixtures) both satisfy Store.
//
// Contract
// --------
//   - A lookup that finds nothing returns ErrNotFound (or an empty slice for
//     the multi-row helpers).  Any other error is an upstream failure.
//   - Page and step lookups return published rows only.
//   - Every method honours ctx cancellation and deadlines.
package store

import (
	"context"
	"errors"

	"github.com/yanizio/seoedge/internal/content"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Store is the collaborator interface consumed by internal/resolve.
type Store interface {
	// FindVerifiedDomains returns every verified, DNS-configured domain whose
	// name is in candidates.  Rows are ordered by id.
	FindVerifiedDomains(ctx context.Context, candidates []string) ([]content.CustomDomain, error)

	// FindConnections returns the connections of one domain ordered by id.
	FindConnections(ctx context.Context, domainID string) ([]content.Connection, error)

	// FindWebsitePage returns the published page with slug, or the published
	// homepage when slug is empty.
	FindWebsitePage(ctx context.Context, websiteID, slug string) (*content.Page, error)

	// FindFunnelStep returns the published step with slug.  With an empty
	// slug it returns the published homepage step, else the published step
	// with the lowest step_order.
	FindFunnelStep(ctx context.Context, funnelID, slug string) (*content.Step, error)

	// FindTenant returns the tenant row including its raw settings JSON.
	FindTenant(ctx context.Context, tenantID string) (*content.Tenant, error)

	FindTenantBySlug(ctx context.Context, slug string) (*content.Tenant, error)
	FindTenantWebsite(ctx context.Context, tenantID string) (*content.Website, error)

	FindWebsite(ctx context.Context, websiteID string) (*content.Website, error)
	FindWebsiteBySlug(ctx context.Context, slug string) (*content.Website, error)
	FindFunnel(ctx context.Context, funnelID string) (*content.Funnel, error)
	FindCourseArea(ctx context.Context, courseAreaID string) (*content.CourseArea, error)

	// FindFunnelBySlug returns the funnel with slug.  A non-empty tenantID
	// restricts the match to that tenant; funnel slugs are only unique per
	// tenant.
	FindFunnelBySlug(ctx context.Context, tenantID, slug string) (*content.Funnel, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
