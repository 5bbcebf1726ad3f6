package memstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/store"
)

const fixtureYAML = `
tenants:
  - id: t1
    name: Acme
    slug: acme
    settings:
      seo:
        title: Acme Store
domains:
  - {id: d1, domain: shop.example.com, tenant_id: t1, is_verified: true, dns_configured: true}
  - {id: d2, domain: pending.example.com, tenant_id: t1, is_verified: true, dns_configured: false}
connections:
  - {id: c1, domain_id: d1, content_type: website, content_id: w1}
  - {id: c2, domain_id: d1, content_type: funnel, content_id: f1, path: /offer}
websites:
  - {id: w1, tenant_id: t1, name: Acme Site, slug: acme-site}
pages:
  - id: p1
    website_id: w1
    slug: home
    title: Home
    is_homepage: true
    is_published: true
    content:
      sections:
        - {type: paragraph, text: Hello there.}
  - {id: p2, website_id: w1, slug: draft, title: Draft, is_published: false}
funnels:
  - {id: f1, tenant_id: t1, name: Launch, slug: launch}
steps:
  - {id: s2, funnel_id: f1, slug: pay, step_order: 2, step_type: checkout, is_published: true}
  - {id: s1, funnel_id: f1, slug: optin, step_order: 1, step_type: landing, is_published: true}
`

func loadFixture(t *testing.T) *Store {
	t.Helper()
	d, err := Parse([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return New(d)
}

func TestParse_Fixtures(t *testing.T) {
	s := loadFixture(t)
	ctx := context.Background()

	ten, err := s.FindTenant(ctx, "t1")
	if err != nil {
		t.Fatalf("FindTenant: %v", err)
	}
	settings, err := content.ParseSettings(ten.Settings)
	if err != nil || settings.SEO.Title != "Acme Store" {
		t.Fatalf("settings round-trip failed: %+v, %v", settings, err)
	}

	conns, err := s.FindConnections(ctx, "d1")
	if err != nil || len(conns) != 2 {
		t.Fatalf("FindConnections = %v, %v", conns, err)
	}
	if conns[1].Kind != content.KindFunnel || conns[1].Path != "/offer" {
		t.Errorf("unexpected second connection: %+v", conns[1])
	}

	home, err := s.FindWebsitePage(ctx, "w1", "")
	if err != nil {
		t.Fatalf("homepage: %v", err)
	}
	if !strings.Contains(string(home.Content), "Hello there.") {
		t.Errorf("content not encoded to JSON: %s", home.Content)
	}
}

func TestParse_UnknownContentType(t *testing.T) {
	_, err := Parse([]byte("connections:\n  - {id: c9, content_type: blog}\n"))
	if err == nil {
		t.Fatal("expected error for unknown content_type")
	}
}

func TestFindVerifiedDomains_SkipsUnroutable(t *testing.T) {
	s := loadFixture(t)
	got, err := s.FindVerifiedDomains(context.Background(),
		[]string{"pending.example.com", "shop.example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "d1" {
		t.Fatalf("got %+v, want only d1", got)
	}
}

func TestFindWebsitePage_UnpublishedInvisible(t *testing.T) {
	s := loadFixture(t)
	_, err := s.FindWebsitePage(context.Background(), "w1", "draft")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindFunnelStep_LowestOrderWithoutHomepage(t *testing.T) {
	s := loadFixture(t)
	st, err := s.FindFunnelStep(context.Background(), "f1", "")
	if err != nil {
		t.Fatal(err)
	}
	if st.ID != "s1" {
		t.Fatalf("step = %s, want s1 (lowest step_order)", st.ID)
	}
}

func TestFindFunnelBySlug_TenantScoped(t *testing.T) {
	s := New(Data{Funnels: []content.Funnel{
		{ID: "f1", TenantID: "t1", Slug: "sale"},
		{ID: "f2", TenantID: "t2", Slug: "sale"},
	}})
	ctx := context.Background()

	if f, err := s.FindFunnelBySlug(ctx, "t2", "sale"); err != nil || f.ID != "f2" {
		t.Fatalf("t2 sale = %+v, %v", f, err)
	}
	if f, err := s.FindFunnelBySlug(ctx, "", "sale"); err != nil || f.ID != "f1" {
		t.Fatalf("unscoped sale = %+v, %v", f, err)
	}
	if _, err := s.FindFunnelBySlug(ctx, "t3", "sale"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("t3 err = %v, want ErrNotFound", err)
	}
}

func TestHook_InjectsFailure(t *testing.T) {
	boom := errors.New("db down")
	s := loadFixture(t).WithHook(func(_ context.Context, method string, _ ...string) error {
		if method == "FindTenant" {
			return boom
		}
		return nil
	})
	if _, err := s.FindTenant(context.Background(), "t1"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want injected failure", err)
	}
	if _, err := s.FindWebsite(context.Background(), "w1"); err != nil {
		t.Fatalf("other methods should be unaffected: %v", err)
	}
}

func TestShippedFixturesLoad(t *testing.T) {
	st, err := Load("../../../conf/fixtures.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ds, err := st.FindVerifiedDomains(context.Background(), []string{"shop.example.com", "staging.example.com"})
	if err != nil || len(ds) != 1 || ds[0].ID != "10" {
		t.Fatalf("domains = %+v, %v", ds, err)
	}
	p, err := st.FindWebsitePage(context.Background(), "1000", "about")
	if err != nil || p.Title != "About Us" || len(p.Content) == 0 {
		t.Errorf("about page = %+v, %v", p, err)
	}
}
