package edge

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/seoedge/internal/component"
	"github.com/yanizio/seoedge/internal/config"
	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/hostmatch"
	"github.com/yanizio/seoedge/internal/render"
	"github.com/yanizio/seoedge/internal/requestinfo"
	"github.com/yanizio/seoedge/internal/resolve"
	"github.com/yanizio/seoedge/internal/store/memstore"
)

const (
	crawler = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
	browser = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
)

func router(t *testing.T) http.Handler {
	t.Helper()
	d := memstore.Data{
		Tenants:     []content.Tenant{{ID: "s1", Name: "Acme", Slug: "acme"}},
		Domains:     []content.CustomDomain{{ID: "d1", Domain: "shop.example.com", TenantID: "s1", IsVerified: true, DNSConfigured: true}},
		Websites:    []content.Website{{ID: "W", TenantID: "s1", Name: "Acme Shop"}},
		Connections: []content.Connection{{ID: "c1", DomainID: "d1", Kind: content.KindWebsite, ContentID: "W"}},
		Pages:       []content.Page{{ID: "p2", WebsiteID: "W", Slug: "about", Title: "About Us", IsPublished: true}},
	}
	human, err := render.NewHuman(render.HumanOptions{Mode: render.HumanPass})
	if err != nil {
		t.Fatal(err)
	}
	deps := component.Deps{
		Engine:   resolve.New(memstore.New(d), hostmatch.New("platform.test", nil, nil), resolve.Options{}),
		Renderer: render.New(0),
		Human:    human,
		Config:   &config.Config{},
	}

	r := chi.NewRouter()
	r.Use(requestinfo.Enrich(requestinfo.Options{ForceParam: "__seo_bot"}))
	(&Comp{}).Mount(r, deps)
	return r
}

func get(h http.Handler, method, target, ua string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("User-Agent", ua)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCrawlerGetsDocument(t *testing.T) {
	rec := get(router(t), http.MethodGet, "https://shop.example.com/about", crawler)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>About Us</title>") {
		t.Errorf("title missing:\n%s", body)
	}
	if !strings.Contains(body, `<meta property="og:url" content="https://shop.example.com/about">`) {
		t.Errorf("og:url missing:\n%s", body)
	}
	if got := rec.Header().Get("X-SEO-Source"); got != "website_page|website:W|slug:about" {
		t.Errorf("X-SEO-Source = %q", got)
	}
}

func TestHumanGetsEmptyPass(t *testing.T) {
	rec := get(router(t), http.MethodGet, "https://shop.example.com/about", browser)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestForceParamRendersForBrowser(t *testing.T) {
	rec := get(router(t), http.MethodGet, "https://shop.example.com/about?__seo_bot=1", browser)
	if !strings.Contains(rec.Body.String(), "<title>About Us</title>") {
		t.Errorf("forced request not rendered: %q", rec.Body.String())
	}
}

func TestUnknownHostFallsBack(t *testing.T) {
	rec := get(router(t), http.MethodHead, "https://unknown.test/x", crawler)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-SEO-Source"); got != "fallback_no_data" {
		t.Errorf("X-SEO-Source = %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Error("HEAD returned a body")
	}
}
