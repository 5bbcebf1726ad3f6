package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/hostmatch"
	"github.com/yanizio/seoedge/internal/resolve"
	"github.com/yanizio/seoedge/internal/seo"
	"github.com/yanizio/seoedge/internal/store/memstore"
)

func shopResult(t *testing.T, path string) resolve.Result {
	t.Helper()
	d := memstore.Data{
		Tenants:     []content.Tenant{{ID: "s1", Name: "Acme", Slug: "acme"}},
		Domains:     []content.CustomDomain{{ID: "d1", Domain: "shop.example.com", TenantID: "s1", IsVerified: true, DNSConfigured: true}},
		Websites:    []content.Website{{ID: "W", TenantID: "s1", Name: "Acme Shop"}},
		Connections: []content.Connection{{ID: "c1", DomainID: "d1", Kind: content.KindWebsite, ContentID: "W"}},
		Pages: []content.Page{{
			ID: "p2", WebsiteID: "W", Slug: "about", Title: "About Us", IsPublished: true,
			SEOFields: content.SEOFields{SEODescription: "Who we are & why."},
		}},
	}
	e := resolve.New(memstore.New(d), hostmatch.New("platform.test", nil, nil), resolve.Options{})
	return e.Resolve(context.Background(), "shop.example.com", path)
}

func fallbackResult() resolve.Result {
	return resolve.Result{
		Route:   hostmatch.Route{Mode: hostmatch.ModeCustomDomain, Host: "nowhere.test", Path: "/x"},
		Content: seo.Fallback("nowhere.test", "/x"),
		Outcome: resolve.OutcomeNotFound,
	}
}

func TestBotDocumentForWebsitePage(t *testing.T) {
	res := shopResult(t, "/about")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://shop.example.com/about", nil)

	New(5*time.Minute).Bot(rec, req, res)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>About Us</title>",
		`<meta property="og:url" content="https://shop.example.com/about">`,
		`<link rel="canonical" href="https://shop.example.com/about">`,
		`<meta name="description" content="Who we are &amp; why.">`,
		`<meta name="twitter:card" content="summary">`,
		`"@type":"WebPage"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	h := rec.Header()
	if got := h.Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("content-type = %q", got)
	}
	if got := h.Get("Cache-Control"); got != "public, max-age=300, s-maxage=300" {
		t.Errorf("cache-control = %q", got)
	}
	if got := h.Get("X-SEO-Source"); got != "website_page|website:W|slug:about" {
		t.Errorf("X-SEO-Source = %q", got)
	}
	if got := h.Get("X-SEO-Website"); got != "Acme Shop" {
		t.Errorf("X-SEO-Website = %q", got)
	}
	if h.Get("X-SEO-Page-Id") != "p2" || h.Get("X-SEO-Slug") != "about" {
		t.Errorf("id headers = %v", h)
	}
	if h.Get("Vary") != "User-Agent" {
		t.Errorf("vary = %q", h.Get("Vary"))
	}
}

func TestBotFallbackDocument(t *testing.T) {
	rec := httptest.NewRecorder()
	New(0).Bot(rec, httptest.NewRequest(http.MethodGet, "/x", nil), fallbackResult())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>nowhere.test</title>") {
		t.Errorf("fallback title missing:\n%s", rec.Body.String())
	}
	if got := rec.Header().Get("X-SEO-Source"); got != seo.TraceFallback {
		t.Errorf("X-SEO-Source = %q", got)
	}
	if rec.Header().Get("X-SEO-Page-Id") != "" {
		t.Error("optional id header set on fallback")
	}
}

func TestBotHeadHasNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	New(0).Bot(rec, httptest.NewRequest(http.MethodHead, "/about", nil), shopResult(t, "/about"))
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD body = %d bytes", rec.Body.Len())
	}
	if rec.Header().Get("Content-Length") == "0" {
		t.Error("HEAD should report the GET length")
	}
}

func TestDocumentEscapesHostileContent(t *testing.T) {
	res := fallbackResult()
	res.Content.Title = `</title><script>alert(1)</script>`
	res.Content.OGImage = "javascript:alert(1)"

	out, err := Document(res)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(out)
	if strings.Contains(doc, "<script>alert(1)") {
		t.Error("title injected a script element")
	}
	if strings.Contains(doc, `src="javascript:`) {
		t.Error("unsafe image URL rendered")
	}
	if !strings.Contains(doc, `<meta name="twitter:card" content="summary_large_image">`) {
		t.Error("image should select the large card")
	}
}

func TestHeaderValueStripsControls(t *testing.T) {
	if got := headerValue("a\r\nb\x00c"); got != "abc" {
		t.Errorf("headerValue = %q", got)
	}
	if got := headerValue(strings.Repeat("é", 200)); len(got) > maxHeaderValue {
		t.Errorf("len = %d", len(got))
	}
}
