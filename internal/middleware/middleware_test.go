package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func knownHost(h string) bool { return h == "shop.example.com" }

func TestForceHTTPS(t *testing.T) {
	h := ForceHTTPS(knownHost, ok)

	cases := []struct {
		name   string
		target string
		mut    func(*http.Request)
		want   int
		loc    string
	}{
		{"plain known", "http://shop.example.com:80/about?a=1", nil, http.StatusPermanentRedirect, "https://shop.example.com/about?a=1"},
		{"unknown host", "http://other.test/", nil, http.StatusOK, ""},
		{"localhost", "http://localhost:8080/", nil, http.StatusOK, ""},
		{"forwarded https", "http://shop.example.com/", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https, http") }, http.StatusOK, ""},
		{"tls", "https://shop.example.com/", func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, http.StatusOK, ""},
		{"post", "http://shop.example.com/", func(r *http.Request) { r.Method = http.MethodPost }, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.mut != nil {
				tc.mut(r)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if loc := rec.Header().Get("Location"); loc != tc.loc {
				t.Errorf("location = %q, want %q", loc, tc.loc)
			}
		})
	}
}

func TestSecurityHeadersRespectHandlerValues(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src *")
		_, _ = w.Write([]byte("x"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("Content-Security-Policy"); got != "default-src *" {
		t.Errorf("csp overwritten: %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff missing")
	}
	if !strings.HasPrefix(rec.Header().Get("Strict-Transport-Security"), "max-age=") {
		t.Error("hsts missing")
	}
}

func TestSecurityHeadersOnEmptyResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	Security(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("headers = %v", rec.Header())
	}
}

func TestRecoverReturnsGeneric500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("db password is hunter2")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hunter2") {
		t.Error("panic value leaked to client")
	}
}
