package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/seoedge/internal/component"
	"github.com/yanizio/seoedge/internal/config"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type hello struct{}

func (hello) Name() string { return "server-test-hello" }
func (hello) Mount(r chi.Router, _ component.Deps) {
	r.Get("/hello", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("hi")) })
}

func init() { component.Register(hello{}) }

func testRouter(health map[string]Pinger) http.Handler {
	cfg := &config.Config{}
	cfg.HTTP.SecurityHeaders = true
	cfg.HTTP.ForceHTTPS = true
	return Router(RouterOptions{
		Deps:      component.Deps{Config: cfg},
		Health:    health,
		KnownHost: func(h string) bool { return h == "shop.example.com" },
	})
}

func do(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(testRouter(map[string]Pinger{"store": pinger{}}), "https://edge.test/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"store":"ok"`) {
		t.Errorf("healthy: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(testRouter(map[string]Pinger{"store": pinger{}, "redis": pinger{errors.New("refused")}}), "https://edge.test/healthz")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"redis":"down"`) {
		t.Errorf("unhealthy: %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "refused") {
		t.Error("error detail leaked")
	}
}

func TestRouterMountsComponentsAndMetrics(t *testing.T) {
	h := testRouter(nil)

	rec := do(h, "https://edge.test/hello")
	if rec.Body.String() != "hi" {
		t.Errorf("component route: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("request id missing")
	}

	if rec := do(h, "https://edge.test/metrics"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("metrics: %d", rec.Code)
	}
}

func TestRouterForcesHTTPSForKnownHosts(t *testing.T) {
	rec := do(testRouter(nil), "http://shop.example.com/hello")
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://shop.example.com/hello" {
		t.Errorf("location = %q", loc)
	}
}

func TestNewAppliesTimeoutDefaults(t *testing.T) {
	srv := New(config.HTTP{ListenAddr: ":0", WriteTimeout: 3 * time.Second}, http.NotFoundHandler())
	if srv.ReadTimeout != 10*time.Second || srv.WriteTimeout != 3*time.Second || srv.IdleTimeout != 60*time.Second {
		t.Errorf("timeouts = %v %v %v", srv.ReadTimeout, srv.WriteTimeout, srv.IdleTimeout)
	}
}

func TestRunStopsOnContextAndClosesResources(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := New(config.HTTP{ListenAddr: "127.0.0.1:0"}, http.NotFoundHandler())

	var order []string
	res := func(name string) Resource {
		return Resource{Name: name, Close: func(context.Context) error { order = append(order, name); return nil }}
	}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, time.Second, res("store"), res("redis")) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
	if strings.Join(order, ",") != "redis,store" {
		t.Errorf("close order = %v", order)
	}
}
