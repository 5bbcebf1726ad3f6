// internal/render/human.go
//
// Human-visitor strategies.
//
// Context
// -------
// The edge only renders for automated clients.  Humans get one of four
// configurable behaviours (seo.human_mode):
//
//   pass      empty 200 so the fronting proxy serves the SPA itself
//   redirect  302 to app_origin + path + query
//   proxy     fetch the page from app_origin and inject the route marker
//   static    serve seo.static_dir, unknown paths get index.html + marker
//
// Every strategy sets `Vary: User-Agent`; the same URL answers bots and
// humans differently.
//
// Notes
// -----
// • proxy and static need the resolved route; pass and redirect do not,
//   and NeedsRoute lets the edge skip resolution for them.
// • Oxford commas, two spaces after periods.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/seoedge/internal/resolve"
)

// Human strategies by config name.
const (
	HumanPass     = "pass"
	HumanRedirect = "redirect"
	HumanProxy    = "proxy"
	HumanStatic   = "static"
)

// maxProxyBody bounds how much of an upstream HTML page is buffered.
const maxProxyBody = 8 << 20

// HumanHandler answers a non-automated client.
type HumanHandler interface {
	NeedsRoute() bool
	ServeHuman(w http.ResponseWriter, r *http.Request, res resolve.Result)
}

// HumanOptions selects and configures a strategy.
type HumanOptions struct {
	Mode      string
	AppOrigin string
	StaticDir string
	Client    *http.Client // proxy only; nil selects a 10s-timeout client
}

// NewHuman returns the handler for opts.Mode.
func NewHuman(opts HumanOptions) (HumanHandler, error) {
	switch opts.Mode {
	case "", HumanPass:
		return Pass{}, nil
	case HumanRedirect, HumanProxy:
		origin, err := parseOrigin(opts.AppOrigin)
		if err != nil {
			return nil, err
		}
		if opts.Mode == HumanRedirect {
			return &Redirect{origin: origin}, nil
		}
		cli := opts.Client
		if cli == nil {
			cli = &http.Client{Timeout: 10 * time.Second}
		}
		return &Proxy{origin: origin, client: cli}, nil
	case HumanStatic:
		if opts.StaticDir == "" {
			return nil, errors.New("render: static human mode needs a directory")
		}
		if fi, err := os.Stat(opts.StaticDir); err != nil || !fi.IsDir() {
			return nil, fmt.Errorf("render: static dir %q is not a directory", opts.StaticDir)
		}
		return &Static{dir: http.Dir(opts.StaticDir)}, nil
	}
	return nil, fmt.Errorf("render: unknown human mode %q", opts.Mode)
}

func parseOrigin(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("render: app origin %q must be an absolute URL", raw)
	}
	return u, nil
}

// target joins origin with the request's path and query.
func target(origin *url.URL, r *http.Request) string {
	u := *origin
	u.Path = strings.TrimRight(origin.Path, "/") + r.URL.Path
	u.RawPath = ""
	u.RawQuery = r.URL.RawQuery
	return u.String()
}

/*──────────────────────────────── pass ─────────────────────────────────────*/

// Pass answers with an empty 200.
type Pass struct{}

func (Pass) NeedsRoute() bool { return false }

func (Pass) ServeHuman(w http.ResponseWriter, _ *http.Request, _ resolve.Result) {
	h := w.Header()
	h.Set("Cache-Control", "private, no-store")
	h.Set("Content-Length", "0")
	h.Add("Vary", "User-Agent")
	w.WriteHeader(http.StatusOK)
}

/*────────────────────────────── redirect ───────────────────────────────────*/

// Redirect sends humans to the application origin.
type Redirect struct{ origin *url.URL }

func (*Redirect) NeedsRoute() bool { return false }

func (rd *Redirect) ServeHuman(w http.ResponseWriter, r *http.Request, _ resolve.Result) {
	w.Header().Add("Vary", "User-Agent")
	w.Header().Set("Cache-Control", "private, no-store")
	http.Redirect(w, r, target(rd.origin, r), http.StatusFound)
}

/*──────────────────────────────── proxy ────────────────────────────────────*/

// Proxy fetches the SPA page and injects the route marker into HTML.
type Proxy struct {
	origin *url.URL
	client *http.Client
}

func (*Proxy) NeedsRoute() bool { return true }

func (p *Proxy) ServeHuman(w http.ResponseWriter, r *http.Request, res resolve.Result) {
	body, hdr, status, err := p.fetch(r.Context(), target(p.origin, r))
	if err != nil {
		zap.S().Warnw("human proxy failed", "host", res.Route.Host, "path", res.Route.Path, "err", err)
		Pass{}.ServeHuman(w, r, res)
		return
	}

	if isHTML(hdr.Get("Content-Type")) {
		body = InjectMarker(body, res)
	}
	out := w.Header()
	for _, k := range []string{"Content-Type", "Cache-Control", "Last-Modified", "Content-Language", "Content-Security-Policy"} {
		if v := hdr.Get(k); v != "" {
			out.Set(k, v)
		}
	}
	out.Set("Content-Length", fmt.Sprint(len(body)))
	out.Add("Vary", "User-Agent")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (p *Proxy) fetch(ctx context.Context, u string) ([]byte, http.Header, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, 0, err
	}
	req.Header.Set("Accept", "text/html,*/*;q=0.8")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody+1))
	if err != nil {
		return nil, nil, 0, err
	}
	if len(body) > maxProxyBody {
		return nil, nil, 0, fmt.Errorf("upstream body exceeds %d bytes", maxProxyBody)
	}
	return body, resp.Header, resp.StatusCode, nil
}

func isHTML(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "text/html"
}

/*──────────────────────────────── static ───────────────────────────────────*/

// Static serves a built SPA directory.
type Static struct{ dir http.Dir }

func (*Static) NeedsRoute() bool { return true }

func (s *Static) ServeHuman(w http.ResponseWriter, r *http.Request, res resolve.Result) {
	w.Header().Add("Vary", "User-Agent")

	name := path.Clean("/" + r.URL.Path)
	if name != "/" && s.serveFile(w, r, name) {
		return
	}

	f, err := s.dir.Open("/index.html")
	if err != nil {
		zap.S().Errorw("static index missing", "err", err)
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	defer f.Close()
	doc, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	doc = InjectMarker(doc, res)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(doc))
}

// serveFile writes a regular file when one exists at name.
func (s *Static) serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	f, err := s.dir.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		return false
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
	return true
}
