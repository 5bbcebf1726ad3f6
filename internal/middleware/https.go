// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/yanizio/seoedge/internal/hostmatch"
)

// ForceHTTPS wraps h.  If the request arrived over plain HTTP (directly or
// per X-Forwarded-Proto), the host is not "localhost", and known(host)
// confirms we serve it, the wrapper issues a 308 Permanent Redirect to the
// HTTPS version of the same URL.  Otherwise it calls h unchanged.
func ForceHTTPS(known func(host string) bool, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := hostmatch.NormalizeHost(r.Host)
		if secure(r) || host == "localhost" || host == "" {
			h.ServeHTTP(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			h.ServeHTTP(w, r)
			return
		}

		if known(host) {
			target := "https://" + host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host keeps normal flow; the edge renders a fallback.
		h.ServeHTTP(w, r)
	})
}

// secure reports whether the client connection used TLS.
func secure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	proto := r.Header.Get("X-Forwarded-Proto")
	if i := strings.IndexByte(proto, ','); i != -1 {
		proto = proto[:i]
	}
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}
