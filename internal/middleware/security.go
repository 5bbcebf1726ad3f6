// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy   –  self-only default policy
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Defaults are applied when the handler first writes, so handlers (and
//   the human proxy, which forwards the SPA's own CSP) may set any of these
//   first.  An existing value is never overwritten.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

var securityDefaults = [][2]string{
	{"Strict-Transport-Security", "max-age=63072000; includeSubDomains"},
	{"Content-Security-Policy", "default-src 'self'; img-src * data:; object-src 'none'; " +
		"base-uri 'self'; frame-ancestors 'none'"},
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
}

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&securityWriter{ResponseWriter: w}, r)
	})
}

type securityWriter struct {
	http.ResponseWriter
	done bool
}

func (s *securityWriter) apply() {
	if s.done {
		return
	}
	s.done = true
	h := s.ResponseWriter.Header()
	for _, kv := range securityDefaults {
		if h.Get(kv[0]) == "" {
			h.Set(kv[0], kv[1])
		}
	}
}

func (s *securityWriter) WriteHeader(code int) {
	s.apply()
	s.ResponseWriter.WriteHeader(code)
}

func (s *securityWriter) Write(b []byte) (int, error) {
	s.apply()
	return s.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *securityWriter) Unwrap() http.ResponseWriter { return s.ResponseWriter }
