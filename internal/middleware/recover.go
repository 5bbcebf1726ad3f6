package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/yanizio/seoedge/internal/metrics"
	"github.com/yanizio/seoedge/internal/requestinfo"
)

// Recover turns a handler panic into a generic 500.  The stack goes to the
// log, never to the client.  http.ErrAbortHandler is re-raised so net/http
// can abort the connection as intended.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			metrics.Panics.Inc()

			id := ""
			if info := requestinfo.FromContext(r.Context()); info != nil {
				id = info.ID
			}
			zap.S().Errorw("handler panic",
				"request_id", id,
				"host", r.Host,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
