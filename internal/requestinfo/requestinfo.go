//
//  internal/requestinfo/requestinfo.go
//
//  Per-request metadata: request id, normalised host, client class,
//  user-agent breakdown, and best-effort geolocation.  These structs are
//  inert.  They hold no handles or large buffers, so they are safe to log
//  or JSON-encode (the debug endpoint does exactly that).
//
//  Dependencies
//  • github.com/avct/uasurfer          (via internal/classify)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/seoedge/internal/classify"
)

// Geo holds IP-based hints.  Empty when no database is loaded or the
// address has no match.
type Geo struct {
	IP         net.IP `json:"ip,omitempty"`
	CountryISO string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
}

// RequestInfo is stored in the request context by Enrich.
type RequestInfo struct {
	ID        string        `json:"id"`
	Host      string        `json:"host"`
	Automated bool          `json:"automated"`
	Forced    bool          `json:"forced"`
	UA        classify.Info `json:"ua"`
	Geo       Geo           `json:"geo"`
	Timestamp time.Time     `json:"timestamp"`
}

// Class is "bot" or "human".
func (ri *RequestInfo) Class() string { return classify.Class(ri.Automated) }

//
//  -----------------------------
//  Geo database
//  -----------------------------
//

// geoReader is swapped atomically so tests and reloads never race with
// lookups.  A nil reader disables geolocation.
var geoReader atomic.Pointer[geoip2.Reader]

// InitGeo opens a GeoLite2-City database.  An empty path is a no-op.
func InitGeo(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("requestinfo: open GeoLite2 db: %w", err)
	}
	if old := geoReader.Swap(r); old != nil {
		_ = old.Close()
	}
	return nil
}

// CloseGeo releases the database, if any.
func CloseGeo() {
	if old := geoReader.Swap(nil); old != nil {
		_ = old.Close()
	}
}

func lookupGeo(ip net.IP) Geo {
	r := geoReader.Load()
	if r == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := r.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}

//
//  -----------------------------
//  Context plumbing
//  -----------------------------
//

type ctxKey struct{}

// FromContext returns the value stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// WithInfo returns ctx carrying ri.
func WithInfo(ctx context.Context, ri *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, ri)
}
