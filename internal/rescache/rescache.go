// internal/rescache/rescache.go
//
// Short-TTL cache for resolution results keyed by host+path.
//
// Context
// -------
// Crawlers tend to arrive in bursts: one shared link triggers a dozen
// preview fetchers within a second.  The cache keeps each result for a
// short TTL and coalesces concurrent misses for the same key into one
// pipeline run.
//
//   - Tier 1: in-process LRU with per-entry expiry.
//   - Tier 2: optional Remote (Redis) shared across replicas; values are
//     JSON.
//   - Loads run under singleflight with a context detached from the first
//     caller's cancellation but bounded by its deadline, so one client
//     hanging up does not fail the others waiting on the same key.  The
//     load context is cancelled once the last waiting caller has gone.
//
// Loaders decide whether a value is cacheable.  The engine marks results
// produced during an upstream failure as not cacheable.
//
// Notes
// -----
// • A nil *Cache or TTL <= 0 disables caching; Get then just calls load.
// • Oxford commas, two spaces after periods.
package rescache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/seoedge/internal/metrics"
)

// ErrMiss is returned by Remote.Get when the key is absent.
var ErrMiss = errors.New("rescache: miss")

// Remote is a shared second tier.
type Remote interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Loader computes a value on miss.  cacheable=false skips both tiers.
type Loader[V any] func(ctx context.Context) (val V, cacheable bool, err error)

// Options configures a Cache.
type Options struct {
	TTL        time.Duration
	MaxEntries int
	Remote     Remote // optional
}

// Cache is safe for concurrent use.
type Cache[V any] struct {
	ttl    time.Duration
	remote Remote
	now    func() time.Time

	mu  sync.Mutex
	lru *lru[V]

	sfg     singleflight.Group
	fmu     sync.Mutex
	flights map[string]*flight
}

// flight is the load context shared by every caller waiting on one key.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// New returns a Cache.  MaxEntries < 1 falls back to 1024.
func New[V any](opts Options) *Cache[V] {
	if opts.MaxEntries < 1 {
		opts.MaxEntries = 1024
	}
	return &Cache[V]{
		ttl:     opts.TTL,
		remote:  opts.Remote,
		now:     time.Now,
		lru:     newLRU[V](opts.MaxEntries),
		flights: make(map[string]*flight),
	}
}

// Enabled reports whether Get caches at all.
func (c *Cache[V]) Enabled() bool { return c != nil && c.ttl > 0 }

// Get returns the cached value for key or runs load.
func (c *Cache[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	if !c.Enabled() {
		v, _, err := load(ctx)
		return v, err
	}

	if v, ok := c.local(key); ok {
		metrics.CacheLookups.WithLabelValues("local", "hit").Inc()
		return v, nil
	}
	metrics.CacheLookups.WithLabelValues("local", "miss").Inc()

	f := c.join(ctx, key)
	defer c.leave(key, f)

	ch := c.sfg.DoChan(key, func() (any, error) {
		lctx := f.ctx
		if v, ok := c.fromRemote(lctx, key); ok {
			c.storeLocal(key, v)
			return v, nil
		}

		v, cacheable, err := load(lctx)
		if err != nil {
			return v, err
		}
		if cacheable {
			c.storeLocal(key, v)
			c.toRemote(lctx, key, v)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-ch:
		v, _ := res.Val.(V)
		return v, res.Err
	}
}

// join registers the caller as a waiter on key's flight, starting one if
// none is in progress.
func (c *Cache[V]) join(ctx context.Context, key string) *flight {
	c.fmu.Lock()
	defer c.fmu.Unlock()
	if f, ok := c.flights[key]; ok {
		f.waiters++
		return f
	}

	f := &flight{waiters: 1}
	base := context.WithoutCancel(ctx)
	if dl, ok := ctx.Deadline(); ok {
		f.ctx, f.cancel = context.WithDeadline(base, dl)
	} else {
		f.ctx, f.cancel = context.WithCancel(base)
	}
	c.flights[key] = f
	return f
}

// leave drops one waiter.  The last one out cancels the load and forgets
// the call, so a later Get starts afresh instead of joining a cancelled
// load.
func (c *Cache[V]) leave(key string, f *flight) {
	c.fmu.Lock()
	defer c.fmu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[key] == f {
		delete(c.flights, key)
		c.sfg.Forget(key)
	}
}

// Len reports the number of local entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.len()
}

/*──────────────────────────── tiers ────────────────────────────────────────*/

func (c *Cache[V]) local(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.get(key, c.now())
}

func (c *Cache[V]) storeLocal(key string, v V) {
	c.mu.Lock()
	c.lru.add(key, v, c.now().Add(c.ttl))
	n := c.lru.len()
	c.mu.Unlock()
	metrics.CacheEntries.Set(float64(n))
}

func (c *Cache[V]) fromRemote(ctx context.Context, key string) (V, bool) {
	var v V
	if c.remote == nil {
		return v, false
	}
	raw, err := c.remote.Get(ctx, key)
	switch {
	case errors.Is(err, ErrMiss):
		metrics.CacheLookups.WithLabelValues("remote", "miss").Inc()
		return v, false
	case err != nil:
		metrics.CacheLookups.WithLabelValues("remote", "error").Inc()
		zap.S().Warnw("rescache remote get failed", "key", key, "err", err)
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		metrics.CacheLookups.WithLabelValues("remote", "error").Inc()
		zap.S().Warnw("rescache remote value undecodable", "key", key, "err", err)
		return v, false
	}
	metrics.CacheLookups.WithLabelValues("remote", "hit").Inc()
	return v, true
}

func (c *Cache[V]) toRemote(ctx context.Context, key string, v V) {
	if c.remote == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		zap.S().Warnw("rescache encode failed", "key", key, "err", err)
		return
	}
	if err := c.remote.Set(ctx, key, raw, c.ttl); err != nil {
		zap.S().Warnw("rescache remote set failed", "key", key, "err", err)
	}
}
