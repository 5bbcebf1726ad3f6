package resolve

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/metrics"
	"github.com/yanizio/seoedge/internal/store"
)

type probeResult struct {
	step *content.Step
	err  error
}

// probeFunnels asks every funnel whether it has a published step named
// slug.  Probes run concurrently, bounded by ProbeConcurrency.  The winner
// is the lowest-index funnel with a match, exactly as a sequential scan
// would choose; once funnel i matches, probes for j > i are cancelled or
// never started.  Failures of probes below the winner mark the run
// degraded.
func (e *Engine) probeFunnels(ctx context.Context, st *state, funnels []content.Connection, slug string) (int, *content.Step, bool) {
	n := len(funnels)
	results := make([]probeResult, n)
	cancels := make([]context.CancelFunc, n)
	ctxs := make([]context.Context, n)
	for i := range funnels {
		ctxs[i], cancels[i] = context.WithCancel(ctx)
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	var (
		mu   sync.Mutex
		best = n
	)
	winner := func() int {
		mu.Lock()
		defer mu.Unlock()
		return best
	}

	var g errgroup.Group
	g.SetLimit(e.opts.ProbeConcurrency)
	for i, c := range funnels {
		if i > winner() {
			break
		}
		g.Go(func() error {
			if i > winner() {
				return nil
			}
			step, err := e.store.FindFunnelStep(ctxs[i], c.ContentID, slug)
			results[i] = probeResult{step: step, err: err}
			if err == nil && step != nil && step.IsPublished && step.FunnelID == c.ContentID {
				mu.Lock()
				if i < best {
					best = i
					for j := i + 1; j < n; j++ {
						cancels[j]()
					}
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for i := 0; i < n; i++ {
		r := results[i]
		switch {
		case i == best:
			metrics.FunnelProbes.WithLabelValues("hit").Inc()
		case i > best:
			metrics.FunnelProbes.WithLabelValues("cancelled").Inc()
		case r.err == nil || errors.Is(r.err, store.ErrNotFound):
			metrics.FunnelProbes.WithLabelValues("miss").Inc()
		default:
			metrics.FunnelProbes.WithLabelValues("error").Inc()
			e.miss(st, "funnel_probe", r.err)
		}
	}

	if best == n {
		st.note("probe:miss funnels=%d slug=%s", n, slug)
		return 0, nil, false
	}
	return best, results[best].step, true
}
