package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Resource is closed after the HTTP server drains, in reverse order of
// registration.
type Resource struct {
	Name  string
	Close func(ctx context.Context) error
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// the server down gracefully within timeout and closes resources.  A
// listener failure is returned immediately.
func Run(ctx context.Context, srv *http.Server, timeout time.Duration, resources ...Resource) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		zap.S().Infow("http server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zap.S().Infow("shutdown signal received", "timeout", orDefault(timeout, 20*time.Second).String())
	sctx, cancel := context.WithTimeout(context.Background(), orDefault(timeout, 20*time.Second))
	defer cancel()

	err := srv.Shutdown(sctx)
	if err != nil {
		zap.S().Warnw("http shutdown incomplete", "err", err)
	}
	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		start := time.Now()
		if cerr := res.Close(sctx); cerr != nil {
			zap.S().Errorw("close resource failed", "resource", res.Name, "err", cerr)
			err = errors.Join(err, cerr)
			continue
		}
		zap.S().Infow("resource closed", "resource", res.Name, "duration", time.Since(start).String())
	}
	return err
}
