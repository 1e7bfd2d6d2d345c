package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/chip/internal/engine/transpiler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const metricsShutdownTimeout = 5 * time.Second

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	ConfigPath string
	Clean      bool
	// MetricsAddr overrides the configured metrics listen address when set.
	MetricsAddr string
}

// Watch starts watching the workspace, runs an incremental pass over every active
// project, and then reacts to filesystem changes until ctx is cancelled. Changes made
// during the initial pass are queued by the watcher. The cache is flushed on exit.
func (a *App) Watch(ctx context.Context, opts WatchOptions) (err error) {
	ws, err := a.setup(opts.ConfigPath, opts.Clean)
	if err != nil {
		return err
	}
	defer func() {
		a.closeTelemetry()
		if flushErr := a.store.Flush(); flushErr != nil {
			err = errors.Join(err, flushErr)
		}
	}()

	metricsAddr := ws.MetricsAddr
	if opts.MetricsAddr != "" {
		metricsAddr = opts.MetricsAddr
	}

	// An unusable metrics address fails the session before any work is done.
	var ln net.Listener
	if metricsAddr != "" {
		ln, err = (&net.ListenConfig{}).Listen(ctx, "tcp", metricsAddr)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrMetricsServerFailed.Error()), "addr", metricsAddr)
		}
		defer func() { _ = ln.Close() }()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchOpts := ports.WatchOptions{
		Debounce: ws.Debounce,
		Skip:     skipFunc(ws),
	}
	if err := a.watcher.Start(ctx, ws.Layout.Root, watchOpts); err != nil {
		return err
	}
	a.logger.Info("watching " + ws.Layout.Root)

	summary, err := a.transpiler.ProcessAll(ctx)
	a.logger.Info(transpiler.FormatSummary(summary))
	if err != nil {
		_ = a.watcher.Stop()
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The stream ends when the watcher stops; nothing else keeps the session alive.
		defer cancel()
		return a.loop.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.watcher.Stop()
	})

	if ln != nil {
		srv := &http.Server{
			Handler:           a.metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return gctx },
		}

		g.Go(func() error {
			a.logger.Info("serving metrics on " + ln.Addr().String() + "/metrics")
			// A failing endpoint is logged; the watch loop keeps running.
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrMetricsServerFailed.Error()), "addr", metricsAddr))
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(gctx), metricsShutdownTimeout)
			defer cancelShutdown()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func (a *App) metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	return mux
}

// skipFunc prunes directories the filter ignores, and everything outside the workspace.
func skipFunc(ws domain.Workspace) func(string) bool {
	return func(dir string) bool {
		rel, err := ws.Layout.Rel(dir)
		if err != nil {
			return true
		}
		return rel != "." && ws.Filter.IgnoredDir(rel)
	}
}
