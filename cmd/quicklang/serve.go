package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ZaguanLabs/quicklang"
	"github.com/ZaguanLabs/quicklang/engine"
	"github.com/ZaguanLabs/quicklang/metrics"
	"github.com/ZaguanLabs/quicklang/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long:  `Starts the quick language helper web interface and its JSON API.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			st, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			srv, front, err := a.newHTTPServer(st)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context(), srv, front)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default: server.addr)")
	return cmd
}

// newHTTPServer wires the session registry, metrics and router.
func (a *app) newHTTPServer(st quicklang.FingerprintStore) (*http.Server, *web.Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.New(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("registering metrics: %w", err)
	}

	opts := []quicklang.SessionOption{
		quicklang.WithLogger(a.logger),
		quicklang.WithRecorder(rec),
	}
	opts = append(opts, a.cfg.SessionOptions()...)

	registry := web.NewRegistry(engine.NewFactory(a.cfg.EngineSettings()), st, opts...)
	registry.OnChange(func(n int) { rec.Sessions.Set(float64(n)) })

	var health func(context.Context) error
	if p, ok := st.(interface{ Ping(context.Context) error }); ok {
		health = p.Ping
	}

	front := web.NewServer(registry, web.Options{
		IdentityHeader:    a.cfg.Server.IdentityHeader,
		RequireIdentity:   a.cfg.Server.RequireIdentity,
		CookieName:        a.cfg.Server.CookieName,
		SecureCookie:      a.cfg.Server.SecureCookie,
		LongTextThreshold: a.cfg.Session.LongTextThreshold,
		Logger:            a.logger,
		Metrics:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Health:            health,
	})

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           front.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, front, nil
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func (a *app) serve(ctx context.Context, srv *http.Server, front *web.Server) error {
	if a.cfg.Session.TTL > 0 {
		sweepCtx, stopSweep := context.WithCancel(ctx)
		defer stopSweep()
		go front.Sweep(sweepCtx, time.Minute, a.cfg.Session.TTL)
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("starting server",
			"addr", srv.Addr,
			"version", quicklang.FullVersion(),
			"simulate", a.cfg.Engine.Simulate,
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		a.logger.Info("shutting down", "timeout", a.cfg.Server.ShutdownTimeout)

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("graceful shutdown did not complete", "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
		a.logger.Info("server stopped")
		return nil
	}
}
