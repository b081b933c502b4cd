package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/config"
	"github.com/BRAHMISREE/conference-project/internal/httpapi"
	"github.com/BRAHMISREE/conference-project/internal/logging"
	"github.com/BRAHMISREE/conference-project/internal/obs"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "confhub-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := obs.NewMetrics(reg)
	obs.RegisterBuildInfo(reg, version, commit)

	core := app.New(
		app.WithLogger(log),
		app.WithMetrics(metrics),
		app.WithLatency(cfg.Latency),
		app.WithToastDuration(cfg.ToastDuration),
	)
	if cfg.SeedDemoData {
		if err := core.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	tokens, err := httpapi.NewTokens(cfg.AuthSecret, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}
	api := httpapi.New(core, tokens,
		httpapi.WithLogger(log),
		httpapi.WithMetrics(metrics),
		httpapi.WithVersion(version),
		httpapi.WithRateLimit(cfg.RateBurst, cfg.RatePerSec),
		httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	// WriteTimeout stays zero so the toast stream is not cut off.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting confhub-api", "version", version, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-stop:
	}
	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	core.Shutdown(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(ctx, "stopped")
	return nil
}
