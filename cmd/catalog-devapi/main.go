// Command catalog-devapi serves a development copy of the catalog API for catalog-admin.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/catalog-admin/config"
	"github.com/target/catalog-admin/internal/bootstrap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		bootstrap.InitLogger(cfg.Observability, os.Stderr).ErrorContext(ctx, "load config", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger := bootstrap.InitLogger(cfg.Observability, os.Stdout)

	if err = run(ctx, &cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	metrics, err := bootstrap.NewMetrics(ctx, cfg.Observability, "catalog-devapi", logger)
	if err != nil {
		return err
	}
	defer func() { _ = metrics.Close() }()

	api, err := bootstrap.NewDevAPI(ctx, bootstrap.DevAPIConfig{Config: cfg, Metrics: metrics, Logger: logger})
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "development API configured",
		"addr", cfg.DevAPI.Addr,
		"prefix", cfg.DevAPI.PathPrefix,
		"session_backend", cfg.DevAPI.SessionBackend,
		"seed_products", cfg.DevAPI.SeedProducts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(api.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		return api.Shutdown(context.WithoutCancel(gctx))
	})
	return g.Wait()
}
