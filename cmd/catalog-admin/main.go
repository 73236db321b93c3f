// Command catalog-admin is an interactive console for the product catalog API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/catalog-admin/config"
	"github.com/target/catalog-admin/internal/bootstrap"
)

type options struct {
	baseURL string
	start   string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status on bad flags
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, opts); err != nil {
		slog.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("catalog-admin", flag.ContinueOnError)
	fs.StringVar(&opts.baseURL, "api", "", "catalog API base URL (overrides API_BASE_URL)")
	fs.StringVar(&opts.start, "start", "", "route to open first (defaults to UI_HOME_ROUTE)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(ctx context.Context, opts options) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	applyFlags(&cfg, opts)

	logOut, closeLog, err := bootstrap.OpenLogOutput(cfg.Observability, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	logger := bootstrap.InitLogger(cfg.Observability, logOut)

	logger.InfoContext(ctx, "starting catalog-admin",
		"api", cfg.API.BaseURL,
		"locale", cfg.UI.Locale,
		"dev", cfg.IsDev)

	metrics, err := bootstrap.NewMetrics(ctx, cfg.Observability, "catalog-admin", logger)
	if err != nil {
		return err
	}
	defer func() { _ = metrics.Close() }()

	client, err := bootstrap.NewClient(bootstrap.ClientConfig{Config: &cfg, Metrics: metrics, Logger: logger})
	if err != nil {
		return err
	}
	cons, err := client.NewConsole(os.Stdout)
	if err != nil {
		return fmt.Errorf("create console: %w", err)
	}
	defer cons.Close()

	// A restored session lets the login view forward to the requested route.
	client.ValidateInBackground(ctx)

	start := opts.start
	if start == "" {
		start = cfg.UI.HomeRoute
	}
	cons.Start(ctx, start)
	return cons.Run(ctx, os.Stdin)
}

func applyFlags(cfg *config.AppConfig, opts options) {
	if opts.baseURL != "" {
		cfg.API.BaseURL = opts.baseURL
		cfg.API.Sanitize()
	}
}
