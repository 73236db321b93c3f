package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/catalog-admin/config"
	"github.com/target/catalog-admin/internal/observability/statsd"
)

// InitLogger initializes the structured logger writing to w and installs it as the default.
func InitLogger(cfg config.ObservabilityConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level()}

	var handler slog.Handler
	switch cfg.LogFormat {
	case config.LogFormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// OpenLogOutput returns the writer configured by LogFile, falling back to fallback
// when no file is set. The returned close function is never nil.
func OpenLogOutput(cfg config.ObservabilityConfig, fallback io.Writer) (io.Writer, func() error, error) {
	if cfg.LogFile == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}

// NewMetrics connects the StatsD client. When disabled it returns a client that drops everything.
func NewMetrics(ctx context.Context, cfg config.ObservabilityConfig, service string, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(ctx, statsd.Config{
		Enabled: cfg.StatsD.Enabled,
		Address: cfg.StatsD.Address,
		Prefix:  cfg.StatsD.Prefix,
		Tags:    map[string]string{"service": service},
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}
	return client, nil
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
