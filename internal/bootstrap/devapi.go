package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/catalog-admin/config"
	redisadapter "github.com/target/catalog-admin/internal/adapters/redis"
	"github.com/target/catalog-admin/internal/devapi"
	"github.com/target/catalog-admin/internal/observability/statsd"
	"github.com/target/catalog-admin/internal/ports"
)

const shutdownTimeout = 10 * time.Second

// DevAPIConfig contains what the development API server is built from.
type DevAPIConfig struct {
	Config  *config.AppConfig // Required
	Metrics statsd.Sink       // Optional
	Logger  *slog.Logger
}

// DevAPI is a ready-to-serve development API and the resources it owns.
type DevAPI struct {
	API    *devapi.Server
	Server *http.Server

	closers []func() error
	logger  *slog.Logger
}

// NewDevAPI builds the development API, connecting to Redis when the session
// backend asks for it.
func NewDevAPI(ctx context.Context, cfg DevAPIConfig) (*DevAPI, error) {
	if cfg.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	d := &DevAPI{logger: logger}

	var sessions ports.SessionRepository
	if appCfg.DevAPI.SessionBackend == config.SessionBackendRedis {
		client, err := ConnectRedis(ctx, RedisConnectConfig{RedisConfig: appCfg.Redis, Logger: logger})
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, client.Close)
		sessions = redisadapter.NewSessionStoreWithPrefix(client, appCfg.Redis.KeyPrefix)
	}

	api, err := devapi.NewServer(devapi.ServerOptions{
		Config:   appCfg.DevAPI,
		Sessions: sessions,
		Metrics:  cfg.Metrics,
		Logger:   logger,
	})
	if err != nil {
		_ = d.close()
		return nil, fmt.Errorf("create development api: %w", err)
	}
	d.API = api
	d.Server = newHTTPServer(api.Handler(), appCfg.DevAPI.Addr)
	return d, nil
}

func newHTTPServer(handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":7296"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (d *DevAPI) ListenAndServe() error {
	d.logger.Info("starting development API", "addr", d.Server.Addr)
	if err := d.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("development API failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server and releases the session backend.
func (d *DevAPI) Shutdown(ctx context.Context) error {
	d.logger.InfoContext(ctx, "shutting down development API")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	err := d.Server.Shutdown(shutdownCtx)
	if closeErr := d.close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		return err
	}

	d.logger.InfoContext(ctx, "development API stopped")
	return nil
}

func (d *DevAPI) close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
