package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/target/catalog-admin/config"
	"github.com/target/catalog-admin/internal/adapters/apiclient"
	"github.com/target/catalog-admin/internal/console"
	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/observability/statsd"
	"github.com/target/catalog-admin/internal/router"
	"github.com/target/catalog-admin/internal/service"
	"github.com/target/catalog-admin/internal/session"
	"github.com/target/catalog-admin/internal/ui"
)

// ClientConfig contains what the console runtime is built from.
type ClientConfig struct {
	Config  *config.AppConfig // Required
	Metrics statsd.Sink       // Optional
	Logger  *slog.Logger
}

// Client is the wired console runtime: session store, navigation, transport and gateways.
type Client struct {
	Session   *session.Store
	Navigator *router.Navigator
	API       *apiclient.Client
	Auth      *service.AuthService
	Products  *service.ProductService
	Format    ui.Formatter

	cfg    *config.AppConfig
	logger *slog.Logger
}

// NewClient builds the client stack. The interceptor reports session expiry to the
// navigator through SessionEffects, so gateways never navigate on their own except
// for logout.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	store := session.NewStore()
	nav := router.NewNavigator(router.NavigatorOptions{
		Table:  router.NewTable(),
		Guard:  router.NewGuard(store),
		Home:   appCfg.UI.HomeRoute,
		Logger: logger.With("component", "navigator"),
	})
	effects := router.NewSessionEffects(nav, logger.With("component", "session_effects"))

	api, err := apiclient.New(apiclient.Options{
		BaseURL:            appCfg.API.BaseURL,
		Timeout:            appCfg.API.Timeout,
		InsecureSkipVerify: appCfg.API.InsecureSkipVerify,
		Interceptor: apiclient.InterceptorOptions{
			XSRFCookie:  appCfg.API.XSRFCookie,
			XSRFHeader:  appCfg.API.XSRFHeader,
			ExemptPaths: service.ExemptPaths(appCfg.API.AuthPath),
			OnSignal:    effects.Handle,
			Metrics:     cfg.Metrics,
			Logger:      logger.With("component", "interceptor"),
		},
		Logger: logger.With("component", "api_client"),
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	auth, err := service.NewAuthService(service.AuthServiceOptions{
		API:       api,
		Session:   store,
		Navigator: nav,
		Config:    service.AuthServiceConfig{AuthPath: appCfg.API.AuthPath, Logger: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	products, err := service.NewProductService(service.ProductServiceOptions{
		API:          api,
		ProductsPath: appCfg.API.ProductsPath,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create product service: %w", err)
	}

	return &Client{
		Session:   store,
		Navigator: nav,
		API:       api,
		Auth:      auth,
		Products:  products,
		Format:    ui.NewFormatter(appCfg.UI.Locale),
		cfg:       appCfg,
		logger:    logger,
	}, nil
}

// NewConsole builds the interactive shell on top of the client stack.
func (c *Client) NewConsole(out io.Writer) (*console.Console, error) {
	return console.New(console.Options{
		Auth:          c.Auth,
		Products:      c.Products,
		Session:       c.Session,
		Navigator:     c.Navigator,
		Format:        c.Format,
		FlashDuration: c.cfg.UI.FlashDuration,
		Out:           out,
		Logger:        c.logger,
	})
}

// ValidateInBackground confirms an existing server session without blocking startup.
// The returned channel receives the outcome once.
func (c *Client) ValidateInBackground(ctx context.Context) <-chan domainauth.Outcome {
	done := make(chan domainauth.Outcome, 1)
	go func() {
		out := c.Auth.ValidateSession(ctx)
		if out.OK() {
			c.logger.InfoContext(ctx, "existing session restored")
		} else {
			c.logger.DebugContext(ctx, "no existing session", "message", out.Message())
		}
		done <- out
	}()
	return done
}
