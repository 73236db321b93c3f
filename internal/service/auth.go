package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/domain/model"
	apperrors "github.com/target/catalog-admin/internal/errors"
	obserrors "github.com/target/catalog-admin/internal/observability/errors"
	"github.com/target/catalog-admin/internal/ports"
	"golang.org/x/sync/singleflight"
)

// Auth endpoint suffixes relative to the configured auth path.
const (
	endpointLogin    = "/login"
	endpointLogout   = "/logout"
	endpointValidate = "/validate"
	endpointRegister = "/register"
)

// LoginRoute is where the console goes after logout.
const LoginRoute = "/login"

const (
	msgLoginFailed        = "login failed"
	msgRegisterFailed     = "registration failed"
	msgLogoutFailed       = "logout failed"
	msgSessionInvalid     = "session is not valid"
	msgInvalidAPIResponse = "invalid response from server"
)

var _ ports.AuthGateway = (*AuthService)(nil)

// AuthServiceConfig holds the non-dependency settings of AuthService.
type AuthServiceConfig struct {
	// AuthPath is the auth resource path under the API base, e.g. "/Auth".
	AuthPath string
	Logger   *slog.Logger // Optional: structured logger
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API       ports.APIClient     // Required: API transport
	Session   ports.SessionWriter // Required: the session store
	Navigator ports.Navigator     // Required: used to leave for the login route on logout
	Config    AuthServiceConfig
}

// AuthService is the auth gateway: it performs login, logout, session validation and
// registration against the remote API and is the only writer of the session store.
type AuthService struct {
	api      ports.APIClient
	session  ports.SessionWriter
	nav      ports.Navigator
	authPath string
	logger   *slog.Logger

	validate singleflight.Group
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.API == nil {
		return nil, errors.New("API client is required")
	}
	if opts.Session == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Navigator == nil {
		return nil, errors.New("navigator is required")
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	authPath := strings.TrimRight(opts.Config.AuthPath, "/")
	if authPath == "" {
		authPath = "/Auth"
	}
	return &AuthService{
		api:      opts.API,
		session:  opts.Session,
		nav:      opts.Navigator,
		authPath: authPath,
		logger:   logger.With("component", "auth_service"),
	}, nil
}

// MustNewAuthService constructs a new AuthService and panics on error.
func MustNewAuthService(opts AuthServiceOptions) *AuthService {
	svc, err := NewAuthService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// ExemptPaths lists the endpoints whose 401 replies mean "bad credentials" rather than
// "session expired". The interceptor must not redirect on them.
func ExemptPaths(authPath string) []string {
	authPath = strings.TrimRight(authPath, "/")
	if authPath == "" {
		authPath = "/Auth"
	}
	return []string{authPath + endpointLogin, authPath + endpointValidate, authPath + endpointRegister}
}

// Login validates creds locally, then exchanges them for a session cookie.
// Only a successful reply carrying a user changes the session store.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) domainauth.Outcome {
	if err := creds.Validate(); err != nil {
		return domainauth.Failure(apperrors.Message(err, msgLoginFailed), err)
	}
	body := domainauth.Credentials{Username: strings.TrimSpace(creds.Username), Password: creds.Password}

	var resp domainauth.LoginResponse
	err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodPost, Path: s.authPath + endpointLogin, Body: body}, &resp)
	if err != nil {
		s.logFailure(ctx, "login request failed", err)
		return domainauth.Failure(apperrors.Message(err, msgLoginFailed), err)
	}
	if !resp.Success {
		return domainauth.Failure(nonEmpty(resp.Message, msgLoginFailed), nil)
	}
	if resp.User == nil {
		return domainauth.Failure(msgInvalidAPIResponse, apperrors.Server(msgInvalidAPIResponse))
	}

	s.session.SetAuthenticated(resp.User)
	s.logger.InfoContext(ctx, "login succeeded", "user_id", resp.User.ID)
	return domainauth.Success(resp.User)
}

// Logout ends the server session. The local session is cleared and the console sent
// to the login route whatever the server replied.
func (s *AuthService) Logout(ctx context.Context) domainauth.Outcome {
	err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodPost, Path: s.authPath + endpointLogout, Body: struct{}{}}, nil)

	s.session.ClearAuthenticated()
	s.nav.Navigate(LoginRoute, nil)

	if err != nil {
		s.logFailure(ctx, "logout request failed", err)
		return domainauth.Failure(apperrors.Message(err, msgLogoutFailed), err)
	}
	return domainauth.Success(nil)
}

// ValidateSession asks the server whether the session cookie is still valid.
//
// A valid session updates the store with the reported user. A failed validation
// clears the store only when no user is held, so a concurrent login is never undone.
// Concurrent callers share one in-flight request.
func (s *AuthService) ValidateSession(ctx context.Context) domainauth.Outcome {
	v, _, _ := s.validate.Do("validate", func() (any, error) {
		return s.validateOnce(ctx), nil
	})
	return v.(domainauth.Outcome)
}

func (s *AuthService) validateOnce(ctx context.Context) domainauth.Outcome {
	var resp domainauth.LoginResponse
	err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodGet, Path: s.authPath + endpointValidate}, &resp)
	switch {
	case err != nil:
		s.logFailure(ctx, "session validation failed", err)
		s.clearIfAnonymous()
		return domainauth.Failure(apperrors.Message(err, msgSessionInvalid), err)
	case !resp.Success || resp.User == nil:
		s.clearIfAnonymous()
		return domainauth.Failure(nonEmpty(resp.Message, msgSessionInvalid), nil)
	}
	s.session.SetAuthenticated(resp.User)
	return domainauth.Success(resp.User)
}

func (s *AuthService) clearIfAnonymous() {
	if !s.session.ClearIfAnonymous() {
		s.logger.Debug("failed validation left the established session in place")
	}
}

// Register creates an account. It never touches the session store.
func (s *AuthService) Register(ctx context.Context, in domainauth.RegisterInput) domainauth.Outcome {
	if err := in.Validate(); err != nil {
		return domainauth.Failure(apperrors.Message(err, msgRegisterFailed), err)
	}
	body := domainauth.RegisterInput{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}

	var resp model.APIResponse[domainauth.User]
	err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodPost, Path: s.authPath + endpointRegister, Body: body}, &resp)
	if err != nil {
		s.logFailure(ctx, "register request failed", err)
		return domainauth.Failure(apperrors.Message(err, msgRegisterFailed), err)
	}
	if !resp.Success {
		return domainauth.Failure(nonEmpty(resp.Message, msgRegisterFailed), nil)
	}
	return domainauth.Success(resp.Data)
}

// CurrentUser returns the user held by the session store.
func (s *AuthService) CurrentUser() *domainauth.User {
	return s.session.Value().User
}

// IsAuthenticated reports the session store's authenticated flag.
func (s *AuthService) IsAuthenticated() bool {
	return s.session.Value().Authenticated
}

func (s *AuthService) logFailure(ctx context.Context, msg string, err error) {
	if apperrors.IsCanceled(err) {
		s.logger.DebugContext(ctx, msg, "error", err)
		return
	}
	s.logger.WarnContext(ctx, msg, "error", err, "error_type", obserrors.Classify(err))
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
