// Package devapi serves a development copy of the catalog API: cookie sessions,
// double-submit anti-forgery tokens, the /Auth endpoints and the /productos resource,
// all backed by in-memory state (sessions optionally in Redis).
package devapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/target/catalog-admin/config"
	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/domain/model"
	"github.com/target/catalog-admin/internal/observability/statsd"
	"github.com/target/catalog-admin/internal/ports"
)

// SessionCookie carries the opaque session id.
const SessionCookie = "catalog_session"

// ServerOptions groups dependencies for Server.
type ServerOptions struct {
	Config config.DevAPIConfig
	// Sessions defaults to a MemorySessionStore.
	Sessions ports.SessionRepository
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// Metrics receives a devapi.request timing per request. Optional.
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// Server is the development catalog API.
type Server struct {
	cfg      config.DevAPIConfig
	users    *Users
	catalog  *Catalog
	sessions ports.SessionRepository
	metrics  statsd.Sink
	logger   *slog.Logger
	now      func() time.Time
	handler  http.Handler
}

// NewServer builds the API with its seed users and, when configured, sample products.
func NewServer(opts ServerOptions) (*Server, error) {
	cfg := opts.Config
	cfg.Sanitize()
	users, err := NewUsers(cfg.Credentials(), opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = NewMemorySessionStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		users:    users,
		catalog:  NewCatalog(),
		sessions: sessions,
		metrics:  opts.Metrics,
		logger:   logger.With("component", "devapi"),
		now:      time.Now,
	}
	if cfg.SeedProducts {
		s.catalog.Seed()
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.handler }

// Catalog exposes the product table.
func (s *Server) Catalog() *Catalog { return s.catalog }

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix(s.cfg.PathPrefix).Subrouter()
	api.Use(s.logRequests)
	api.Use(xsrfProtection(xsrfConfig{Exempt: s.xsrfExempt}))

	auth := api.PathPrefix("/Auth").Subrouter()
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	auth.HandleFunc("/validate", s.handleValidate).Methods(http.MethodGet)
	auth.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)

	products := api.PathPrefix("/productos").Subrouter()
	products.Use(s.requireSession)
	products.HandleFunc("", s.handleListProducts).Methods(http.MethodGet)
	products.HandleFunc("", s.handleCreateProduct).Methods(http.MethodPost)
	products.HandleFunc("/{id:[0-9]+}", s.handleGetProduct).Methods(http.MethodGet)
	products.HandleFunc("/{id:[0-9]+}", s.handleUpdateProduct).Methods(http.MethodPut)
	products.HandleFunc("/{id:[0-9]+}", s.handleDeleteProduct).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusNotFound, envelope{Message: "Recurso no encontrado"})
	})
	return r
}

// xsrfExempt lets login and registration through without a token: a client
// arriving for the first time has no cookie to echo.
func (s *Server) xsrfExempt(r *http.Request) bool {
	p := r.URL.Path
	return p == s.cfg.PathPrefix+"/Auth/login" || p == s.cfg.PathPrefix+"/Auth/register"
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		s.logger.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", r.Header.Get("X-Request-Id"),
			"duration", elapsed)
		if s.metrics != nil {
			route := "unmatched"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			s.metrics.Timing("devapi.request", elapsed, map[string]string{
				"method": r.Method,
				"route":  route,
				"status": strconv.Itoa(rec.status),
			})
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requireSession rejects requests without a live session with 401.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.currentSession(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

// currentSession resolves the session cookie. When it fails it writes the reply
// and returns false.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) (domainauth.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), cookieValue(r, SessionCookie))
	if err == nil {
		return sess, true
	}
	if !errors.Is(err, domainauth.ErrSessionNotFound) {
		s.logger.ErrorContext(r.Context(), "load session", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, envelope{Message: msgInternal})
		return domainauth.Session{}, false
	}
	writeEnvelope(w, http.StatusUnauthorized, envelope{Message: msgUnauthenticated})
	return domainauth.Session{}, false
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domainauth.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	if err := creds.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, domainauth.LoginResponse{Message: err.Error()})
		return
	}
	user, err := s.users.Authenticate(creds.Username, creds.Password, s.now())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, domainauth.LoginResponse{Message: msgInvalidCredentials})
		return
	}

	// A login replaces whatever session the client had.
	if old := cookieValue(r, SessionCookie); old != "" {
		_ = s.sessions.Delete(r.Context(), old)
	}
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: s.now().Add(s.cfg.SessionTTL),
	}
	if err = s.sessions.Save(r.Context(), sess); err != nil {
		s.logger.ErrorContext(r.Context(), "save session", "error", err)
		writeJSON(w, http.StatusInternalServerError, domainauth.LoginResponse{Message: msgInternal})
		return
	}
	s.setSessionCookie(w, r, sess)
	s.logger.InfoContext(r.Context(), "user logged in", "user", user.Username)
	writeJSON(w, http.StatusOK, domainauth.LoginResponse{Success: true, Message: msgLoginOK, User: &user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id := cookieValue(r, SessionCookie); id != "" {
		if err := s.sessions.Delete(r.Context(), id); err != nil {
			s.logger.WarnContext(r.Context(), "delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Message: msgLogoutOK})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), cookieValue(r, SessionCookie))
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) {
			s.logger.ErrorContext(r.Context(), "load session", "error", err)
		}
		writeJSON(w, http.StatusUnauthorized, domainauth.LoginResponse{Message: msgSessionInvalid})
		return
	}
	user, ok := s.users.Lookup(sess.Username)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, domainauth.LoginResponse{Message: msgSessionInvalid})
		return
	}
	writeJSON(w, http.StatusOK, domainauth.LoginResponse{Success: true, Message: msgSessionValid, User: &user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in domainauth.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Message: msgInvalidData, Errors: []string{err.Error()}})
		return
	}
	user, err := s.users.Register(in.Username, in.Email, in.Password)
	switch {
	case errors.Is(err, errUserExists):
		writeEnvelope(w, http.StatusConflict, envelope{Message: msgUserExists})
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "register user", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, envelope{Message: msgInternal})
		return
	}
	writeEnvelope(w, http.StatusCreated, envelope{Success: true, Message: msgRegistered, Data: user})
}

func (s *Server) handleListProducts(w http.ResponseWriter, _ *http.Request) {
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: s.catalog.List()})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(productID(r))
	if err != nil {
		writeEnvelope(w, http.StatusNotFound, envelope{Message: msgProductNotFound})
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: p})
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, envelope{Message: msgInvalidData, Errors: errs})
		return
	}
	sess, _ := sessionFromContext(r.Context())
	p, err := s.catalog.Create(req, sess.Username)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, envelope{Success: true, Message: msgProductCreated, Data: p})
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, envelope{Message: msgInvalidData, Errors: errs})
		return
	}
	p, err := s.catalog.Update(productID(r), req)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Message: msgProductUpdated, Data: p})
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(productID(r)); err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Message: msgProductDeleted})
}

func (s *Server) writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errProductNotFound):
		writeEnvelope(w, http.StatusNotFound, envelope{Message: msgProductNotFound})
	case errors.Is(err, errDuplicateCode):
		writeEnvelope(w, http.StatusConflict, envelope{Message: msgDuplicateCode})
	default:
		s.logger.Error("catalog operation failed", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, envelope{Message: msgInternal})
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sess domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// productID reads the {id} route variable; the route pattern guarantees digits.
func productID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
