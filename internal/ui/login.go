package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/ports"
	"github.com/target/catalog-admin/internal/router"
	"github.com/target/catalog-admin/internal/ui/validation"
)

const (
	msgLoginDefault   = "could not log in"
	msgSessionExpired = "Your session has expired. Please log in again."
)

// LoginOptions groups dependencies for LoginView.
type LoginOptions struct {
	Auth      ports.AuthGateway   // Required
	Session   ports.SessionReader // Required: followed to leave once authenticated
	Navigator ports.Navigator     // Required
}

// LoginView collects credentials and leaves for the return location once the
// session is authenticated.
type LoginView struct {
	state
	auth    ports.AuthGateway
	session ports.SessionReader
	nav     ports.Navigator

	returnURL      string
	sessionExpired bool
	loading        bool
	errorMessage   string
	fieldErrors    map[string]string
	username       string
	redirected     bool
}

// NewLoginView builds the login view for a navigation carrying query.
func NewLoginView(opts LoginOptions, query url.Values) *LoginView {
	return &LoginView{
		auth:           opts.Auth,
		session:        opts.Session,
		nav:            opts.Navigator,
		returnURL:      safeReturnURL(query.Get(router.ParamReturnURL)),
		sessionExpired: query.Get(router.ParamSessionExpired) == "true",
		fieldErrors:    map[string]string{},
	}
}

// Name implements View.
func (v *LoginView) Name() string { return router.RouteLogin }

// ReturnURL is where the view goes after authentication.
func (v *LoginView) ReturnURL() string { return v.returnURL }

// Mount subscribes to the session. An authenticated session sends the view to the
// return location; after a session-expired redirect the stale initial state is
// ignored and only a fresh authentication counts.
func (v *LoginView) Mount(context.Context) {
	initial := true
	unsubscribe := v.session.Subscribe(func(st domainauth.SessionState) {
		var skip bool
		v.read(func() {
			skip = initial && v.sessionExpired
			initial = false
		})
		if st.Authenticated && !skip {
			v.redirect()
		}
	})
	v.onDestroy(unsubscribe)
}

// Submit validates creds locally and, when they pass, logs in.
func (v *LoginView) Submit(ctx context.Context, creds domainauth.Credentials) {
	fieldErrors := validation.New().
		Validate(domainauth.FieldUsername, creds.Username,
			validation.Required("Username"),
			validation.MinLen("Username", domainauth.MinUsernameLen),
			validation.MaxLen("Username", domainauth.MaxUsernameLen)).
		Validate(domainauth.FieldPassword, creds.Password,
			validation.Required("Password"),
			validation.MinLen("Password", domainauth.MinPasswordLen))

	proceed := v.update(func() {
		v.username = creds.Username
		v.fieldErrors = fieldErrors.Errors()
		if !fieldErrors.Valid() {
			return
		}
		v.loading = true
		v.errorMessage = ""
	})
	if !proceed || !fieldErrors.Valid() {
		return
	}

	out := v.auth.Login(ctx, creds)

	v.update(func() {
		v.loading = false
		if !out.OK() {
			v.errorMessage = nonBlank(out.Message(), msgLoginDefault)
		}
	})
	if out.OK() {
		v.redirect()
	}
}

// ClearError dismisses the error and the session-expired notice.
func (v *LoginView) ClearError() {
	v.update(func() {
		v.errorMessage = ""
		v.sessionExpired = false
	})
}

// ErrorMessage returns the current error, if any.
func (v *LoginView) ErrorMessage() string {
	var msg string
	v.read(func() { msg = v.errorMessage })
	return msg
}

// FieldErrors returns the field messages of the last submit.
func (v *LoginView) FieldErrors() map[string]string {
	out := map[string]string{}
	v.read(func() {
		for k, val := range v.fieldErrors {
			out[k] = val
		}
	})
	return out
}

// SessionExpired reports whether the session-expired notice is shown.
func (v *LoginView) SessionExpired() bool {
	var expired bool
	v.read(func() { expired = v.sessionExpired })
	return expired
}

// Loading reports whether a login is in flight.
func (v *LoginView) Loading() bool {
	var loading bool
	v.read(func() { loading = v.loading })
	return loading
}

// redirect navigates to the return location once per mount.
func (v *LoginView) redirect() {
	var target string
	v.update(func() {
		if v.redirected {
			return
		}
		v.redirected = true
		target = v.returnURL
	})
	if target != "" {
		v.nav.NavigateURL(target)
	}
}

// Render implements View.
func (v *LoginView) Render(w io.Writer) {
	v.read(func() {
		_, _ = fmt.Fprintln(w, "== Login ==")
		if v.sessionExpired {
			_, _ = fmt.Fprintln(w, msgSessionExpired)
		}
		if v.errorMessage != "" {
			_, _ = fmt.Fprintf(w, "Error: %s\n", v.errorMessage)
		}
		for _, f := range []string{domainauth.FieldUsername, domainauth.FieldPassword} {
			if msg := v.fieldErrors[f]; msg != "" {
				_, _ = fmt.Fprintf(w, "  %s: %s\n", f, msg)
			}
		}
		if v.loading {
			_, _ = fmt.Fprintln(w, "Logging in...")
		}
		_, _ = fmt.Fprintln(w, "Commands: login <username> <password> | register <username> <email> <password> | clear | quit")
	})
}

// safeReturnURL keeps only local, non-login return locations.
func safeReturnURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return router.PathProducts
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return router.PathProducts
	}
	if router.CleanPath(u.Path) == router.PathLogin {
		return router.PathProducts
	}
	return raw
}

func nonBlank(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
