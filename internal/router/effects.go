package router

import (
	"log/slog"
	"strings"

	"github.com/target/catalog-admin/internal/adapters/apiclient"
	"github.com/target/catalog-admin/internal/ports"
)

// SessionEffects turns interceptor signals into navigation. It is installed as the
// interceptor's SignalHandler so the transport never needs to know about routes.
type SessionEffects struct {
	nav    ports.Navigator
	logger *slog.Logger
}

// NewSessionEffects constructs SessionEffects.
func NewSessionEffects(nav ports.Navigator, logger *slog.Logger) *SessionEffects {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionEffects{nav: nav, logger: logger}
}

// Handle performs the navigation side effect of ev, if any.
//
// SessionExpired sends the console to the login route exactly once, carrying the
// current location and the session-expired flag. Forbidden and Unreachable are
// already logged by the interceptor and cause no navigation.
func (e *SessionEffects) Handle(ev apiclient.Event) {
	if ev.Signal != apiclient.SignalSessionExpired {
		return
	}
	current := e.nav.Current()
	if isLoginLocation(current) {
		// Keep the original return location when already on the login route.
		e.logger.Debug("session expired while on login route", "location", current)
		return
	}
	e.nav.NavigateURL(LoginURL(current, true))
}

func isLoginLocation(loc string) bool {
	p := loc
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return CleanPath(p) == PathLogin
}
