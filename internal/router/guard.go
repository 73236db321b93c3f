package router

import (
	"net/url"

	"github.com/target/catalog-admin/internal/ports"
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Allow bool
	// Redirect is the location to go to instead when Allow is false.
	Redirect string
}

// Guard admits navigation to protected routes only while the session is authenticated.
// It only reads the session store and never calls the network.
type Guard struct {
	session ports.SessionReader
}

// NewGuard constructs a Guard over the session store.
func NewGuard(session ports.SessionReader) *Guard {
	return &Guard{session: session}
}

// Check decides whether target (a path with optional query) may be entered.
func (g *Guard) Check(target string) Decision {
	if g.session.Value().Authenticated {
		return Decision{Allow: true}
	}
	return Decision{Redirect: LoginURL(target, false)}
}

// LoginURL is the login route carrying returnTo as the return location, plus the
// session-expired flag when set.
func LoginURL(returnTo string, expired bool) string {
	q := url.Values{}
	if returnTo != "" {
		q.Set(ParamReturnURL, returnTo)
	}
	if expired {
		q.Set(ParamSessionExpired, "true")
	}
	if len(q) == 0 {
		return PathLogin
	}
	return PathLogin + "?" + q.Encode()
}
