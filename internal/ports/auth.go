package ports

// Package ports defines interfaces (hexagonal ports) between the console views,
// the gateways, the session store and the navigation layer.
// Implementations live in internal/session, internal/service and internal/router.

import (
	"context"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
)

// SessionReader exposes the current authentication state as a readable, observable value.
type SessionReader interface {
	// Value returns the last published state.
	Value() domainauth.SessionState
	// Subscribe calls fn with the current state and then after every change, in
	// subscription order. The returned function stops further calls.
	Subscribe(fn func(domainauth.SessionState)) (unsubscribe func())
}

// SessionWriter is the mutating side of the session store. Only the auth gateway holds it.
type SessionWriter interface {
	SessionReader
	SetAuthenticated(user *domainauth.User)
	ClearAuthenticated()
	// ClearIfAnonymous clears the session only when it holds no user, atomically
	// with respect to other mutations, and reports whether it did.
	ClearIfAnonymous() bool
}

// AuthGateway performs authentication calls against the remote API and keeps the
// session store in step with their results.
type AuthGateway interface {
	Login(ctx context.Context, creds domainauth.Credentials) domainauth.Outcome
	Logout(ctx context.Context) domainauth.Outcome
	ValidateSession(ctx context.Context) domainauth.Outcome
	Register(ctx context.Context, in domainauth.RegisterInput) domainauth.Outcome
	CurrentUser() *domainauth.User
	IsAuthenticated() bool
}
