package ports

import (
	"context"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
)

// SessionRepository persists development API sessions. Get returns
// auth.ErrSessionNotFound for unknown or expired ids.
type SessionRepository interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
