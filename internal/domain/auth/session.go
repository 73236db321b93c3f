package auth

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned by session repositories for unknown or expired ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is a server-side login session of the development API, referenced by an
// opaque cookie value.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
