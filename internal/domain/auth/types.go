package auth

// Package auth contains domain-level types for authentication and the client session.
// It is pure and free of transport/adapter concerns.

import (
	"strings"
	"unicode/utf8"

	"github.com/target/catalog-admin/internal/domain/model"
	apperrors "github.com/target/catalog-admin/internal/errors"
)

// Credential length rules enforced before any login attempt.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 100
	MinPasswordLen = 6
)

// Field names used for field-level validation messages (API wire names).
const (
	FieldUsername = "nombreUsuario"
	FieldPassword = "password"
	FieldEmail    = "email"
)

// User is the authenticated principal as reported by the catalog API.
type User struct {
	ID         int64            `json:"id"`
	Username   string           `json:"nombreUsuario"`
	Email      string           `json:"email"`
	LastAccess *model.Timestamp `json:"ultimoAcceso,omitempty"`
}

// Credentials is the login input. It is never persisted.
type Credentials struct {
	Username string `json:"nombreUsuario"`
	Password string `json:"password"`
}

// FieldErrors returns one message per invalid field, keyed by wire field name.
func (c Credentials) FieldErrors() map[string]string {
	out := map[string]string{}
	if msg := checkUsername(c.Username); msg != "" {
		out[FieldUsername] = msg
	}
	if msg := checkPassword(c.Password); msg != "" {
		out[FieldPassword] = msg
	}
	return out
}

// Validate reports the first invalid field (username before password).
func (c Credentials) Validate() error {
	if msg := checkUsername(c.Username); msg != "" {
		return apperrors.ValidationField(FieldUsername, msg)
	}
	if msg := checkPassword(c.Password); msg != "" {
		return apperrors.ValidationField(FieldPassword, msg)
	}
	return nil
}

// RegisterInput carries a self-registration request.
type RegisterInput struct {
	Username string `json:"nombreUsuario"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration fields with the same rules as login plus a basic email check.
func (r RegisterInput) Validate() error {
	if msg := checkUsername(r.Username); msg != "" {
		return apperrors.ValidationField(FieldUsername, msg)
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return apperrors.ValidationField(FieldEmail, "email is required")
	}
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return apperrors.ValidationField(FieldEmail, "email is not valid")
	}
	if msg := checkPassword(r.Password); msg != "" {
		return apperrors.ValidationField(FieldPassword, msg)
	}
	return nil
}

// LoginResponse is the body of POST /Auth/login and GET /Auth/validate.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"usuario,omitempty"`
}

func checkUsername(v string) string {
	v = strings.TrimSpace(v)
	n := utf8.RuneCountInString(v)
	switch {
	case n == 0:
		return "username is required"
	case n < MinUsernameLen:
		return "username must be at least 3 characters"
	case n > MaxUsernameLen:
		return "username cannot exceed 100 characters"
	}
	return ""
}

func checkPassword(v string) string {
	n := utf8.RuneCountInString(v)
	switch {
	case n == 0:
		return "password is required"
	case n < MinPasswordLen:
		return "password must be at least 6 characters"
	}
	return ""
}
