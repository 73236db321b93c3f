package auth

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/target/catalog-admin/internal/errors"
)

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name      string
		creds     Credentials
		wantField string
	}{
		{"valid", Credentials{Username: "admin", Password: "admin123"}, ""},
		{"empty username", Credentials{Username: "  ", Password: "admin123"}, FieldUsername},
		{"short username", Credentials{Username: "ab", Password: "admin123"}, FieldUsername},
		{"long username", Credentials{Username: strings.Repeat("a", 101), Password: "admin123"}, FieldUsername},
		{"empty password", Credentials{Username: "admin"}, FieldPassword},
		{"short password", Credentials{Username: "admin", Password: "12345"}, FieldPassword},
		{"boundary lengths", Credentials{Username: "abc", Password: "123456"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if got := apperrors.GetField(err); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestCredentials_FieldErrors(t *testing.T) {
	errs := Credentials{Username: "a", Password: "b"}.FieldErrors()
	if len(errs) != 2 {
		t.Fatalf("expected both fields to fail, got %v", errs)
	}
	if errs[FieldUsername] != "username must be at least 3 characters" {
		t.Errorf("username message = %q", errs[FieldUsername])
	}
	if errs[FieldPassword] != "password must be at least 6 characters" {
		t.Errorf("password message = %q", errs[FieldPassword])
	}
}

func TestRegisterInput_Validate(t *testing.T) {
	valid := RegisterInput{Username: "ana", Email: "ana@example.com", Password: "secret1"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := valid
	bad.Email = "ana@"
	if got := apperrors.GetField(bad.Validate()); got != FieldEmail {
		t.Errorf("field = %q, want email", got)
	}
}

func TestOutcome(t *testing.T) {
	u := &User{ID: 1, Username: "admin"}
	ok := Success(u)
	if !ok.OK() || ok.User() != u || ok.Message() != "" || ok.Err() != nil {
		t.Fatalf("unexpected success outcome: %+v", ok)
	}

	cause := errors.New("boom")
	failed := Failure("", cause)
	if failed.OK() || failed.User() != nil {
		t.Fatalf("unexpected failure outcome: %+v", failed)
	}
	if failed.Message() == "" {
		t.Error("failure must always carry a message")
	}
	if !errors.Is(failed.Err(), cause) {
		t.Error("failure must keep its cause")
	}
}
