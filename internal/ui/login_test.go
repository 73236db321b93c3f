package ui

import (
	"bytes"
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/mocks"
	"github.com/target/catalog-admin/internal/session"
	"github.com/target/catalog-admin/internal/testutil"
	"go.uber.org/mock/gomock"
)

type loginFixture struct {
	auth  *mocks.MockAuthGateway
	store *session.Store
	nav   *testutil.RecordingNavigator
}

func newLoginFixture(t *testing.T) loginFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return loginFixture{
		auth:  mocks.NewMockAuthGateway(ctrl),
		store: session.NewStore(),
		nav:   testutil.NewRecordingNavigator("/login"),
	}
}

func (f loginFixture) view(query url.Values) *LoginView {
	return NewLoginView(LoginOptions{Auth: f.auth, Session: f.store, Navigator: f.nav}, query)
}

func TestSafeReturnURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/productos"},
		{"/productos/editar/3", "/productos/editar/3"},
		{"/productos?success=created", "/productos?success=created"},
		{"https://evil.example/productos", "/productos"},
		{"//evil.example", "/productos"},
		{"productos", "/productos"},
		{"/login", "/productos"},
		{"/login/", "/productos"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeReturnURL(tt.in))
		})
	}
}

func TestLoginView_QueryParams(t *testing.T) {
	f := newLoginFixture(t)
	v := f.view(url.Values{"returnUrl": {"/productos/nuevo"}, "sessionExpired": {"true"}})

	assert.Equal(t, "/productos/nuevo", v.ReturnURL())
	assert.True(t, v.SessionExpired())

	v.ClearError()
	assert.False(t, v.SessionExpired())
}

func TestLoginView_SubmitInvalidDoesNotCallGateway(t *testing.T) {
	f := newLoginFixture(t)
	v := f.view(nil)
	v.Mount(context.Background())
	defer v.Destroy()

	v.Submit(context.Background(), domainauth.Credentials{Username: "ab", Password: ""})

	errs := v.FieldErrors()
	assert.Equal(t, "Username must be at least 3 characters", errs[domainauth.FieldUsername])
	assert.Equal(t, "Password is required", errs[domainauth.FieldPassword])
	assert.Empty(t, f.nav.Visits())
}

func TestLoginView_SubmitFailureShowsMessage(t *testing.T) {
	f := newLoginFixture(t)
	creds := domainauth.Credentials{Username: "admin", Password: "wrong-pass"}
	f.auth.EXPECT().Login(gomock.Any(), creds).Return(domainauth.Failure("Credenciales inválidas", nil))
	v := f.view(nil)
	v.Mount(context.Background())
	defer v.Destroy()

	v.Submit(context.Background(), creds)

	assert.Equal(t, "Credenciales inválidas", v.ErrorMessage())
	assert.False(t, v.Loading())
	assert.Empty(t, f.nav.Visits())
}

func TestLoginView_SubmitSuccessGoesToReturnURL(t *testing.T) {
	f := newLoginFixture(t)
	creds := domainauth.Credentials{Username: "admin", Password: "secret1"}
	user := testutil.NewUser(1, "admin")
	f.auth.EXPECT().Login(gomock.Any(), creds).DoAndReturn(
		func(context.Context, domainauth.Credentials) domainauth.Outcome {
			f.store.SetAuthenticated(user)
			return domainauth.Success(user)
		})
	v := f.view(url.Values{"returnUrl": {"/productos/editar/7"}})
	v.Mount(context.Background())
	defer v.Destroy()

	v.Submit(context.Background(), creds)

	// The store subscription and the submit both want to leave; only one navigation happens.
	assert.Equal(t, []string{"/productos/editar/7"}, f.nav.Visits())
}

func TestLoginView_AlreadyAuthenticatedRedirects(t *testing.T) {
	f := newLoginFixture(t)
	f.store.SetAuthenticated(testutil.NewUser(1, "admin"))
	v := f.view(nil)

	v.Mount(context.Background())
	defer v.Destroy()

	assert.Equal(t, []string{"/productos"}, f.nav.Visits())
}

func TestLoginView_FollowsPendingValidation(t *testing.T) {
	f := newLoginFixture(t)
	v := f.view(url.Values{"returnUrl": {"/productos/nuevo"}})
	v.Mount(context.Background())
	defer v.Destroy()
	require.Empty(t, f.nav.Visits())

	f.store.SetAuthenticated(testutil.NewUser(1, "admin"))

	assert.Equal(t, []string{"/productos/nuevo"}, f.nav.Visits())
}

func TestLoginView_SessionExpiredIgnoresStaleState(t *testing.T) {
	f := newLoginFixture(t)
	f.store.SetAuthenticated(testutil.NewUser(1, "admin"))
	v := f.view(url.Values{"returnUrl": {"/productos"}, "sessionExpired": {"true"}})

	v.Mount(context.Background())
	defer v.Destroy()
	assert.Empty(t, f.nav.Visits())

	f.store.SetAuthenticated(testutil.NewUser(1, "admin"))
	assert.Equal(t, []string{"/productos"}, f.nav.Visits())
}

func TestLoginView_DestroyedDropsResults(t *testing.T) {
	f := newLoginFixture(t)
	creds := domainauth.Credentials{Username: "admin", Password: "wrong-pass"}
	v := f.view(nil)
	f.auth.EXPECT().Login(gomock.Any(), creds).DoAndReturn(
		func(context.Context, domainauth.Credentials) domainauth.Outcome {
			v.Destroy()
			return domainauth.Failure("Credenciales inválidas", nil)
		})
	v.Mount(context.Background())

	v.Submit(context.Background(), creds)

	assert.True(t, v.Destroyed())
	assert.Empty(t, v.ErrorMessage())
	assert.True(t, v.Loading(), "state is frozen at teardown")

	f.store.SetAuthenticated(testutil.NewUser(1, "admin"))
	assert.Empty(t, f.nav.Visits())
}

func TestLoginView_Render(t *testing.T) {
	f := newLoginFixture(t)
	v := f.view(url.Values{"sessionExpired": {"true"}})
	v.Submit(context.Background(), domainauth.Credentials{Username: "admin"})

	var buf bytes.Buffer
	v.Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "== Login ==")
	assert.Contains(t, out, msgSessionExpired)
	assert.Contains(t, out, "password: Password is required")
}
