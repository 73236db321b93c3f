package devapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/catalog-admin/config"
	"github.com/target/catalog-admin/internal/bootstrap"
	"github.com/target/catalog-admin/internal/devapi"
	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/domain/model"
	apperrors "github.com/target/catalog-admin/internal/errors"
	"github.com/target/catalog-admin/internal/router"
	"golang.org/x/crypto/bcrypt"
)

type roundTrip struct {
	srv      *httptest.Server
	sessions *devapi.MemorySessionStore
	client   *bootstrap.Client
}

// newRoundTrip runs the development API and a client stack pointed at it.
func newRoundTrip(t *testing.T) *roundTrip {
	t.Helper()
	sessions := devapi.NewMemorySessionStore()
	api, err := devapi.NewServer(devapi.ServerOptions{
		Config:     config.DevAPIConfig{Users: []string{"admin:admin123"}, SessionTTL: time.Hour},
		Sessions:   sessions,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.AppConfig{}
	cfg.API.BaseURL = srv.URL + "/api"
	cfg.Sanitize()
	client, err := bootstrap.NewClient(bootstrap.ClientConfig{Config: cfg})
	require.NoError(t, err)

	return &roundTrip{srv: srv, sessions: sessions, client: client}
}

func (rt *roundTrip) login(t *testing.T) {
	t.Helper()
	out := rt.client.Auth.Login(context.Background(), domainauth.Credentials{Username: "admin", Password: "admin123"})
	require.True(t, out.OK(), out.Message())
}

func (rt *roundTrip) sessionID(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(rt.srv.URL + "/api/")
	require.NoError(t, err)
	for _, c := range rt.client.API.Jar().Cookies(u) {
		if c.Name == devapi.SessionCookie {
			return c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

func TestRoundTrip_CreatedProductIsListed(t *testing.T) {
	rt := newRoundTrip(t)
	ctx := context.Background()
	rt.login(t)

	created, err := rt.client.Products.Create(ctx, &model.CreateProductRequest{Code: "A1", Name: "Widget", Price: 9.99, Stock: 5})
	require.NoError(t, err)

	items, err := rt.client.Products.List(ctx)
	require.NoError(t, err)

	var found *model.Product
	for i := range items {
		if items[i].ID == created.ID {
			found = &items[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "A1", found.Code)
	assert.Equal(t, "Widget", found.Name)
	assert.InDelta(t, 9.99, found.Price, 1e-9)
	assert.Equal(t, 5, found.Stock)
	assert.True(t, found.Active)
}

func TestRoundTrip_MutationsCarryAntiForgeryToken(t *testing.T) {
	rt := newRoundTrip(t)
	ctx := context.Background()
	rt.login(t)

	p, err := rt.client.Products.Create(ctx, &model.CreateProductRequest{Code: "B2", Name: "Gadget", Price: 1, Stock: 1})
	require.NoError(t, err)

	updated, err := rt.client.Products.Update(ctx, p.ID, &model.UpdateProductRequest{Code: "B2", Name: "Gadget Pro", Price: 2, Stock: 3, Active: true})
	require.NoError(t, err)
	assert.Equal(t, "Gadget Pro", updated.Name)

	require.NoError(t, rt.client.Products.Delete(ctx, p.ID))
	_, err = rt.client.Products.Get(ctx, p.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRoundTrip_ExpiredSessionReturnsToLogin(t *testing.T) {
	rt := newRoundTrip(t)
	ctx := context.Background()
	rt.login(t)

	rt.client.Navigator.NavigateURL(router.PathProducts)
	require.Equal(t, router.PathProducts, rt.client.Navigator.Current())

	require.NoError(t, rt.sessions.Delete(ctx, rt.sessionID(t)))

	_, err := rt.client.Products.List(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, router.LoginURL(router.PathProducts, true), rt.client.Navigator.Current())
}

func TestRoundTrip_WrongPasswordDoesNotNavigate(t *testing.T) {
	rt := newRoundTrip(t)
	rt.client.Navigator.NavigateURL(router.PathLogin)

	out := rt.client.Auth.Login(context.Background(), domainauth.Credentials{Username: "admin", Password: "wrong-pass"})

	assert.False(t, out.OK())
	assert.NotEmpty(t, out.Message())
	assert.Equal(t, router.PathLogin, rt.client.Navigator.Current())
}

func TestRoundTrip_LogoutEndsSession(t *testing.T) {
	rt := newRoundTrip(t)
	ctx := context.Background()
	rt.login(t)
	rt.client.Navigator.NavigateURL(router.PathProducts)

	out := rt.client.Auth.Logout(ctx)

	assert.True(t, out.OK())
	assert.False(t, rt.client.Auth.IsAuthenticated())
	assert.Equal(t, router.PathLogin, rt.client.Navigator.Current())
	assert.False(t, rt.client.Auth.ValidateSession(ctx).OK())

	resp, err := http.Get(rt.srv.URL + "/api/productos") //nolint:noctx // plain probe without cookies
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
