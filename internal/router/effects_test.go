package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/catalog-admin/internal/adapters/apiclient"
	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/mocks"
	"github.com/target/catalog-admin/internal/ports"
	"go.uber.org/mock/gomock"
)

func TestSessionEffects_SessionExpiredNavigatesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	nav.EXPECT().Current().Return("/productos/editar/4")
	nav.EXPECT().NavigateURL("/login?returnUrl=%2Fproductos%2Feditar%2F4&sessionExpired=true").Times(1)

	NewSessionEffects(nav, nil).Handle(apiclient.Event{Signal: apiclient.SignalSessionExpired, Status: http.StatusUnauthorized})
}

func TestSessionEffects_OtherSignalsDoNotNavigate(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	effects := NewSessionEffects(nav, nil)

	effects.Handle(apiclient.Event{Signal: apiclient.SignalForbidden, Status: http.StatusForbidden})
	effects.Handle(apiclient.Event{Signal: apiclient.SignalUnreachable, Err: errors.New("refused")})
	effects.Handle(apiclient.Event{Signal: apiclient.SignalContinue})
}

func TestSessionEffects_AlreadyOnLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	nav.EXPECT().Current().Return("/login?returnUrl=%2Fproductos")

	NewSessionEffects(nav, nil).Handle(apiclient.Event{Signal: apiclient.SignalSessionExpired})
	assert.True(t, isLoginLocation("/login/"))
}

// A 401 on a resource request produces exactly one login navigation through the
// real transport; a 401 on the login endpoint produces none.
func TestSessionEffects_ThroughInterceptor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	nav, store := newTestNavigator(t)
	store.SetAuthenticated(&domainauth.User{ID: 1})
	nav.NavigateURL("/productos/nuevo")
	var visits []string
	nav.Subscribe(func(loc Location) { visits = append(visits, loc.String()) })

	effects := NewSessionEffects(nav, nil)
	client, err := apiclient.New(apiclient.Options{
		BaseURL: srv.URL + "/api",
		Interceptor: apiclient.InterceptorOptions{
			ExemptPaths: []string{"/api/Auth/login", "/api/Auth/validate", "/api/Auth/register"},
			OnSignal:    effects.Handle,
		},
	})
	require.NoError(t, err)

	err = client.Do(context.Background(), ports.APIRequest{Method: http.MethodPost, Path: "/Auth/login"}, nil)
	require.Error(t, err)
	assert.Empty(t, visits)

	err = client.Do(context.Background(), ports.APIRequest{Method: http.MethodGet, Path: "/productos"}, nil)
	require.Error(t, err)
	require.Len(t, visits, 1)
	loc := nav.Location()
	assert.Equal(t, RouteLogin, loc.Route.Name)
	assert.Equal(t, "/productos/nuevo", loc.Query.Get(ParamReturnURL))
	assert.Equal(t, "true", loc.Query.Get(ParamSessionExpired))
}
