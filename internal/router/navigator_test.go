package router

import (
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/session"
)

func newTestNavigator(t *testing.T) (*Navigator, *session.Store) {
	t.Helper()
	store := session.NewStore()
	nav := NewNavigator(NavigatorOptions{Table: NewTable(), Guard: NewGuard(store)})
	return nav, store
}

func TestGuard_Check(t *testing.T) {
	store := session.NewStore()
	g := NewGuard(store)

	d := g.Check("/productos/editar/3")
	assert.False(t, d.Allow)
	assert.Equal(t, "/login?returnUrl=%2Fproductos%2Feditar%2F3", d.Redirect)

	store.SetAuthenticated(&domainauth.User{ID: 1})
	assert.True(t, g.Check("/productos").Allow)
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/login", LoginURL("", false))
	assert.Equal(t, "/login?returnUrl=%2Fproductos&sessionExpired=true", LoginURL("/productos", true))
}

func TestNavigator_RedirectsRootAndUnknownToHome(t *testing.T) {
	nav, store := newTestNavigator(t)
	store.SetAuthenticated(&domainauth.User{ID: 1})

	nav.NavigateURL("/")
	assert.Equal(t, "/productos", nav.Current())

	nav.NavigateURL("/does/not/exist?x=1")
	assert.Equal(t, "/productos", nav.Current())

	nav.NavigateURL("https://evil.example.com/productos")
	assert.Equal(t, "/productos", nav.Current())
}

func TestNavigator_GuardRedirectsToLogin(t *testing.T) {
	nav, _ := newTestNavigator(t)

	nav.Navigate("/productos/editar/5", url.Values{"tab": {"x"}})

	loc := nav.Location()
	assert.Equal(t, RouteLogin, loc.Route.Name)
	assert.Equal(t, "/productos/editar/5?tab=x", loc.Query.Get(ParamReturnURL))
}

func TestNavigator_UnknownPathWhileAnonymousEndsAtLogin(t *testing.T) {
	nav, _ := newTestNavigator(t)

	nav.NavigateURL("/whatever")

	loc := nav.Location()
	assert.Equal(t, RouteLogin, loc.Route.Name)
	assert.Equal(t, "/productos", loc.Query.Get(ParamReturnURL))
}

func TestNavigator_ProtectedRouteWhenAuthenticated(t *testing.T) {
	nav, store := newTestNavigator(t)
	store.SetAuthenticated(&domainauth.User{ID: 1})

	nav.NavigateURL("/productos/editar/12")

	loc := nav.Location()
	assert.Equal(t, RouteProductEdit, loc.Route.Name)
	assert.Equal(t, "12", loc.Params["id"])
}

func TestNavigator_ReentrantNavigationIsQueued(t *testing.T) {
	nav, store := newTestNavigator(t)
	store.SetAuthenticated(&domainauth.User{ID: 1})

	var seen []string
	nav.Subscribe(func(loc Location) {
		seen = append(seen, loc.String())
		if loc.Route.Name == RouteProductNew {
			nav.NavigateURL("/productos?success=created")
			assert.Equal(t, "/productos/nuevo", nav.Current(), "queued navigation must not run inside the listener")
		}
	})

	nav.NavigateURL("/productos/nuevo")

	assert.Equal(t, []string{"/productos/nuevo", "/productos?success=created"}, seen)
	assert.Equal(t, "/productos?success=created", nav.Current())
}

func TestNavigator_Unsubscribe(t *testing.T) {
	nav, _ := newTestNavigator(t)
	var calls int
	unsubscribe := nav.Subscribe(func(Location) { calls++ })

	nav.NavigateURL("/login")
	unsubscribe()
	unsubscribe()
	nav.NavigateURL("/login")

	assert.Equal(t, 1, calls)
}

func TestNavigator_ConcurrentNavigations(t *testing.T) {
	nav, store := newTestNavigator(t)
	store.SetAuthenticated(&domainauth.User{ID: 1})
	var mu sync.Mutex
	var count int
	nav.Subscribe(func(Location) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nav.NavigateURL("/productos")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 20, count)
}
