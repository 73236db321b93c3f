// Package router is the console's navigation surface: the route table, the
// authentication guard in front of protected routes, the Navigator that moves
// between locations, and the effects that turn transport signals into navigations.
package router

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gorilla/mux"
)

// Route names.
const (
	RouteLogin       = "login"
	RouteProductList = "product_list"
	RouteProductNew  = "product_new"
	RouteProductEdit = "product_edit"
)

// Route paths.
const (
	PathLogin       = "/login"
	PathProducts    = "/productos"
	PathProductNew  = "/productos/nuevo"
	PathProductEdit = "/productos/editar/{id:[0-9]+}"
)

// Query parameters understood by the login route and the product list.
const (
	ParamReturnURL      = "returnUrl"
	ParamSessionExpired = "sessionExpired"
	ParamSuccess        = "success"
)

// Route describes one entry of the route table.
type Route struct {
	Name      string
	Protected bool
}

// Match is a resolved path.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Table resolves paths to routes.
type Table struct {
	r      *mux.Router
	routes map[string]Route
}

// NewTable builds the console's route table.
func NewTable() *Table {
	t := &Table{r: mux.NewRouter(), routes: map[string]Route{}}
	t.add(PathLogin, Route{Name: RouteLogin})
	t.add(PathProducts, Route{Name: RouteProductList, Protected: true})
	t.add(PathProductNew, Route{Name: RouteProductNew, Protected: true})
	t.add(PathProductEdit, Route{Name: RouteProductEdit, Protected: true})
	return t
}

func (t *Table) add(tpl string, rt Route) {
	t.r.Path(tpl).Name(rt.Name)
	t.routes[rt.Name] = rt
}

// Resolve matches p against the table. It reports false for unknown paths.
func (t *Table) Resolve(p string) (Match, bool) {
	p = CleanPath(p)
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: p}}
	var rm mux.RouteMatch
	if !t.r.Match(req, &rm) || rm.MatchErr != nil || rm.Route == nil {
		return Match{}, false
	}
	rt, ok := t.routes[rm.Route.GetName()]
	if !ok {
		return Match{}, false
	}
	return Match{Route: rt, Path: p, Params: rm.Vars}, true
}

// URL builds the path of a named route.
func (t *Table) URL(name string, pairs ...string) (string, error) {
	route := t.r.Get(name)
	if route == nil {
		return "", mux.ErrNotFound
	}
	u, err := route.URLPath(pairs...)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// CleanPath normalizes p to a rooted path without a trailing slash.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
