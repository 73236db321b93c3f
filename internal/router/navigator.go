package router

import (
	"log/slog"
	"net/url"
	"sync"

	"github.com/target/catalog-admin/internal/ports"
)

// maxRedirects bounds redirect chains while resolving one navigation.
const maxRedirects = 4

var _ ports.Navigator = (*Navigator)(nil)

// Location is where the console is after a navigation has been resolved.
type Location struct {
	Route  Route
	Path   string
	Params map[string]string
	Query  url.Values
}

// String returns the location as a relative URL.
func (l Location) String() string {
	if enc := l.Query.Encode(); enc != "" {
		return l.Path + "?" + enc
	}
	return l.Path
}

// Listener observes every completed navigation.
type Listener func(Location)

type listener struct {
	id int
	fn Listener
}

// NavigatorOptions groups dependencies for Navigator.
type NavigatorOptions struct {
	Table  *Table // Required: route table
	Guard  *Guard // Required: authentication guard
	Home   string // Optional: target for "/" and unknown paths, defaults to /productos
	Logger *slog.Logger
}

// Navigator resolves navigation requests and publishes the resulting locations.
//
// A navigation requested while another is being dispatched, from a listener on the
// same goroutine or from another goroutine, is queued and dispatched in order by the
// goroutine already dispatching. Callers never block on listeners.
type Navigator struct {
	table  *Table
	guard  *Guard
	home   string
	logger *slog.Logger

	mu          sync.Mutex
	current     Location
	queue       []string
	dispatching bool
	listeners   []listener
	nextID      int
}

// NewNavigator constructs a Navigator positioned nowhere; call NavigateURL to start.
func NewNavigator(opts NavigatorOptions) *Navigator {
	if opts.Table == nil || opts.Guard == nil {
		panic("router: table and guard are required") //nolint:forbidigo // wiring error
	}
	home := opts.Home
	if home == "" {
		home = PathProducts
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{table: opts.Table, guard: opts.Guard, home: home, logger: logger}
}

// Subscribe registers fn for every future navigation. The returned function unsubscribes.
func (n *Navigator) Subscribe(fn Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.listeners = append(n.listeners, listener{id: id, fn: fn})
	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, l := range n.listeners {
				if l.id == id {
					n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Current returns the current location as a relative URL.
func (n *Navigator) Current() string {
	return n.Location().String()
}

// Location returns the current resolved location.
func (n *Navigator) Location() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate goes to p with the given query.
func (n *Navigator) Navigate(p string, query url.Values) {
	u := url.URL{Path: p, RawQuery: query.Encode()}
	n.NavigateURL(u.String())
}

// NavigateURL goes to a relative URL.
func (n *Navigator) NavigateURL(raw string) {
	n.mu.Lock()
	n.queue = append(n.queue, raw)
	if n.dispatching {
		n.mu.Unlock()
		return
	}
	n.dispatching = true
	for len(n.queue) > 0 {
		next := n.queue[0]
		n.queue = n.queue[1:]
		n.mu.Unlock()

		loc := n.resolve(next)

		n.mu.Lock()
		n.current = loc
		ls := make([]listener, len(n.listeners))
		copy(ls, n.listeners)
		n.mu.Unlock()

		n.logger.Debug("navigated", "requested", next, "location", loc.String(), "route", loc.Route.Name)
		for _, l := range ls {
			l.fn(loc)
		}

		n.mu.Lock()
	}
	n.dispatching = false
	n.mu.Unlock()
}

// resolve applies redirects and the guard to raw.
func (n *Navigator) resolve(raw string) Location {
	target := raw
	for i := 0; i <= maxRedirects; i++ {
		u, err := url.Parse(target)
		if err != nil || u.IsAbs() || u.Host != "" {
			n.logger.Warn("ignoring malformed navigation target", "target", target)
			target = n.home
			continue
		}
		p := CleanPath(u.Path)
		if p == "/" {
			target = n.home
			continue
		}
		m, ok := n.table.Resolve(p)
		if !ok {
			target = n.home
			continue
		}
		loc := Location{Route: m.Route, Path: m.Path, Params: m.Params, Query: u.Query()}
		if m.Route.Protected {
			if d := n.guard.Check(loc.String()); !d.Allow {
				target = d.Redirect
				continue
			}
		}
		return loc
	}
	// Unreachable with the built-in table: every chain ends at login.
	m, _ := n.table.Resolve(PathLogin)
	return Location{Route: m.Route, Path: PathLogin, Query: url.Values{}}
}
