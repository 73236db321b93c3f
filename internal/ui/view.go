// Package ui contains the console's views: login, product list and product form.
//
// A view is created for one navigation, mounted, driven by console commands and
// destroyed when the console navigates away. Results of requests that complete
// after Destroy are dropped; the requests themselves are not cancelled.
package ui

import (
	"context"
	"io"
	"sync"
)

// View is one screen of the console.
type View interface {
	// Name is the route name the view serves.
	Name() string
	// Mount starts the view: subscriptions and initial loads.
	Mount(ctx context.Context)
	// Destroy releases subscriptions and timers. Safe to call more than once.
	Destroy()
	// Render writes the current state.
	Render(w io.Writer)
}

// state is the mutex-guarded lifecycle shared by every view.
type state struct {
	mu        sync.Mutex
	destroyed bool
	cleanups  []func()
}

// update runs fn under the view lock unless the view was destroyed, and reports
// whether it ran.
func (s *state) update(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return false
	}
	fn()
	return true
}

// read runs fn under the view lock.
func (s *state) read(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// onDestroy registers fn to run at Destroy, or runs it now if already destroyed.
func (s *state) onDestroy(fn func()) {
	s.mu.Lock()
	if !s.destroyed {
		s.cleanups = append(s.cleanups, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// Destroyed reports whether Destroy has run.
func (s *state) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// Destroy marks the view destroyed and runs cleanups in reverse order.
func (s *state) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
