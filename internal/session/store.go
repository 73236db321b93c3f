// Package session holds the client-side authentication state.
//
// Store is a plain state container: it performs no validation and issues no
// network calls. The auth gateway is its only writer; views, the route guard and
// the console read it or subscribe to it.
package session

import (
	"sync"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/ports"
)

var _ ports.SessionWriter = (*Store)(nil)

type subscriber struct {
	id int
	fn func(domainauth.SessionState)
}

// Store is an observable holder of the current SessionState.
//
// Mutations are serialized: a mutation and the notification of every subscriber
// complete before the next mutation starts. Subscribers run synchronously on the
// mutating goroutine and must not call SetAuthenticated or ClearAuthenticated.
type Store struct {
	writeMu sync.Mutex // serializes mutate+notify

	mu     sync.RWMutex
	state  domainauth.SessionState
	subs   []subscriber
	nextID int
}

// NewStore returns a store in the unauthenticated state.
func NewStore() *Store {
	return &Store{}
}

// Value returns the last published state.
func (s *Store) Value() domainauth.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn, calls it immediately with the current state, and then
// after every mutation. The returned function unsubscribes; it is safe to call more than once.
func (s *Store) Subscribe(fn func(domainauth.SessionState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	current := s.state
	s.mu.Unlock()
	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// SetAuthenticated records user as the current identity and marks the session authenticated.
func (s *Store) SetAuthenticated(user *domainauth.User) {
	s.publish(domainauth.SessionState{User: user, Authenticated: true})
}

// ClearAuthenticated drops the identity and marks the session unauthenticated.
func (s *Store) ClearAuthenticated() {
	s.publish(domainauth.SessionState{})
}

// ClearIfAnonymous clears the session only when no user is held, as one atomic
// step with respect to other mutations. It reports whether the store was cleared.
func (s *Store) ClearIfAnonymous() bool {
	return s.publishIf(domainauth.SessionState{}, func(cur domainauth.SessionState) bool {
		return cur.User == nil
	})
}

func (s *Store) publish(next domainauth.SessionState) {
	s.publishIf(next, nil)
}

func (s *Store) publishIf(next domainauth.SessionState, cond func(domainauth.SessionState) bool) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if cond != nil && !cond(s.state) {
		s.mu.Unlock()
		return false
	}
	s.state = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if s.active(sub.id) {
			sub.fn(next)
		}
	}
	return true
}

// active reports whether a subscriber is still registered. A subscriber removed by
// an earlier callback in the same notification round is skipped.
func (s *Store) active(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}
