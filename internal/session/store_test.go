package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/catalog-admin/internal/domain/auth"
)

func TestStore_InitialState(t *testing.T) {
	s := NewStore()
	state := s.Value()
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.User)
}

func TestStore_SetAndClear(t *testing.T) {
	s := NewStore()
	u := &domainauth.User{ID: 1, Username: "admin"}

	s.SetAuthenticated(u)
	state := s.Value()
	assert.True(t, state.Authenticated)
	assert.Same(t, u, state.User)

	s.ClearAuthenticated()
	state = s.Value()
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.User)
}

func TestStore_SubscribeReceivesCurrentThenChanges(t *testing.T) {
	s := NewStore()
	var seen []bool
	unsubscribe := s.Subscribe(func(st domainauth.SessionState) {
		seen = append(seen, st.Authenticated)
	})

	s.SetAuthenticated(&domainauth.User{ID: 1})
	s.ClearAuthenticated()
	unsubscribe()
	s.SetAuthenticated(&domainauth.User{ID: 2})

	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestStore_NotifiesInSubscriptionOrder(t *testing.T) {
	s := NewStore()
	var order []string
	s.Subscribe(func(domainauth.SessionState) { order = append(order, "first") })
	s.Subscribe(func(domainauth.SessionState) { order = append(order, "second") })
	s.Subscribe(func(domainauth.SessionState) { order = append(order, "third") })
	order = nil

	s.SetAuthenticated(&domainauth.User{ID: 1})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestStore_UnsubscribeDuringNotification(t *testing.T) {
	s := NewStore()
	var secondCalls int
	var unsubscribeSecond func()

	s.Subscribe(func(st domainauth.SessionState) {
		if st.Authenticated && unsubscribeSecond != nil {
			unsubscribeSecond()
		}
	})
	unsubscribeSecond = s.Subscribe(func(domainauth.SessionState) { secondCalls++ })
	require.Equal(t, 1, secondCalls)

	s.SetAuthenticated(&domainauth.User{ID: 1})

	assert.Equal(t, 1, secondCalls, "subscriber removed earlier in the round must not be called")
	unsubscribeSecond()
}

func TestStore_SubscriberCanReadValue(t *testing.T) {
	s := NewStore()
	var observed domainauth.SessionState
	s.Subscribe(func(domainauth.SessionState) { observed = s.Value() })

	u := &domainauth.User{ID: 3}
	s.SetAuthenticated(u)

	assert.Same(t, u, observed.User)
}

func TestStore_ConcurrentMutationsKeepNotificationsWhole(t *testing.T) {
	s := NewStore()
	var mu sync.Mutex
	var inFlight, maxInFlight int
	s.Subscribe(func(domainauth.SessionState) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		mu.Lock()
		inFlight--
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.SetAuthenticated(&domainauth.User{ID: int64(i)})
				return
			}
			s.ClearAuthenticated()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
}

func TestStore_ClearIfAnonymous(t *testing.T) {
	s := NewStore()
	var calls int
	s.Subscribe(func(domainauth.SessionState) { calls++ })

	assert.True(t, s.ClearIfAnonymous())
	assert.Equal(t, 2, calls)

	u := &domainauth.User{ID: 9}
	s.SetAuthenticated(u)
	assert.False(t, s.ClearIfAnonymous(), "an established user must survive")
	assert.Same(t, u, s.Value().User)
	assert.True(t, s.Value().Authenticated)
	assert.Equal(t, 3, calls, "no notification when nothing changed")
}
