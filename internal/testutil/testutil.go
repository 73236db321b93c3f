package testutil

import (
	"context"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	Cleanup(func())
}

// Redis test utilities

// SetupTestRedis returns a Redis client for tests.
//
// When TEST_REDIS_ADDR is set the client points at that server and the selected DB is
// flushed; tests are skipped if it cannot be reached. Otherwise an in-process
// miniredis server is started and stopped with the test.
func SetupTestRedis(t TestingTB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			closeRedis(t, client)
			t.Skipf("Redis not available for testing at %s: %v", addr, err)
		}
		client.FlushDB(ctx)
		t.Cleanup(func() { closeRedis(t, client) })
		return client, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		closeRedis(t, client)
		mr.Close()
	})
	return client, mr
}

func closeRedis(t TestingTB, c *redis.Client) {
	if err := c.Close(); err != nil {
		t.Logf("warning: failed to close redis client: %v", err)
	}
}

// RecordingNavigator is a ports.Navigator that records every request and applies it
// verbatim, without route resolution or guarding.
type RecordingNavigator struct {
	mu      sync.Mutex
	current string
	visits  []string
}

// NewRecordingNavigator returns a navigator positioned at start.
func NewRecordingNavigator(start string) *RecordingNavigator {
	return &RecordingNavigator{current: start}
}

// Navigate records path plus the encoded query.
func (n *RecordingNavigator) Navigate(path string, query url.Values) {
	loc := path
	if enc := query.Encode(); enc != "" {
		loc += "?" + enc
	}
	n.NavigateURL(loc)
}

// NavigateURL records raw.
func (n *RecordingNavigator) NavigateURL(raw string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = raw
	n.visits = append(n.visits, raw)
}

// Current returns the last recorded location.
func (n *RecordingNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Visits returns every recorded location in order.
func (n *RecordingNavigator) Visits() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visits...)
}

// Last returns the most recent location, or "" when nothing was recorded.
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.visits) == 0 {
		return ""
	}
	return n.visits[len(n.visits)-1]
}

// Path returns the path part of the most recent location.
func (n *RecordingNavigator) Path() string {
	last := n.Last()
	if i := strings.IndexByte(last, '?'); i >= 0 {
		return last[:i]
	}
	return last
}

// Common pointer helper functions for tests.

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to the given time value.
func TimePtr(t time.Time) *time.Time {
	return &t
}
