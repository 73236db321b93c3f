package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) signals() []Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Signal, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Signal)
	}
	return out
}

func newTestInterceptor(t *testing.T, base http.RoundTripper, rec *eventRecorder) (*Interceptor, http.CookieJar) {
	t.Helper()
	jar, err := NewJar()
	require.NoError(t, err)
	i, err := NewInterceptor(InterceptorOptions{
		Base:        base,
		Jar:         jar,
		ExemptPaths: []string{"/Auth/login", "/Auth/validate", "/Auth/register"},
		OnSignal:    rec.handle,
	})
	require.NoError(t, err)
	return i, jar
}

func TestNewInterceptor_RequiresJar(t *testing.T) {
	_, err := NewInterceptor(InterceptorOptions{})
	require.Error(t, err)
}

func TestInterceptor_AttachesHeadersAndCookies(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rec := &eventRecorder{}
	i, jar := newTestInterceptor(t, http.DefaultTransport, rec)
	u, _ := url.Parse(srv.URL)
	jar.SetCookies(u, []*http.Cookie{
		{Name: "session", Value: "abc", Path: "/"},
		{Name: "XSRF-TOKEN", Value: "tok%2Bval", Path: "/"},
	})

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/productos", nil)
	resp, err := i.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.NotNil(t, got)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.NotEmpty(t, got.Header.Get(HeaderRequestID))
	assert.Equal(t, "tok+val", got.Header.Get("X-XSRF-TOKEN"))
	c, err := got.Cookie("session")
	require.NoError(t, err)
	assert.Equal(t, "abc", c.Value)
	assert.Empty(t, rec.signals())
}

func TestInterceptor_NoXSRFOnSafeMethods(t *testing.T) {
	var got *http.Request
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = r
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Header: http.Header{}, Request: r}, nil
	})
	rec := &eventRecorder{}
	i, jar := newTestInterceptor(t, base, rec)
	u, _ := url.Parse("https://api.example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "XSRF-TOKEN", Value: "tok", Path: "/"}})

	req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/api/productos", nil)
	_, err := i.RoundTrip(req)
	require.NoError(t, err)
	assert.Empty(t, got.Header.Get("X-XSRF-TOKEN"))
	assert.Empty(t, req.Header.Get("Content-Type"), "caller request must not be mutated")
}

func TestInterceptor_StoresResponseCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "fresh", Path: "/"})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	i, jar := newTestInterceptor(t, http.DefaultTransport, &eventRecorder{})
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/Auth/validate", nil)
	resp, err := i.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	u, _ := url.Parse(srv.URL)
	cookies := jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "fresh", cookies[0].Value)
}

func TestInterceptor_ClassifiesResponses(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		want   []Signal
	}{
		{"ok", "/api/productos", http.StatusOK, []Signal{}},
		{"401 on resource", "/api/productos", http.StatusUnauthorized, []Signal{SignalSessionExpired}},
		{"401 on logout", "/api/Auth/logout", http.StatusUnauthorized, []Signal{SignalSessionExpired}},
		{"401 on login is exempt", "/api/Auth/login", http.StatusUnauthorized, []Signal{}},
		{"401 on validate is exempt", "/api/Auth/validate", http.StatusUnauthorized, []Signal{}},
		{"401 on register is exempt", "/api/Auth/register", http.StatusUnauthorized, []Signal{}},
		{"403", "/api/productos/1", http.StatusForbidden, []Signal{SignalForbidden}},
		{"500", "/api/productos", http.StatusInternalServerError, []Signal{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: tt.status, Body: http.NoBody, Header: http.Header{}, Request: r}, nil
			})
			rec := &eventRecorder{}
			i, _ := newTestInterceptor(t, base, rec)

			req, _ := http.NewRequest(http.MethodGet, "https://api.example.com"+tt.path, nil)
			resp, err := i.RoundTrip(req)

			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode, "response must pass through unchanged")
			assert.Equal(t, tt.want, rec.signals())
		})
	}
}

func TestInterceptor_TransportErrors(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("unreachable", func(t *testing.T) {
		rec := &eventRecorder{}
		i, _ := newTestInterceptor(t, roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, boom
		}), rec)
		req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/api/productos", nil)

		_, err := i.RoundTrip(req)

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []Signal{SignalUnreachable}, rec.signals())
	})

	t.Run("canceled is not reported", func(t *testing.T) {
		rec := &eventRecorder{}
		i, _ := newTestInterceptor(t, roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, context.Canceled
		}), rec)
		req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/api/productos", nil)

		_, err := i.RoundTrip(req)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, rec.signals())
	})
}

type metricsRecorder struct {
	mu      sync.Mutex
	timings []map[string]string
	counts  []map[string]string
}

func (m *metricsRecorder) Count(name string, _ int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "api.signal" {
		m.counts = append(m.counts, tags)
	}
}

func (m *metricsRecorder) Timing(name string, _ time.Duration, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "api.request" {
		m.timings = append(m.timings, tags)
	}
}

func TestInterceptor_RecordsMetrics(t *testing.T) {
	jar, err := NewJar()
	require.NoError(t, err)
	metrics := &metricsRecorder{}
	status := http.StatusOK
	i, err := NewInterceptor(InterceptorOptions{
		Base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: status, Body: http.NoBody, Header: http.Header{}, Request: r}, nil
		}),
		Jar:     jar,
		Metrics: metrics,
	})
	require.NoError(t, err)

	for _, code := range []int{http.StatusOK, http.StatusForbidden} {
		status = code
		req, _ := http.NewRequest(http.MethodDelete, "https://api.example.com/api/productos/1", nil)
		_, err = i.RoundTrip(req)
		require.NoError(t, err)
	}

	require.Len(t, metrics.timings, 2)
	assert.Equal(t, map[string]string{"method": "DELETE", "status": "200", "signal": "continue"}, metrics.timings[0])
	assert.Equal(t, "403", metrics.timings[1]["status"])
	assert.Equal(t, []map[string]string{{"signal": "forbidden"}}, metrics.counts)
}

func TestSignal_String(t *testing.T) {
	assert.Equal(t, "continue", SignalContinue.String())
	assert.Equal(t, "session_expired", SignalSessionExpired.String())
	assert.Equal(t, "forbidden", SignalForbidden.String())
	assert.Equal(t, "unreachable", SignalUnreachable.String())
	assert.Equal(t, "unknown", Signal(42).String())
}
