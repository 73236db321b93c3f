package apiclient

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/target/catalog-admin/internal/observability/statsd"
)

// Signal tags what the interceptor observed on a completed exchange.
type Signal int

const (
	// SignalContinue means nothing session-related happened.
	SignalContinue Signal = iota
	// SignalSessionExpired is a 401 on a request that is not an authentication endpoint.
	SignalSessionExpired
	// SignalForbidden is a 403.
	SignalForbidden
	// SignalUnreachable means no response was received.
	SignalUnreachable
)

func (s Signal) String() string {
	switch s {
	case SignalContinue:
		return "continue"
	case SignalSessionExpired:
		return "session_expired"
	case SignalForbidden:
		return "forbidden"
	case SignalUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Event describes one non-Continue observation.
type Event struct {
	Signal Signal
	Method string
	URL    *url.URL
	Status int
	Err    error
}

// SignalHandler consumes interceptor events. It runs synchronously on the
// goroutine that issued the request, before the response is returned.
type SignalHandler func(Event)

// Header values attached to every request.
const (
	HeaderRequestID = "X-Request-Id"
	contentTypeJSON = "application/json"
)

// InterceptorOptions groups dependencies for Interceptor.
type InterceptorOptions struct {
	// Base performs the actual exchange. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Jar carries the session and anti-forgery cookies. Required.
	Jar http.CookieJar
	// XSRFCookie is the client-readable anti-forgery cookie name.
	XSRFCookie string
	// XSRFHeader is the header the anti-forgery token is echoed in.
	XSRFHeader string
	// ExemptPaths are path fragments whose 401 replies never signal session expiry
	// (login, validate and register endpoints).
	ExemptPaths []string
	// OnSignal receives every non-Continue event. Optional.
	OnSignal SignalHandler
	// Metrics receives an api.request timing per exchange and an api.signal count per
	// non-Continue event. Optional.
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// Interceptor is the http.RoundTripper every gateway request passes through.
//
// Outgoing, it attaches the cookie jar's cookies (credentials are always included),
// JSON content negotiation headers, a request id, and the anti-forgery token on
// state-changing methods. Incoming, it stores response cookies and classifies the
// outcome into a Signal. The response and error are returned to the caller untouched.
type Interceptor struct {
	base       http.RoundTripper
	jar        http.CookieJar
	xsrfCookie string
	xsrfHeader string
	exempt     []string
	onSignal   SignalHandler
	metrics    statsd.Sink
	logger     *slog.Logger
}

var _ http.RoundTripper = (*Interceptor)(nil)

// NewInterceptor constructs an Interceptor.
func NewInterceptor(opts InterceptorOptions) (*Interceptor, error) {
	if opts.Jar == nil {
		return nil, errors.New("apiclient: cookie jar is required")
	}
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	xsrfCookie := opts.XSRFCookie
	if xsrfCookie == "" {
		xsrfCookie = "XSRF-TOKEN"
	}
	xsrfHeader := opts.XSRFHeader
	if xsrfHeader == "" {
		xsrfHeader = "X-XSRF-TOKEN"
	}
	return &Interceptor{
		base:       base,
		jar:        opts.Jar,
		xsrfCookie: xsrfCookie,
		xsrfHeader: xsrfHeader,
		exempt:     append([]string(nil), opts.ExemptPaths...),
		onSignal:   opts.OnSignal,
		metrics:    opts.Metrics,
		logger:     logger,
	}, nil
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Header.Set("Content-Type", contentTypeJSON)
	out.Header.Set("Accept", contentTypeJSON)
	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if out.Header.Get("Cookie") == "" {
		for _, c := range i.jar.Cookies(req.URL) {
			out.AddCookie(c)
		}
	}
	if isStateChanging(req.Method) {
		if token := i.xsrfToken(req.URL); token != "" {
			out.Header.Set(i.xsrfHeader, token)
		}
	}

	start := time.Now()
	resp, err := i.base.RoundTrip(out)
	elapsed := time.Since(start)
	if err == nil {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			i.jar.SetCookies(req.URL, cookies)
		}
	}

	ev := i.classify(req, resp, err)
	i.record(ev, elapsed)
	if ev.Signal != SignalContinue {
		i.report(req.Context(), ev)
	}
	return resp, err
}

func (i *Interceptor) record(ev Event, elapsed time.Duration) {
	if i.metrics == nil {
		return
	}
	tags := map[string]string{"method": ev.Method, "status": strconv.Itoa(ev.Status), "signal": ev.Signal.String()}
	i.metrics.Timing("api.request", elapsed, tags)
	if ev.Signal != SignalContinue {
		i.metrics.Count("api.signal", 1, map[string]string{"signal": ev.Signal.String()})
	}
}

func (i *Interceptor) classify(req *http.Request, resp *http.Response, err error) Event {
	ev := Event{Signal: SignalContinue, Method: req.Method, URL: req.URL, Err: err}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ev
		}
		ev.Signal = SignalUnreachable
		return ev
	}
	ev.Status = resp.StatusCode
	switch {
	case resp.StatusCode == http.StatusUnauthorized && !i.isExempt(req.URL.Path):
		ev.Signal = SignalSessionExpired
	case resp.StatusCode == http.StatusForbidden:
		ev.Signal = SignalForbidden
	}
	return ev
}

func (i *Interceptor) report(ctx context.Context, ev Event) {
	attrs := []any{"signal", ev.Signal.String(), "method", ev.Method, "url", ev.URL.String(), "status", ev.Status}
	switch ev.Signal {
	case SignalSessionExpired:
		i.logger.WarnContext(ctx, "session expired, redirecting to login", attrs...)
	case SignalForbidden:
		i.logger.WarnContext(ctx, "access forbidden", attrs...)
	case SignalUnreachable:
		i.logger.ErrorContext(ctx, "could not reach server", append(attrs, "error", ev.Err)...)
	}
	if i.onSignal != nil {
		i.onSignal(ev)
	}
}

func (i *Interceptor) isExempt(path string) bool {
	for _, p := range i.exempt {
		if p != "" && strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// xsrfToken returns the decoded anti-forgery cookie visible to u, or "".
func (i *Interceptor) xsrfToken(u *url.URL) string {
	for _, c := range i.jar.Cookies(u) {
		if c.Name != i.xsrfCookie {
			continue
		}
		if v, err := url.PathUnescape(c.Value); err == nil {
			return v
		}
		return c.Value
	}
	return ""
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
