// Package apiclient is the HTTP transport to the catalog API: a cookie-carrying
// client whose every exchange passes through the Interceptor, plus JSON request
// helpers that reduce failures through the shared error policy.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/target/catalog-admin/internal/errors"
	"github.com/target/catalog-admin/internal/ports"
	"golang.org/x/net/publicsuffix"
)

const maxResponseBytes = 4 << 20

var _ ports.APIClient = (*Client)(nil)

// NewJar returns a cookie jar scoped with the public suffix list.
func NewJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. https://localhost:7296/api.
	BaseURL string
	// Timeout bounds a whole exchange; zero means no client timeout.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS verification on the default base transport.
	InsecureSkipVerify bool
	// Interceptor settings. Jar is created when nil; Base defaults to a clone of
	// http.DefaultTransport.
	Interceptor InterceptorOptions
	Logger      *slog.Logger
}

// Client issues JSON requests to the catalog API.
type Client struct {
	http   *http.Client
	base   *url.URL
	jar    http.CookieJar
	logger *slog.Logger
}

// New builds a Client whose transport is an Interceptor.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", opts.BaseURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	iopts := opts.Interceptor
	if iopts.Jar == nil {
		if iopts.Jar, err = NewJar(); err != nil {
			return nil, err
		}
	}
	if iopts.Base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed development certificates
		}
		iopts.Base = t
	}
	if iopts.Logger == nil {
		iopts.Logger = logger
	}
	interceptor, err := NewInterceptor(iopts)
	if err != nil {
		return nil, err
	}

	return &Client{
		// No Jar on the http.Client: the interceptor owns credential transport.
		http:   &http.Client{Transport: interceptor, Timeout: opts.Timeout},
		base:   base,
		jar:    iopts.Jar,
		logger: logger,
	}, nil
}

// Jar returns the cookie jar shared with the interceptor.
func (c *Client) Jar() http.CookieJar { return c.jar }

// URL resolves path against the base URL.
func (c *Client) URL(path string) string {
	return c.base.String() + path
}

// failureBody is the part of an error envelope the error policy reads.
type failureBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// Do performs r and decodes a 2xx JSON body into out (skipped when out is nil or the
// body is empty). Every returned error is an *errors.AppError.
func (c *Client) Do(ctx context.Context, r ports.APIRequest, out any) error {
	var body io.Reader
	if r.Body != nil {
		buf, err := json.Marshal(r.Body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "could not encode request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.URL(r.Path), body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeServer, "could not build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.FromTransport(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body", "error", cerr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.FromTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fb failureBody
		if len(bytes.TrimSpace(data)) > 0 {
			// Best effort: a non-JSON error body still maps by status alone.
			if jerr := json.Unmarshal(data, &fb); jerr != nil {
				fb = failureBody{}
			}
		}
		return r.Policy.FromResponse(apperrors.ResponseDetails{
			Status:  resp.StatusCode,
			Message: fb.Message,
			Errors:  fb.Errors,
		})
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		var syntaxErr *json.SyntaxError
		msg := "invalid response from server"
		if errors.As(err, &syntaxErr) {
			msg = "server returned malformed JSON"
		}
		return &apperrors.AppError{Code: apperrors.ErrCodeServer, Message: msg, Cause: err, Status: resp.StatusCode}
	}
	return nil
}
