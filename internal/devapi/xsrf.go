package devapi

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DefaultXSRFCookie is the client-readable anti-forgery cookie.
	DefaultXSRFCookie = "XSRF-TOKEN"
	// DefaultXSRFHeader is the header the client echoes the token in.
	DefaultXSRFHeader = "X-XSRF-TOKEN"

	xsrfTokenLength = 32
)

// xsrfConfig holds the double-submit settings.
type xsrfConfig struct {
	CookieName string
	HeaderName string
	// Exempt reports whether a state-changing request skips validation.
	Exempt func(r *http.Request) bool
}

// xsrfProtection implements the double-submit cookie pattern: every response
// without a token cookie gets one, and POST, PUT, PATCH and DELETE requests must echo
// the cookie value in the header.
func xsrfProtection(cfg xsrfConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultXSRFCookie
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultXSRFHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookieValue(r, cfg.CookieName)
			if token == "" {
				fresh, err := generateXSRFToken()
				if err != nil {
					writeEnvelope(w, http.StatusInternalServerError, envelope{Message: "no se pudo generar el token"})
					return
				}
				// The token only counts once the client sends it back as a cookie.
				setXSRFCookie(w, r, cfg.CookieName, fresh)
			}

			if requiresXSRFValidation(r.Method) && (cfg.Exempt == nil || !cfg.Exempt(r)) {
				if !validXSRFToken(r.Header.Get(cfg.HeaderName), token) {
					writeEnvelope(w, http.StatusForbidden, envelope{Message: msgXSRFRejected})
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requiresXSRFValidation reports whether method changes state.
func requiresXSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// generateXSRFToken fails closed when the random source fails.
func generateXSRFToken() (string, error) {
	b := make([]byte, xsrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("xsrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func setXSRFCookie(w http.ResponseWriter, r *http.Request, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteStrictMode,
	})
}

// isForwardedHTTPS handles comma-separated X-Forwarded-Proto values.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

func validXSRFToken(header, cookie string) bool {
	if cookie == "" || header == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) == 1
}
