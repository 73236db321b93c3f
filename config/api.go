package config

import (
	"strings"
	"time"
)

// APIConfig describes the remote catalog API.
type APIConfig struct {
	// BaseURL is the API root; auth and product paths are appended to it.
	BaseURL string `env:"BASE_URL" envDefault:"https://localhost:7296/api"`

	// AuthPath is the prefix of the authentication endpoints (login, logout, validate, register).
	AuthPath string `env:"AUTH_PATH" envDefault:"/Auth"`

	// ProductsPath is the prefix of the product resource.
	ProductsPath string `env:"PRODUCTS_PATH" envDefault:"/productos"`

	// XSRFCookie is the client-readable anti-forgery cookie issued by the API.
	XSRFCookie string `env:"XSRF_COOKIE" envDefault:"XSRF-TOKEN"`

	// XSRFHeader is the header the anti-forgery token is echoed in.
	XSRFHeader string `env:"XSRF_HEADER" envDefault:"X-XSRF-TOKEN"`

	// Timeout bounds a single HTTP exchange. Zero disables the client timeout.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`

	// InsecureSkipVerify disables TLS verification (self-signed development certificates).
	InsecureSkipVerify bool `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
}

// Sanitize normalizes paths so they can be joined onto BaseURL.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.AuthPath = normalizePath(c.AuthPath, "/Auth")
	c.ProductsPath = normalizePath(c.ProductsPath, "/productos")
	if c.XSRFCookie = strings.TrimSpace(c.XSRFCookie); c.XSRFCookie == "" {
		c.XSRFCookie = "XSRF-TOKEN"
	}
	if c.XSRFHeader = strings.TrimSpace(c.XSRFHeader); c.XSRFHeader == "" {
		c.XSRFHeader = "X-XSRF-TOKEN"
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
}

// UIConfig controls how the console presents data.
type UIConfig struct {
	// Locale is the BCP 47 tag used for number formatting.
	Locale string `env:"LOCALE" envDefault:"es-ES"`

	// FlashDuration is how long success messages stay visible.
	FlashDuration time.Duration `env:"FLASH_DURATION" envDefault:"3s"`

	// HomeRoute is where the console lands after login when no return target was requested.
	HomeRoute string `env:"HOME_ROUTE" envDefault:"/productos"`
}

// Sanitize applies UI defaults.
func (c *UIConfig) Sanitize() {
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = "es-ES"
	}
	if c.FlashDuration <= 0 {
		c.FlashDuration = 3 * time.Second
	}
	c.HomeRoute = normalizePath(c.HomeRoute, "/productos")
}

func normalizePath(p, fallback string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return fallback
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}
