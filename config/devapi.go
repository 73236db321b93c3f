package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where the development API keeps its sessions.
type SessionBackend string

const (
	// SessionBackendMemory keeps sessions in process memory.
	SessionBackendMemory SessionBackend = "memory"
	// SessionBackendRedis keeps sessions in Redis (see RedisConfig).
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: memory, redis)", v)
	}
}

// DevAPIConfig configures the development copy of the catalog API.
type DevAPIConfig struct {
	// Addr is the address to bind the development API to.
	Addr string `env:"ADDR" envDefault:":7296"`

	// PathPrefix is where the API is mounted (matches the path of API_BASE_URL).
	PathPrefix string `env:"PATH_PREFIX" envDefault:"/api"`

	// Users seeds accounts as "name:password" pairs separated by ';'.
	Users []string `env:"USERS" envDefault:"admin:admin123" envSeparator:";"`

	// SessionTTL is the lifetime of a login session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// SessionBackend selects the session store.
	SessionBackend SessionBackend `env:"SESSION_BACKEND" envDefault:"memory"`

	// SeedProducts loads a few sample products on start.
	SeedProducts bool `env:"SEED_PRODUCTS" envDefault:"true"`
}

// Sanitize applies guardrails to the development API configuration.
func (c *DevAPIConfig) Sanitize() {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = ":7296"
	}
	c.PathPrefix = normalizePath(c.PathPrefix, "/api")
	if c.SessionTTL <= 0 {
		c.SessionTTL = 8 * time.Hour
	}
	if c.SessionBackend == "" {
		c.SessionBackend = SessionBackendMemory
	}
}

// Credentials parses Users into a name -> password map, skipping malformed entries.
func (c *DevAPIConfig) Credentials() map[string]string {
	out := make(map[string]string, len(c.Users))
	for _, entry := range c.Users {
		name, pass, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || name == "" || pass == "" {
			continue
		}
		out[name] = pass
	}
	return out
}
