package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	// LogFormatJSON emits one JSON object per record.
	LogFormatJSON LogFormat = "json"
	// LogFormatText emits logfmt-style records.
	LogFormatText LogFormat = "text"
)

// UnmarshalText implements encoding.TextUnmarshaler for LogFormat.
func (f *LogFormat) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "json", "text":
		*f = LogFormat(v)
		return nil
	default:
		return fmt.Errorf("invalid LogFormat: %q (valid options: json, text)", v)
	}
}

// ObservabilityConfig groups logging configuration.
type ObservabilityConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogFormat selects JSON or text output.
	LogFormat LogFormat `env:"LOG_FORMAT" envDefault:"json"`

	// LogFile receives console logs so they do not interleave with the interactive prompt.
	// Empty means stderr.
	LogFile string `env:"LOG_FILE" envDefault:""`

	// StatsD receives request timings and signal counts when enabled.
	StatsD StatsDConfig `envPrefix:"STATSD_"`
}

// StatsDConfig points at a StatsD/DogStatsD agent.
type StatsDConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"catalog_admin"`
}

// Sanitize normalises logging values.
func (c *ObservabilityConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	c.LogFile = strings.TrimSpace(c.LogFile)
	c.StatsD.Address = strings.TrimSpace(c.StatsD.Address)
	if c.StatsD.Address == "" {
		c.StatsD.Enabled = false
	}
}

// Level maps LogLevel to a slog.Level, defaulting to info.
func (c *ObservabilityConfig) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
