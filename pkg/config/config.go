// Package config provides TOML-based configuration for source-shootout.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the full configuration tree.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Shootout ShootoutConfig `toml:"shootout"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds the Kismet server connection settings.
type ServerConfig struct {
	URI      string   `toml:"uri"`
	Username string   `toml:"username"`
	Password string   `toml:"password"`
	Timeout  Duration `toml:"timeout"`
	Retries  int      `toml:"retries"`
}

// ShootoutConfig holds the poll-loop defaults. Flags override these.
type ShootoutConfig struct {
	Interval            Duration `toml:"interval"`
	IgnoreChannelErrors bool     `toml:"ignore_channel_errors"`
	AddMissing          bool     `toml:"add_missing"`
}

// LogConfig controls log output. When File is empty, logs go to stderr
// only.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URI:     "http://localhost:2501",
			Timeout: Duration{5 * time.Second},
			Retries: 3,
		},
		Shootout: ShootoutConfig{
			Interval: Duration{1 * time.Second},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URI)
	if err != nil {
		return fmt.Errorf("server.uri: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.uri %q: scheme must be http or https", c.Server.URI)
	}
	if c.Server.Retries < 0 {
		return fmt.Errorf("server.retries must not be negative")
	}
	if c.Shootout.Interval.Duration <= 0 {
		return fmt.Errorf("shootout.interval must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn, or error", c.Log.Level)
	}
	return nil
}

// Duration wraps time.Duration so TOML values can be written as strings
// like "1s" or "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
