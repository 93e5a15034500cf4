package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.URI != "http://localhost:2501" {
		t.Errorf("Server.URI = %q, want http://localhost:2501", cfg.Server.URI)
	}
	if cfg.Server.Timeout.Duration != 5*time.Second {
		t.Errorf("Server.Timeout = %v, want 5s", cfg.Server.Timeout.Duration)
	}
	if cfg.Server.Retries != 3 {
		t.Errorf("Server.Retries = %d, want 3", cfg.Server.Retries)
	}
	if cfg.Shootout.Interval.Duration != time.Second {
		t.Errorf("Shootout.Interval = %v, want 1s", cfg.Shootout.Interval.Duration)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed Validate: %v", err)
	}
}

func TestLoadFromReader(t *testing.T) {
	input := `
[server]
uri = "https://kismet.lab:2501"
username = "operator"
timeout = "2s"
retries = 1

[shootout]
interval = "500ms"
ignore_channel_errors = true

[log]
level = "debug"
`
	cfg, err := LoadFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if cfg.Server.URI != "https://kismet.lab:2501" {
		t.Errorf("Server.URI = %q", cfg.Server.URI)
	}
	if cfg.Server.Username != "operator" {
		t.Errorf("Server.Username = %q, want operator", cfg.Server.Username)
	}
	if cfg.Server.Timeout.Duration != 2*time.Second {
		t.Errorf("Server.Timeout = %v, want 2s", cfg.Server.Timeout.Duration)
	}
	if cfg.Shootout.Interval.Duration != 500*time.Millisecond {
		t.Errorf("Shootout.Interval = %v, want 500ms", cfg.Shootout.Interval.Duration)
	}
	if !cfg.Shootout.IgnoreChannelErrors {
		t.Error("Shootout.IgnoreChannelErrors = false, want true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadFromReaderPartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader("[server]\nuri = \"http://10.0.0.5:2501\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if cfg.Server.URI != "http://10.0.0.5:2501" {
		t.Errorf("Server.URI = %q", cfg.Server.URI)
	}
	if cfg.Shootout.Interval.Duration != time.Second {
		t.Errorf("Shootout.Interval = %v, want default 1s", cfg.Shootout.Interval.Duration)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KISMET_URI", "http://env-host:2501")
	t.Setenv("KISMET_USER", "env-user")
	t.Setenv("KISMET_PASSWORD", "env-pass")

	cfg, err := LoadFromReader(strings.NewReader("[server]\nusername = \"file-user\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if cfg.Server.URI != "http://env-host:2501" {
		t.Errorf("Server.URI = %q, want env override", cfg.Server.URI)
	}
	if cfg.Server.Username != "env-user" {
		t.Errorf("Server.Username = %q, want env-user", cfg.Server.Username)
	}
	if cfg.Server.Password != "env-pass" {
		t.Errorf("Server.Password = %q, want env-pass", cfg.Server.Password)
	}
}

func TestLoadFromFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("LoadFromFile = %v, want defaults for missing file", err)
	}
	if cfg.Server.URI != Default().Server.URI {
		t.Errorf("Server.URI = %q, want default", cfg.Server.URI)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad scheme", func(c *Config) { c.Server.URI = "ftp://host" }, false},
		{"negative retries", func(c *Config) { c.Server.Retries = -1 }, false},
		{"zero interval", func(c *Config) { c.Shootout.Interval.Duration = 0 }, false},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, false},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		err := cfg.Validate()
		if tc.wantOK && err != nil {
			t.Errorf("%s: Validate = %v, want nil", tc.name, err)
		}
		if !tc.wantOK && err == nil {
			t.Errorf("%s: Validate = nil, want error", tc.name)
		}
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 1m30s", d.Duration)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText accepted garbage")
	}
	out, err := Duration{2 * time.Second}.MarshalText()
	if err != nil || string(out) != "2s" {
		t.Errorf("MarshalText = %q, %v, want 2s", out, err)
	}
}
