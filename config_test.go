package bankgate

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "redis backend with addr",
			mutate:    func(c *Config) { c.Session.Backend = SessionBackendRedis },
			wantValid: true,
		},
		{
			name: "redis backend without addr",
			mutate: func(c *Config) {
				c.Session.Backend = SessionBackendRedis
				c.Session.RedisAddr = ""
			},
			wantValid: false,
		},
		{
			name: "embedded backend ignores addr",
			mutate: func(c *Config) {
				c.Session.Backend = SessionBackendEmbedded
				c.Session.RedisAddr = ""
			},
			wantValid: true,
		},
		{
			name:      "unknown backend",
			mutate:    func(c *Config) { c.Session.Backend = "memcached" },
			wantValid: false,
		},
		{
			name:      "negative idle ttl",
			mutate:    func(c *Config) { c.Session.IdleTTL = -time.Second },
			wantValid: false,
		},
		{
			name:      "empty redis prefix",
			mutate:    func(c *Config) { c.Session.RedisPrefix = "" },
			wantValid: false,
		},
		{
			name:      "relative base url",
			mutate:    func(c *Config) { c.API.BaseURL = "/api" },
			wantValid: false,
		},
		{
			name:      "non http base url",
			mutate:    func(c *Config) { c.API.BaseURL = "ftp://bank.example/api" },
			wantValid: false,
		},
		{
			name:      "https base url",
			mutate:    func(c *Config) { c.API.BaseURL = "https://bank.example/api" },
			wantValid: true,
		},
		{
			name:      "zero api timeout",
			mutate:    func(c *Config) { c.API.Timeout = 0 },
			wantValid: false,
		},
		{
			name:      "login path must be absolute",
			mutate:    func(c *Config) { c.Server.LoginPath = "login" },
			wantValid: false,
		},
		{
			name:      "empty cookie name",
			mutate:    func(c *Config) { c.Server.CookieName = "" },
			wantValid: false,
		},
		{
			name:      "audit output stderr",
			mutate:    func(c *Config) { c.Audit.Output = "stderr" },
			wantValid: true,
		},
		{
			name:      "audit output file",
			mutate:    func(c *Config) { c.Audit.Output = "/var/log/audit" },
			wantValid: false,
		},
		{
			name:      "audit zero buffer",
			mutate:    func(c *Config) { c.Audit.BufferSize = 0 },
			wantValid: false,
		},
		{
			name:      "throttle on memory backend",
			mutate:    func(c *Config) { c.Throttle.Enabled = true },
			wantValid: false,
		},
		{
			name: "throttle on embedded backend",
			mutate: func(c *Config) {
				c.Throttle.Enabled = true
				c.Session.Backend = SessionBackendEmbedded
			},
			wantValid: true,
		},
		{
			name:      "throttle zero attempts",
			mutate:    func(c *Config) { c.Throttle.MaxAttempts = 0 },
			wantValid: false,
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Log.Level = "trace" },
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.wantValid {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("error does not wrap ErrInvalidConfig: %v", err)
				}
			}
		})
	}
}

func TestConfigSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for level, want := range tests {
		cfg := DefaultConfig()
		cfg.Log.Level = level
		if got := cfg.SlogLevel(); got != want {
			t.Fatalf("SlogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}
