package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/MrEthical07/bankgate"
	"github.com/MrEthical07/bankgate/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resetFlags(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	v = viper.New()
	config.InitViper(v, "")
	serveAddr, devMode = "", false
	t.Cleanup(func() { serveAddr, devMode = "", false })
}

func TestLoadConfigOverrides(t *testing.T) {
	resetFlags(t)
	serveAddr = ":9999"
	devMode = true

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Session.Backend != bankgate.SessionBackendEmbedded || cfg.Log.Level != "debug" || !cfg.Audit.Enabled {
		t.Fatalf("dev defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigEnvValidation(t *testing.T) {
	resetFlags(t)
	t.Setenv("BANKGATE_API_BASE_URL", "not a url")

	if _, err := loadConfig(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNewAppBackends(t *testing.T) {
	for _, backend := range []string{bankgate.SessionBackendMemory, bankgate.SessionBackendEmbedded} {
		t.Run(backend, func(t *testing.T) {
			cfg := bankgate.DefaultConfig()
			cfg.Session.Backend = backend
			cfg.Audit.Enabled = true
			cfg.Throttle.Enabled = backend != bankgate.SessionBackendMemory

			a, err := newApp(context.Background(), &cfg, discardLogger())
			if err != nil {
				t.Fatalf("newApp: %v", err)
			}
			defer a.Close()

			rec := httptest.NewRecorder()
			a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("healthz = %d %s", rec.Code, rec.Body.String())
			}

			rec = httptest.NewRecorder()
			a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			if !strings.Contains(rec.Body.String(), "go_goroutines") {
				t.Fatalf("metrics endpoint missing runtime collectors")
			}

			rec = httptest.NewRecorder()
			a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transfer", nil))
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("anonymous /transfer = %d, want 303", rec.Code)
			}
		})
	}
}

func TestNewAppRedisUnreachable(t *testing.T) {
	cfg := bankgate.DefaultConfig()
	cfg.Session.Backend = bankgate.SessionBackendRedis
	cfg.Session.RedisAddr = "127.0.0.1:1"

	if _, err := newApp(context.Background(), &cfg, discardLogger()); err == nil {
		t.Fatalf("expected error for unreachable redis")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	if !strings.HasPrefix(out.String(), "bankgate "+Version) {
		t.Fatalf("unexpected version output: %q", out.String())
	}
}

// chdir is equivalent to testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
