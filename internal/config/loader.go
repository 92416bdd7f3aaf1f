// Package config loads bankgate.Config from a YAML file and BANKGATE_* environment
// variables through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/MrEthical07/bankgate"
)

// EnvPrefix prefixes every environment override: BANKGATE_SESSION_BACKEND overrides
// session.backend.
const EnvPrefix = "BANKGATE"

const fileBase = "bankgate"

// InitViper points v at configFile, or at the first bankgate.yaml/.yml found in the
// standard locations, and enables environment overrides.
func InitViper(v *viper.Viper, configFile string) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		v.SetConfigFile(found)
	} else {
		// ReadInConfig then reports ConfigFileNotFoundError, which Load tolerates.
		v.SetConfigName(fileBase)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v, bankgate.DefaultConfig())
}

func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".bankgate"),
		"/etc/bankgate",
	}
	return findConfigFileInPaths(paths)
}

// findConfigFileInPaths returns the first bankgate.yaml or bankgate.yml under paths.
// The explicit extension keeps viper from matching the bankgate binary itself.
func findConfigFileInPaths(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, fileBase+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// setDefaults registers every key so AutomaticEnv overrides reach Unmarshal even when no
// file mentions them.
func setDefaults(v *viper.Viper, d bankgate.Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.cookie_name", d.Server.CookieName)
	v.SetDefault("server.secure_cookies", d.Server.SecureCookies)
	v.SetDefault("server.login_path", d.Server.LoginPath)

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)

	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.redis_addr", d.Session.RedisAddr)
	v.SetDefault("session.redis_password", d.Session.RedisPassword)
	v.SetDefault("session.redis_db", d.Session.RedisDB)
	v.SetDefault("session.redis_prefix", d.Session.RedisPrefix)
	v.SetDefault("session.idle_ttl", d.Session.IdleTTL)

	v.SetDefault("login_throttle.enabled", d.Throttle.Enabled)
	v.SetDefault("login_throttle.max_attempts", d.Throttle.MaxAttempts)
	v.SetDefault("login_throttle.cooldown", d.Throttle.Cooldown)
	v.SetDefault("login_throttle.ip_throttle", d.Throttle.IPThrottle)

	v.SetDefault("audit.enabled", d.Audit.Enabled)
	v.SetDefault("audit.buffer_size", d.Audit.BufferSize)
	v.SetDefault("audit.drop_if_full", d.Audit.DropIfFull)
	v.SetDefault("audit.output", d.Audit.Output)

	v.SetDefault("telemetry.tracing", d.Telemetry.Tracing)
	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)

	v.SetDefault("log.level", d.Log.Level)
}

// LoadRaw reads the file (a missing file is not an error) and unmarshals without
// validating, so callers can apply flag overrides first.
func LoadRaw(v *viper.Viper) (*bankgate.Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg bankgate.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Load reads and validates the configuration.
func Load(v *viper.Viper) (*bankgate.Config, error) {
	cfg, err := LoadRaw(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyDevDefaults switches cfg to a self-contained local setup: embedded Redis sessions,
// login throttling, debug logging and audit events on stderr.
func ApplyDevDefaults(cfg *bankgate.Config) {
	cfg.Session.Backend = bankgate.SessionBackendEmbedded
	cfg.Throttle.Enabled = true
	cfg.Log.Level = "debug"
	cfg.Audit.Enabled = true
	cfg.Audit.Output = "stderr"
	cfg.Server.SecureCookies = false
}
