package bankgate

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full runtime configuration of the web front end.
//
// Config values are built once at startup (see [DefaultConfig] and internal/config) and
// then treated as immutable.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Throttle  ThrottleConfig  `yaml:"login_throttle" mapstructure:"login_throttle"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

/*
====================================
SERVER CONFIG
====================================
*/

// ServerConfig configures the HTTP listener and the session cookie.
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gt=0"`
	CookieName      string        `yaml:"cookie_name" mapstructure:"cookie_name" validate:"required,printascii"`
	SecureCookies   bool          `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	LoginPath       string        `yaml:"login_path" mapstructure:"login_path" validate:"required,startswith=/"`
}

/*
====================================
BANKING API CONFIG
====================================
*/

// APIConfig points at the remote banking API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

/*
====================================
SESSION CONFIG
====================================
*/

const (
	// SessionBackendMemory keeps sessions in process.
	SessionBackendMemory = "memory"
	// SessionBackendRedis keeps sessions in an external Redis.
	SessionBackendRedis = "redis"
	// SessionBackendEmbedded runs an in-process Redis server for local development.
	SessionBackendEmbedded = "embedded"
)

// SessionConfig selects and configures the session backend.
type SessionConfig struct {
	Backend       string        `yaml:"backend" mapstructure:"backend" validate:"oneof=memory redis embedded"`
	RedisAddr     string        `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"redis_db" validate:"gte=0"`
	RedisPrefix   string        `yaml:"redis_prefix" mapstructure:"redis_prefix" validate:"required"`
	IdleTTL       time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl" validate:"gte=0"`
}

// ThrottleConfig limits failed logins per email and optionally per client IP. It needs a
// Redis-backed session backend for its counters.
type ThrottleConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gt=0"`
	Cooldown    time.Duration `yaml:"cooldown" mapstructure:"cooldown" validate:"gt=0"`
	IPThrottle  bool          `yaml:"ip_throttle" mapstructure:"ip_throttle"`
}

/*
====================================
AUDIT / TELEMETRY / LOG CONFIG
====================================
*/

// AuditConfig controls navigation and authentication audit events.
type AuditConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	BufferSize int    `yaml:"buffer_size" mapstructure:"buffer_size" validate:"gt=0"`
	DropIfFull bool   `yaml:"drop_if_full" mapstructure:"drop_if_full"`
	Output     string `yaml:"output" mapstructure:"output" validate:"oneof=stdout stderr"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" mapstructure:"tracing"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name" validate:"required"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns a configuration suitable for local development against a banking
// API on localhost:8090.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CookieName:      "bankgate_session",
			SecureCookies:   false,
			LoginPath:       "/login",
		},
		API: APIConfig{
			BaseURL: "http://localhost:8090/api",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Backend:     SessionBackendMemory,
			RedisAddr:   "localhost:6379",
			RedisDB:     0,
			RedisPrefix: "bg",
			IdleTTL:     0,
		},
		Throttle: ThrottleConfig{
			Enabled:     false,
			MaxAttempts: 5,
			Cooldown:    15 * time.Minute,
			IPThrottle:  true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
			Output:     "stdout",
		},
		Telemetry: TelemetryConfig{
			Tracing:     false,
			ServiceName: "bankgate",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks struct tags and cross-field rules. Every failure wraps
// [ErrInvalidConfig].
func (c *Config) Validate() error {
	if err := configValidator().Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if c.Session.Backend == SessionBackendRedis && c.Session.RedisAddr == "" {
		return fmt.Errorf("%w: session.redis_addr is required when session.backend is redis", ErrInvalidConfig)
	}

	if c.Throttle.Enabled && c.Session.Backend == SessionBackendMemory {
		return fmt.Errorf("%w: login_throttle requires the redis or embedded session backend", ErrInvalidConfig)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url must be an absolute http(s) URL", ErrInvalidConfig)
	}

	return nil
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// SlogLevel maps Log.Level to a slog level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
