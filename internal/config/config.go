// Package config provides environment-driven configuration for the kiosk
// attendance server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/admission"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL  Secret
	Port         string
	ListenHost   string
	MetricsPort  string
	CORSOrigins  []string
	LogLevel     string
	JWTSecret    Secret
	DBMaxConns   int
	Timezone     string
	Location     *time.Location
	AuditQueue   int
	AuditRetain  int
	BypassWindow bool
	HSTS         bool

	TimeInStart  string
	TimeInEnd    string
	TimeOutStart string
	TimeOutEnd   string

	DefaultRadius  int
	ActiveWindow   time.Duration
	OnDutyWindow   time.Duration
	PersistTimeout time.Duration
}

// Load reads configuration from the environment (and a .env file when one
// exists) with sensible defaults.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env is optional.

	cfg := &Config{
		DatabaseURL:  Secret(envOrDefault("DATABASE_URL", "")),
		Port:         envOrDefault("PORT", "5000"),
		ListenHost:   envOrDefault("LISTEN_HOST", "127.0.0.1"),
		MetricsPort:  envOrDefault("METRICS_PORT", "9091"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		JWTSecret:    Secret(envOrDefault("JWT_SECRET", "")),
		Timezone:     envOrDefault("TIMEZONE", "Local"),
		TimeInStart:  envOrDefault("TIME_IN_START", "06:00"),
		TimeInEnd:    envOrDefault("TIME_IN_END", "08:30"),
		TimeOutStart: envOrDefault("TIME_OUT_START", "20:30"),
		TimeOutEnd:   envOrDefault("TIME_OUT_END", "21:00"),
	}

	var err error

	if cfg.BypassWindow, err = envBool("ATTENDANCE_BYPASS_TIME_WINDOW", false); err != nil {
		return nil, err
	}
	if cfg.HSTS, err = envBool("HSTS", false); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = envInt("DB_MAX_CONNS", 21); err != nil {
		return nil, err
	}
	if cfg.AuditQueue, err = envInt("AUDIT_QUEUE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.AuditRetain, err = envInt("AUDIT_RETENTION_DAYS", 0); err != nil {
		return nil, err
	}
	if cfg.DefaultRadius, err = envInt("DEFAULT_RADIUS_METERS", 200); err != nil {
		return nil, err
	}
	if cfg.ActiveWindow, err = envDuration("ACTIVE_WINDOW", 4*time.Hour); err != nil {
		return nil, err
	}
	if cfg.OnDutyWindow, err = envDuration("ON_DUTY_WINDOW", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PersistTimeout, err = envDuration("PERSIST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:5173")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listener address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

// Admission builds the admission policy configuration. It must be called on
// a validated Config.
func (c *Config) Admission() admission.Config {
	ac := admission.Config{
		Location:          c.Location,
		EnforceTimeWindow: !c.BypassWindow,
		DefaultRadius:     c.DefaultRadius,
	}

	ac.TimeIn.Start, _ = admission.ParseMinute(c.TimeInStart)
	ac.TimeIn.End, _ = admission.ParseMinute(c.TimeInEnd)
	ac.TimeOut.Start, _ = admission.ParseMinute(c.TimeOutStart)
	ac.TimeOut.End, _ = admission.ParseMinute(c.TimeOutEnd)

	return ac
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	return v, nil
}

// envBool accepts the strconv.ParseBool spellings (1, t, TRUE, false, ...).
func envBool(key string, fallback bool) (bool, error) {
	v, err := strconv.ParseBool(envOrDefault(key, strconv.FormatBool(fallback)))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean (true/false/1/0): %w", key, err)
	}

	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, err := time.ParseDuration(envOrDefault(key, fallback.String()))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 4h or 30s: %w", key, err)
	}

	return v, nil
}
