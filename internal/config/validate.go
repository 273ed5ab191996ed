package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/admission"
)

func (c *Config) validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateAuth(); err != nil {
		return err
	}

	if err := c.validateAttendance(); err != nil {
		return err
	}

	return c.validateLimits()
}

func (c *Config) validateDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	dbHost := dbURL.Hostname()
	if dbHost != "localhost" && dbHost != "127.0.0.1" && dbHost != "::1" {
		sslmode := dbURL.Query().Get("sslmode")
		if sslmode == "disable" {
			return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbHost)
		}
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Kiosk devices reach the server over the LAN, so 0.0.0.0/:: are allowed
	// alongside loopback.
	validHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !validHosts[c.ListenHost] {
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: (got %q)", c.ListenHost)
	}

	metricsPort, err := strconv.Atoi(c.MetricsPort)
	if err != nil {
		return fmt.Errorf("METRICS_PORT must be a valid integer: %w", err)
	}

	if metricsPort < 1 || metricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT must be between 1 and 65535")
	}

	if metricsPort == port {
		return fmt.Errorf("METRICS_PORT must differ from PORT")
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateAuth() error {
	if c.JWTSecret.Value() == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret.Value()) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}

	return nil
}

func (c *Config) validateAttendance() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE is not a valid IANA zone: %w", err)
	}
	c.Location = loc

	windows := []struct {
		name       string
		start, end string
	}{
		{"TIME_IN", c.TimeInStart, c.TimeInEnd},
		{"TIME_OUT", c.TimeOutStart, c.TimeOutEnd},
	}

	for _, w := range windows {
		start, err := admission.ParseMinute(w.start)
		if err != nil {
			return fmt.Errorf("%s_START: %w", w.name, err)
		}

		end, err := admission.ParseMinute(w.end)
		if err != nil {
			return fmt.Errorf("%s_END: %w", w.name, err)
		}

		if end < start {
			return fmt.Errorf("%s_END (%s) must not be before %s_START (%s)", w.name, w.end, w.name, w.start)
		}
	}

	if c.DefaultRadius < 1 {
		return fmt.Errorf("DEFAULT_RADIUS_METERS must be positive")
	}

	if c.ActiveWindow <= 0 || c.OnDutyWindow <= 0 {
		return fmt.Errorf("ACTIVE_WINDOW and ON_DUTY_WINDOW must be positive")
	}

	return nil
}

func (c *Config) validateLimits() error {
	if c.DBMaxConns < 2 || c.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 2 and 200")
	}

	if c.AuditQueue < 1 {
		return fmt.Errorf("AUDIT_QUEUE_SIZE must be positive")
	}

	if c.AuditRetain < 0 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must not be negative")
	}

	if c.PersistTimeout < time.Second || c.PersistTimeout > 2*time.Minute {
		return fmt.Errorf("PERSIST_TIMEOUT must be between 1s and 2m")
	}

	return nil
}
