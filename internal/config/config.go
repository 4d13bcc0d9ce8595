// Package config provides environment-driven configuration for maidbook.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
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

// RestoreConfig holds defaults for the backup restore engine. CLI flags and
// request parameters override the file paths and scoping IDs.
type RestoreConfig struct {
	BookingsPath  string
	CustomersPath string
	TargetsFile   string
	CompanyID     string
	UserID        string
	MaxErrors     int
	// StatusDefault is the booking status used when the export's status text
	// matches no keyword rule.
	StatusDefault string
	Timezone      string
}

// Config holds all application configuration values.
type Config struct {
	DatabaseURL Secret
	Port        string
	ListenHost  string
	CORSOrigins []string
	LogLevel    string
	DBMaxConns  int
	Restore     RestoreConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: Secret(envOrDefault("DATABASE_URL", "")),
		Port:        envOrDefault("PORT", "3040"),
		ListenHost:  envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		Restore: RestoreConfig{
			BookingsPath:  envOrDefault("RESTORE_BOOKINGS_CSV", "data/bookings-export.csv"),
			CustomersPath: envOrDefault("RESTORE_CUSTOMERS_CSV", "data/customers-export.csv"),
			TargetsFile:   envOrDefault("RESTORE_TARGETS_FILE", "data/restore-targets.yaml"),
			CompanyID:     envOrDefault("RESTORE_COMPANY_ID", ""),
			UserID:        envOrDefault("RESTORE_USER_ID", ""),
			StatusDefault: strings.ToUpper(envOrDefault("RESTORE_STATUS_DEFAULT", "SCHEDULED")),
			Timezone:      envOrDefault("RESTORE_TIMEZONE", "America/New_York"),
		},
	}

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "5"))
	if err != nil || maxConns < 1 || maxConns > 100 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 1 and 100")
	}
	cfg.DBMaxConns = maxConns

	maxErrors, err := strconv.Atoi(envOrDefault("RESTORE_MAX_ERRORS", "10"))
	if err != nil || maxErrors < 1 || maxErrors > 1000 {
		return nil, fmt.Errorf("RESTORE_MAX_ERRORS must be an integer between 1 and 1000")
	}
	cfg.Restore.MaxErrors = maxErrors

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
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

// Location returns the time zone export timestamps are interpreted in.
// validate guarantees the zone name loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Restore.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
