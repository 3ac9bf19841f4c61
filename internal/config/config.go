// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all server configuration.
type Config struct {
	Port int

	// Storage
	StorageDriver string
	DBPath        string
	PostgresURL   string

	// IdempotencyDBPath is the bolt file for Idempotency-Key claims.
	// Empty disables idempotency handling.
	IdempotencyDBPath string

	StaticPath     string
	SeedSampleData bool
	MetricsPath    string

	LogLevel  string
	LogFormat string

	// parseErrs holds malformed values seen by Load. Validate reports them.
	parseErrs []error
}

// Load reads the configuration from the environment, applying defaults for unset values.
func Load() Config {
	var parseErrs []error
	cfg := Config{
		Port:              envIntOrDefault("PORT", 8080, &parseErrs),
		StorageDriver:     strings.ToLower(envOrDefault("STORAGE_DRIVER", DriverSQLite)),
		DBPath:            envOrDefault("DB_PATH", "./data/splitmate.db"),
		PostgresURL:       os.Getenv("POSTGRES_URL"),
		IdempotencyDBPath: envOrDefault("IDEMPOTENCY_DB_PATH", "./data/idempotency.db"),
		StaticPath:        os.Getenv("STATIC_PATH"),
		SeedSampleData:    envBoolOrDefault("SEED_SAMPLE_DATA", false, &parseErrs),
		MetricsPath:       envOrDefault("METRICS_PATH", "/metrics"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "tint"),
	}
	cfg.parseErrs = parseErrs
	if strings.EqualFold(cfg.IdempotencyDBPath, "off") {
		cfg.IdempotencyDBPath = ""
	}
	return cfg
}

// Validate reports configuration that cannot start a server.
func (c Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	switch c.StorageDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		errs = append(errs, fmt.Errorf("METRICS_PATH %q must start with /", c.MetricsPath))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envIntOrDefault falls back to defaultVal on a malformed value and appends
// the parse error to errs.
func envIntOrDefault(key string, defaultVal int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s %q is not an integer", key, v))
		return defaultVal
	}
	return i
}

func envBoolOrDefault(key string, defaultVal bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s %q is not a boolean", key, v))
		return defaultVal
	}
	return b
}
