package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORAGE_DRIVER", "DB_PATH", "POSTGRES_URL", "IDEMPOTENCY_DB_PATH",
		"STATIC_PATH", "SEED_SAMPLE_DATA", "METRICS_PATH", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.StorageDriver != DriverSQLite {
		t.Errorf("StorageDriver = %q, want sqlite", cfg.StorageDriver)
	}
	if cfg.DBPath != "./data/splitmate.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.IdempotencyDBPath != "./data/idempotency.db" {
		t.Errorf("IdempotencyDBPath = %q", cfg.IdempotencyDBPath)
	}
	if cfg.SeedSampleData {
		t.Error("SeedSampleData should default to false")
	}
	if cfg.MetricsPath != "/metrics" || cfg.LogFormat != "tint" || cfg.LogLevel != "info" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("POSTGRES_URL", "postgres://localhost/splitmate")
	t.Setenv("IDEMPOTENCY_DB_PATH", "off")
	t.Setenv("SEED_SAMPLE_DATA", "true")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.StorageDriver != DriverPostgres {
		t.Errorf("StorageDriver = %q, want postgres", cfg.StorageDriver)
	}
	if cfg.IdempotencyDBPath != "" {
		t.Errorf("Expected idempotency to be disabled, got %q", cfg.IdempotencyDBPath)
	}
	if !cfg.SeedSampleData {
		t.Error("Expected SeedSampleData=true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadReportsMalformedValues(t *testing.T) {
	t.Setenv("PORT", "abc")
	t.Setenv("SEED_SAMPLE_DATA", "maybe")
	t.Setenv("STORAGE_DRIVER", DriverMemory)

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want fallback 8080", cfg.Port)
	}
	if cfg.SeedSampleData {
		t.Error("Expected fallback false for malformed bool")
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected Validate to report the malformed values")
	}
	for _, want := range []string{`PORT "abc"`, `SEED_SAMPLE_DATA "maybe"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %v, want error containing %s", err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8080, StorageDriver: DriverMemory, MetricsPath: "/metrics"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory ok", func(c *Config) {}, ""},
		{"unknown driver", func(c *Config) { c.StorageDriver = "mongo" }, "unknown STORAGE_DRIVER"},
		{"postgres without url", func(c *Config) { c.StorageDriver = DriverPostgres }, "POSTGRES_URL"},
		{"sqlite without path", func(c *Config) { c.StorageDriver = DriverSQLite }, "DB_PATH"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "PORT"},
		{"relative metrics path", func(c *Config) { c.MetricsPath = "metrics" }, "METRICS_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
