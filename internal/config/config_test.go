package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DEFAULT_TTL", "")
	t.Setenv("CACHE_ENABLED", "")

	cfg := Load()

	if cfg.Database.Driver != DriverMemory {
		t.Errorf("Driver = %q, want %q", cfg.Database.Driver, DriverMemory)
	}
	if cfg.DefaultTTL != 86400 {
		t.Errorf("DefaultTTL = %d, want 86400", cfg.DefaultTTL)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_TABLE_PREFIX", "pdns_")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DEFAULT_TTL", "3600")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Database.Driver != DriverPostgres || cfg.Database.Host != "db.internal" || cfg.Database.Port != 6543 {
		t.Errorf("database overrides not applied: %+v", cfg.Database)
	}
	if cfg.Database.TablePrefix != "pdns_" {
		t.Errorf("TablePrefix = %q, want pdns_", cfg.Database.TablePrefix)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 30*time.Second {
		t.Errorf("cache overrides not applied: %+v", cfg.Cache)
	}
	if cfg.DefaultTTL != 3600 {
		t.Errorf("DefaultTTL = %d, want 3600", cfg.DefaultTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DefaultTTL: 3600,
			LogLevel:   "info",
			Database:   DatabaseConfig{Driver: DriverMemory},
			Cache:      CacheConfig{MaxEntries: 10, TTL: time.Second},
			Redis:      RedisConfig{Addr: "localhost:6379"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative ttl", func(c *Config) { c.DefaultTTL = -1 }, "DefaultTTL"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "Driver"},
		{"sqlite without dsn", func(c *Config) { c.Database.Driver = DriverSQLite }, "DSN"},
		{"postgres without host", func(c *Config) {
			c.Database = DatabaseConfig{Driver: DriverPostgres, Port: 5432, User: "u", DBName: "d", ConnectionName: "c", MaxOpenConns: 1}
		}, "Host"},
		{"cache without entries", func(c *Config) { c.Cache.Enabled = true; c.Cache.MaxEntries = 0 }, "MaxEntries"},
		{"redis without cache", func(c *Config) { c.Redis.Enabled = true }, "Enabled"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	s, err := ParseSettings([]byte(`
[dns]
hostname_max_length = 200
lowercase_hostnames = false
broken_int = twelve
broken_bool = maybe
blank =

[records]
disabled_types = HINFO, LOC
`))
	if err != nil {
		t.Fatalf("ParseSettings() error = %v", err)
	}

	if v, err := s.Int("dns", "hostname_max_length", 255); err != nil || v != 200 {
		t.Errorf("Int = %d, %v; want 200, nil", v, err)
	}
	if v, err := s.Int("dns", "missing", 255); err != nil || v != 255 {
		t.Errorf("Int(missing) = %d, %v; want default", v, err)
	}
	if v, err := s.Int("dns", "blank", 7); err != nil || v != 7 {
		t.Errorf("Int(blank) = %d, %v; want default", v, err)
	}
	if _, err := s.Int("dns", "broken_int", 0); err == nil {
		t.Error("malformed int should be an error")
	}
	if v, err := s.Bool("dns", "lowercase_hostnames", true); err != nil || v {
		t.Errorf("Bool = %v, %v; want false, nil", v, err)
	}
	if _, err := s.Bool("dns", "broken_bool", false); err == nil {
		t.Error("malformed bool should be an error")
	}
	if v := s.String("records", "disabled_types", ""); v != "HINFO, LOC" {
		t.Errorf("String = %q", v)
	}
	if v := s.String("nosuch", "key", "fallback"); v != "fallback" {
		t.Errorf("String(missing section) = %q, want fallback", v)
	}
}

func TestLoadSettings(t *testing.T) {
	empty, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings(\"\") error = %v", err)
	}
	if v := empty.String("dns", "x", "d"); v != "d" {
		t.Errorf("empty settings String = %q, want d", v)
	}

	path := filepath.Join(t.TempDir(), "rrguard.ini")
	if err := os.WriteFile(path, []byte("[dnssec]\nenabled = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if v, err := s.Bool("dnssec", "enabled", false); err != nil || !v {
		t.Errorf("Bool = %v, %v; want true, nil", v, err)
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Error("missing file should be an error")
	}
}
