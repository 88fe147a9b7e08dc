// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported record store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds all process configuration for the validation service
type Config struct {
	// Path to the ini file with engine settings (sections dns, dnssec, records)
	SettingsFile string

	// TTL applied when a candidate carries none
	DefaultTTL int

	// Database configuration
	Database DatabaseConfig

	// Cache configuration
	Cache CacheConfig

	// Redis configuration
	Redis RedisConfig

	// Logging
	LogLevel string
	LogDir   string
}

// DatabaseConfig holds record store configuration
type DatabaseConfig struct {
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	DSN            string // mysql and sqlite
	RecordsFile    string // memory
	TablePrefix    string
	ConnectionName string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// CacheConfig holds gateway answer cache configuration
type CacheConfig struct {
	Enabled         bool
	MaxEntries      int
	CleanupInterval time.Duration
	TTL             time.Duration
}

// RedisConfig holds the optional second cache tier
type RedisConfig struct {
	Enabled   bool
	Addr      string
	KeyPrefix string
}

// Load creates a new Config with values from environment variables or defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DefaultTTL: 86400,
		LogLevel:   "info",

		Database: DatabaseConfig{
			Driver:          DriverMemory,
			Host:            "localhost",
			Port:            5432,
			User:            "pdns",
			DBName:          "pdns",
			SSLMode:         "disable",
			ConnectionName:  "records",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 2 * time.Minute,
		},

		Cache: CacheConfig{
			Enabled:         false,
			MaxEntries:      10000,
			CleanupInterval: 60 * time.Second,
			TTL:             5 * time.Second,
		},

		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "rrguard:",
		},
	}

	loadEngineConfig(cfg)
	loadDatabaseConfig(cfg)
	loadCacheConfig(cfg)
	loadRedisConfig(cfg)
	loadLogConfig(cfg)

	return cfg
}

func loadEngineConfig(cfg *Config) {
	if env := os.Getenv("RRGUARD_SETTINGS"); env != "" {
		cfg.SettingsFile = env
	}

	if env := os.Getenv("DEFAULT_TTL"); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			cfg.DefaultTTL = val
		}
	}
}

// loadDatabaseConfig loads record store configuration from environment
func loadDatabaseConfig(cfg *Config) {
	if env := os.Getenv("DB_DRIVER"); env != "" {
		cfg.Database.Driver = env
	}

	if env := os.Getenv("DB_HOST"); env != "" {
		cfg.Database.Host = env
	}

	if env := os.Getenv("DB_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil && port > 0 {
			cfg.Database.Port = port
		}
	}

	if env := os.Getenv("DB_USER"); env != "" {
		cfg.Database.User = env
	}

	if env := os.Getenv("DB_PASSWORD"); env != "" {
		cfg.Database.Password = env
	}

	if env := os.Getenv("DB_NAME"); env != "" {
		cfg.Database.DBName = env
	}

	if env := os.Getenv("DB_SSL_MODE"); env != "" {
		cfg.Database.SSLMode = env
	}

	if env := os.Getenv("DB_DSN"); env != "" {
		cfg.Database.DSN = env
	}

	if env := os.Getenv("DB_RECORDS_FILE"); env != "" {
		cfg.Database.RecordsFile = env
	}

	if env, ok := os.LookupEnv("DB_TABLE_PREFIX"); ok {
		cfg.Database.TablePrefix = env
	}

	if env := os.Getenv("DB_MAX_OPEN_CONNS"); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val > 0 {
			cfg.Database.MaxOpenConns = val
		}
	}

	if env := os.Getenv("DB_MAX_IDLE_CONNS"); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val >= 0 {
			cfg.Database.MaxIdleConns = val
		}
	}

	if env := os.Getenv("DB_CONN_MAX_LIFETIME"); env != "" {
		if val, err := time.ParseDuration(env); err == nil {
			cfg.Database.ConnMaxLifetime = val
		}
	}

	if env := os.Getenv("DB_CONN_MAX_IDLE_TIME"); env != "" {
		if val, err := time.ParseDuration(env); err == nil {
			cfg.Database.ConnMaxIdleTime = val
		}
	}
}

// loadCacheConfig loads cache configuration from environment
func loadCacheConfig(cfg *Config) {
	if env := os.Getenv("CACHE_ENABLED"); env != "" {
		if val, err := strconv.ParseBool(env); err == nil {
			cfg.Cache.Enabled = val
		}
	}

	if env := os.Getenv("CACHE_MAX_ENTRIES"); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val > 0 {
			cfg.Cache.MaxEntries = val
		}
	}

	if env := os.Getenv("CACHE_CLEANUP_INTERVAL"); env != "" {
		if val, err := time.ParseDuration(env); err == nil {
			cfg.Cache.CleanupInterval = val
		}
	}

	if env := os.Getenv("CACHE_TTL"); env != "" {
		if val, err := time.ParseDuration(env); err == nil {
			cfg.Cache.TTL = val
		}
	}
}

func loadRedisConfig(cfg *Config) {
	if env := os.Getenv("REDIS_ENABLED"); env != "" {
		if val, err := strconv.ParseBool(env); err == nil {
			cfg.Redis.Enabled = val
		}
	}

	if env := os.Getenv("REDIS_ADDR"); env != "" {
		cfg.Redis.Addr = env
	}

	if env := os.Getenv("REDIS_KEY_PREFIX"); env != "" {
		cfg.Redis.KeyPrefix = env
	}
}

func loadLogConfig(cfg *Config) {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		cfg.LogLevel = env
	}

	if env := os.Getenv("LOG_DIR"); env != "" {
		cfg.LogDir = env
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DefaultTTL < 0 || c.DefaultTTL > 2147483647 {
		return &ValidationError{Field: "DefaultTTL", Message: "must be between 0 and 2147483647"}
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config error: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config error: %w", err)
	}

	if err := c.Redis.Validate(c.Cache.Enabled); err != nil {
		return fmt.Errorf("redis config error: %w", err)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "LogLevel", Message: "must be one of debug, info, warn, error"}
	}

	return nil
}

// Validate validates record store configuration
func (db *DatabaseConfig) Validate() error {
	switch db.Driver {
	case DriverMemory:
		return nil
	case DriverMySQL, DriverSQLite:
		if db.DSN == "" {
			return &ValidationError{Field: "DSN", Message: "cannot be empty for driver " + db.Driver}
		}
		return nil
	case DriverPostgres:
	default:
		return &ValidationError{Field: "Driver", Message: "must be one of memory, postgres, mysql, sqlite"}
	}

	if db.Host == "" {
		return &ValidationError{Field: "Host", Message: "cannot be empty"}
	}

	if db.Port <= 0 || db.Port > 65535 {
		return &ValidationError{Field: "Port", Message: "must be between 1 and 65535"}
	}

	if db.User == "" {
		return &ValidationError{Field: "User", Message: "cannot be empty"}
	}

	if db.DBName == "" {
		return &ValidationError{Field: "DBName", Message: "cannot be empty"}
	}

	if db.ConnectionName == "" {
		return &ValidationError{Field: "ConnectionName", Message: "cannot be empty"}
	}

	if db.MaxOpenConns <= 0 {
		return &ValidationError{Field: "MaxOpenConns", Message: "must be greater than 0"}
	}

	if db.MaxIdleConns < 0 {
		return &ValidationError{Field: "MaxIdleConns", Message: "cannot be negative"}
	}

	return nil
}

// Validate validates cache configuration
func (cache *CacheConfig) Validate() error {
	if cache.Enabled {
		if cache.MaxEntries <= 0 {
			return &ValidationError{Field: "MaxEntries", Message: "must be greater than 0 when cache is enabled"}
		}

		if cache.CleanupInterval < 0 {
			return &ValidationError{Field: "CleanupInterval", Message: "cannot be negative"}
		}

		if cache.TTL <= 0 {
			return &ValidationError{Field: "TTL", Message: "must be greater than 0 when cache is enabled"}
		}
	}

	return nil
}

// Validate validates redis configuration. Redis is only a second tier, so it
// requires the memory cache.
func (r *RedisConfig) Validate(cacheEnabled bool) error {
	if !r.Enabled {
		return nil
	}

	if !cacheEnabled {
		return &ValidationError{Field: "Enabled", Message: "requires CACHE_ENABLED"}
	}

	if r.Addr == "" {
		return &ValidationError{Field: "Addr", Message: "cannot be empty"}
	}

	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s %s", e.Field, e.Message)
}
