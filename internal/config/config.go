package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	DataDir string
	UserID  string
	Remote  RemoteConfig
	Sync    SyncConfig
	Logger  LoggerConfig
}

// RemoteConfig holds remote-store connection configuration.
type RemoteConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	ConnectTimeout  int // seconds
}

// SyncConfig holds sync scheduler configuration.
type SyncConfig struct {
	Interval             time.Duration
	RetryInitialInterval time.Duration
	RetryMaxElapsed      time.Duration
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir: getEnv("DATA_DIR", defaultDataDir()),
		UserID:  getEnv("USER_ID", ""),
		Remote: RemoteConfig{
			Host:            getEnv("REMOTE_DB_HOST", "localhost"),
			Port:            getEnvAsInt("REMOTE_DB_PORT", 5432),
			User:            getEnv("REMOTE_DB_USER", "postgres"),
			Password:        getEnv("REMOTE_DB_PASSWORD", ""),
			Database:        getEnv("REMOTE_DB_NAME", "pantrysync"),
			MaxConnections:  getEnvAsInt("REMOTE_DB_MAX_CONNECTIONS", 5),
			MinConnections:  getEnvAsInt("REMOTE_DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("REMOTE_DB_MAX_CONN_LIFETIME", 300),
			ConnectTimeout:  getEnvAsInt("REMOTE_DB_CONNECT_TIMEOUT", 10),
		},
		Sync: SyncConfig{
			Interval:             getEnvAsDuration("SYNC_INTERVAL", 15*time.Minute),
			RetryInitialInterval: getEnvAsDuration("SYNC_RETRY_INITIAL", 5*time.Second),
			RetryMaxElapsed:      getEnvAsDuration("SYNC_RETRY_MAX_ELAPSED", 2*time.Minute),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}

	if c.UserID == "" {
		return fmt.Errorf("user id is required")
	}

	if c.Remote.Host == "" {
		return fmt.Errorf("remote database host is required")
	}

	if c.Remote.Port < 1 || c.Remote.Port > 65535 {
		return fmt.Errorf("invalid remote database port: %d", c.Remote.Port)
	}

	if c.Remote.User == "" {
		return fmt.Errorf("remote database user is required")
	}

	if c.Remote.Database == "" {
		return fmt.Errorf("remote database name is required")
	}

	if c.Remote.MaxConnections < 1 {
		return fmt.Errorf("remote database max connections must be at least 1")
	}

	if c.Remote.MinConnections < 1 {
		return fmt.Errorf("remote database min connections must be at least 1")
	}

	if c.Remote.MinConnections > c.Remote.MaxConnections {
		return fmt.Errorf("remote database min connections cannot exceed max connections")
	}

	if c.Sync.Interval < time.Second {
		return fmt.Errorf("sync interval must be at least 1s")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string for the remote store.
func (c *RemoteConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&connect_timeout=%d",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.ConnectTimeout,
	)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".pantrysync")
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
