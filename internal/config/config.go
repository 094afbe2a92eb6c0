package config

import (
	"os"
	"strconv"
	"time"

	"tabprep/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	API       APIConfig
	Data      DataConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings. URL may be empty,
// in which case snapshots live in memory only.
type DatabaseConfig struct {
	URL      string
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	MaxConcurrent   int
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// APIConfig holds settings for the key-authenticated machine API
type APIConfig struct {
	Port    string
	Key     string
	GinMode string
}

// DataConfig holds data ingestion settings
type DataConfig struct {
	File    string
	MaxRows int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables. Only malformed
// values fail; absent ones fall back to defaults so the CLI and the
// in-memory server run without any environment at all.
func Load() (*Config, error) {
	config := &Config{
		Database:  loadDatabaseConfig(),
		Server:    loadServerConfig(),
		API:       loadAPIConfig(),
		Data:      loadDataConfig(),
		Profiling: loadProfilingConfig(),
	}

	if config.Server.MaxConcurrent < 1 {
		return nil, errors.ConfigInvalid("MAX_CONCURRENT_ANALYSES must be at least 1")
	}
	if config.Server.MaxUploadBytes < 1 {
		return nil, errors.ConfigInvalid("MAX_UPLOAD_BYTES must be at least 1")
	}
	if config.Data.MaxRows < 0 {
		return nil, errors.ConfigInvalid("MAX_ROWS must not be negative")
	}

	return config, nil
}

// RequireDatabase fails when no database URL is configured. Call sites
// that cannot fall back to the in-memory store use this.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	return nil
}

// HasDatabase reports whether a database URL is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:      getEnvOrDefault("DATABASE_URL", ""),
		User:     getEnvOrDefault("DB_USER", ""),
		Password: getEnvOrDefault("DB_PASS", ""),
		Name:     getEnvOrDefault("DB_NAME", ""),
		Host:     getEnvOrDefault("DB_HOST", ""),
		Port:     getEnvIntOrDefault("DB_PORT", 5432),
		SSLMode:  getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		MaxConcurrent:   getEnvIntOrDefault("MAX_CONCURRENT_ANALYSES", 4),
		MaxUploadBytes:  getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 32<<20),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadAPIConfig() APIConfig {
	return APIConfig{
		Port:    getEnvOrDefault("API_PORT", "8090"),
		Key:     getEnvOrDefault("API_KEY", ""),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		File:    getEnvOrDefault("DATA_FILE", ""),
		MaxRows: getEnvIntOrDefault("MAX_ROWS", 0),
	}
}

func loadProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
