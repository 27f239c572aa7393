package config

import (
	"os"
	"strconv"

	"serialsheets/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// StoreConfig holds mapping-preference store settings. The file backend is
// the default; setting DATABASE_URL switches to Postgres.
type StoreConfig struct {
	Backend     string // "file" or "postgres"
	DatabaseURL string
	FilePath    string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Store: loadStoreConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadStoreConfig() StoreConfig {
	backend := getEnvOrDefault("MAPPING_STORE", "")
	url := getEnvOrDefault("DATABASE_URL", "")
	if backend == "" {
		backend = "file"
		if url != "" {
			backend = "postgres"
		}
	}
	return StoreConfig{
		Backend:     backend,
		DatabaseURL: url,
		FilePath:    getEnvOrDefault("MAPPING_FILE", "data/mappings.json"),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	switch config.Store.Backend {
	case "file":
		if config.Store.FilePath == "" {
			return errors.ConfigInvalid("MAPPING_FILE is required for the file store")
		}
	case "postgres":
		if config.Store.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres store")
		}
	default:
		return errors.ConfigInvalid("MAPPING_STORE must be \"file\" or \"postgres\"")
	}
	return nil
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
