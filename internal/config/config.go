package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Backend     BackendConfig
	StateFile   string
	CatalogFile string
	CORSOrigins []string
	LogLevel    string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BACKEND_BASE_URL", "https://klas0.pythonanywhere.com")
	viper.SetDefault("BACKEND_TIMEOUT", "30s")
	viper.SetDefault("STATE_FILE", "data/state.json")
	viper.SetDefault("CATALOG_FILE", "data/catalog.json")
	viper.SetDefault("CORS_ORIGINS", "*")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeout, err := time.ParseDuration(getEnvOrViper("BACKEND_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Backend: BackendConfig{
			BaseURL: getEnvOrViper("BACKEND_BASE_URL", "https://klas0.pythonanywhere.com"),
			Timeout: timeout,
		},
		StateFile:   getEnvOrViper("STATE_FILE", "data/state.json"),
		CatalogFile: getEnvOrViper("CATALOG_FILE", "data/catalog.json"),
		CORSOrigins: []string{getEnvOrViper("CORS_ORIGINS", "*")},
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if cfg.CatalogFile == "" {
		return nil, fmt.Errorf("CATALOG_FILE is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
