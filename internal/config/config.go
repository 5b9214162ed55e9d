package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	LogLevel    string
	API         APIConfig
	Polling     PollingConfig
	DevServer   DevServerConfig
}

// APIConfig points the client at the marketplace backend
type APIConfig struct {
	BaseURL string // e.g. https://api.aarothfresh.com
	Key     string // vendor API key, sent as a bearer token
}

// PollingConfig controls the background refetch cadence
type PollingConfig struct {
	NotificationInterval time.Duration
	WorkflowInterval     time.Duration
}

// DevServerConfig configures the local stub backend (cmd/devserver)
type DevServerConfig struct {
	Port   string
	APIKey string // plaintext key the stub accepts; hashed at startup
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("NOTIFICATION_POLL_INTERVAL", "30s")
	viper.SetDefault("WORKFLOW_POLL_INTERVAL", "60s")
	viper.SetDefault("DEVSERVER_PORT", "8080")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	notifyInterval, err := time.ParseDuration(getEnvOrViper("NOTIFICATION_POLL_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_POLL_INTERVAL: %w", err)
	}
	workflowInterval, err := time.ParseDuration(getEnvOrViper("WORKFLOW_POLL_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKFLOW_POLL_INTERVAL: %w", err)
	}

	cfg := &Config{
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		API: APIConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("API_BASE_URL", "")),
			Key:     strings.TrimSpace(getEnvOrViper("API_KEY", "")),
		},
		Polling: PollingConfig{
			NotificationInterval: notifyInterval,
			WorkflowInterval:     workflowInterval,
		},
		DevServer: DevServerConfig{
			Port:   getEnvOrViper("DEVSERVER_PORT", "8080"),
			APIKey: strings.TrimSpace(getEnvOrViper("DEVSERVER_API_KEY", "dev-key")),
		},
	}

	// Validate required fields
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
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
