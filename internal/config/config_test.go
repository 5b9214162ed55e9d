package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Polling.NotificationInterval)
	assert.Equal(t, 60*time.Second, cfg.Polling.WorkflowInterval)
	assert.Equal(t, "8080", cfg.DevServer.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_KEY", "  vendor-key  ")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("NOTIFICATION_POLL_INTERVAL", "5s")
	t.Setenv("WORKFLOW_POLL_INTERVAL", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "vendor-key", cfg.API.Key)
	assert.Equal(t, 5*time.Second, cfg.Polling.NotificationInterval)
	assert.Equal(t, 2*time.Minute, cfg.Polling.WorkflowInterval)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080")
	t.Setenv("NOTIFICATION_POLL_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_POLL_INTERVAL")
}
