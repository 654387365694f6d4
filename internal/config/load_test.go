package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets up environment variables for testing
func setupEnv(t *testing.T, envVars map[string]string) func() {
	// Save current environment values
	originalValues := make(map[string]string)
	for name := range envVars {
		originalValues[name] = os.Getenv(name)
	}

	// Set new environment variables
	for name, value := range envVars {
		err := os.Setenv(name, value)
		require.NoError(t, err, "Failed to set environment variable %s", name)
	}

	// Return cleanup function
	return func() {
		// Restore original environment
		for name, value := range originalValues {
			if value == "" {
				os.Unsetenv(name)
			} else {
				os.Setenv(name, value)
			}
		}
	}
}

// TestLoadDefaults verifies that Load applies the expected defaults when
// no environment variables are set.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 1024, cfg.Orchestrator.QueueSize)
	assert.Equal(t, 60, cfg.RateLimit.Threshold)
	assert.NotZero(t, cfg.RateLimit.Window)
	assert.NotZero(t, cfg.Orchestrator.DrainTimeout)
}

// TestLoadFromEnvironment verifies that WORLD_-prefixed environment
// variables override defaults.
func TestLoadFromEnvironment(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"WORLD_SERVER_PORT":          "9191",
		"WORLD_SERVER_LOG_LEVEL":     "debug",
		"WORLD_RATE_LIMIT_THRESHOLD": "5",
		"WORLD_RATE_LIMIT_WINDOW":    "2s",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.RateLimit.Threshold)
	assert.Equal(t, "2s", cfg.RateLimit.Window.String())
}

// TestLoadValidation verifies that invalid settings are rejected.
func TestLoadValidation(t *testing.T) {
	t.Run("invalid port", func(t *testing.T) {
		cleanup := setupEnv(t, map[string]string{
			"WORLD_SERVER_PORT": "-1",
		})
		defer cleanup()

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		cleanup := setupEnv(t, map[string]string{
			"WORLD_SERVER_LOG_LEVEL": "loud",
		})
		defer cleanup()

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cleanup := setupEnv(t, map[string]string{
			"WORLD_AUTH_JWT_SECRET": "tooshort",
		})
		defer cleanup()

		_, err := Load()
		assert.Error(t, err)
	})
}
