package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file next to the binary or in the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Not finding a file is fine; env vars and defaults apply.
	}

	// Environment variables with WORLD_ prefix override file values,
	// e.g. WORLD_SERVER_PORT, WORLD_DATABASE_URL.
	v.SetEnvPrefix("WORLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	// Empty defaults register the keys so AutomaticEnv can populate them
	// during Unmarshal even when no config file is present.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("orchestrator.queue_size", 1024)
	v.SetDefault("orchestrator.retention", "1h")
	v.SetDefault("orchestrator.purge_interval", "5m")
	v.SetDefault("orchestrator.drain_timeout", "10s")
	v.SetDefault("orchestrator.execute_timeout", "30s")
	v.SetDefault("orchestrator.workspace_dir", "./workspace")
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.threshold", 60)
}
