package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Auth         AuthConfig         `mapstructure:"auth"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator" validate:"required"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// The URL is optional: without it the experience sink is disabled and
// task outcomes are not persisted.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains authentication-related settings. The JWT secret is
// only used to derive rate-limit client keys from bearer tokens; it is
// optional, and without it clients are keyed by IP address.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
}

// LLMConfig contains all LLM integration related settings. Optional: the
// content-producing agents fall back to templates when no API key is set.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
}

// OrchestratorConfig contains scheduler tuning knobs.
type OrchestratorConfig struct {
	// QueueSize is the buffer size of the in-memory task queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`
	// Retention is how long terminal tasks are kept for status queries
	// before housekeeping purges them.
	Retention time.Duration `mapstructure:"retention" validate:"required"`
	// PurgeInterval is how often housekeeping runs.
	PurgeInterval time.Duration `mapstructure:"purge_interval" validate:"required"`
	// DrainTimeout bounds how long Stop waits for queued work to finish.
	DrainTimeout time.Duration `mapstructure:"drain_timeout" validate:"required"`
	// ExecuteTimeout bounds a synchronous ExecuteAndWait call.
	ExecuteTimeout time.Duration `mapstructure:"execute_timeout" validate:"required"`
	// WorkspaceDir is the sandboxed base path agents may write under.
	WorkspaceDir string `mapstructure:"workspace_dir" validate:"required"`
}

// RateLimitConfig contains admission-control settings.
type RateLimitConfig struct {
	// Window is the width of the sliding window.
	Window time.Duration `mapstructure:"window" validate:"required"`
	// Threshold is the maximum number of hits allowed per key per window.
	Threshold int `mapstructure:"threshold" validate:"required,gt=0"`
}
