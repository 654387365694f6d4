// Package config loads, parses and validates application configuration
// from environment variables and optional config files, giving components
// type-safe access to their settings.
package config
