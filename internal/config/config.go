// Package config provides centralized runtime configuration for jobrun.
// It handles environment variables, default values, and configuration validation.
package config

import (
	"os"
	"sync"
)

// Config holds all runtime settings for jobrun
type Config struct {
	// DefaultExtension is the file extension looked for when a config
	// parameter points at a directory instead of a file.
	DefaultExtension string

	// Debug enables diagnostic logging regardless of the --debug flag.
	Debug bool

	// NoColor disables level coloring in diagnostic output.
	NoColor bool

	// LogFormat selects the diagnostic output format: "text" or "json".
	LogFormat string
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Default values
const (
	DefaultExtension = "yml"
	DefaultLogFormat = "text"
)

// Get returns the global configuration, loading from environment if not already loaded
func Get() *Config {
	configOnce.Do(func() {
		globalConfig = loadFromEnv()
	})
	return globalConfig
}

// Reset clears the global configuration, forcing reload on next Get()
// This is primarily useful for testing
func Reset() {
	configOnce = sync.Once{}
	globalConfig = nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv() *Config {
	return &Config{
		DefaultExtension: getEnv("JOBRUN_DEFAULT_EXT", DefaultExtension),
		Debug:            getEnvBool("JOBRUN_DEBUG", false),
		NoColor:          getEnvBool("JOBRUN_NOCOLOR", false) || os.Getenv("NO_COLOR") != "",
		LogFormat:        getEnv("JOBRUN_LOG_FORMAT", DefaultLogFormat),
	}
}

// NewConfig creates a new configuration with default values.
// This is useful for testing or programmatic configuration
func NewConfig() *Config {
	return &Config{
		DefaultExtension: DefaultExtension,
		LogFormat:        DefaultLogFormat,
	}
}

// WithDefaultExtension sets the directory-lookup extension
func (c *Config) WithDefaultExtension(ext string) *Config {
	c.DefaultExtension = ext
	return c
}

// WithDebug sets debug mode
func (c *Config) WithDebug(debug bool) *Config {
	c.Debug = debug
	return c
}

// WithLogFormat sets the diagnostic output format
func (c *Config) WithLogFormat(format string) *Config {
	c.LogFormat = format
	return c
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a boolean or a default
func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
