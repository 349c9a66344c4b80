// Package config loads application configuration from config files,
// environment variables, and .env files.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tracefold/graphpub/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Output  string

	// Config file
	ConfigFile string

	// Graph store configuration
	Endpoint     string
	APIKey       string
	SpaceID      string
	SharedSpaces []string

	// Engine configuration
	WindowSize int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.graphpub.yaml)
// 5. Defaults
func Load() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GRAPHPUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".graphpub")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		Output:  viper.GetString("output"),

		ConfigFile: viper.ConfigFileUsed(),

		Endpoint:     viper.GetString("endpoint"),
		APIKey:       viper.GetString("api_key"),
		SpaceID:      viper.GetString("space_id"),
		SharedSpaces: viper.GetStringSlice("shared_spaces"),

		WindowSize: viper.GetInt("window_size"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// Validate checks that the configuration can reach the graph store.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return &errors.ValidationError{
			Field:   "endpoint",
			Message: "graph store endpoint is required (GRAPHPUB_ENDPOINT)",
		}
	}
	if c.APIKey == "" {
		return errors.ErrAPIKeyRequired
	}
	if c.SpaceID == "" {
		return &errors.ValidationError{
			Field:   "space_id",
			Message: "space id is required (GRAPHPUB_SPACE_ID)",
		}
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet bool, output string) {
	c.Verbose = verbose
	c.Quiet = quiet
	if output != "" {
		c.Output = output
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Overload(file)
		}
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
