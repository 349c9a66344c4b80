package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tracefold/graphpub/internal/config"
	"github.com/tracefold/graphpub/pkg/logging"
)

// NewLogger creates a configured logger based on the application
// configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. LOG_LEVEL environment variable
//  5. Default (info)
func NewLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(determineLogLevel(cfg))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	switch cfg.LogFormat {
	case "json":
		logger = logging.NewJSON(os.Stderr)
	case "console":
		logger = logging.NewConsole()
	default:
		logger = *logging.Default()
	}

	logger = logger.Level(level)
	logging.SetDefault(logger)
	return logger
}

// determineLogLevel determines the log level using clear precedence rules.
func determineLogLevel(cfg *config.Config) string {
	if cfg.Verbose && cfg.Quiet {
		// Both specified, warn user and use quiet (more restrictive)
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	}
	if cfg.Verbose {
		return "debug"
	}
	if cfg.Quiet {
		return "warn"
	}
	if cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	return "info"
}
