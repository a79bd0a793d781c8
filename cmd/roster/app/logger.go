package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/roster/pkg/logging"
)

// NewLogger creates a configured logger based on flags and configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. LOG_LEVEL environment variable
//  5. log.level from the configuration (default info)
func (a *App) NewLogger() zerolog.Logger {
	lc := a.Config().Logging()
	lc.Level = determineLogLevel(a.flags, lc.Level, a.stderr)
	lc.AddCaller = lc.Level == "debug" || lc.Level == "trace"
	if a.flags.NoColor {
		lc.NoColor = true
	}
	return logging.NewLoggerFromConfig(lc)
}

func determineLogLevel(flags *Flags, configured string, warn io.Writer) string {
	if flags.LogLevel != "" {
		validated := validateLogLevel(flags.LogLevel)
		if validated != flags.LogLevel {
			fmt.Fprintf(warn, "Warning: invalid log level %q, using %q\n", flags.LogLevel, validated)
		}
		return validated
	}

	if flags.Verbose && flags.Quiet {
		fmt.Fprintf(warn, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if flags.Verbose {
		return "debug"
	}
	if flags.Quiet {
		return "warn"
	}

	if env := os.Getenv("LOG_LEVEL"); env != "" {
		return validateLogLevel(env)
	}
	if configured != "" {
		return validateLogLevel(configured)
	}
	return "info"
}

// validateLogLevel returns level when it is known, else "info".
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	default:
		return "info"
	}
}
