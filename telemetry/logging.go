package telemetry

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggingConfig selects how the global logger writes
type LoggingConfig struct {
	Level  string // trace, debug, info, warn, error
	Format string // console or json
	Output string // stdout, stderr or a file path
}

// DefaultLoggingConfig logs info and above to stderr as console lines
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "console", Output: "stderr"}
}

// SetupLogging configures the zerolog global logger. The returned closer
// releases a log file if one was opened.
func SetupLogging(cfg LoggingConfig) (io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var closer io.Closer = nopCloser{}
	var writer io.Writer
	switch cfg.Output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = file
		closer = file
	}

	switch cfg.Format {
	case "", "console":
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	case "json":
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()

	return closer, nil
}

// Component returns a child of the global logger tagged with a component name
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
