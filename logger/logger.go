package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Pretty console output is enabled
// outside production so pipeline stages are readable during development.
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(lvl)
}
