package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger every component derives its own logger from.
// Dev mode writes colored console lines, otherwise JSON goes to stderr.
// The minimum level comes from a zerolog level name such as "debug";
// anything unrecognized or empty means info.
func New(devMode bool, level string) zerolog.Logger {
	var logger zerolog.Logger

	if devMode {
		// Human-readable, colorful output for local development
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
	} else {
		// Efficient JSON output for production
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel || lvl < zerolog.TraceLevel || lvl > zerolog.Disabled {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}
