// Package logx initializes the global zerolog logger.
//
// The TUI owns the terminal, so all logging goes to a file inside the
// data directory. Development gets the console format at debug level;
// production gets JSON at info level.
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger to append to the given file.
// The returned closer flushes and releases the log file.
func Init(path string, isDevelopment bool) (func() error, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(f).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        f,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger

	return f.Close, nil
}

// Logger returns the global zerolog instance.
func Logger() *zerolog.Logger {
	return &log.Logger
}
