// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimestampFormat is the timestamp layout of JSON log lines.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Options configures New.
type Options struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string

	// Format is "text" or "json".
	Format string

	// File, when set, receives a rotated copy of the log.
	File string

	// Verbose forces the debug level.
	Verbose bool
}

// New creates a logger writing to stderr and, optionally, to a rotated file.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	switch opts.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: TimestampFormat,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	var out io.Writer = os.Stderr
	if opts.File != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // MB
			MaxBackups: 3,
		})
	}
	logger.SetOutput(out)

	return logger, nil
}

// Discard returns a logger that drops everything. Used by tests and by
// callers that do not care about diagnostics.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
