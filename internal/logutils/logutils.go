// Package logutils configures the process-wide logrus logger.
//
//	logutils.Init(logutils.Options{Level: "debug"})
//	log := logutils.Component("download")
//	log.WithField("item_id", id).Info("Item queued")
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls logger initialization.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values fall back to info.
	Level string

	// File, when set, receives log output instead of Output.
	File string

	// Output is used when File is empty. Defaults to stderr.
	Output io.Writer
}

// Init configures the standard logrus logger. The returned closer releases
// the log file, if any, and is never nil.
func Init(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		logrus.WithError(err).Warn("Invalid log level, defaulting to info")
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var closer io.Closer = nopCloser{}
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return closer, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return closer, fmt.Errorf("open log file: %w", err)
		}
		logrus.SetOutput(f)
		closer = f
	case opts.Output != nil:
		logrus.SetOutput(opts.Output)
	default:
		logrus.SetOutput(os.Stderr)
	}

	return closer, nil
}

// ParseLevel maps a level name to a logrus level. "warning" is accepted as
// an alias of "warn".
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
