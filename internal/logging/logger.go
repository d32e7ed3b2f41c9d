package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects the level and output format of a logger
type Options struct {
	Level  string // ERROR, WARN, INFO, DEBUG, TRACE (any case)
	Format string // "text" or "json"
	Output io.Writer
}

// Log is the process-wide logger. Commands replace it via Init.
var Log = New(Options{Level: os.Getenv("LOG_LEVEL")})

// New builds a logger. Unknown levels fall back to info, unknown formats to text.
func New(opts Options) *logrus.Logger {
	l := logrus.New()
	if opts.Output != nil {
		l.SetOutput(opts.Output)
	} else {
		l.SetOutput(os.Stderr)
	}

	switch strings.ToLower(opts.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// Init replaces the process-wide logger.
func Init(opts Options) {
	Log = New(opts)
}

func WithField(key string, value interface{}) *logrus.Entry {
	return Log.WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}

// Component returns an entry tagged with the emitting component.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
