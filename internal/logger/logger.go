// Package logger provides the JSON line logger shared by every component.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing one JSON object per line to stdout.
// Timestamps are emitted under "ts" in RFC3339Nano, rendered in loc.
func New(service string, loc *time.Location) zerolog.Logger {
	return NewWithWriter(os.Stdout, service, loc)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, service string, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().In(loc) }

	return zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
