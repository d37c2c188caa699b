package hnsw

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the diagnostic sink used for conditions that are not fatal but
// worth surfacing: a query's requested ef below k gets silently corrected,
// not rejected, but an operator watching logs should still see it happen.
type Logger = zerolog.Logger

// NewLogger returns a structured logger writing to stderr, console-
// formatted for local development the way the teacher's own tooling
// configures zerolog.
func NewLogger() Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
