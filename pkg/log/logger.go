// Package log provides the leveled logging sink used by the model-fitting
// core. Messages carry an integer verbosity level; a message is dropped when
// its level is above the configured verbosity, so verbosity 0 silences
// everything, 1 keeps the result summaries and 2 adds per-iteration output.
//
// The sink is backed by rs/zerolog. Structured fields use the standard
// attribute keys defined in attributes.go.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger writes messages whose level does not exceed the configured
// verbosity. The zero value is unusable; construct with New or NewNop.
type Logger struct {
	zl        zerolog.Logger
	verbosity int
}

// New creates a Logger writing console-formatted output to w.
func New(w io.Writer, verbosity int) *Logger {
	if w == nil {
		w = os.Stdout
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{
		zerolog.TimestampFieldName, zerolog.LevelFieldName,
	}}
	return &Logger{
		zl:        zerolog.New(out),
		verbosity: verbosity,
	}
}

// NewStructured creates a Logger emitting JSON records to w, for callers that
// feed the output into a log pipeline instead of a console.
func NewStructured(w io.Writer, verbosity int) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{
		zl:        zerolog.New(w).With().Timestamp().Logger(),
		verbosity: verbosity,
	}
}

// NewNop creates a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop(), verbosity: 0}
}

// Verbosity returns the configured verbosity.
func (l *Logger) Verbosity() int {
	return l.verbosity
}

// Log writes msg when level <= the configured verbosity.
func (l *Logger) Log(msg string, level int) {
	if l == nil || level > l.verbosity {
		return
	}
	l.zl.Info().Msg(msg)
}

// Logf formats and writes a message when level <= the configured verbosity.
func (l *Logger) Logf(level int, format string, args ...interface{}) {
	if l == nil || level > l.verbosity {
		return
	}
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Event starts a structured event at the given verbosity level. The returned
// event is disabled when the level is filtered out, so field construction
// costs nothing in that case.
func (l *Logger) Event(level int) *zerolog.Event {
	if l == nil || level > l.verbosity {
		nop := zerolog.Nop()
		return nop.Info()
	}
	return l.zl.Info()
}

// Warn writes a warning regardless of verbosity. Errors implementing
// zerolog.LogObjectMarshaler are logged with their structured fields.
func (l *Logger) Warn(err error) {
	if l == nil {
		return
	}
	if m, ok := err.(zerolog.LogObjectMarshaler); ok {
		l.zl.Warn().Object(ErrAttrKey, m).Msg(err.Error())
		return
	}
	l.zl.Warn().Err(err).Msg(err.Error())
}
