package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the ports.Logger implementation backed by zerolog.
type Logger struct {
	zl zerolog.Logger
}

// New creates a console logger on stderr. Verbose forces debug level,
// otherwise level is parsed from the config value (warn when empty or unknown).
func New(verbose bool, level string) *Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, verbose, level)
}

// NewWithWriter builds a logger on an arbitrary writer.
func NewWithWriter(w io.Writer, verbose bool, level string) *Logger {
	lvl := parseLevel(level)
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return &Logger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	l.zl.Error().Err(err).Fields(fields).Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
