// Package logger provides the structured logger used across the planning pipeline.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger exposes logging methods for common severity levels.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// Options controls level and format of every logger created after Configure.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

var (
	mu      sync.RWMutex
	out     io.Writer = os.Stderr
	console           = strings.ToLower(os.Getenv("APP_ENV")) == "dev"
)

// Configure sets the global level and output format. Format is "json" or "console".
func Configure(opts Options) error {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lvl
	}
	zerolog.SetGlobalLevel(level)

	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(opts.Format) {
	case "", "json":
		console = strings.ToLower(os.Getenv("APP_ENV")) == "dev"
	case "console":
		console = true
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}
	if opts.Output != nil {
		out = opts.Output
	}
	return nil
}

// New returns a Logger for the given component.
func New(component string) Logger {
	return NewWithFields(component, nil)
}

// NewWithFields returns a component Logger that carries extra string fields on every event.
func NewWithFields(component string, fields map[string]string) Logger {
	mu.RLock()
	w, useConsole := out, console
	mu.RUnlock()

	if useConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	ctx := zerolog.New(w).With().Timestamp().Str("component", component)
	for k, v := range fields {
		ctx = ctx.Str(k, v)
	}
	return &ZerologLogger{log: ctx.Logger()}
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
