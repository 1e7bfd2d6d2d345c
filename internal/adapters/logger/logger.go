// Package logger implements ports.Logger on top of log/slog, with a colored
// line format for terminals and a JSON format for log collectors.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/chip/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger. The output and format can be switched at any
// time; records already being written finish on the previous handler.
type Logger struct {
	mu     sync.RWMutex
	slog   *slog.Logger
	w      io.Writer
	asJSON bool
}

// New creates a new Logger writing pretty output to stderr.
func New() *Logger {
	l := &Logger{w: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput redirects the logger to w, keeping the current format.
// A nil w selects stderr.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.w = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty records.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.asJSON = enable
	l.rebuild()
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.log(slog.LevelInfo, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.log(slog.LevelWarn, msg)
}

// Error logs err together with its cause chain. Nil errors are ignored.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	entries := collectErrorEntries(err)

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.asJSON {
		l.slog.Error(entries[0].Message, jsonErrorAttrs(err, entries)...)
		return
	}
	l.slog.Error(formatErrorEntries(entries))
}

func (l *Logger) log(level slog.Level, msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.slog.Log(context.Background(), level, msg)
}

// rebuild replaces the slog logger; callers hold mu.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.asJSON {
		l.slog = slog.New(slog.NewJSONHandler(l.w, opts))
		return
	}
	l.slog = slog.New(NewPrettyHandler(l.w, opts))
}
