package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/chip/internal/ui/output"
	"go.trai.ch/chip/internal/ui/style"
)

// levelStyle is the prefix and color a record is rendered with.
type levelStyle struct {
	icon  string
	color termenv.Color
}

func styleFor(level slog.Level) levelStyle {
	switch {
	case level >= slog.LevelError:
		return levelStyle{icon: style.Cross, color: termenv.RGBColor(string(style.Red))}
	case level >= slog.LevelWarn:
		return levelStyle{icon: style.Warning, color: termenv.RGBColor(string(style.Yellow))}
	default:
		return levelStyle{color: termenv.RGBColor(string(style.Slate))}
	}
}

// PrettyHandler is a slog.Handler that writes one colored line per record.
// Handlers derived through WithAttrs and WithGroup share the writer and its lock.
type PrettyHandler struct {
	mu     *sync.Mutex
	out    *termenv.Output
	level  slog.Leveler
	prefix string
	attrs  []string
}

// NewPrettyHandler creates a new PrettyHandler writing to w, or stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		mu:    &sync.Mutex{},
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	st := styleFor(r.Level)

	var b strings.Builder
	if st.icon != "" {
		b.WriteString(st.icon)
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)

	for _, attr := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		if s := formatAttr(h.prefix, attr); s != "" {
			b.WriteByte(' ')
			b.WriteString(s)
		}
		return true
	})

	line := h.out.String(b.String()).Foreground(st.color).String() + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.WriteString(line)
	return err
}

// WithAttrs returns a Handler that appends attrs, qualified by the current group, to every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = h.attrs[:len(h.attrs):len(h.attrs)]
	for _, attr := range attrs {
		if s := formatAttr(h.prefix, attr); s != "" {
			next.attrs = append(next.attrs, s)
		}
	}
	return &next
}

// WithGroup returns a Handler that qualifies subsequent attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// formatAttr renders attr as key=value, quoting values that contain whitespace.
// Group attributes are flattened into dotted keys.
func formatAttr(prefix string, attr slog.Attr) string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return ""
	}

	if attr.Value.Kind() == slog.KindGroup {
		var parts []string
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			if s := formatAttr(groupPrefix, member); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}

	value := attr.Value.String()
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}
	return prefix + attr.Key + "=" + value
}
