package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/chip/internal/ui/style"
)

// messager matches zerr errors, which report their own message without the chain.
type messager interface {
	Message() string
}

// metadataer matches zerr errors carrying structured metadata.
type metadataer interface {
	Metadata() map[string]any
}

type errorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens an error chain into one entry per message.
// Metadata attached to message-less links is folded into the nearest message.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var carried map[string]any

	take := func() map[string]any {
		md := carried
		carried = nil
		return md
	}

	for current := err; current != nil; current = errors.Unwrap(current) {
		if md, ok := current.(metadataer); ok && len(md.Metadata()) > 0 {
			if carried == nil {
				carried = map[string]any{}
			}
			maps.Copy(carried, md.Metadata())
		}

		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{Message: current.Error(), Metadata: take()})
			break
		}
		if m.Message() == "" {
			continue
		}
		entries = append(entries, errorEntry{Message: m.Message(), Metadata: take()})
	}

	if len(entries) == 0 {
		return []errorEntry{{Message: err.Error(), Metadata: take()}}
	}
	if carried != nil {
		last := &entries[len(entries)-1]
		if last.Metadata == nil {
			last.Metadata = map[string]any{}
		}
		maps.Copy(last.Metadata, take())
	}
	return entries
}

// formatErrorEntries renders entries as a headline followed by an indented cause list.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message+formatMetadata(entry.Metadata), "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    "+style.Arrow+" "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(md map[string]any) string {
	if len(md) == 0 {
		return ""
	}
	parts := make([]string, 0, len(md))
	for _, key := range slices.Sorted(maps.Keys(md)) {
		parts = append(parts, fmt.Sprintf("%s=%v", key, md[key]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func jsonErrorAttrs(err error, entries []errorEntry) []any {
	attrs := []any{slog.String("error", err.Error())}
	for _, entry := range entries {
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			attrs = append(attrs, slog.Any(key, entry.Metadata[key]))
		}
	}
	return attrs
}
