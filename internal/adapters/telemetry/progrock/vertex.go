package progrock

import (
	"io"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/chip/internal/core/domain"
)

// Vertex is the recorded processing of one source file.
type Vertex struct {
	rec  *progrock.VertexRecorder
	done sync.Once
}

// Stdout returns the writer for the file's transform output.
func (v *Vertex) Stdout() io.Writer { return v.rec.Stdout() }

// Stderr returns the writer for the file's transform diagnostics.
func (v *Vertex) Stderr() io.Writer { return v.rec.Stderr() }

// Log appends one line per message line to the vertex output, tagged with the level.
// Warnings and errors go to the error stream.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	w := v.rec.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.rec.Stderr()
	}

	var b strings.Builder
	for line := range strings.Lines(strings.TrimSuffix(msg, "\n") + "\n") {
		b.WriteString(level.String())
		b.WriteString(": ")
		b.WriteString(line)
	}
	_, _ = io.WriteString(w, b.String())
}

// Complete finishes the vertex, failed when err is non-nil. Only the first call is recorded.
func (v *Vertex) Complete(err error) {
	v.done.Do(func() { v.rec.Done(err) })
}

// Cached marks the vertex as satisfied by the cache.
func (v *Vertex) Cached() { v.rec.Cached() }
