package progrock

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxTranscript caps the output kept for one running vertex.
const maxTranscript = 64 << 10

// JournalStats counts finished vertices.
type JournalStats struct {
	Completed int
	Cached    int
	Failed    int
	Running   int
}

// Journal is a progrock.Writer that keeps only the vertices still running.
// Finished vertices are counted and forgotten so long watch sessions stay bounded.
// When a sink is attached, every finished vertex that was not a cache hit is written
// to it as a transcript: a status line followed by the vertex output and error.
type Journal struct {
	mu      sync.Mutex
	running map[string]*entry
	stats   JournalStats
	closed  bool

	sink     io.Writer
	file     *os.File
	writeErr error
}

type entry struct {
	name      string
	output    bytes.Buffer
	truncated bool
}

// NewJournal creates an empty Journal without a sink.
func NewJournal() *Journal {
	return &Journal{running: make(map[string]*entry)}
}

// NewJournalTo creates a Journal writing transcripts to w.
func NewJournalTo(w io.Writer) *Journal {
	j := NewJournal()
	j.sink = w
	return j
}

// Open truncates or creates the file at path and writes subsequent transcripts to it.
// A previously opened file is closed first, and a closed Journal accepts updates again.
func (j *Journal) Open(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBuildLogOpenFailed.Error()), "path", path)
	}
	//nolint:gosec // path comes from the workspace configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBuildLogOpenFailed.Error()), "path", path)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file != nil {
		_ = j.file.Close()
	}
	j.file = f
	j.sink = f
	j.writeErr = nil
	j.closed = false
	return nil
}

// WriteStatus applies a status update.
func (j *Journal) WriteStatus(update *progrock.StatusUpdate) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}

	for _, log := range update.Logs {
		e, ok := j.running[log.Vertex]
		if !ok || e.truncated {
			continue
		}
		room := maxTranscript - e.output.Len()
		if len(log.Data) > room {
			e.output.Write(log.Data[:room])
			e.truncated = true
			continue
		}
		e.output.Write(log.Data)
	}

	for _, v := range update.Vertexes {
		e, ok := j.running[v.Id]
		if v.Completed == nil {
			if !ok {
				j.running[v.Id] = &entry{name: v.Name}
			}
			continue
		}
		if !ok {
			continue
		}
		delete(j.running, v.Id)

		j.stats.Completed++
		if v.Cached {
			j.stats.Cached++
		}
		if v.Error != nil {
			j.stats.Failed++
		}
		if j.sink != nil && !v.Cached {
			j.transcribe(v, e)
		}
	}
	return nil
}

// transcribe must be called with mu held. The first write error is kept for Close.
func (j *Journal) transcribe(v *progrock.Vertex, e *entry) {
	status := "transpiled"
	if v.Error != nil {
		status = "failed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", v.Completed.AsTime().Local().Format("15:04:05"), status, e.name)
	for line := range strings.Lines(e.output.String()) {
		b.WriteString("    ")
		b.WriteString(strings.TrimSuffix(line, "\n"))
		b.WriteByte('\n')
	}
	if e.truncated {
		b.WriteString("    ... output truncated\n")
	}
	if v.Error != nil {
		b.WriteString("    error: ")
		b.WriteString(*v.Error)
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(j.sink, b.String()); err != nil && j.writeErr == nil {
		j.writeErr = zerr.Wrap(err, domain.ErrBuildLogWriteFailed.Error())
	}
}

// Close stops accepting updates and closes the opened file.
// It reports the first transcript that could not be written.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.closed = true
	clear(j.running)

	err := j.writeErr
	j.writeErr = nil
	if j.file != nil {
		if closeErr := j.file.Close(); closeErr != nil {
			err = errors.Join(err, zerr.Wrap(closeErr, domain.ErrBuildLogWriteFailed.Error()))
		}
		j.file = nil
		j.sink = nil
	}
	return err
}

// Stats returns the current counters.
func (j *Journal) Stats() JournalStats {
	j.mu.Lock()
	defer j.mu.Unlock()

	stats := j.stats
	stats.Running = len(j.running)
	return stats
}
