// Package transpiler decides which sources are stale and turns them into artifacts.
package transpiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/zerr"
)

// logTimeFormat is the wall-clock prefix of a transpile log line.
const logTimeFormat = "15:04:05"

// Transpiler processes source files of a workspace against the cache store.
// It is driven by a single goroutine and is not safe for concurrent use.
type Transpiler struct {
	store         ports.CacheStore
	transformer   ports.Transformer
	fingerprinter ports.Fingerprinter
	walker        ports.FileWalker
	registry      ports.RepoRegistry
	telemetry     ports.Telemetry
	metrics       ports.Metrics
	logger        ports.Logger

	ws      domain.Workspace
	verbose bool
	now     func() time.Time
}

// New creates a Transpiler. Configure must be called before any file is processed.
func New(
	store ports.CacheStore,
	transformer ports.Transformer,
	fingerprinter ports.Fingerprinter,
	walker ports.FileWalker,
	registry ports.RepoRegistry,
	telemetry ports.Telemetry,
	metrics ports.Metrics,
	logger ports.Logger,
) *Transpiler {
	return &Transpiler{
		store:         store,
		transformer:   transformer,
		fingerprinter: fingerprinter,
		walker:        walker,
		registry:      registry,
		telemetry:     telemetry,
		metrics:       metrics,
		logger:        logger,
		now:           time.Now,
	}
}

// Configure sets the workspace the transpiler operates on.
func (t *Transpiler) Configure(ws domain.Workspace) {
	t.ws = ws
}

// SetVerbose enables a log line for every fresh file.
func (t *Transpiler) SetVerbose(verbose bool) {
	t.verbose = verbose
}

// Workspace returns the configured workspace.
func (t *Transpiler) Workspace() domain.Workspace {
	return t.ws
}

// Process brings the artifact of the source at path up to date.
// Paths that are not eligible are skipped without error. A source that disappeared
// before it could be read is handled as a deletion.
func (t *Transpiler) Process(ctx context.Context, path string) (domain.Outcome, error) {
	start := t.now()

	rel, ok := t.eligible(path)
	if !ok {
		return domain.OutcomeSkipped, nil
	}
	abs := t.ws.Layout.Abs(rel)

	source, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return t.Delete(ctx, abs)
	}
	if err != nil {
		return t.fail(start, domain.StaleNone, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", rel))
	}

	target, err := t.ws.Layout.TargetPath(abs)
	if err != nil {
		return t.fail(start, domain.StaleNone, err)
	}

	fingerprint := t.fingerprinter.Fingerprint(source)
	exists, mtime := statTarget(target)
	record, _ := t.store.Get(rel)
	reason := domain.Staleness(record, fingerprint, exists, mtime)

	ctx, vertex := t.telemetry.Record(ctx, rel)

	if reason == domain.StaleNone {
		vertex.Cached()
		vertex.Complete(nil)
		if t.verbose {
			t.logger.Info(rel + " (fresh)")
		}
		t.metrics.ObserveFile(domain.OutcomeFresh, reason, t.now().Sub(start))
		return domain.OutcomeFresh, nil
	}

	vertex.Log(domain.LogLevelInfo, string(reason))
	err = t.transpile(ctx, abs, rel, target, source, fingerprint)
	vertex.Complete(err)
	if err != nil {
		return t.fail(start, reason, err)
	}

	elapsed := t.now().Sub(start)
	t.logger.Info(fmt.Sprintf("%s, %d ms: %s (%s)", start.Format(logTimeFormat), elapsed.Milliseconds(), rel, reason))
	t.metrics.ObserveFile(domain.OutcomeTranspiled, reason, elapsed)
	return domain.OutcomeTranspiled, nil
}

// eligible returns the workspace-relative path when path passes the filter.
func (t *Transpiler) eligible(path string) (string, bool) {
	rel, err := t.ws.Layout.Rel(path)
	if err != nil || !t.ws.Filter.IsCandidate(rel) {
		return "", false
	}
	parts, err := domain.SplitPath(rel)
	if err != nil || !t.ws.Filter.Allows(parts) {
		return "", false
	}
	return parts.String(), true
}

func (t *Transpiler) transpile(ctx context.Context, abs, rel, target string, source []byte, fingerprint string) error {
	for _, sibling := range t.ws.Layout.Siblings(abs) {
		if info, err := os.Stat(sibling); err == nil && info.Mode().IsRegular() {
			return zerr.With(zerr.With(domain.ErrTargetCollision, "path", rel), "sibling", filepath.Base(sibling))
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCreateFailed.Error()), "target", target)
	}

	out, err := t.transformer.Transform(ctx, abs, string(source))
	if err != nil {
		return zerr.With(err, "path", rel)
	}

	if err := os.WriteFile(target, []byte(out), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "target", target)
	}

	info, err := os.Stat(target)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputStatFailed.Error()), "target", target)
	}

	return t.store.Put(rel, domain.CacheRecord{
		SourceFingerprint: fingerprint,
		OutputTimestamp:   info.ModTime().UnixNano(),
	})
}

func (t *Transpiler) fail(start time.Time, reason domain.StaleReason, err error) (domain.Outcome, error) {
	t.metrics.ObserveFile(domain.OutcomeFailed, reason, t.now().Sub(start))
	return domain.OutcomeFailed, err
}

// statTarget reports whether the artifact exists as a regular file and its mtime.
func statTarget(target string) (bool, int64) {
	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return false, 0
	}
	return true, info.ModTime().UnixNano()
}
