package transpiler

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
)

// Loop feeds watcher events into the transpiler, one at a time.
type Loop struct {
	transpiler *Transpiler
	registry   ports.RepoRegistry
	watcher    ports.Watcher
	metrics    ports.Metrics
	logger     ports.Logger
}

// NewLoop creates a Loop consuming the events of watcher.
func NewLoop(
	transpiler *Transpiler,
	registry ports.RepoRegistry,
	watcher ports.Watcher,
	metrics ports.Metrics,
	logger ports.Logger,
) *Loop {
	return &Loop{
		transpiler: transpiler,
		registry:   registry,
		watcher:    watcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run handles events until the watcher's stream ends or ctx is cancelled.
// The event in flight is always handled to completion.
func (l *Loop) Run(ctx context.Context) error {
	for event := range l.watcher.Events() {
		if ctx.Err() != nil {
			break
		}
		l.Handle(ctx, event)
	}
	return nil
}

// Handle classifies one event and acts on it. Errors are logged, never returned,
// so a failing file cannot stop the watch session.
func (l *Loop) Handle(ctx context.Context, event ports.WatchEvent) domain.Outcome {
	ws := l.transpiler.Workspace()

	info, err := os.Lstat(event.Path)
	if errors.Is(err, fs.ErrNotExist) {
		outcome, err := l.transpiler.Delete(ctx, event.Path)
		if err != nil {
			l.logger.Error(err)
		}
		return outcome
	}
	if err != nil {
		return domain.OutcomeSkipped
	}

	rel, err := ws.Layout.Rel(event.Path)
	if err != nil {
		return domain.OutcomeSkipped
	}

	if rel == ws.ReloadTrigger {
		l.reload(ctx)
		return domain.OutcomeSkipped
	}

	parts, err := domain.SplitPath(rel)
	if err != nil || !l.registry.Contains(parts.Project) || !ws.Filter.Allows(parts) {
		return domain.OutcomeSkipped
	}
	// Symlinks are resolved by Process.
	if !info.Mode().IsRegular() && info.Mode()&fs.ModeSymlink == 0 {
		return domain.OutcomeSkipped
	}

	outcome, err := l.transpiler.Process(ctx, event.Path)
	if err != nil {
		l.logger.Error(err)
	}
	return outcome
}

// reload re-reads the active project list and walks every newly added project.
func (l *Loop) reload(ctx context.Context) {
	added, _, err := l.registry.Reload()
	if err != nil {
		l.logger.Error(err)
		return
	}
	if len(added) == 0 {
		return
	}

	l.metrics.RegistryReloaded(len(added))
	l.logger.Info("new repos: " + strings.Join(added, ", "))

	summary, err := l.transpiler.ProcessRepos(ctx, added)
	if err != nil {
		l.logger.Error(err)
		return
	}
	logSummary(l.logger, summary)
}
