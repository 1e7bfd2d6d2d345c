// Package app implements the application layer for chip.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/chip/internal/engine/transpiler"
	"go.trai.ch/zerr"
)

// TransformConfigurer receives the transform command of the loaded workspace.
type TransformConfigurer interface {
	Configure(command []string, dir string)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	store        ports.CacheStore
	registry     ports.RepoRegistry
	transformer  TransformConfigurer
	transpiler   *transpiler.Transpiler
	loop         *transpiler.Loop
	watcher      ports.Watcher
	metrics      ports.Metrics
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	store ports.CacheStore,
	registry ports.RepoRegistry,
	transformer TransformConfigurer,
	tr *transpiler.Transpiler,
	loop *transpiler.Loop,
	watcher ports.Watcher,
	metrics ports.Metrics,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		store:        store,
		registry:     registry,
		transformer:  transformer,
		transpiler:   tr,
		loop:         loop,
		watcher:      watcher,
		metrics:      metrics,
		telemetry:    telemetry,
		logger:       log,
	}
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(enabled bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enabled)
	}
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	ConfigPath string
	// Repos limits the build to these projects; empty means every active project.
	Repos   []string
	Clean   bool
	Verbose bool
}

// Build brings the artifacts of the selected projects up to date once.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	ws, err := a.setup(opts.ConfigPath, opts.Clean)
	if err != nil {
		return err
	}
	defer a.closeTelemetry()
	a.transpiler.SetVerbose(opts.Verbose)

	repos := opts.Repos
	if len(repos) == 0 {
		repos = a.registry.Active()
	}
	for _, repo := range repos {
		if !a.registry.Contains(repo) {
			a.logger.Warn(fmt.Sprintf("%s is not in the active repos list", repo))
		}
	}

	summary, err := a.transpiler.ProcessRepos(ctx, repos)
	a.logger.Info(transpiler.FormatSummary(summary))
	if err != nil {
		return err
	}

	if summary.Failed > 0 {
		a.logger.Info("transform output of failed files is in " + ws.Layout.LogPath())
		return zerr.With(domain.ErrBuildFailed, "failed", summary.Failed)
	}
	return nil
}

// closeTelemetry ends the telemetry session; a build log that could not be written is only a warning.
func (a *App) closeTelemetry() {
	if err := a.telemetry.Close(); err != nil {
		a.logger.Warn(err.Error())
	}
}

// setup loads the workspace and prepares every component for it.
func (a *App) setup(configPath string, clean bool) (domain.Workspace, error) {
	ws, err := a.configLoader.Load(configPath)
	if err != nil {
		return domain.Workspace{}, zerr.Wrap(err, "failed to load configuration")
	}

	a.transformer.Configure(ws.TransformCommand, ws.Layout.Root)
	a.transpiler.Configure(*ws)

	if _, err := a.registry.Load(ws.ActiveRepos); err != nil {
		return domain.Workspace{}, err
	}

	if err := a.store.Open(ws.Layout.CachePath()); err != nil {
		return domain.Workspace{}, err
	}
	if clean {
		a.logger.Info("clearing cache")
		if err := a.store.Clear(); err != nil {
			return domain.Workspace{}, err
		}
	}
	if err := a.telemetry.Open(ws.Layout.LogPath()); err != nil {
		return domain.Workspace{}, err
	}

	return *ws, nil
}

// Clean removes the cache document, the build log, and the output directory.
func (a *App) Clean(_ context.Context, configPath string) error {
	ws, err := a.configLoader.Load(configPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error
	remove := func(path, name string, rm func(string) error) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := rm(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(ws.Layout.CachePath(), "cache document", os.Remove)
	remove(ws.Layout.LogPath(), "build log", os.Remove)
	remove(ws.Layout.OutputPath(), "output directory", os.RemoveAll)

	return errs
}
