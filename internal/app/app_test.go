package app_test

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chip/internal/adapters/cas"
	"go.trai.ch/chip/internal/adapters/fs"
	"go.trai.ch/chip/internal/adapters/metrics"
	"go.trai.ch/chip/internal/adapters/registry"
	"go.trai.ch/chip/internal/adapters/shell"
	"go.trai.ch/chip/internal/adapters/telemetry/progrock"
	"go.trai.ch/chip/internal/app"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/chip/internal/core/ports/mocks"
	"go.trai.ch/chip/internal/engine/transpiler"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root    string
	ws      *domain.Workspace
	loader  *mocks.MockConfigLoader
	watcher *mocks.MockWatcher
	store   *cas.Store
	app     *app.App

	mu   sync.Mutex
	logs []string
	errs []error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{root: t.TempDir()}
	f.ws = &domain.Workspace{
		Layout: domain.Layout{
			Root:            f.root,
			OutputDir:       domain.DefaultOutputDir,
			CacheFile:       domain.DefaultCacheFile,
			LogFile:         domain.DefaultLogFile,
			OutputExtension: domain.DefaultOutputExtension,
			Extensions:      domain.DefaultExtensions(),
		},
		Filter: domain.Filter{
			IgnoreContains: append(domain.DefaultIgnoreContains(), "/"+domain.DefaultCacheFile),
			IgnoreSuffixes: domain.DefaultIgnoreSuffixes(),
			Extensions:     domain.DefaultExtensions(),
			Subdirs:        domain.DefaultSubdirs(),
		},
		ActiveRepos:   filepath.Join(f.root, "perennial-alias", "data", "active-repos"),
		ReloadTrigger: domain.DefaultActiveReposFile,
		Debounce:      domain.DefaultDebounce,
	}

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.logs = append(f.logs, msg)
	}).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.logs = append(f.logs, "WARN "+msg)
	}).AnyTimes()
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.errs = append(f.errs, err)
	}).AnyTimes()

	f.loader = mocks.NewMockConfigLoader(ctrl)
	f.loader.EXPECT().Load(gomock.Any()).Return(f.ws, nil).AnyTimes()
	f.watcher = mocks.NewMockWatcher(ctrl)

	f.store = cas.NewStore(log)
	reg := registry.New(log)
	transformer := shell.NewTransformer(log)
	m := metrics.New()
	telemetry := progrock.NewRecorder(progrock.NewJournal())

	tr := transpiler.New(f.store, transformer, fs.NewFingerprinter(), fs.NewWalker(), reg, telemetry, m, log)
	loop := transpiler.NewLoop(tr, reg, f.watcher, m, log)

	f.app = app.New(f.loader, f.store, reg, transformer, tr, loop, f.watcher, m, telemetry, log)
	return f
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	p := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func (f *fixture) artifact(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(domain.DefaultOutputDir), filepath.FromSlash(rel))
}

func (f *fixture) logged() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.logs...)
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\nother\n")
	f.write(t, "sim/js/Main.ts", "main")
	f.write(t, "other/js/Other.js", "other")

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))
	assert.FileExists(t, f.artifact("sim/js/Main.js"))
	assert.FileExists(t, f.artifact("other/js/Other.js"))
	assert.Contains(t, f.logged(), "2 transpiled, 0 fresh, 0 failed")
}

func TestApp_Build_SelectedRepos(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\nother\n")
	f.write(t, "sim/js/Main.ts", "main")
	f.write(t, "other/js/Other.js", "other")

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{Repos: []string{"sim"}}))
	assert.FileExists(t, f.artifact("sim/js/Main.js"))
	assert.NoFileExists(t, f.artifact("other/js/Other.js"))
}

func TestApp_Build_WarnsInactiveRepo(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{Repos: []string{"ghost"}}))
	assert.Contains(t, f.logged(), "WARN ghost is not in the active repos list")
}

func TestApp_Build_Clean(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	f.write(t, "sim/js/Main.ts", "main")

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))
	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))
	assert.Contains(t, f.logged(), "0 transpiled, 1 fresh, 0 failed")

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{Clean: true}))
	logs := f.logged()
	assert.Equal(t, "1 transpiled, 0 fresh, 0 failed", logs[len(logs)-1])
}

func TestApp_Build_Failure(t *testing.T) {
	f := newFixture(t)
	f.ws.TransformCommand = []string{"false"}
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	f.write(t, "sim/js/Main.ts", "main")

	err := f.app.Build(context.Background(), app.BuildOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrBuildFailed.Error())
	assert.NoFileExists(t, f.artifact("sim/js/Main.js"))
	assert.Contains(t, f.logged(), "transform output of failed files is in "+f.ws.Layout.LogPath())

	transcript, err := os.ReadFile(f.ws.Layout.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(transcript), "failed sim/js/Main.ts")
	assert.Contains(t, string(transcript), "INFO: not cached")
	assert.Contains(t, string(transcript), "error: ")
}

func TestApp_Build_LogCoversLastRunOnly(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	f.write(t, "sim/js/Main.ts", "main")

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))
	transcript, err := os.ReadFile(f.ws.Layout.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(transcript), "transpiled sim/js/Main.ts")

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))
	transcript, err = os.ReadFile(f.ws.Layout.LogPath())
	require.NoError(t, err)
	assert.Empty(t, transcript, "fresh files leave no transcript")
}

func TestApp_Build_MissingActiveRepos(t *testing.T) {
	f := newFixture(t)

	err := f.app.Build(context.Background(), app.BuildOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrActiveReposNotFound.Error())
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	f.write(t, "sim/js/Main.ts", "main")
	added := f.write(t, "sim/js/Added.ts", "added")

	f.watcher.EXPECT().Start(gomock.Any(), f.root, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, opts ports.WatchOptions) error {
			assert.NoFileExists(t, f.artifact("sim/js/Main.js"), "watching starts before the initial pass")
			assert.Equal(t, domain.DefaultDebounce, opts.Debounce)
			assert.True(t, opts.Skip(filepath.Join(f.root, "chipper", "dist")))
			assert.True(t, opts.Skip(filepath.Join(f.root, "sim", "node_modules")))
			assert.False(t, opts.Skip(filepath.Join(f.root, "sim", "js")))
			assert.False(t, opts.Skip(f.root))
			return nil
		})
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		yield(ports.WatchEvent{Path: added, Operation: ports.OpWrite})
	}))
	f.watcher.EXPECT().Stop().Return(nil)

	require.NoError(t, f.app.Watch(context.Background(), app.WatchOptions{}))

	assert.FileExists(t, f.artifact("sim/js/Main.js"))
	assert.FileExists(t, f.artifact("sim/js/Added.js"))
	assert.Contains(t, f.logged(), "watching "+f.root)

	data, err := os.ReadFile(f.ws.Layout.CachePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "sim/js/Main.ts")
}

func TestApp_Watch_CancelledDuringInitialPass(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	f.write(t, "sim/js/Main.ts", "main")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.watcher.EXPECT().Start(gomock.Any(), f.root, gomock.Any()).Return(nil)
	f.watcher.EXPECT().Stop().Return(nil)

	require.NoError(t, f.app.Watch(ctx, app.WatchOptions{}))
	assert.NoFileExists(t, f.artifact("sim/js/Main.js"))
}

func TestApp_Watch_EditDuringInitialPassIsQueued(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	main := f.write(t, "sim/js/Main.ts", "v1")

	f.watcher.EXPECT().Start(gomock.Any(), f.root, gomock.Any()).Return(nil)
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		// The edit landed after the initial pass had already read v1.
		data, err := os.ReadFile(f.artifact("sim/js/Main.js"))
		if assert.NoError(t, err) {
			assert.Equal(t, "v1", string(data))
		}
		assert.NoError(t, os.WriteFile(main, []byte("v2"), 0o600))
		yield(ports.WatchEvent{Path: main, Operation: ports.OpWrite})
	}))
	f.watcher.EXPECT().Stop().Return(nil)

	require.NoError(t, f.app.Watch(context.Background(), app.WatchOptions{}))

	data, err := os.ReadFile(f.artifact("sim/js/Main.js"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	f.write(t, "sim/js/Main.ts", "main")
	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))
	require.FileExists(t, f.ws.Layout.CachePath())

	require.FileExists(t, f.ws.Layout.LogPath())

	require.NoError(t, f.app.Clean(context.Background(), ""))
	assert.NoFileExists(t, f.ws.Layout.CachePath())
	assert.NoFileExists(t, f.ws.Layout.LogPath())
	assert.NoDirExists(t, f.ws.Layout.OutputPath())

	// Cleaning twice is fine.
	require.NoError(t, f.app.Clean(context.Background(), ""))
}
