package transpiler_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/chip/internal/adapters/cas"
	"go.trai.ch/chip/internal/adapters/fs"
	"go.trai.ch/chip/internal/adapters/metrics"
	"go.trai.ch/chip/internal/adapters/registry"
	"go.trai.ch/chip/internal/adapters/telemetry/progrock"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports/mocks"
	"go.trai.ch/chip/internal/engine/transpiler"
	"go.uber.org/mock/gomock"
)

// upperTransformer records every call and returns the source in upper case.
type upperTransformer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (u *upperTransformer) Transform(_ context.Context, filename, source string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, filename)
	if u.err != nil {
		return "", u.err
	}
	return strings.ToUpper(source), nil
}

func (u *upperTransformer) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type harness struct {
	t         *testing.T
	root      string
	ws        domain.Workspace
	store     *cas.Store
	registry  *registry.Registry
	transform *upperTransformer
	logger    *mocks.MockLogger
	metrics   *metrics.Collector
	tr        *transpiler.Transpiler

	mu   sync.Mutex
	logs []string
	errs []error
}

func testWorkspace(root string) domain.Workspace {
	return domain.Workspace{
		Layout: domain.Layout{
			Root:            root,
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
			ExtraDirs:      domain.DefaultExtraDirs(),
			ExtraFiles:     domain.DefaultExtraFiles(),
		},
		ActiveRepos:   filepath.Join(root, filepath.FromSlash(domain.DefaultActiveReposFile)),
		ReloadTrigger: domain.DefaultActiveReposFile,
	}
}

// newHarness builds a transpiler over a temporary workspace with the given active projects.
func newHarness(t *testing.T, repos ...string) *harness {
	t.Helper()

	h := &harness{t: t, root: t.TempDir(), transform: &upperTransformer{}}
	h.ws = testWorkspace(h.root)
	h.writeActive(repos...)

	ctrl := gomock.NewController(t)
	h.logger = mocks.NewMockLogger(ctrl)
	h.logger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.logs = append(h.logs, msg)
	}).AnyTimes()
	h.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	h.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.errs = append(h.errs, err)
	}).AnyTimes()

	h.registry = registry.New(h.logger)
	_, err := h.registry.Load(h.ws.ActiveRepos)
	require.NoError(t, err)

	h.metrics = metrics.New()
	h.open()
	return h
}

// open (re)creates the store and transpiler, as a fresh process would.
func (h *harness) open() {
	h.t.Helper()

	h.store = cas.NewStore(h.logger)
	require.NoError(h.t, h.store.Open(h.ws.Layout.CachePath()))

	h.tr = transpiler.New(
		h.store,
		h.transform,
		fs.NewFingerprinter(),
		fs.NewWalker(),
		h.registry,
		progrock.NewRecorder(progrock.NewJournal()),
		h.metrics,
		h.logger,
	)
	h.tr.Configure(h.ws)
}

func (h *harness) abs(rel string) string {
	return filepath.Join(h.root, filepath.FromSlash(rel))
}

func (h *harness) artifact(rel string) string {
	return filepath.Join(h.root, filepath.FromSlash(domain.DefaultOutputDir), filepath.FromSlash(rel))
}

func (h *harness) write(rel, content string) string {
	h.t.Helper()
	p := h.abs(rel)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(h.t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func (h *harness) writeActive(repos ...string) {
	h.t.Helper()
	h.write(domain.DefaultActiveReposFile, strings.Join(repos, "\n")+"\n")
}

func (h *harness) read(p string) string {
	h.t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(h.t, err)
	return string(data)
}

func (h *harness) logged() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.logs...)
}

func (h *harness) loggedErrors() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.errs...)
}
