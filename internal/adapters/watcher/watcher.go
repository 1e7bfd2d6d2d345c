package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are directory names that are never watched.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify.
type Watcher struct {
	logger    ports.Logger
	fsWatcher *fsnotify.Watcher
	opts      ports.WatchOptions
	root      string
	debouncer *Debouncer
	events    chan ports.WatchEvent
	done      chan struct{}
	closeOnce sync.Once

	// mu guards closed and sends on events.
	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a watcher. No resources are held until Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		events: make(chan ports.WatchEvent, eventChannelBuffer),
		done:   make(chan struct{}),
	}
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string, opts ports.WatchOptions) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}

	if opts.Debounce <= 0 {
		opts.Debounce = domain.DefaultDebounce
	}
	w.fsWatcher = fsWatcher
	w.opts = opts
	w.root = filepath.Clean(root)
	w.debouncer = NewDebouncer(opts.Debounce, w.emit)

	for dir := range w.watchRecursively(w.root) {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	var err error
	if w.fsWatcher != nil {
		err = w.fsWatcher.Close()
	}
	w.shutdown()
	return err
}

// Events returns an iterator of debounced file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) shutdown() {
	w.closeOnce.Do(func() {
		if w.debouncer != nil {
			w.debouncer.Stop()
		}
		close(w.done)

		w.mu.Lock()
		w.closed = true
		close(w.events)
		w.mu.Unlock()
	})
}

// emit forwards a debounced batch to the events channel.
func (w *Watcher) emit(batch []ports.WatchEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, event := range batch {
		if w.closed {
			return
		}
		select {
		case w.events <- event:
		case <-w.done:
			return
		}
	}
}

// watchRecursively walks the directory tree and yields all directories that are not skipped.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != w.root && w.shouldSkip(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) shouldSkip(dir string) bool {
	if skipDirectories[filepath.Base(dir)] {
		return true
	}
	return w.opts.Skip != nil && w.opts.Skip(dir)
}

// processEvents converts raw fsnotify events and feeds them to the debouncer.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			_ = w.fsWatcher.Close()
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			op, ok := convertOp(event.Op)
			if !ok {
				continue
			}
			w.debouncer.Add(event.Name, op)

			if op == ports.OpCreate {
				w.addCreatedDir(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}

// addCreatedDir watches a newly created directory and reports files that appeared in it
// before its watch was registered.
func (w *Watcher) addCreatedDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.shouldSkip(path) {
		return
	}

	for dir := range w.watchRecursively(path) {
		if err := w.fsWatcher.Add(dir); err != nil {
			w.logger.Warn("watcher: cannot watch " + dir + ": " + err.Error())
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				w.debouncer.Add(filepath.Join(dir, entry.Name()), ports.OpCreate)
			}
		}
	}
}

func convertOp(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
