// Package registry tracks the active projects of a workspace.
package registry

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RepoRegistry = (*Registry)(nil)

// Registry implements ports.RepoRegistry backed by a newline-delimited list file.
// Projects only ever join the active set; a project dropped from the list stays active.
type Registry struct {
	logger ports.Logger
	path   string
	loaded bool
	digest uint64
	active []string
	set    map[string]struct{}
}

// New creates an empty Registry. Load must be called before Reload.
func New(logger ports.Logger) *Registry {
	return &Registry{
		logger: logger,
		set:    make(map[string]struct{}),
	}
}

// Load reads the list at path and replaces the active set with it.
func (r *Registry) Load(path string) ([]string, error) {
	data, err := readList(path)
	if err != nil {
		return nil, err
	}

	r.path = path
	r.loaded = true
	r.digest = xxhash.Sum64(data)
	r.active = nil
	clear(r.set)
	r.add(parseList(data))

	return r.Active(), nil
}

// Reload re-reads the list and activates projects that were not active before.
// An unchanged list returns no additions without being parsed. A missing list is
// reported as a warning and the current set is kept.
func (r *Registry) Reload() (added, all []string, err error) {
	if !r.loaded {
		return nil, nil, domain.ErrRegistryNotLoaded
	}

	data, err := readList(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn(fmt.Sprintf("active repos list %s disappeared; keeping %d active projects", r.path, len(r.active)))
			return nil, r.Active(), nil
		}
		return nil, r.Active(), err
	}

	sum := xxhash.Sum64(data)
	if sum == r.digest {
		return nil, r.Active(), nil
	}
	r.digest = sum

	names := parseList(data)
	added = r.add(names)

	if dropped := r.missingFrom(names); len(dropped) > 0 {
		r.logger.Warn("projects removed from the active list stay active until restart: " + strings.Join(dropped, ", "))
	}

	return added, r.Active(), nil
}

// Active returns a copy of the active projects in order.
func (r *Registry) Active() []string {
	return slices.Clone(r.active)
}

// Contains reports whether name is an active project.
func (r *Registry) Contains(name string) bool {
	_, ok := r.set[name]
	return ok
}

func (r *Registry) add(names []string) []string {
	var added []string
	for _, name := range names {
		if _, ok := r.set[name]; ok {
			continue
		}
		r.set[name] = struct{}{}
		r.active = append(r.active, name)
		added = append(added, name)
	}
	return added
}

func (r *Registry) missingFrom(names []string) []string {
	var missing []string
	for _, name := range r.active {
		if !slices.Contains(names, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// readList reads the list file. The returned error wraps fs.ErrNotExist for a missing file.
func readList(path string) ([]byte, error) {
	//nolint:gosec // Path comes from the workspace configuration
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrActiveReposNotFound.Error()), "path", path)
	}
	return nil, zerr.With(zerr.Wrap(err, domain.ErrActiveReposReadFailed.Error()), "path", path)
}

// parseList returns the distinct non-blank trimmed lines of data in order.
func parseList(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}
