package domain

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

const (
	// ConfigFileName is the name of the workspace configuration file.
	ConfigFileName = "chip.yaml"

	// DefaultRoot is the workspace root used when no config file is present.
	// Projects are checked out side by side, so the tool runs from inside one of them.
	DefaultRoot = ".."

	// DefaultOutputDir is the artifact root, relative to the workspace root.
	DefaultOutputDir = "chipper/dist/js"

	// DefaultCacheFile is the persisted cache document, relative to the workspace root.
	// It lives next to the artifacts so wiping the dist directory also wipes the cache.
	DefaultCacheFile = "chipper/dist/js-cache-status.json"

	// DefaultLogFile holds the transcripts of the files processed by the last run, relative to the workspace root.
	DefaultLogFile = "chipper/dist/js-build-log.txt"

	// DefaultActiveReposFile is the active project list, relative to the workspace root.
	DefaultActiveReposFile = "perennial-alias/data/active-repos"

	// DefaultOutputExtension is the suffix every artifact is written with.
	DefaultOutputExtension = ".js"

	// DefaultDebounce is the quiet period after which a burst of events for one path is handled.
	DefaultDebounce = 50 * time.Millisecond

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultSubdirs returns the top-level directories of a project that may hold sources.
func DefaultSubdirs() []string {
	return []string{"js", "images", "mipmaps", "sounds"}
}

// DefaultExtensions returns the recognized source extensions.
func DefaultExtensions() []string {
	return []string{".js", ".ts"}
}

// DefaultExtraDirs returns the per-project directories processed in addition to the subdirs.
func DefaultExtraDirs() map[string][]string {
	return map[string][]string{
		"brand": {"phet", "phet-io", "adapted-from-phet", "aki"},
	}
}

// DefaultExtraFiles returns the per-project single files processed in addition to the subdirs.
func DefaultExtraFiles() map[string][]string {
	return map[string][]string{
		// Loaded as a module rather than a preload.
		"sherpa": {"lib/game-up-camera-1.0.0.js"},
	}
}

// DefaultIgnoreContains returns the path fragments that always exclude a path.
func DefaultIgnoreContains() []string {
	return []string{"/node_modules/", "/.git/", "/chipper/dist/"}
}

// DefaultIgnoreSuffixes returns the path suffixes that always exclude a path.
func DefaultIgnoreSuffixes() []string {
	return []string{"~"}
}

// Layout maps source paths inside the workspace to artifact paths under the output root.
type Layout struct {
	// Root is the absolute, cleaned workspace root.
	Root string
	// OutputDir is the artifact root in slash form, relative to Root.
	OutputDir string
	// CacheFile is the cache document in slash form, relative to Root.
	CacheFile string
	// LogFile is the build log in slash form, relative to Root.
	LogFile string
	// OutputExtension replaces any recognized source extension.
	OutputExtension string
	// Extensions lists the recognized source extensions.
	Extensions []string
}

// Rel returns the slash-separated path of p relative to the workspace root.
// Relative inputs are interpreted against the root.
func (l Layout) Rel(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(l.Root, p)
	}
	rel, err := filepath.Rel(l.Root, filepath.Clean(p))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, ErrPathOutsideRoot.Error()), "path", p)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", zerr.With(ErrPathOutsideRoot, "path", p)
	}
	return rel, nil
}

// Abs returns the absolute path for a slash-separated workspace-relative path.
func (l Layout) Abs(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// OutputPath returns the absolute artifact root.
func (l Layout) OutputPath() string {
	return l.Abs(l.OutputDir)
}

// CachePath returns the absolute location of the cache document.
func (l Layout) CachePath() string {
	return l.Abs(l.CacheFile)
}

// LogPath returns the absolute location of the build log.
func (l Layout) LogPath() string {
	return l.Abs(l.LogFile)
}

// TargetPath returns the artifact path for the source at p.
// The workspace-relative structure is mirrored under the output root and a recognized
// source extension is replaced by the output extension.
func (l Layout) TargetPath(p string) (string, error) {
	rel, err := l.Rel(p)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", zerr.With(ErrInvalidPath, "path", p)
	}

	target := filepath.Join(l.OutputPath(), filepath.FromSlash(rel))
	if ext := filepath.Ext(target); slices.Contains(l.Extensions, ext) {
		target = strings.TrimSuffix(target, ext) + l.OutputExtension
	}
	return target, nil
}

// Siblings returns the other source paths that would share p's artifact.
func (l Layout) Siblings(p string) []string {
	ext := filepath.Ext(p)
	if !slices.Contains(l.Extensions, ext) {
		return nil
	}
	stem := strings.TrimSuffix(p, ext)

	var out []string
	for _, other := range l.Extensions {
		if other != ext {
			out = append(out, stem+other)
		}
	}
	return out
}
