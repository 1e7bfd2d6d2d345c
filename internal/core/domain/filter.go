package domain

import (
	"path"
	"slices"
	"strings"
)

// Filter decides which workspace paths are eligible for transpilation.
// All methods take slash-separated paths relative to the workspace root and have no side effects,
// so the bulk walk and the watcher share exactly the same rules.
type Filter struct {
	IgnoreContains []string
	IgnoreSuffixes []string
	Extensions     []string
	Subdirs        []string
	ExtraDirs      map[string][]string
	ExtraFiles     map[string][]string
}

// Ignored reports whether rel matches an ignore rule, independent of its extension.
func (f Filter) Ignored(rel string) bool {
	p := "/" + strings.TrimPrefix(rel, "/")
	for _, fragment := range f.IgnoreContains {
		if strings.Contains(p, fragment) {
			return true
		}
	}
	for _, suffix := range f.IgnoreSuffixes {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

// IgnoredDir reports whether the directory rel, and everything beneath it, is ignored.
func (f Filter) IgnoredDir(rel string) bool {
	return f.Ignored(strings.TrimSuffix(rel, "/") + "/")
}

// IsCandidate reports whether rel has a recognized source extension and is not ignored.
func (f Filter) IsCandidate(rel string) bool {
	if !slices.Contains(f.Extensions, path.Ext(rel)) {
		return false
	}
	return !f.Ignored(rel)
}

// Allows reports whether the decomposed path lies in a directory or file processed for its project.
func (f Filter) Allows(p PathParts) bool {
	if p.Subdir == "" {
		return false
	}
	if slices.Contains(f.Subdirs, p.Subdir) || slices.Contains(f.ExtraDirs[p.Project], p.Subdir) {
		return true
	}
	return slices.Contains(f.ExtraFiles[p.Project], p.Inner())
}

// Dirs returns the project-relative directories walked for project, in walk order.
func (f Filter) Dirs(project string) []string {
	dirs := make([]string, 0, len(f.Subdirs)+len(f.ExtraDirs[project]))
	dirs = append(dirs, f.Subdirs...)
	return append(dirs, f.ExtraDirs[project]...)
}

// Files returns the project-relative single files processed for project.
func (f Filter) Files(project string) []string {
	return f.ExtraFiles[project]
}
