package domain

import (
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// PathParts is a workspace-relative path split into the project checkout, the top-level
// directory inside it, and whatever follows.
type PathParts struct {
	Project string
	Subdir  string
	Rest    string
}

// SplitPath decomposes a slash-separated workspace-relative path.
// "repo/js/a/b.ts" yields {repo, js, a/b.ts}; "repo" yields {repo, "", ""}.
func SplitPath(rel string) (PathParts, error) {
	clean := path.Clean(strings.TrimPrefix(rel, "./"))
	if rel == "" || clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return PathParts{}, zerr.With(ErrInvalidPath, "path", rel)
	}

	project, remainder, _ := strings.Cut(clean, "/")
	subdir, rest, _ := strings.Cut(remainder, "/")
	return PathParts{Project: project, Subdir: subdir, Rest: rest}, nil
}

// Inner returns the path below the project directory.
func (p PathParts) Inner() string {
	if p.Rest == "" {
		return p.Subdir
	}
	return p.Subdir + "/" + p.Rest
}

// String returns the workspace-relative path.
func (p PathParts) String() string {
	if p.Subdir == "" {
		return p.Project
	}
	return p.Project + "/" + p.Inner()
}
