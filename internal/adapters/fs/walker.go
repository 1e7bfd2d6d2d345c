// Package fs provides file system adapters for walking and fingerprinting files.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.trai.ch/chip/internal/core/ports"
)

var _ ports.FileWalker = (*Walker)(nil)

// skipDirectories are never descended into.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the regular files beneath root in lexical order.
// Version control and dependency directories are pruned, unreadable entries are skipped,
// and a missing root yields nothing. Symlinks are yielded when they resolve to a regular file.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil //nolint:nilerr // unreadable entries are skipped
			}

			if d.IsDir() {
				if path != root && skipDirectories[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}

			if !isRegular(path, d) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
