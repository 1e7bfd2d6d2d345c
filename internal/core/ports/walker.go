package ports

import "iter"

// FileWalker enumerates the files beneath a directory.
//
//go:generate mockgen -source=walker.go -destination=mocks/mock_walker.go -package=mocks
type FileWalker interface {
	// WalkFiles yields the absolute paths of regular files beneath dir in lexical order.
	// A missing dir yields nothing.
	WalkFiles(dir string) iter.Seq[string]
}
