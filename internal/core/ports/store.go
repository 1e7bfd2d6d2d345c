package ports

import (
	"iter"

	"go.trai.ch/chip/internal/core/domain"
)

// CacheStore defines the persisted mapping from source path to its last transform record.
// Implementations are owned by a single consumer and are not safe for concurrent use.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Open loads the document at path. A missing or corrupt document yields an empty store.
	Open(path string) error

	// Get retrieves the record for a workspace-relative path.
	Get(path string) (*domain.CacheRecord, bool)

	// Put stores the record and persists the document.
	Put(path string, record domain.CacheRecord) error

	// Remove deletes the record and persists the document if it was present.
	Remove(path string) error

	// Clear drops every record and persists an empty document.
	Clear() error

	// Paths returns a snapshot of the stored keys in sorted order.
	Paths() iter.Seq[string]

	// Flush rewrites the document.
	Flush() error
}
