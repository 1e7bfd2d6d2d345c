// Package cas implements the persisted transpile cache document.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore using a single indented JSON document.
// Every mutation rewrites the document through a temporary sibling file.
type Store struct {
	logger  ports.Logger
	path    string
	records map[string]domain.CacheRecord
}

// NewStore creates an unopened Store. Open must be called before use.
func NewStore(logger ports.Logger) *Store {
	return &Store{logger: logger}
}

// Open loads the document at path. A missing document starts an empty store;
// an unreadable or corrupt one is reported as a warning and also starts empty.
func (s *Store) Open(path string) error {
	s.path = filepath.Clean(path)
	s.records = make(map[string]domain.CacheRecord)

	//nolint:gosec // Path comes from the workspace layout
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		s.logger.Warn(zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", s.path).Error() +
			"; starting with an empty cache")
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	var records map[string]domain.CacheRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn(zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", s.path).Error() +
			"; starting with an empty cache")
		return nil
	}
	if records != nil {
		s.records = records
	}
	return nil
}

// Get retrieves the record for a workspace-relative path.
func (s *Store) Get(path string) (*domain.CacheRecord, bool) {
	record, ok := s.records[path]
	if !ok {
		return nil, false
	}
	return &record, true
}

// Put stores the record and persists the document.
// If the document cannot be written, the previous record is restored.
func (s *Store) Put(path string, record domain.CacheRecord) error {
	if s.records == nil {
		return domain.ErrStoreNotOpen
	}
	prev, had := s.records[path]
	s.records[path] = record
	if err := s.save(); err != nil {
		s.restore(path, prev, had)
		return err
	}
	return nil
}

// Remove deletes the record and persists the document if it was present.
// If the document cannot be written, the record is kept.
func (s *Store) Remove(path string) error {
	if s.records == nil {
		return domain.ErrStoreNotOpen
	}
	prev, ok := s.records[path]
	if !ok {
		return nil
	}
	delete(s.records, path)
	if err := s.save(); err != nil {
		s.records[path] = prev
		return err
	}
	return nil
}

// Clear drops every record and persists an empty document.
// If the document cannot be written, the records are kept.
func (s *Store) Clear() error {
	if s.records == nil {
		return domain.ErrStoreNotOpen
	}
	prev := maps.Clone(s.records)
	clear(s.records)
	if err := s.save(); err != nil {
		s.records = prev
		return err
	}
	return nil
}

func (s *Store) restore(path string, prev domain.CacheRecord, had bool) {
	if had {
		s.records[path] = prev
		return
	}
	delete(s.records, path)
}

// Paths returns a snapshot of the stored keys in sorted order.
func (s *Store) Paths() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(s.records)))
}

// Flush rewrites the document.
func (s *Store) Flush() error {
	if s.records == nil {
		return domain.ErrStoreNotOpen
	}
	return s.save()
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}
	return nil
}
