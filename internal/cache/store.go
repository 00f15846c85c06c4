// Package cache keeps the local store of tracks seen in search results.
//
// The store is a single JSON array of model.CacheRecord, pretty-printed
// with sorted keys. It only grows: records are appended by searches and
// never changed afterwards. Downloads read it to name files.
//
//	store := cache.NewStore("tracks.json")
//	added, err := store.AppendNew(results.Records())
//	rec, err := store.FindByID(1001) // nil when unknown
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	ioutils "github.com/ZephyrCodesStuff/slavart/internal/io"
	"github.com/ZephyrCodesStuff/slavart/internal/model"
)

// DefaultPath is the store location used when none is configured.
const DefaultPath = "tracks.json"

// ErrMalformed is wrapped by Load when the store exists but is not a JSON
// array of records.
var ErrMalformed = errors.New("malformed track cache")

// Store is the on-disk track cache.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path. The file is not
// touched until the first Load or AppendNew.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load returns every stored record, in file order.
//
// A store that does not exist yet or is blank holds no records. Anything
// else that fails to parse is an error wrapping ErrMalformed.
func (s *Store) Load() ([]model.CacheRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &ioutils.FileError{Op: "read", Path: s.path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []model.CacheRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformed, s.path, err)
	}

	return records, nil
}

// AppendNew adds the records whose id is not stored yet and returns how
// many were added.
//
// Stored records are never replaced. When records repeats an id, the
// first occurrence wins. New records follow the existing ones in the order
// given. The file is rewritten atomically, and only when something was
// added, so applying the same records twice leaves it untouched.
func (s *Store) AppendNew(records []model.CacheRecord) (int, error) {
	existing, err := s.Load()
	if err != nil {
		return 0, err
	}

	seen := make(map[int]struct{}, len(existing)+len(records))
	for _, rec := range existing {
		seen[rec.ID] = struct{}{}
	}

	merged := existing
	added := 0
	for _, rec := range records {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		merged = append(merged, rec)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	if err := s.write(merged); err != nil {
		return 0, err
	}

	return added, nil
}

// FindByID returns the first record with the given id, or nil when there is none.
func (s *Store) FindByID(id int) (*model.CacheRecord, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}

	return nil, nil
}

func (s *Store) write(records []model.CacheRecord) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode track cache: %w", err)
	}
	data = append(data, '\n')

	return ioutils.WriteFileAtomic(s.path, data, 0644)
}
