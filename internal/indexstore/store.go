// Package indexstore persists FileIndex artifacts as JSON documents in the
// cache directory, one per indexed source file.
package indexstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crosscache-dev/crosscache/internal/fileutil"
	"github.com/crosscache-dev/crosscache/internal/lineindex"
)

// Store reads and writes index artifacts under a single cache directory.
// It is the only component permitted to write the durable index form.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the artifact path for an index key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".index.json")
}

// Load reads a previously saved index. A missing artifact returns (nil, nil)
// so callers can branch on absence without inventing an empty index.
func (s *Store) Load(key string) (*lineindex.FileIndex, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read index %q: %w", key, err)
	}

	var idx lineindex.FileIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse index %q: %w", key, err)
	}
	if idx.Entities == nil {
		idx.Entities = make(map[string]lineindex.Entity)
	}
	return &idx, nil
}

// Save writes the index atomically. A saved index must always re-load into
// an object observably equal to the one that produced it.
func (s *Store) Save(key string, idx *lineindex.FileIndex) error {
	data, err := fileutil.EncodeJSON(idx)
	if err != nil {
		return fmt.Errorf("failed to encode index %q: %w", key, err)
	}
	if err := fileutil.WriteAtomic(s.Path(key), data); err != nil {
		return fmt.Errorf("failed to write index %q: %w", key, err)
	}
	return nil
}
