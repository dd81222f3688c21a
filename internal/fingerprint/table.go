// Package fingerprint tracks content digests of source artifacts so the
// engine can skip re-indexing files that have not changed since the last run.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/crosscache-dev/crosscache/internal/fileutil"
)

const HashesFile = "hashes.json"

// Table maps a logical file key to its last-seen SHA-256 digest. It is an
// explicit object owned by one engine instance: loaded at run start, mutated
// in memory while files are (re)indexed, and flushed to disk exactly once at
// the end of a full run. A run interrupted before Flush loses only that
// run's in-memory updates; the prior persisted table stays valid.
type Table struct {
	mu      sync.Mutex
	path    string
	digests map[string]string
	dirty   bool
}

type tableFile struct {
	UpdatedAt time.Time         `json:"updated_at"`
	Digests   map[string]string `json:"digests"`
}

// NewTable returns an empty table that will persist to path. Used when a
// persisted table exists but cannot be trusted.
func NewTable(path string) *Table {
	return &Table{path: path, digests: make(map[string]string), dirty: true}
}

// Load reads the fingerprint table at path. A missing file yields a fresh
// empty table; a corrupt one is an error so callers can decide whether to
// discard it.
func Load(path string) (*Table, error) {
	t := &Table{path: path, digests: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("failed to read fingerprint table: %w", err)
	}

	var file tableFile
	if err := json.Unmarshal(data, &file); err == nil && file.Digests != nil {
		t.digests = file.Digests
		return t, nil
	}

	// Legacy layout: a bare key -> digest object.
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("failed to parse fingerprint table: %w", err)
	}
	t.digests = flat
	return t, nil
}

// ShouldReindex reports whether the file behind fileKey changed since the
// digest stored for that key. A changed or unknown digest is staged in
// memory and true is returned. A missing file is a diagnostic, not an error:
// it reports false so callers treat it as "nothing to index".
func (t *Table) ShouldReindex(fileKey, filePath string) bool {
	if _, err := os.Stat(filePath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: source file not found: %s\n", filePath)
		return false
	}

	current, err := fileutil.HashFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to hash %s: %v\n", filePath, err)
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.digests[fileKey] == current {
		return false
	}
	t.digests[fileKey] = current
	t.dirty = true
	return true
}

// Forget drops the staged digest for fileKey so the next run re-evaluates
// the file as changed. Callers use this when the work gated behind a
// reported change could not be completed; committing the new digest anyway
// would make the next run reuse a stale index.
func (t *Table) Forget(fileKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.digests[fileKey]; ok {
		delete(t.digests, fileKey)
		t.dirty = true
	}
}

// Digest returns the staged digest for fileKey.
func (t *Table) Digest(fileKey string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.digests[fileKey]
	return d, ok
}

// WouldReindex compares without mutating the table, for status reporting.
func (t *Table) WouldReindex(fileKey, filePath string) bool {
	if _, err := os.Stat(filePath); err != nil {
		return false
	}
	current, err := fileutil.HashFile(filePath)
	if err != nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.digests[fileKey] != current
}

// Flush persists the table. Call exactly once per run, strictly after all
// extraction work has completed.
func (t *Table) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.dirty {
		if _, err := os.Stat(t.path); err == nil {
			return nil
		}
	}

	data, err := fileutil.EncodeJSON(tableFile{
		UpdatedAt: time.Now().UTC(),
		Digests:   t.digests,
	})
	if err != nil {
		return fmt.Errorf("failed to encode fingerprint table: %w", err)
	}
	if err := fileutil.WriteAtomic(t.path, data); err != nil {
		return fmt.Errorf("failed to write fingerprint table: %w", err)
	}
	t.dirty = false
	return nil
}
