// Package fs provides a filesystem-backed credential store: the single
// record as a JSON file, replaced atomically on every write.
package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/driveway/driveway/credentials"
)

// Store keeps the credential record in one JSON file. Writes go to a temp
// file in the same directory followed by a rename, so a reader never sees a
// torn record. The mutex serializes this store's own read/write pair.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store persisting to the given path. The file need not exist
// yet; parent directories are created on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Read returns the stored record, or (nil, nil) when the file is missing or
// its contents are unparseable - both degrade to "must re-authorize" rather
// than failing.
func (s *Store) Read() (*credentials.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var rec credentials.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil
	}
	return &rec, nil
}

// Write atomically replaces the stored record.
func (s *Store) Write(rec *credentials.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize credential: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write credential: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set credential file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}

// Path returns the path of the credential file.
func (s *Store) Path() string {
	return s.path
}
