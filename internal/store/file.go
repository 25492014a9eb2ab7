package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the credential in a single file on disk. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// truncated credential behind.
type FileStore struct {
	path string
}

// NewFileStore builds a store around the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save overwrites the stored credential.
func (s *FileStore) Save(_ context.Context, credential string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(credential); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write credential: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close credential: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace credential: %w", err)
	}
	return nil
}

// Load returns the stored credential, or ok=false when none exists.
func (s *FileStore) Load(_ context.Context) (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	return string(data), true, nil
}

// Clear removes the stored credential; clearing an empty store is a no-op.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}
