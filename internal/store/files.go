package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// holeritesSubdir is the directory under the upload root (and the recorded
// relative path) where attachment files live.
const holeritesSubdir = "holerites"

// FileStore writes attachment payloads under a fixed upload directory.
// Derived filenames are deterministic, so overwriting an existing file on
// retry is safe.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at the given upload directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Write stores the payload as <root>/holerites/<name> and returns the
// relative path recorded on the owning record
// (/uploads/holerites/<name>). A filesystem failure affects only this
// attachment, never the whole run.
func (f *FileStore) Write(name string, data []byte) (string, error) {
	dir := filepath.Join(f.root, holeritesSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing attachment %s: %w", name, err)
	}

	return "/uploads/" + holeritesSubdir + "/" + name, nil
}
