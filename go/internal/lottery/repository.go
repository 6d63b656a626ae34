package lottery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Repository persists the participant list as a JSON array of usernames.
// Each save replaces the whole file.
type Repository struct {
	path string
}

// NewRepository creates a snapshot repository backed by the file at path
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Path returns the snapshot file location
func (r *Repository) Path() string {
	return r.path
}

// Load reads the saved usernames. A missing file is not an error and reports found=false.
func (r *Repository) Load() (usernames []string, found bool, err error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &usernames); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot %s: %w", r.path, err)
	}
	return usernames, true, nil
}

// Save writes the usernames to a temp file next to the snapshot and renames it into place,
// so a crash mid-write leaves the previous snapshot intact.
func (r *Repository) Save(usernames []string) error {
	if usernames == nil {
		usernames = []string{}
	}
	data, err := json.Marshal(usernames)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to chmod snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	committed = true
	return nil
}
