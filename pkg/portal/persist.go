package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// SavedSession is what a SessionStore keeps between runs.
type SavedSession struct {
	User     User      `json:"user"`
	Token    string    `json:"token"`
	LastSeen time.Time `json:"last_seen"`
}

// SessionStore persists the current session locally.
// Load returns nil, nil when nothing is saved.
type SessionStore interface {
	Save(SavedSession) error
	Load() (*SavedSession, error)
	Clear() error
}

// FileSessionStore keeps the session as a JSON file readable only by the owner.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (f *FileSessionStore) Save(s SavedSession) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	// Written via rename so Load never sees a partial file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (f *FileSessionStore) Load() (*SavedSession, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s SavedSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("load session %s: %w", f.path, err)
	}
	return &s, nil
}

func (f *FileSessionStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
