package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the token in <dir>/token with user-only permissions
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store rooted at dir. The directory is created on first Set.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, TokenKey)}
}

// Path returns the token file location
func (s *FileStore) Path() string {
	return s.path
}

// Get reads the token file. Read errors are logged and reported as no token.
func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read token file", "path", s.path, "error", err)
		}
		return "", false
	}

	// the token is opaque: returned byte-for-byte, only an empty file means none
	return string(data), len(data) > 0
}

// Set writes the token file
func (s *FileStore) Set(token string) error {
	if token == "" {
		return errEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	// 0600: user read/write only
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Remove deletes the token file
func (s *FileStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// Has reports whether a token is stored
func (s *FileStore) Has() bool {
	_, ok := s.Get()
	return ok
}
