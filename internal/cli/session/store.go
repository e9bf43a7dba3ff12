// Package session persists the bearer token between runs.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lvyanru/actctl/internal/config"
)

// TokenKey is the stable name the token is stored under
const TokenKey = "token"

var errEmptyToken = errors.New("token must not be empty")

// Store holds at most one bearer token.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the stored token and whether one exists
	Get() (string, bool)
	// Set replaces the stored token
	Set(token string) error
	// Remove deletes the stored token; removing a missing token is not an error
	Remove() error
	// Has reports whether a token is stored
	Has() bool
}

// Open creates the store selected by cfg.Backend
func Open(cfg config.TokenConfig, redisCfg config.RedisConfig) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.Dir), nil
	case "redis":
		return NewRedisStore(redisCfg, cfg.Key)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown token backend: %s", cfg.Backend)
	}
}

// MemoryStore keeps the token in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the token
func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set stores the token
func (s *MemoryStore) Set(token string) error {
	if token == "" {
		return errEmptyToken
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Remove clears the token
func (s *MemoryStore) Remove() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Has reports whether a token is stored
func (s *MemoryStore) Has() bool {
	_, ok := s.Get()
	return ok
}
