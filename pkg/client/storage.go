package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys for the persisted credential pair.
const (
	accessTokenKey  = "setlist_access_token"
	refreshTokenKey = "setlist_refresh_token"
)

// CredentialStore holds the persisted access/refresh token pair. An empty
// string means no token is stored. Implementations must be safe for
// concurrent use.
type CredentialStore interface {
	AccessToken() string
	RefreshToken() string
	// SetAccess replaces the access token only (used after a refresh).
	SetAccess(token string) error
	// SetPair replaces both tokens (used after login and register).
	SetPair(access, refresh string) error
	Clear() error
}

// MemoryStore is an in-process CredentialStore. Tokens do not survive a
// restart; suitable for tests and short-lived tools.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryStore) SetAccess(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = token
	return nil
}

func (s *MemoryStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}

// FileStore persists the credential pair as a small JSON file under fixed
// keys, created with 0600 permissions. Writes are last-write-wins across
// processes; there is no cross-process locking.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()[accessTokenKey]
}

func (s *FileStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()[refreshTokenKey]
}

func (s *FileStore) SetAccess(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.read()
	data[accessTokenKey] = token
	return s.write(data)
}

func (s *FileStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(map[string]string{
		accessTokenKey:  access,
		refreshTokenKey: refresh,
	})
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear credential store: %w", err)
	}
	return nil
}

func (s *FileStore) read() map[string]string {
	data := map[string]string{}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return data
	}
	// Corrupt files are treated as empty rather than fatal.
	_ = json.Unmarshal(raw, &data)
	return data
}

func (s *FileStore) write(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credential store: %w", err)
	}
	return nil
}
