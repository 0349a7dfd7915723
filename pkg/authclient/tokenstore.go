// Package authclient is the Go SDK for the platform's auth and realtime
// APIs.  It owns the client side of the token lifecycle: persisting the
// token pair, validating expiry, refreshing, the session state machine
// the portals render from, and the websocket status channel for course
// requests.
package authclient

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TokenPair is the access+refresh bundle returned by login and refresh.
// If AccessExpiry has passed the access token is never treated as valid,
// even though it is still present.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	AccessExpiry time.Time `json:"accessExpiry"`
}

// complete reports whether both tokens are present and non-empty.
func (p TokenPair) complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// TokenStore is durable storage for the token pair.  Pure storage: no
// network access, no validation.  Clear is idempotent.
type TokenStore interface {
	// Save persists both tokens and the expiry, overwriting prior values.
	Save(pair TokenPair) error
	// Load returns the stored pair; ok is false when either token is
	// absent or empty.
	Load() (pair TokenPair, ok bool)
	// Clear removes all stored values.
	Clear() error
}

// HasTokens reports whether the store holds a complete pair.
func HasTokens(s TokenStore) bool {
	_, ok := s.Load()
	return ok
}

// MemoryStore keeps the pair in process memory.  Used by tests and by
// embedders that manage persistence themselves.
type MemoryStore struct {
	mu      sync.Mutex
	pair    TokenPair
	present bool
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(pair TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = pair
	m.present = true
	return nil
}

func (m *MemoryStore) Load() (TokenPair, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present || !m.pair.complete() {
		return TokenPair{}, false
	}
	return m.pair, true
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = TokenPair{}
	m.present = false
	return nil
}

// FileStore persists the pair as a JSON file with fixed keys
// (accessToken, refreshToken, accessExpiry), created 0600.  It is the
// desktop analogue of the web portals' local storage: tokens survive
// process restarts within one user profile.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore stores tokens at the given path.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// DefaultFileStore places the token file under the user config dir.
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewFileStore(filepath.Join(dir, "ai-language-platform", "tokens.json")), nil
}

func (f *FileStore) Save(pair TokenPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) Load() (TokenPair, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		return TokenPair{}, false
	}
	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return TokenPair{}, false
	}
	if !pair.complete() {
		return TokenPair{}, false
	}
	return pair, true
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
