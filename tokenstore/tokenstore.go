// Package tokenstore persists the bearer token between runs, the way a
// browser keeps it in a cookie: with an expiry after which it is gone.
package tokenstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pelletier/go-toml/v2"
)

// DefaultTTL matches the 7 day cookie lifetime.
const DefaultTTL = 7 * 24 * time.Hour

type Store interface {
	// Load returns the stored token, or "" if none is stored or it expired.
	Load() (string, error)
	Save(token string, expiresAt time.Time) error
	Clear() error
}

type record struct {
	AccessToken string    `toml:"access_token"`
	TokenType   string    `toml:"token_type"`
	ExpiresAt   time.Time `toml:"expires_at"`
}

// FileStore keeps the token in a TOML file readable only by the owner.
type FileStore struct {
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (string, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("error reading token file: %w", err)
	}

	var rec record
	if err := toml.Unmarshal(content, &rec); err != nil {
		return "", fmt.Errorf("failed to parse token file: %w", err)
	}

	if !rec.ExpiresAt.IsZero() && !s.now().Before(rec.ExpiresAt) {
		return "", nil
	}
	return rec.AccessToken, nil
}

func (s *FileStore) Save(token string, expiresAt time.Time) error {
	content, err := toml.Marshal(record{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt.UTC().Truncate(time.Second),
	})
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// MemStore is a Store that lives only as long as the process.
type MemStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{now: time.Now}
}

func (s *MemStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return "", nil
	}
	return s.token, nil
}

func (s *MemStore) Save(token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = expiresAt
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
	return nil
}

func (s *MemStore) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// PeekExpiry reads the exp claim of a JWT without verifying it. The token is
// opaque to the client; this is only used for display.
func PeekExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
