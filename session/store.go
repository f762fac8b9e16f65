package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the name of the token file inside the config directory.
const FileName = "session.toml"

type tokenFile struct {
	Token string `toml:"token"`
}

// FileStore keeps the token in a TOML file readable only by the user.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is session.toml inside the user's findash config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config dir: %w", err)
	}
	return filepath.Join(dir, "findash", FileName), nil
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the token. A missing file means no session.
func (f *FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var tf tokenFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return "", fmt.Errorf("parsing %s: %w", f.path, err)
	}
	return tf.Token, nil
}

// Save writes the token, or removes the file when token is empty.
func (f *FileStore) Save(token string) error {
	if token == "" {
		err := os.Remove(f.path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := toml.Marshal(tokenFile{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

// MemoryStore keeps the token in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	saves int
}

// NewMemoryStore returns a store seeded with token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.saves++
	return nil
}

// Saves reports how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
