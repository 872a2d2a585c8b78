// Package file provides a file-system backed persistence.Store. Each key is
// stored as one JSON file under the root directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dukex/flowdesk/pkg/persistence"
)

const (
	dataDir       = "kv"
	fileExtension = ".json"
)

// Store implements persistence.Store using the file system.
type Store struct {
	root string
	mu   sync.Mutex
}

// NewStore creates a store rooted at the given directory. A file:// prefix is
// accepted and stripped.
func NewStore(root string) *Store {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Store{root: cleanRoot}
}

func (s *Store) dir() string {
	return filepath.Join(s.root, dataDir)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir(), url.PathEscape(key)+fileExtension)
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.ErrKeyNotFound
		}

		return nil, persistence.NewStoreError("Get", key, err)
	}

	return data, nil
}

// Set writes the value to a temporary file and renames it into place so a
// crashed write never leaves a truncated value behind.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.MkdirAll(s.dir(), 0o750)
	if err != nil {
		return persistence.NewStoreError("Set", key, fmt.Errorf("failed to create data directory: %w", err))
	}

	tmp, err := os.CreateTemp(s.dir(), ".tmp-*")
	if err != nil {
		return persistence.NewStoreError("Set", key, err)
	}

	_, err = tmp.Write(value)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return persistence.NewStoreError("Set", key, err)
	}

	err = tmp.Close()
	if err != nil {
		_ = os.Remove(tmp.Name())

		return persistence.NewStoreError("Set", key, err)
	}

	err = os.Rename(tmp.Name(), s.path(key))
	if err != nil {
		_ = os.Remove(tmp.Name())

		return persistence.NewStoreError("Set", key, err)
	}

	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return persistence.NewStoreError("Remove", key, err)
	}

	return nil
}

func (s *Store) KeysWithPrefix(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}

		return nil, persistence.NewStoreError("KeysWithPrefix", prefix, err)
	}

	keys := make([]string, 0)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExtension) || strings.HasPrefix(name, ".tmp-") {
			continue
		}

		key, err := url.PathUnescape(strings.TrimSuffix(name, fileExtension))
		if err != nil {
			continue
		}

		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return keys, nil
}

// HealthCheck verifies the root directory exists.
func (s *Store) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (s *Store) Close(_ context.Context) error {
	return nil
}
