// Package memory provides an in-process persistence.Store for tests and local development.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dukex/flowdesk/pkg/persistence"
)

// Store keeps values in a map. Values are copied on the way in and out.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewStore() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, persistence.ErrKeyNotFound
	}

	return slices.Clone(value), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = slices.Clone(value)

	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}

func (s *Store) KeysWithPrefix(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)

	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return keys, nil
}

func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return nil
}
