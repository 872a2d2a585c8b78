// Package persistence provides the key-value storage port the repositories
// are built on, plus helpers to read and write whole JSON collections.
package persistence

import "context"

// Store is a flat key-value store holding JSON-encoded values. Every
// repository reads a whole collection from one key, mutates it in memory and
// writes it back.
type Store interface {
	// Get returns the raw value under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// KeysWithPrefix lists every stored key starting with prefix, sorted.
	KeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
