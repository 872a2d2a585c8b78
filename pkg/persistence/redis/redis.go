// Package redis provides a Redis backed persistence.Store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dukex/flowdesk/pkg/persistence"
	redis "github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written by the store.
const DefaultNamespace = "flowdesk:"

const scanBatchSize = 100

// Store implements persistence.Store on top of a Redis client.
type Store struct {
	client    redis.UniversalClient
	namespace string
	logger    *slog.Logger
}

// NewStore parses a redis:// URL, connects and verifies the connection.
func NewStore(ctx context.Context, logger *slog.Logger, redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewStoreWithClient(client, DefaultNamespace, logger), nil
}

// NewStoreWithClient wraps an existing client. Keys are stored as namespace+key.
func NewStoreWithClient(client redis.UniversalClient, namespace string, logger *slog.Logger) *Store {
	return &Store{
		client:    client,
		namespace: namespace,
		logger:    logger.With("module", "redis_store"),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.namespace+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.ErrKeyNotFound
		}

		return nil, persistence.NewStoreError("Get", key, err)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.client.Set(ctx, s.namespace+key, value, 0).Err()
	if err != nil {
		return persistence.NewStoreError("Set", key, err)
	}

	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.client.Del(ctx, s.namespace+key).Err()
	if err != nil {
		return persistence.NewStoreError("Remove", key, err)
	}

	return nil
}

func (s *Store) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	match := escapeGlob(s.namespace+prefix) + "*"
	iter := s.client.Scan(ctx, 0, match, scanBatchSize).Iterator()

	keys := make([]string, 0)

	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.namespace))
	}

	err := iter.Err()
	if err != nil {
		return nil, persistence.NewStoreError("KeysWithPrefix", prefix, err)
	}

	// SCAN may return a key more than once.
	slices.Sort(keys)

	return slices.Compact(keys), nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	err := s.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (s *Store) Close(_ context.Context) error {
	err := s.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(pattern string) string {
	return globEscaper.Replace(pattern)
}
