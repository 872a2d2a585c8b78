// Package cmd wires the storage and event bus backends selected on the
// command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/file"
	"github.com/dukex/flowdesk/pkg/persistence/memory"
	"github.com/dukex/flowdesk/pkg/persistence/postgresql"
	"github.com/dukex/flowdesk/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "memory", "postgres", "postgresql", "redis", "rediss"}

// NewPersistence opens the store named by the URL scheme. A URL without a
// known scheme is a directory for the file store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Store, error) {
	provider := parsePersistenceProvider(databaseURL)

	logger.InfoContext(ctx, "Opening persistence", "provider", provider)

	switch provider {
	case "memory":
		return memory.NewStore(), nil
	case "postgres", "postgresql":
		store, err := postgresql.NewStore(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}

		return store, nil
	case "redis", "rediss":
		store, err := redis.NewStore(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}

		return store, nil
	default:
		return file.NewStore(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")
	if len(parts) < 2 {
		return "file"
	}

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
