// Package postgresql provides a PostgreSQL backed persistence.Store.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/sqlbase"

	// PostgreSQL driver registration.
	_ "github.com/lib/pq"
)

// Store implements persistence.Store on a kv_entries table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore connects to PostgreSQL and runs pending migrations.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*Store, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	// Run migrations on initialization
	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: database, logger: logger}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_entries WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrKeyNotFound
		}

		return nil, persistence.NewStoreError("Get", key, err)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value
		  , updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return persistence.NewStoreError("Set", key, err)
	}

	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE key = $1", key)
	if err != nil {
		return persistence.NewStoreError("Remove", key, err)
	}

	return nil
}

func (s *Store) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv_entries WHERE key LIKE $1 ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, persistence.NewStoreError("KeysWithPrefix", prefix, err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	keys := make([]string, 0)

	for rows.Next() {
		var key string

		err := rows.Scan(&key)
		if err != nil {
			return nil, persistence.NewStoreError("KeysWithPrefix", prefix, err)
		}

		keys = append(keys, key)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewStoreError("KeysWithPrefix", prefix, err)
	}

	return keys, nil
}

// HealthCheck verifies the database connection is healthy.
func (s *Store) HealthCheck(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close(_ context.Context) error {
	if s.db != nil {
		err := s.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(prefix string) string {
	return likeEscaper.Replace(prefix)
}
