package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// LoadCollection reads the JSON array stored under key. An absent key yields
// an empty collection and no error. A value that fails to decode yields an
// empty collection together with a *DecodeError, leaving the caller to decide
// whether to degrade or fail.
func LoadCollection[T any](ctx context.Context, store Store, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if IsKeyNotFound(err) {
			return []T{}, nil
		}

		return []T{}, err
	}

	if len(raw) == 0 {
		return []T{}, nil
	}

	var items []T

	err = json.Unmarshal(raw, &items)
	if err != nil {
		return []T{}, &DecodeError{Key: key, Err: err}
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

// LoadCollectionOrEmpty is LoadCollection with the degradation policy of the
// repositories applied: any read or decode failure is logged and treated as
// an empty collection.
func LoadCollectionOrEmpty[T any](ctx context.Context, logger *slog.Logger, store Store, key string) []T {
	items, err := LoadCollection[T](ctx, store, key)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load collection, treating as empty", "key", key, "error", err)
	}

	return items
}

// LoadCollectionForUpdate reads a collection the caller is about to rewrite.
// A value that fails to decode is logged and replaced by an empty
// collection. Any other read failure is returned, and the caller must not
// write the collection back.
func LoadCollectionForUpdate[T any](ctx context.Context, logger *slog.Logger, store Store, key string) ([]T, error) {
	items, err := LoadCollection[T](ctx, store, key)
	if err == nil {
		return items, nil
	}

	if IsDecodeError(err) {
		logger.WarnContext(ctx, "Failed to decode collection, rewriting from empty", "key", key, "error", err)

		return items, nil
	}

	return nil, NewStoreError("Get", key, err)
}

// SaveCollection encodes items as a JSON array and writes it under key.
func SaveCollection[T any](ctx context.Context, store Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", key, err)
	}

	return store.Set(ctx, key, raw)
}

// LoadValue decodes the single JSON value stored under key into out.
func LoadValue(ctx context.Context, store Store, key string, out any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}

	err = json.Unmarshal(raw, out)
	if err != nil {
		return &DecodeError{Key: key, Err: err}
	}

	return nil
}

// SaveValue encodes value as JSON and writes it under key.
func SaveValue(ctx context.Context, store Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value %s: %w", key, err)
	}

	return store.Set(ctx, key, raw)
}
