package memory

import (
	"testing"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSetRemove(t *testing.T) {
	store := NewStore()
	ctx := t.Context()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, persistence.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "a", []byte(`[1]`)))

	value, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(value))

	require.NoError(t, store.Remove(ctx, "a"))
	require.NoError(t, store.Remove(ctx, "a"))

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, persistence.ErrKeyNotFound)
}

func TestStore_ValuesAreCopied(t *testing.T) {
	store := NewStore()
	ctx := t.Context()

	input := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", input))
	input[0] = 'x'

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(value))

	value[1] = 'y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestStore_KeysWithPrefix(t *testing.T) {
	store := NewStore()
	ctx := t.Context()

	for _, key := range []string{"workflow_versions_b", "workflows", "workflow_versions_a", "teams"} {
		require.NoError(t, store.Set(ctx, key, []byte("[]")))
	}

	keys, err := store.KeysWithPrefix(ctx, persistence.VersionsKeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"workflow_versions_a", "workflow_versions_b"}, keys)

	keys, err = store.KeysWithPrefix(ctx, "nothing_")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
