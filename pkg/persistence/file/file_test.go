package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	store := NewStore("/tmp/test")
	assert.Equal(t, "/tmp/test", store.root)

	store = NewStore("file:///tmp/test")
	assert.Equal(t, "/tmp/test", store.root)
}

func TestStore_Close(t *testing.T) {
	store := NewStore("./test-data")
	assert.NoError(t, store.Close(t.Context()))
}

func TestStore_SetAndGet(t *testing.T) {
	testDir := t.TempDir()
	store := NewStore(testDir)
	ctx := t.Context()

	err := store.Set(ctx, persistence.KeyWorkflows, []byte(`[{"id":"wf-1"}]`))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(testDir, "kv", "workflows.json"))

	value, err := store.Get(ctx, persistence.KeyWorkflows)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"wf-1"}]`, string(value))

	err = store.Set(ctx, persistence.KeyWorkflows, []byte(`[]`))
	require.NoError(t, err)

	value, err = store.Get(ctx, persistence.KeyWorkflows)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value))
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Get(t.Context(), "missing")
	assert.ErrorIs(t, err, persistence.ErrKeyNotFound)
}

func TestStore_Remove(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := t.Context()

	require.NoError(t, store.Set(ctx, "k", []byte("1")))
	require.NoError(t, store.Remove(ctx, "k"))
	require.NoError(t, store.Remove(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, persistence.ErrKeyNotFound)
}

func TestStore_KeysWithPrefix(t *testing.T) {
	testDir := t.TempDir()
	store := NewStore(testDir)
	ctx := t.Context()

	keys, err := store.KeysWithPrefix(ctx, persistence.VersionsKeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, key := range []string{
		persistence.VersionsKey("wf-2"),
		persistence.VersionsKey("wf-1"),
		persistence.KeyWorkflows,
		"odd/key with spaces",
	} {
		require.NoError(t, store.Set(ctx, key, []byte("[]")))
	}

	// Leftover temp files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "kv", ".tmp-123"), []byte("x"), 0o600))

	keys, err = store.KeysWithPrefix(ctx, persistence.VersionsKeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"workflow_versions_wf-1", "workflow_versions_wf-2"}, keys)

	keys, err = store.KeysWithPrefix(ctx, "odd/")
	require.NoError(t, err)
	assert.Equal(t, []string{"odd/key with spaces"}, keys)
}

func TestStore_HealthCheck(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.NoError(t, store.HealthCheck(t.Context()))

	missing := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, missing.HealthCheck(t.Context()))
}
