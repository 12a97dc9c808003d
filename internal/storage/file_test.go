package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	runKVContract(t, store)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	ctx := context.Background()

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "@RocketShoes:cart", []byte(`[]`)))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	value, err := reopened.Get(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value))
}

func TestFileStore_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	require.ErrorContains(t, err, "failed to parse store file")
}

func TestFileStore_SetFailureKeepsPreviousValue(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(filepath.Join(dir, "sub", "storage.json"))
	require.NoError(t, err)

	// the parent directory does not exist so the flush fails
	err = store.Set(ctx, "k", []byte("v"))
	require.Error(t, err)

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
