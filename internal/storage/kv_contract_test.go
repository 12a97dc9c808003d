package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runKVContract checks the behaviour every driver has to share
func runKVContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, err := kv.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, value)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "@RocketShoes:cart", []byte(`[{"id":1,"amount":1}]`)))

		value, err := kv.Get(ctx, "@RocketShoes:cart")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":1,"amount":1}]`, string(value))
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "k", []byte("first")))
		require.NoError(t, kv.Set(ctx, "k", []byte("second")))

		value, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "second", string(value))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, kv.Ping(ctx))
	})
}
