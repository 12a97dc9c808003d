package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		opts Options
		want any
	}{
		{name: "default", opts: Options{}, want: &MemoryStore{}},
		{name: "memory", opts: Options{Driver: "memory"}, want: &MemoryStore{}},
		{name: "file", opts: Options{Driver: "file", DSN: filepath.Join(t.TempDir(), "s.json")}, want: &FileStore{}},
		{name: "redis", opts: Options{Driver: "redis", RedisAddr: mr.Addr()}, want: &RedisStore{}},
		{name: "sqlite", opts: Options{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "kv.db")}, want: &SQLStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, err := Open(ctx, tt.opts)
			require.NoError(t, err)
			t.Cleanup(func() { kv.Close() })
			assert.IsType(t, tt.want, kv)
			assert.NoError(t, kv.Ping(ctx))
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "etcd"})
	require.ErrorContains(t, err, `unknown storage driver "etcd"`)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), Options{Driver: "redis", RedisAddr: addr})
	require.ErrorContains(t, err, "redis connection failed")
}
