package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV is the persistent key-value store the cart blob lives in.
// Implementations: memory, file, redis, mongo, sqlite and postgres.
type KV interface {
	// Get returns the stored value or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	Close() error
}
