package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupMongo(t *testing.T) *MongoStore {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	store := NewMongoStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMongoStore_Contract(t *testing.T) {
	runKVContract(t, setupMongo(t))
}

func TestMongoStore_ContextCancellation(t *testing.T) {
	store := setupMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	time.Sleep(10 * time.Millisecond) // Ensure context is cancelled

	_, err := store.Get(ctx, "@RocketShoes:cart")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}
