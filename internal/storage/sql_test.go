package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupSQLite(t *testing.T) *SQLStore {
	store, err := NewSQLStore(DialectSQLite, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLStore_SQLite_Contract(t *testing.T) {
	runKVContract(t, setupSQLite(t))
}

func TestSQLStore_SQLite_MigrationsAreIdempotent(t *testing.T) {
	store := setupSQLite(t)
	assert.NoError(t, store.RunMigrations())
}

func TestSQLStore_UnsupportedDialect(t *testing.T) {
	_, err := NewSQLStore("oracle", "")
	require.ErrorContains(t, err, "unsupported sql dialect")
}

func TestSQLStore_Postgres_Contract(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewSQLStore(DialectPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations())
	t.Cleanup(func() { store.Close() })

	runKVContract(t, store)
}
