package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fjod/go_cart/storefront/internal/cart"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "CATALOG_API_URL", "REQUEST_TIMEOUT", "CART_STORE_DRIVER",
		"CART_STORAGE_KEY", "KAFKA_BROKERS", "STRICT_ADD_STOCK_CHECK"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "http://localhost:3333", cfg.CatalogAPIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "file", cfg.StoreDriver)
	assert.Equal(t, cart.DefaultKey, cfg.StorageKey)
	assert.Equal(t, "@RocketShoes:cart", cfg.StorageKey)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.StrictAddStockCheck)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CATALOG_API_URL", "http://catalog:3333/")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("CART_STORE_DRIVER", "redis")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("STRICT_ADD_STOCK_CHECK", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "http://catalog:3333", cfg.CatalogAPIURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "redis", cfg.StoreDriver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.StrictAddStockCheck)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("SHUTDOWN_TIMEOUT", "-5s")
	t.Setenv("STRICT_ADD_STOCK_CHECK", "maybe")

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.StrictAddStockCheck)
}

func TestLoadCatalog_Defaults(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "")
	t.Setenv("CATALOG_DB_PATH", "")

	cfg := LoadCatalog()

	assert.Equal(t, "3333", cfg.HTTPPort)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, "./catalog.db", cfg.DBPath)
}
