package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
)

type Config struct {
	HTTPPort        string
	CatalogAPIURL   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	OTLPEndpoint    string

	StoreDriver   string
	StoreDSN      string
	StorageKey    string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDBName   string

	KafkaBrokers []string
	KafkaTopic   string

	// StrictAddStockCheck makes AddProduct require at least one unit in stock
	// instead of only rejecting negative stock
	StrictAddStockCheck bool
}

// CatalogConfig configures the reference product/stock API
type CatalogConfig struct {
	HTTPPort        string
	GRPCPort        string
	DBPath          string
	ShutdownTimeout time.Duration
	LogLevel        string
	OTLPEndpoint    string
}

func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CatalogAPIURL:   strings.TrimRight(getEnv("CATALOG_API_URL", "http://localhost:3333"), "/"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		StoreDriver:   getEnv("CART_STORE_DRIVER", "file"),
		StoreDSN:      getEnv("CART_STORE_DSN", "./storefront-storage.json"),
		StorageKey:    getEnv("CART_STORAGE_KEY", cart.DefaultKey),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "storefront"),

		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "cart-updates"),

		StrictAddStockCheck: getBool("STRICT_ADD_STOCK_CHECK", false),
	}
}

func LoadCatalog() *CatalogConfig {
	return &CatalogConfig{
		HTTPPort:        getEnv("CATALOG_HTTP_PORT", "3333"),
		GRPCPort:        getEnv("CATALOG_GRPC_PORT", "50051"),
		DBPath:          getEnv("CATALOG_DB_PATH", "./catalog.db"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
