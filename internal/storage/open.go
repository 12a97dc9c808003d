package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Driver        string
	DSN           string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDBName   string
}

// Open builds the KV backend named by opts.Driver and verifies it is reachable.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), nil

	case "file":
		return NewFileStore(opts.DSN)

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return NewRedisStore(client, ""), nil

	case "mongo":
		db, err := ConnectMongoDB(ctx, opts.MongoURI, opts.MongoDBName)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(db), nil

	case string(DialectSQLite), string(DialectPostgres):
		store, err := NewSQLStore(Dialect(opts.Driver), opts.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.RunMigrations(); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}
