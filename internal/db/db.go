package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vikasavnish/flowguide/internal/config"
	"github.com/vikasavnish/flowguide/internal/store"
)

// Connect establishes a connection to the database
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// ConnectRedis establishes a connection to Redis
func ConnectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// newGormKV is swapped in tests.
var newGormKV = store.NewGormKV

// openGormKV wraps gdb in a KV. The connection is closed when migration fails.
func openGormKV(gdb *gorm.DB) (store.KV, func(), error) {
	closeDB := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}
	kv, err := newGormKV(gdb)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return kv, closeDB, nil
}

// OpenKV opens the durable slot selected by the storage backend. The
// returned close func releases the underlying connection.
func OpenKV(cfg *config.Config) (store.KV, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory, "":
		zap.L().Warn("Using in-memory storage, data is lost on restart")
		return store.NewMemoryKV(), func() {}, nil

	case config.BackendRedis:
		client, err := ConnectRedis(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		zap.L().Info("Connected to Redis")
		return store.NewRedisKV(client), func() { client.Close() }, nil

	case config.BackendPostgres:
		gdb, err := Connect(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		kv, closeDB, err := openGormKV(gdb)
		if err != nil {
			return nil, nil, err
		}
		zap.L().Info("Connected to PostgreSQL")
		return kv, closeDB, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
