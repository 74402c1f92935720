package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/eshop/backoffice/internal/config"
)

// InitRedis initializes the Redis client. It returns nil when Redis is
// disabled or unreachable; callers fall back to in-process state.
func InitRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		log.Println("[DATABASE] Redis disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[DATABASE] Redis connection failed, continuing without Redis: %v", err)
		rdb.Close()
		return nil
	}

	log.Println("[DATABASE] Redis connection established")
	return rdb
}
