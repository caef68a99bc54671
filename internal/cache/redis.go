package cache

import (
	"context"
	"fmt"
	"time"

	"coursecraft/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects a go-redis client from config and verifies the
// connection before handing it out.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Address, err)
	}
	return client, nil
}
