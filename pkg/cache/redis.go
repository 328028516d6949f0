package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyTTL = 24 * time.Hour

type Config struct {
	Addr     string
	Password string
	DB       int
}

type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg *Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{Client: client}, nil
}

// SetIdempotency sets a key for idempotency check, returns false if already exists.
func (c *RedisClient) SetIdempotency(ctx context.Context, key string) (bool, error) {
	return c.Client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
}

func (c *RedisClient) Close() error {
	return c.Client.Close()
}
