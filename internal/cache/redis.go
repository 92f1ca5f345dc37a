package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the raw client so callers only see the JSON helpers below.
type RedisClient struct {
	rdb *redis.Client
}

type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

func NewRedisClient(cfg Config) (*RedisClient, error) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 100
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// Don't let a slow Redis hang the app waiting for a free socket,
		// and drop connections that have sat idle too long.
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{rdb: rdb}, nil
}

// Set marshals value to JSON and stores it under key with the given TTL.
func Set[T any](c *RedisClient, ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Get reports found=false on a cache miss rather than an error.
func Get[T any](c *RedisClient, ctx context.Context, key string) (*T, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result T
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

func SetNX(c *RedisClient, ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return c.rdb.SetNX(ctx, key, data, ttl).Result()
}

func Del(c *RedisClient, ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
