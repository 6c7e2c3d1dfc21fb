package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pink-tide/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Redis 多实例部署时共享播放地址
type Redis struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedis(cfg config.RedisConfig, ttl time.Duration) (*Redis, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis 地址为空")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 redis 失败: %w", err)
	}

	return &Redis{client: client, keyPrefix: cfg.KeyPrefix, ttl: ttl}, nil
}

func (r *Redis) key(roomID string) string {
	return r.keyPrefix + roomID
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("读取 redis 失败: %w", err)
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("写入 redis 失败: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("删除 redis key 失败: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
