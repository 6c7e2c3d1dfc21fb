// Package cache 缓存房间的上游播放地址
package cache

import (
	"context"
	"time"

	"pink-tide/pkg/config"

	"github.com/rs/zerolog/log"
)

const (
	TypeNone   = "none"
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// Cache key 为房间号，value 为播放地址
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// New 按配置选择实现，redis 连接失败时退回内存缓存
func New(cfg config.CacheConfig) Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	switch cfg.Type {
	case TypeNone:
		log.Info().Msg("[cache] 不缓存播放地址")
		return NoOp{}
	case TypeRedis:
		c, err := NewRedis(cfg.Redis, ttl)
		if err == nil {
			log.Info().Str("address", cfg.Redis.Address).Msg("[cache] 使用 redis 缓存")
			return c
		}
		log.Warn().Err(err).Msg("[cache] redis 不可用，改用内存缓存")
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return NewMemory(ttl, maxEntries)
}

// NoOp 不做任何缓存
type NoOp struct{}

func (NoOp) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (NoOp) Set(context.Context, string, string) error { return nil }

func (NoOp) Delete(context.Context, string) error { return nil }
