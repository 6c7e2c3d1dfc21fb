package cache

import (
	"context"
	"testing"
	"time"

	"pink-tide/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 0)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	_, ok, err := m.Get(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "1", "https://hls.example.com/a.m3u8"))
	v, ok, err := m.Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://hls.example.com/a.m3u8", v)

	// 过期后读取即清理
	now = now.Add(time.Minute)
	_, ok, _ = m.Get(ctx, "1")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Set(ctx, "2", "x"))
	require.NoError(t, m.Delete(ctx, "2"))
	_, ok, _ = m.Get(ctx, "2")
	assert.False(t, ok)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 2)
	var evicted []string
	m.OnEvicted = func(key, _ string) { evicted = append(evicted, key) }

	require.NoError(t, m.Set(ctx, "1", "a"))
	require.NoError(t, m.Set(ctx, "2", "b"))
	// 访问 1 后，2 成为最久未访问
	_, ok, _ := m.Get(ctx, "1")
	require.True(t, ok)
	require.NoError(t, m.Set(ctx, "3", "c"))

	assert.Equal(t, []string{"2"}, evicted)
	assert.Equal(t, 2, m.Len())
	_, ok, _ = m.Get(ctx, "2")
	assert.False(t, ok)

	// 覆盖已有 key 不触发淘汰
	require.NoError(t, m.Set(ctx, "3", "d"))
	v, ok, _ := m.Get(ctx, "3")
	assert.True(t, ok)
	assert.Equal(t, "d", v)
	assert.Len(t, evicted, 1)
}

func TestNoOp(t *testing.T) {
	ctx := context.Background()
	var c Cache = NoOp{}
	require.NoError(t, c.Set(ctx, "1", "x"))
	_, ok, err := c.Get(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "1"))
}

func TestNew(t *testing.T) {
	assert.IsType(t, NoOp{}, New(config.CacheConfig{Type: TypeNone}))
	assert.IsType(t, &Memory{}, New(config.CacheConfig{Type: TypeMemory, TTL: time.Second}))
	// 未配置地址时退回内存
	assert.IsType(t, &Memory{}, New(config.CacheConfig{Type: TypeRedis}))
}
