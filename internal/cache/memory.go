package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries 内存缓存默认最多保存的房间数
const DefaultMaxEntries = 1024

type entry struct {
	key      string
	value    string
	expireAt time.Time
}

// Memory 进程内 LRU 缓存，过期项在读取时清理，超出容量时淘汰最久未访问的房间
type Memory struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int                      // 0 表示不限制
	ll         *list.List               // 最近访问的在前面
	items      map[string]*list.Element // key -> 链表节点
	now        func() time.Time
	OnEvicted  func(key, value string) // 容量淘汰时回调，可选
}

func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	return &Memory{
		ttl:        ttl,
		maxEntries: maxEntries,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ele, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	kv := ele.Value.(*entry)
	if !m.now().Before(kv.expireAt) {
		m.removeElement(ele)
		return "", false, nil
	}
	m.ll.MoveToFront(ele)
	return kv.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expireAt := m.now().Add(m.ttl)
	if ele, ok := m.items[key]; ok {
		m.ll.MoveToFront(ele)
		kv := ele.Value.(*entry)
		kv.value = value
		kv.expireAt = expireAt
		return nil
	}

	m.items[key] = m.ll.PushFront(&entry{key: key, value: value, expireAt: expireAt})
	for m.maxEntries > 0 && m.ll.Len() > m.maxEntries {
		m.removeOldest()
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ele, ok := m.items[key]; ok {
		m.removeElement(ele)
	}
	return nil
}

// Len 包含尚未清理的过期项
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ll.Len()
}

func (m *Memory) removeOldest() {
	ele := m.ll.Back()
	if ele == nil {
		return
	}
	m.removeElement(ele)
	if m.OnEvicted != nil {
		kv := ele.Value.(*entry)
		m.OnEvicted(kv.key, kv.value)
	}
}

func (m *Memory) removeElement(ele *list.Element) {
	m.ll.Remove(ele)
	delete(m.items, ele.Value.(*entry).key)
}
