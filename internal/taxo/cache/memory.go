package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval 过期条目的清理周期
const DefaultCleanupInterval = 10 * time.Minute

// MemoryBackend 单进程内存缓存
type MemoryBackend struct {
	cache *gocache.Cache
}

// NewMemoryBackend 创建内存缓存
func NewMemoryBackend(cleanupInterval time.Duration) *MemoryBackend {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &MemoryBackend{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (m *MemoryBackend) Get(_ context.Context, key, ns string) ([]byte, bool, error) {
	value, found := m.cache.Get(namespacedKey(key, ns))
	if !found {
		return nil, false, nil
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ns string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	// 存副本，调用方后续修改切片不影响缓存
	m.cache.Set(namespacedKey(key, ns), append([]byte(nil), value...), ttl)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key, ns string) error {
	m.cache.Delete(namespacedKey(key, ns))
	return nil
}

// Flush 清空所有命名空间
func (m *MemoryBackend) Flush() {
	m.cache.Flush()
}
