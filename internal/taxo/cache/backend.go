// Package cache 提供带命名空间的键值缓存以及基于 last_changed 代数令牌的失效机制
package cache

import (
	"context"
	"time"
)

// Backend 带命名空间的键值存储
// 值为 JSON 字节，ttl 为 0 表示不过期
type Backend interface {
	Get(ctx context.Context, key, ns string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ns string, ttl time.Duration) error
	Delete(ctx context.Context, key, ns string) error
}

// namespacedKey 拼接命名空间和键
func namespacedKey(key, ns string) string {
	return ns + ":" + key
}
