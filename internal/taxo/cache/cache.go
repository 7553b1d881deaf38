package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jimyag/taxo/pkg/idgen"
	"github.com/rs/zerolog"
)

const (
	// NamespaceTerms 词条查询缓存的命名空间，代数令牌也存放在这里
	NamespaceTerms = "terms"
	// NamespaceTermMeta 词条元数据缓存的命名空间，按 term_id 显式删除
	NamespaceTermMeta = "term_meta"
	// LastChangedKey 代数令牌的键
	LastChangedKey = "last_changed"
)

// RelationshipsNamespace 返回对象关系缓存的命名空间：{taxonomy}_relationships
func RelationshipsNamespace(taxonomy string) string {
	return taxonomy + "_relationships"
}

// Config 缓存配置
type Config struct {
	// DefaultTTL 未单独配置的命名空间使用的过期时间，0 表示不过期
	DefaultTTL time.Duration
	// NamespaceTTL 按命名空间覆盖过期时间
	NamespaceTTL map[string]time.Duration
}

// Stats 命中统计
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// Cache 在 Backend 之上实现代数令牌失效
//
// 所有读查询的键都嵌入当前的 last_changed，BumpGeneration 替换令牌后
// 旧条目不再可达，无需枚举或删除。按稳定身份（object_id、term_id）缓存的条目需要显式 Delete。
type Cache struct {
	backend Backend
	cfg     Config

	// 同一进程内保证令牌严格递增
	mu sync.Mutex

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New 创建缓存
func New(backend Backend, cfg Config) *Cache {
	return &Cache{
		backend: backend,
		cfg:     cfg,
	}
}

// TTL 返回命名空间的过期时间
func (c *Cache) TTL(ns string) time.Duration {
	if ttl, ok := c.cfg.NamespaceTTL[ns]; ok {
		return ttl
	}
	return c.cfg.DefaultTTL
}

// Get 读取缓存，后端错误按未命中处理
func (c *Cache) Get(ctx context.Context, key, ns string) ([]byte, bool) {
	data, ok, err := c.backend.Get(ctx, key, ns)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Str("ns", ns).Msg("Cache get failed")
		ok = false
	}
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return data, ok
}

// Set 写入缓存，使用命名空间的过期时间
func (c *Cache) Set(ctx context.Context, key, ns string, value []byte) {
	if err := c.backend.Set(ctx, key, value, ns, c.TTL(ns)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Str("ns", ns).Msg("Cache set failed")
	}
}

// Delete 删除缓存
func (c *Cache) Delete(ctx context.Context, key, ns string) {
	if err := c.backend.Delete(ctx, key, ns); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Str("ns", ns).Msg("Cache delete failed")
	}
}

// LastChanged 返回当前代数令牌，不存在时初始化
func (c *Cache) LastChanged(ctx context.Context) string {
	data, ok, err := c.backend.Get(ctx, LastChangedKey, NamespaceTerms)
	if err == nil && ok && len(data) > 0 {
		return string(data)
	}
	return c.BumpGeneration(ctx)
}

// BumpGeneration 替换代数令牌，使所有嵌入旧令牌的查询缓存失效
func (c *Cache) BumpGeneration(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	// sonyflake ID 按时间有序，多进程共享后端时也不会回退
	next, err := idgen.GenerateID()
	if err != nil {
		next = uint64(time.Now().UnixNano())
	}
	if data, ok, err := c.backend.Get(ctx, LastChangedKey, NamespaceTerms); err == nil && ok {
		if prev, perr := strconv.ParseUint(string(data), 10, 64); perr == nil && next <= prev {
			next = prev + 1
		}
	}

	token := strconv.FormatUint(next, 10)
	if err := c.backend.Set(ctx, LastChangedKey, []byte(token), NamespaceTerms, 0); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to bump terms last_changed")
	}
	return token
}

// QueryKey 生成查询缓存键：{prefix}:{md5(params)}:{last_changed}
func (c *Cache) QueryKey(ctx context.Context, prefix string, params any) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal cache key params: %w", err)
	}
	sum := md5.Sum(data)
	return prefix + ":" + hex.EncodeToString(sum[:]) + ":" + c.LastChanged(ctx), nil
}

// Stats 返回命中统计
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Remember 读穿缓存：命中时反序列化返回，否则调用 load 并写入缓存
func Remember[T any](ctx context.Context, c *Cache, key, ns string, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	if data, ok := c.Get(ctx, key, ns); ok {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		zerolog.Ctx(ctx).Warn().Str("key", key).Str("ns", ns).Msg("Discarding undecodable cache entry")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	c.Set(ctx, key, ns, data)
	return value, nil
}
