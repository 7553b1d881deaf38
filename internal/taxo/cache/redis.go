package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient 是 RedisBackend 依赖的 go-redis 命令子集，便于测试
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Client    redis.UniversalClient
	Addr      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisBackend 多进程共享的 Redis 缓存
type RedisBackend struct {
	client    redisClient
	closer    func() error
	keyPrefix string
}

// NewRedisBackend 创建 Redis 缓存，Client 为空时按 Addr 创建连接
func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "taxo:"
	}

	b := &RedisBackend{keyPrefix: cfg.KeyPrefix}
	if cfg.Client != nil {
		b.client = cfg.Client
		return b, nil
	}
	if cfg.Addr == "" {
		return nil, errors.New("redis address not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	b.client = client
	b.closer = client.Close
	return b, nil
}

func (b *RedisBackend) key(key, ns string) string {
	return b.keyPrefix + namespacedKey(key, ns)
}

func (b *RedisBackend) Get(ctx context.Context, key, ns string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, b.key(key, ns)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ns string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := b.client.Set(ctx, b.key(key, ns), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key, ns string) error {
	if err := b.client.Del(ctx, b.key(key, ns)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close 关闭自己创建的连接
func (b *RedisBackend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}
