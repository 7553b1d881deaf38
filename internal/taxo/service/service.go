// Package service 实现词条存储、slug 唯一性、对象关系、层级遍历和词条元数据
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jimyag/taxo/internal/taxo/cache"
	"github.com/jimyag/taxo/internal/taxo/event"
	"github.com/jimyag/taxo/internal/taxo/registry"
	"github.com/jimyag/taxo/internal/taxo/repository"
)

// SlugPolicy slug 唯一性范围
type SlugPolicy string

const (
	// SlugPolicyGlobal slug 在所有分类法中唯一
	SlugPolicyGlobal SlugPolicy = "global"
	// SlugPolicyTaxonomy slug 只在同一分类法中唯一，兼容旧数据
	SlugPolicyTaxonomy SlugPolicy = "taxonomy"
)

// ParseSlugPolicy 解析 slug 策略，空字符串返回 global
func ParseSlugPolicy(s string) (SlugPolicy, error) {
	switch SlugPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SlugPolicyGlobal:
		return SlugPolicyGlobal, nil
	case SlugPolicyTaxonomy:
		return SlugPolicyTaxonomy, nil
	default:
		return "", fmt.Errorf("unknown slug policy %q", s)
	}
}

// Countable 判断对象是否计入词条的 count，例如文章是否已发布
type Countable func(ctx context.Context, objectID uint64) bool

// Options 服务参数
type Options struct {
	SlugPolicy SlugPolicy
	// Countable 为 nil 时所有关联对象都计数
	Countable Countable
}

// TermService 词条服务
type TermService struct {
	store    *repository.Store
	registry *registry.Registry
	cache    *cache.Cache
	notifier event.Notifier
	opts     Options

	// taxonomy -> 默认词条 term_id
	defaults sync.Map
}

// NewTermService 创建词条服务
// cache 为 nil 时所有读操作直接访问存储，notifier 为 nil 时不发送事件
func NewTermService(
	store *repository.Store,
	reg *registry.Registry,
	c *cache.Cache,
	notifier event.Notifier,
	opts Options,
) *TermService {
	if notifier == nil {
		notifier = event.Nop{}
	}
	if opts.SlugPolicy == "" {
		opts.SlugPolicy = SlugPolicyGlobal
	}
	return &TermService{
		store:    store,
		registry: reg,
		cache:    c,
		notifier: notifier,
		opts:     opts,
	}
}

// Registry 返回分类法注册表
func (s *TermService) Registry() *registry.Registry {
	return s.registry
}

// SetDefaultTerm 设置分类法的默认词条，termID 为 0 时清除
func (s *TermService) SetDefaultTerm(taxonomy string, termID uint64) {
	if termID == 0 {
		s.defaults.Delete(taxonomy)
		return
	}
	s.defaults.Store(taxonomy, termID)
}

// DefaultTerm 返回分类法的默认词条，未设置时为 0
func (s *TermService) DefaultTerm(taxonomy string) uint64 {
	if v, ok := s.defaults.Load(taxonomy); ok {
		return v.(uint64)
	}
	return 0
}

func (s *TermService) taxonomy(name string) (*registry.Taxonomy, error) {
	tax := s.registry.Get(name)
	if tax == nil {
		return nil, ErrInvalidTaxonomy
	}
	return tax, nil
}

func (s *TermService) bump(ctx context.Context) {
	if s.cache != nil {
		s.cache.BumpGeneration(ctx)
	}
}

func (s *TermService) notify(ctx context.Context, e *event.Event) {
	s.notifier.Notify(ctx, e)
}

// cached 以当前代数令牌为键读穿缓存
func cached[T any](ctx context.Context, s *TermService, prefix string, params any, load func(ctx context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}
	key, err := s.cache.QueryKey(ctx, prefix, params)
	if err != nil {
		return load(ctx)
	}
	return cache.Remember(ctx, s.cache, key, cache.NamespaceTerms, load)
}
