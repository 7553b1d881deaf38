// Package registry 提供分类法（taxonomy）注册表
package registry

import (
	"context"
	"net/http"
	"slices"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/jimyag/taxo/internal/taxo/event"
	"github.com/jimyag/taxo/pkg/apierror"
)

// MaxNameLength 分类法名称的最大长度
const MaxNameLength = 32

var (
	// ErrInvalidLength 分类法名称为空或超过 32 个字符
	ErrInvalidLength = apierror.NewErrorWithStatus(
		"InvalidLength",
		"Taxonomy names must be between 1 and 32 characters in length.",
		http.StatusBadRequest,
	)

	// ErrInvalidTaxonomy 分类法不存在
	ErrInvalidTaxonomy = apierror.NewErrorWithStatus(
		"InvalidTaxonomy",
		"Invalid taxonomy.",
		http.StatusBadRequest,
	)

	// ErrBuiltinProtected 内置分类法不能注销
	ErrBuiltinProtected = apierror.NewErrorWithStatus(
		"BuiltinProtected",
		"Unregistering a built-in taxonomy is not allowed.",
		http.StatusForbidden,
	)
)

// Taxonomy 分类法定义
type Taxonomy struct {
	Name         string   `json:"name"         yaml:"name"`
	ObjectTypes  []string `json:"object_types" yaml:"object_types"`
	Hierarchical bool     `json:"hierarchical" yaml:"hierarchical"`
	// Sort 为 true 时对象与词条的关系顺序有意义（term_order）
	Sort        bool   `json:"sort"        yaml:"sort"`
	Builtin     bool   `json:"builtin"     yaml:"builtin"`
	Label       string `json:"label"       yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// Args 注册参数
type Args struct {
	Hierarchical bool
	Sort         bool
	Builtin      bool
	Label        string
	Description  string
}

// Registry 分类法注册表
// 进程启动时显式创建并注册，之后只通过 Register/Unregister 修改
type Registry struct {
	mu         sync.RWMutex
	taxonomies map[string]*Taxonomy
	notifier   event.Notifier
}

// New 创建空注册表，notifier 可以为 nil
func New(notifier event.Notifier) *Registry {
	if notifier == nil {
		notifier = event.Nop{}
	}
	return &Registry{
		taxonomies: make(map[string]*Taxonomy),
		notifier:   notifier,
	}
}

// Register 注册或覆盖分类法
func (r *Registry) Register(ctx context.Context, name string, objectTypes []string, args Args) (*Taxonomy, error) {
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return nil, ErrInvalidLength
	}

	types := slices.Clone(objectTypes)
	sort.Strings(types)
	types = slices.Compact(types)

	tax := &Taxonomy{
		Name:         name,
		ObjectTypes:  types,
		Hierarchical: args.Hierarchical,
		Sort:         args.Sort,
		Builtin:      args.Builtin,
		Label:        args.Label,
		Description:  args.Description,
	}
	if tax.Label == "" {
		tax.Label = name
	}

	r.mu.Lock()
	r.taxonomies[name] = tax
	r.mu.Unlock()

	r.notifier.Notify(ctx, event.New(event.TaxonomyRegistered, name))
	return tax.clone(), nil
}

// Unregister 注销分类法
func (r *Registry) Unregister(ctx context.Context, name string) error {
	r.mu.Lock()
	tax, ok := r.taxonomies[name]
	if !ok {
		r.mu.Unlock()
		return ErrInvalidTaxonomy
	}
	if tax.Builtin {
		r.mu.Unlock()
		return ErrBuiltinProtected
	}
	delete(r.taxonomies, name)
	r.mu.Unlock()

	r.notifier.Notify(ctx, event.New(event.TaxonomyUnregistered, name))
	return nil
}

// Exists 分类法是否已注册
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.taxonomies[name]
	return ok
}

// Get 返回分类法的副本，未注册时返回 nil
func (r *Registry) Get(name string) *Taxonomy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tax, ok := r.taxonomies[name]
	if !ok {
		return nil
	}
	return tax.clone()
}

// IsHierarchical 分类法是否分层
// 未注册的分类法同样返回 false，需要区分时先调用 Exists
func (r *Registry) IsHierarchical(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tax, ok := r.taxonomies[name]
	return ok && tax.Hierarchical
}

// List 按名称排序返回所有分类法
func (r *Registry) List() []*Taxonomy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Taxonomy, 0, len(r.taxonomies))
	for _, tax := range r.taxonomies {
		out = append(out, tax.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ForObjectType 返回适用于某个内容类型的分类法
func (r *Registry) ForObjectType(objectType string) []*Taxonomy {
	var out []*Taxonomy
	for _, tax := range r.List() {
		if slices.Contains(tax.ObjectTypes, objectType) {
			out = append(out, tax)
		}
	}
	return out
}

// RegisterBuiltins 注册内置分类法
func (r *Registry) RegisterBuiltins(ctx context.Context) error {
	builtins := []struct {
		name  string
		types []string
		args  Args
	}{
		{"category", []string{"post"}, Args{Hierarchical: true, Builtin: true, Label: "Categories"}},
		{"post_tag", []string{"post"}, Args{Builtin: true, Label: "Tags"}},
		{"link_category", []string{"link"}, Args{Builtin: true, Label: "Link Categories"}},
		{"post_format", []string{"post"}, Args{Builtin: true, Label: "Formats"}},
	}
	for _, b := range builtins {
		if _, err := r.Register(ctx, b.name, b.types, b.args); err != nil {
			return err
		}
	}
	return nil
}

func (t *Taxonomy) clone() *Taxonomy {
	cp := *t
	cp.ObjectTypes = slices.Clone(t.ObjectTypes)
	return &cp
}
