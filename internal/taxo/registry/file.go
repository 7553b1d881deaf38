package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// taxonomyFile 分类法声明文件
//
//	taxonomies:
//	  - name: genre
//	    object_types: [book]
//	    hierarchical: true
type taxonomyFile struct {
	Taxonomies []Taxonomy `yaml:"taxonomies"`
}

// LoadFile 从 YAML 文件注册分类法，返回注册的数量
// 文件中不能声明 builtin，内置分类法只能由 RegisterBuiltins 注册
func (r *Registry) LoadFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read taxonomy file: %w", err)
	}
	return r.Load(ctx, data)
}

// Load 从 YAML 内容注册分类法
func (r *Registry) Load(ctx context.Context, data []byte) (int, error) {
	var decl taxonomyFile
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return 0, fmt.Errorf("parse taxonomy file: %w", err)
	}

	for i, tax := range decl.Taxonomies {
		if existing := r.Get(tax.Name); existing != nil && existing.Builtin {
			return i, fmt.Errorf("taxonomy %q: %w", tax.Name, ErrBuiltinProtected)
		}
		_, err := r.Register(ctx, tax.Name, tax.ObjectTypes, Args{
			Hierarchical: tax.Hierarchical,
			Sort:         tax.Sort,
			Label:        tax.Label,
			Description:  tax.Description,
		})
		if err != nil {
			return i, fmt.Errorf("taxonomy #%d %q: %w", i, tax.Name, err)
		}
	}
	return len(decl.Taxonomies), nil
}
