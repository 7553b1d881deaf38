package service

import (
	"context"
)

// hierarchyIndex 分类法内的父子索引，键为 term_id
type hierarchyIndex struct {
	Parents  map[uint64]uint64   `json:"parents"`
	Children map[uint64][]uint64 `json:"children"`
}

// hierarchy 读取整个分类法的父子关系，随代数令牌缓存
func (s *TermService) hierarchy(ctx context.Context, taxonomy string) (*hierarchyIndex, error) {
	return cached(ctx, s, "term_hierarchy", taxonomy, func(ctx context.Context) (*hierarchyIndex, error) {
		list, err := s.store.TermTaxonomies.ListByTaxonomy(ctx, taxonomy)
		if err != nil {
			return nil, dbError("Could not read term hierarchy.", err)
		}
		idx := &hierarchyIndex{
			Parents:  make(map[uint64]uint64, len(list)),
			Children: make(map[uint64][]uint64),
		}
		for _, tt := range list {
			idx.Parents[tt.TermID] = tt.Parent
			if tt.Parent != 0 {
				idx.Children[tt.Parent] = append(idx.Children[tt.Parent], tt.TermID)
			}
		}
		return idx, nil
	})
}

// Children 返回词条的所有后代，非层级分类法返回空
// 每个节点只访问一次，词条自身不会出现在结果中
func (s *TermService) Children(ctx context.Context, termID uint64, taxonomy string) ([]uint64, error) {
	tax, err := s.taxonomy(taxonomy)
	if err != nil {
		return nil, err
	}
	out := []uint64{}
	if !tax.Hierarchical || termID == 0 {
		return out, nil
	}

	idx, err := s.hierarchy(ctx, taxonomy)
	if err != nil {
		return nil, err
	}

	visited := map[uint64]struct{}{termID: {}}
	var walk func(id uint64)
	walk = func(id uint64) {
		for _, child := range idx.Children[id] {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			out = append(out, child)
			walk(child)
		}
	}
	walk(termID)
	return out, nil
}

// IsAncestorOf 判断 a 是否是 b 的祖先
func (s *TermService) IsAncestorOf(ctx context.Context, a, b uint64, taxonomy string) (bool, error) {
	if a == 0 || b == 0 {
		return false, nil
	}
	ancestors, err := s.Ancestors(ctx, b, taxonomy)
	if err != nil {
		return false, err
	}
	for _, id := range ancestors {
		if id == a {
			return true, nil
		}
	}
	return false, nil
}

// Ancestors 返回词条的祖先，由近到远；遇到环或缺失的父级时停止
func (s *TermService) Ancestors(ctx context.Context, termID uint64, taxonomy string) ([]uint64, error) {
	if _, err := s.taxonomy(taxonomy); err != nil {
		return nil, err
	}
	out := []uint64{}
	if termID == 0 {
		return out, nil
	}

	idx, err := s.hierarchy(ctx, taxonomy)
	if err != nil {
		return nil, err
	}

	visited := map[uint64]struct{}{termID: {}}
	for parent := idx.Parents[termID]; parent != 0; parent = idx.Parents[parent] {
		if _, seen := visited[parent]; seen {
			break
		}
		if _, ok := idx.Parents[parent]; !ok {
			break
		}
		visited[parent] = struct{}{}
		out = append(out, parent)
	}
	return out, nil
}
