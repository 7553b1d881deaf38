package service

import (
	"context"
	"strconv"

	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/jimyag/taxo/pkg/slug"
)

// slugContext 计算唯一 slug 时需要的词条上下文
type slugContext struct {
	Taxonomy     string
	Hierarchical bool
	Parent       uint64
	TermID       uint64 // 更新时排除自身，新建时为 0
}

// uniqueSlug 返回未被占用的 slug
//
// 依次尝试：原样；层级分类法中逐级追加祖先的 slug；在原始候选后追加 -2、-3 ...
// 追加后缀时截短前缀，结果不超过 slug.MaxLength
func (s *TermService) uniqueSlug(ctx context.Context, candidate string, sc slugContext) (string, error) {
	used, err := s.slugInUse(ctx, candidate, sc.Taxonomy, sc.TermID)
	if err != nil || !used {
		return candidate, err
	}

	if sc.Hierarchical && sc.Parent != 0 {
		visited := make(map[uint64]struct{})
		current := candidate
		for parentID := sc.Parent; parentID != 0; {
			if _, seen := visited[parentID]; seen {
				break
			}
			visited[parentID] = struct{}{}

			parent, err := s.findRow(ctx, model.TermFilter{
				TermIDs:    []uint64{parentID},
				Taxonomies: []string{sc.Taxonomy},
				OrderBy:    "none",
			})
			if err != nil {
				return "", err
			}
			if parent == nil {
				break
			}

			current = slug.WithSuffix(current, "-"+parent.Slug)
			used, err := s.slugInUse(ctx, current, sc.Taxonomy, sc.TermID)
			if err != nil {
				return "", err
			}
			if !used {
				return current, nil
			}
			parentID = parent.Parent
		}
	}

	for n := 2; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		alt := slug.WithSuffix(candidate, "-"+strconv.Itoa(n))
		used, err := s.slugInUse(ctx, alt, sc.Taxonomy, sc.TermID)
		if err != nil {
			return "", err
		}
		if !used {
			return alt, nil
		}
	}
}

// slugInUse 按 slug 策略判断 slug 是否被其他词条占用
func (s *TermService) slugInUse(ctx context.Context, candidate, taxonomy string, excludeTermID uint64) (bool, error) {
	var (
		used bool
		err  error
	)
	if s.opts.SlugPolicy == SlugPolicyTaxonomy {
		used, err = s.store.Queries.SlugExistsInTaxonomy(ctx, candidate, taxonomy, excludeTermID)
	} else {
		used, err = s.store.Terms.SlugExists(ctx, candidate, excludeTermID)
	}
	if err != nil {
		return false, dbError("Could not check slug uniqueness.", err)
	}
	return used, nil
}

// slugOwner 返回占用 slug 的词条 ID
func (s *TermService) slugOwner(ctx context.Context, candidate, taxonomy string, excludeTermID uint64) (uint64, error) {
	filter := model.TermFilter{
		Slugs:          []string{candidate},
		ExcludeTermIDs: []uint64{excludeTermID},
		OrderBy:        "term_id",
	}
	if s.opts.SlugPolicy == SlugPolicyTaxonomy {
		filter.Taxonomies = []string{taxonomy}
	}
	row, err := s.findRow(ctx, filter)
	if err != nil || row == nil {
		return 0, err
	}
	return row.TermID, nil
}
