package repository

import (
	"context"
	"strings"

	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/jimyag/taxo/pkg/slug"
	"gorm.io/gorm"
)

const termColumns = "t.term_id, t.name, t.slug, t.term_group, " +
	"tt.term_taxonomy_id, tt.taxonomy, tt.description, tt.parent, tt.count"

var orderColumns = map[string]string{
	"name":        "t.name",
	"slug":        "t.slug",
	"term_id":     "t.term_id",
	"term_group":  "t.term_group",
	"count":       "tt.count",
	"description": "tt.description",
	"parent":      "tt.parent",
	"term_order":  "tr.term_order",
}

// TermQueryRepository terms ⋈ term_taxonomy 联合查询接口
type TermQueryRepository interface {
	Find(ctx context.Context, filter model.TermFilter) ([]*model.TermRow, error)
	Count(ctx context.Context, filter model.TermFilter) (int64, error)
	// SlugExistsInTaxonomy 判断分类法内是否已有该 slug，excludeTermID 为 0 时不排除
	SlugExistsInTaxonomy(ctx context.Context, slug, taxonomy string, excludeTermID uint64) (bool, error)
}

type termQueryRepository struct {
	db *gorm.DB
}

// NewTermQueryRepository 创建联合查询仓库
func NewTermQueryRepository(db *gorm.DB) TermQueryRepository {
	return &termQueryRepository{db: db}
}

// Find 按条件查询词条
func (r *termQueryRepository) Find(ctx context.Context, filter model.TermFilter) ([]*model.TermRow, error) {
	q, withObjects := r.build(ctx, filter)

	columns := termColumns
	if withObjects {
		columns += ", tr.object_id, tr.term_order"
	}
	q = q.Select(columns)

	if filter.OrderBy != "none" {
		col, ok := orderColumns[filter.OrderBy]
		if !ok || (col == "tr.term_order" && !withObjects) {
			col = "t.name"
		}
		dir := "ASC"
		if strings.EqualFold(filter.Order, "DESC") {
			dir = "DESC"
		}
		q = q.Order(col + " " + dir).Order("tt.term_taxonomy_id ASC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}

	var rows []*model.TermRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count 统计匹配的 term_taxonomy 数，忽略排序和分页
func (r *termQueryRepository) Count(ctx context.Context, filter model.TermFilter) (int64, error) {
	q, _ := r.build(ctx, filter)
	var count int64
	if err := q.Distinct("tt.term_taxonomy_id").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *termQueryRepository) SlugExistsInTaxonomy(ctx context.Context, value, taxonomy string, excludeTermID uint64) (bool, error) {
	filter := model.TermFilter{
		Taxonomies: []string{taxonomy},
		Slugs:      []string{value},
	}
	if excludeTermID != 0 {
		filter.ExcludeTermIDs = []uint64{excludeTermID}
	}
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *termQueryRepository) build(ctx context.Context, f model.TermFilter) (*gorm.DB, bool) {
	q := r.db.WithContext(ctx).
		Table("terms AS t").
		Joins("INNER JOIN term_taxonomy AS tt ON tt.term_id = t.term_id")

	withObjects := len(f.ObjectIDs) > 0
	if withObjects {
		q = q.Joins("INNER JOIN term_relationships AS tr ON tr.term_taxonomy_id = tt.term_taxonomy_id").
			Where("tr.object_id IN ?", f.ObjectIDs)
	}
	if len(f.Taxonomies) > 0 {
		q = q.Where("tt.taxonomy IN ?", f.Taxonomies)
	}
	if len(f.TermIDs) > 0 {
		q = q.Where("t.term_id IN ?", f.TermIDs)
	}
	if len(f.ExcludeTermIDs) > 0 {
		q = q.Where("t.term_id NOT IN ?", f.ExcludeTermIDs)
	}
	if len(f.TermTaxonomyIDs) > 0 {
		q = q.Where("tt.term_taxonomy_id IN ?", f.TermTaxonomyIDs)
	}
	if len(f.ExcludeTermTaxonomyIDs) > 0 {
		q = q.Where("tt.term_taxonomy_id NOT IN ?", f.ExcludeTermTaxonomyIDs)
	}
	if f.Parent != nil {
		q = q.Where("tt.parent = ?", *f.Parent)
	}
	if len(f.Slugs) > 0 {
		q = q.Where("t.slug IN ?", f.Slugs)
	}
	if len(f.Names) > 0 {
		keys := make([]string, len(f.Names))
		for i, n := range f.Names {
			keys[i] = slug.FoldName(n)
		}
		q = q.Where("t.name_key IN ?", keys)
	}
	if f.Search != "" {
		like := "%" + escapeLike(slug.FoldName(f.Search)) + "%"
		q = q.Where(`(t.name_key LIKE ? ESCAPE '\' OR LOWER(t.slug) LIKE ? ESCAPE '\')`, like, like)
	}
	if f.HideEmpty {
		q = q.Where("tt.count > 0")
	}
	if f.BelowTermID > 0 {
		q = q.Where("t.term_id < ?", f.BelowTermID)
	}
	return q, withObjects
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
