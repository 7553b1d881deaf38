package model

// TermRow terms ⋈ term_taxonomy 的查询结果
// 通过对象查询时带上 term_relationships 的 object_id 和 term_order
type TermRow struct {
	TermID         uint64 `gorm:"column:term_id"`
	Name           string `gorm:"column:name"`
	Slug           string `gorm:"column:slug"`
	TermGroup      int64  `gorm:"column:term_group"`
	TermTaxonomyID uint64 `gorm:"column:term_taxonomy_id"`
	Taxonomy       string `gorm:"column:taxonomy"`
	Description    string `gorm:"column:description"`
	Parent         uint64 `gorm:"column:parent"`
	Count          int64  `gorm:"column:count"`
	ObjectID       uint64 `gorm:"column:object_id"`
	TermOrder      int    `gorm:"column:term_order"`
}

// TermFilter 词条查询条件，零值字段不参与过滤
type TermFilter struct {
	Taxonomies             []string
	TermIDs                []uint64
	ExcludeTermIDs         []uint64
	TermTaxonomyIDs        []uint64
	ExcludeTermTaxonomyIDs []uint64
	Parent                 *uint64
	Slugs                  []string
	Names                  []string // 大小写不敏感的精确匹配
	Search                 string   // name 或 slug 包含
	HideEmpty              bool
	ObjectIDs              []uint64
	BelowTermID            uint64 // term_id < BelowTermID

	OrderBy string // name, slug, term_id, term_group, count, term_order, description, parent, none
	Order   string // ASC, DESC
	Limit   int
	Offset  int
}
