package model

// TermTaxonomy 词条与分类法的关联表
// (term_id, taxonomy) 唯一；parent 指向同一分类法中另一个词条的 term_id，0 表示根
type TermTaxonomy struct {
	TermTaxonomyID uint64 `gorm:"primaryKey;autoIncrement;column:term_taxonomy_id" json:"term_taxonomy_id"`
	TermID         uint64 `gorm:"not null;uniqueIndex:idx_tt_term_taxonomy,priority:1;column:term_id" json:"term_id"`
	Taxonomy       string `gorm:"type:varchar(32);not null;uniqueIndex:idx_tt_term_taxonomy,priority:2;index:idx_tt_taxonomy;column:taxonomy" json:"taxonomy"`
	Description    string `gorm:"type:text;not null;default:'';column:description" json:"description"`
	Parent         uint64 `gorm:"not null;default:0;index:idx_tt_parent;column:parent" json:"parent"`
	Count          int64  `gorm:"not null;default:0;column:count" json:"count"` // 关联对象数，只由关系管理重算
}

// TableName 指定表名
func (TermTaxonomy) TableName() string {
	return "term_taxonomy"
}
