package model

// Term 词条表
// 词条本身不属于任何分类法，归属关系只通过 TermTaxonomy 表达
type Term struct {
	TermID    uint64 `gorm:"primaryKey;autoIncrement;column:term_id" json:"term_id"`
	Name      string `gorm:"type:varchar(200);not null;default:'';index:idx_terms_name;column:name" json:"name"`
	NameKey   string `gorm:"type:text;not null;default:'';index:idx_terms_name_key;column:name_key" json:"-"`    // 名称的大小写折叠形式，由仓库写入
	Slug      string `gorm:"type:varchar(200);not null;default:'';index:idx_terms_slug;column:slug" json:"slug"` // 唯一性由引擎保证，不建唯一索引
	TermGroup int64  `gorm:"not null;default:0;column:term_group" json:"term_group"`                             // 别名组，0 表示不属于任何组
}

// TableName 指定表名
func (Term) TableName() string {
	return "terms"
}
