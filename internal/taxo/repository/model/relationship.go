package model

// TermRelationship 内容对象与 term_taxonomy 的多对多关系表
type TermRelationship struct {
	ObjectID       uint64 `gorm:"primaryKey;autoIncrement:false;column:object_id" json:"object_id"`
	TermTaxonomyID uint64 `gorm:"primaryKey;autoIncrement:false;index:idx_tr_term_taxonomy_id;column:term_taxonomy_id" json:"term_taxonomy_id"`
	TermOrder      int    `gorm:"not null;default:0;column:term_order" json:"term_order"` // 仅对 sort 分类法有意义
}

// TableName 指定表名
func (TermRelationship) TableName() string {
	return "term_relationships"
}
