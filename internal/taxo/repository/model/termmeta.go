package model

// TermMeta 词条元数据表，按 term_id 关联
type TermMeta struct {
	MetaID    uint64 `gorm:"primaryKey;autoIncrement;column:meta_id" json:"meta_id"`
	TermID    uint64 `gorm:"not null;index:idx_termmeta_term_id;column:term_id" json:"term_id"`
	MetaKey   string `gorm:"type:varchar(255);not null;index:idx_termmeta_meta_key;column:meta_key" json:"meta_key"`
	MetaValue string `gorm:"type:text;not null;default:'';column:meta_value" json:"meta_value"`
}

// TableName 指定表名
func (TermMeta) TableName() string {
	return "termmeta"
}
