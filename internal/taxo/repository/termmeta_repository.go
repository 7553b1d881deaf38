package repository

import (
	"context"

	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"gorm.io/gorm"
)

// TermMetaRepository 词条元数据仓库接口
type TermMetaRepository interface {
	Create(ctx context.Context, meta *model.TermMeta) error
	ListByTermID(ctx context.Context, termID uint64) ([]*model.TermMeta, error)
	CountByKey(ctx context.Context, termID uint64, key string) (int64, error)
	// UpdateValue 更新 key 的所有值，prevValue 非空时只更新匹配的记录
	UpdateValue(ctx context.Context, termID uint64, key, value, prevValue string) (int64, error)
	// Delete 删除 key 的记录，value 非空时只删除匹配的记录
	Delete(ctx context.Context, termID uint64, key, value string) (int64, error)
	DeleteByTermID(ctx context.Context, termID uint64) error
}

type termMetaRepository struct {
	db *gorm.DB
}

// NewTermMetaRepository 创建词条元数据仓库
func NewTermMetaRepository(db *gorm.DB) TermMetaRepository {
	return &termMetaRepository{db: db}
}

func (r *termMetaRepository) Create(ctx context.Context, meta *model.TermMeta) error {
	return r.db.WithContext(ctx).Create(meta).Error
}

func (r *termMetaRepository) ListByTermID(ctx context.Context, termID uint64) ([]*model.TermMeta, error) {
	var list []*model.TermMeta
	if err := r.db.WithContext(ctx).
		Where("term_id = ?", termID).
		Order("meta_id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *termMetaRepository) CountByKey(ctx context.Context, termID uint64, key string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TermMeta{}).
		Where("term_id = ? AND meta_key = ?", termID, key).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *termMetaRepository) UpdateValue(ctx context.Context, termID uint64, key, value, prevValue string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.TermMeta{}).
		Where("term_id = ? AND meta_key = ?", termID, key)
	if prevValue != "" {
		q = q.Where("meta_value = ?", prevValue)
	}
	result := q.Update("meta_value", value)
	return result.RowsAffected, result.Error
}

func (r *termMetaRepository) Delete(ctx context.Context, termID uint64, key, value string) (int64, error) {
	q := r.db.WithContext(ctx).Where("term_id = ? AND meta_key = ?", termID, key)
	if value != "" {
		q = q.Where("meta_value = ?", value)
	}
	result := q.Delete(&model.TermMeta{})
	return result.RowsAffected, result.Error
}

func (r *termMetaRepository) DeleteByTermID(ctx context.Context, termID uint64) error {
	return r.db.WithContext(ctx).
		Where("term_id = ?", termID).
		Delete(&model.TermMeta{}).Error
}
