package repository

import (
	"context"

	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"gorm.io/gorm"
)

// TermTaxonomyRepository 词条-分类法关联仓库接口
type TermTaxonomyRepository interface {
	Create(ctx context.Context, tt *model.TermTaxonomy) error
	GetByID(ctx context.Context, termTaxonomyID uint64) (*model.TermTaxonomy, error)
	GetByTermAndTaxonomy(ctx context.Context, termID uint64, taxonomy string) (*model.TermTaxonomy, error)
	ListByTermID(ctx context.Context, termID uint64) ([]*model.TermTaxonomy, error)
	ListByTaxonomy(ctx context.Context, taxonomy string) ([]*model.TermTaxonomy, error)
	Update(ctx context.Context, tt *model.TermTaxonomy) error
	Delete(ctx context.Context, termTaxonomyID uint64) error
	// ReparentChildren 把 taxonomy 中 parent=from 的记录改为 parent=to，返回影响行数
	ReparentChildren(ctx context.Context, taxonomy string, from, to uint64) (int64, error)
	SetParent(ctx context.Context, termTaxonomyID, parent uint64) error
	SetCount(ctx context.Context, termTaxonomyID uint64, count int64) error
}

type termTaxonomyRepository struct {
	db *gorm.DB
}

// NewTermTaxonomyRepository 创建词条-分类法关联仓库
func NewTermTaxonomyRepository(db *gorm.DB) TermTaxonomyRepository {
	return &termTaxonomyRepository{db: db}
}

func (r *termTaxonomyRepository) Create(ctx context.Context, tt *model.TermTaxonomy) error {
	return r.db.WithContext(ctx).Create(tt).Error
}

func (r *termTaxonomyRepository) GetByID(ctx context.Context, termTaxonomyID uint64) (*model.TermTaxonomy, error) {
	var tt model.TermTaxonomy
	if err := r.db.WithContext(ctx).
		Where("term_taxonomy_id = ?", termTaxonomyID).
		First(&tt).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *termTaxonomyRepository) GetByTermAndTaxonomy(ctx context.Context, termID uint64, taxonomy string) (*model.TermTaxonomy, error) {
	var tt model.TermTaxonomy
	if err := r.db.WithContext(ctx).
		Where("term_id = ? AND taxonomy = ?", termID, taxonomy).
		First(&tt).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *termTaxonomyRepository) ListByTermID(ctx context.Context, termID uint64) ([]*model.TermTaxonomy, error) {
	var list []*model.TermTaxonomy
	if err := r.db.WithContext(ctx).
		Where("term_id = ?", termID).
		Order("term_taxonomy_id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *termTaxonomyRepository) ListByTaxonomy(ctx context.Context, taxonomy string) ([]*model.TermTaxonomy, error) {
	var list []*model.TermTaxonomy
	if err := r.db.WithContext(ctx).
		Where("taxonomy = ?", taxonomy).
		Order("term_id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *termTaxonomyRepository) Update(ctx context.Context, tt *model.TermTaxonomy) error {
	return r.db.WithContext(ctx).Save(tt).Error
}

func (r *termTaxonomyRepository) Delete(ctx context.Context, termTaxonomyID uint64) error {
	return r.db.WithContext(ctx).
		Where("term_taxonomy_id = ?", termTaxonomyID).
		Delete(&model.TermTaxonomy{}).Error
}

func (r *termTaxonomyRepository) ReparentChildren(ctx context.Context, taxonomy string, from, to uint64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.TermTaxonomy{}).
		Where("taxonomy = ? AND parent = ?", taxonomy, from).
		Update("parent", to)
	return result.RowsAffected, result.Error
}

func (r *termTaxonomyRepository) SetParent(ctx context.Context, termTaxonomyID, parent uint64) error {
	return r.db.WithContext(ctx).Model(&model.TermTaxonomy{}).
		Where("term_taxonomy_id = ?", termTaxonomyID).
		Update("parent", parent).Error
}

func (r *termTaxonomyRepository) SetCount(ctx context.Context, termTaxonomyID uint64, count int64) error {
	return r.db.WithContext(ctx).Model(&model.TermTaxonomy{}).
		Where("term_taxonomy_id = ?", termTaxonomyID).
		Update("count", count).Error
}
