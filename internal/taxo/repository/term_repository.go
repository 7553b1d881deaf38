package repository

import (
	"context"

	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/jimyag/taxo/pkg/slug"
	"gorm.io/gorm"
)

// TermRepository 词条仓库接口
type TermRepository interface {
	Create(ctx context.Context, term *model.Term) error
	GetByID(ctx context.Context, termID uint64) (*model.Term, error)
	Update(ctx context.Context, term *model.Term) error
	Delete(ctx context.Context, termID uint64) error
	SetTermGroup(ctx context.Context, termID uint64, group int64) error
	MaxTermGroup(ctx context.Context) (int64, error)
	// SlugExists 判断全局是否已有该 slug，excludeTermID 为 0 时不排除
	SlugExists(ctx context.Context, slug string, excludeTermID uint64) (bool, error)
}

type termRepository struct {
	db *gorm.DB
}

// NewTermRepository 创建词条仓库
func NewTermRepository(db *gorm.DB) TermRepository {
	return &termRepository{db: db}
}

func (r *termRepository) Create(ctx context.Context, term *model.Term) error {
	term.NameKey = slug.FoldName(term.Name)
	return r.db.WithContext(ctx).Create(term).Error
}

func (r *termRepository) GetByID(ctx context.Context, termID uint64) (*model.Term, error) {
	var term model.Term
	if err := r.db.WithContext(ctx).Where("term_id = ?", termID).First(&term).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *termRepository) Update(ctx context.Context, term *model.Term) error {
	term.NameKey = slug.FoldName(term.Name)
	return r.db.WithContext(ctx).Save(term).Error
}

func (r *termRepository) Delete(ctx context.Context, termID uint64) error {
	return r.db.WithContext(ctx).Where("term_id = ?", termID).Delete(&model.Term{}).Error
}

func (r *termRepository) SetTermGroup(ctx context.Context, termID uint64, group int64) error {
	return r.db.WithContext(ctx).Model(&model.Term{}).
		Where("term_id = ?", termID).
		Update("term_group", group).Error
}

func (r *termRepository) MaxTermGroup(ctx context.Context) (int64, error) {
	var group int64
	if err := r.db.WithContext(ctx).Model(&model.Term{}).
		Select("COALESCE(MAX(term_group), 0)").
		Scan(&group).Error; err != nil {
		return 0, err
	}
	return group, nil
}

func (r *termRepository) SlugExists(ctx context.Context, value string, excludeTermID uint64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Term{}).Where("slug = ?", value)
	if excludeTermID != 0 {
		q = q.Where("term_id <> ?", excludeTermID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
