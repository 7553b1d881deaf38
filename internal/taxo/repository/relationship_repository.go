package repository

import (
	"context"

	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationshipRepository 对象关系仓库接口
type RelationshipRepository interface {
	// Create 插入关系，已存在时不做任何修改，返回是否新插入
	Create(ctx context.Context, rel *model.TermRelationship) (bool, error)
	Exists(ctx context.Context, objectID, termTaxonomyID uint64) (bool, error)
	// TermTaxonomyIDs 返回对象在指定分类法中的关联，按 term_order、term_taxonomy_id 排序
	TermTaxonomyIDs(ctx context.Context, objectID uint64, taxonomies []string) ([]uint64, error)
	// ObjectIDs 返回关联到任一 term_taxonomy_id 的对象，去重升序
	ObjectIDs(ctx context.Context, termTaxonomyIDs []uint64) ([]uint64, error)
	CountObjects(ctx context.Context, termTaxonomyID uint64) (int64, error)
	SetOrder(ctx context.Context, objectID, termTaxonomyID uint64, order int) error
	Delete(ctx context.Context, objectID uint64, termTaxonomyIDs []uint64) (int64, error)
	DeleteByTermTaxonomyID(ctx context.Context, termTaxonomyID uint64) error
}

type relationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository 创建对象关系仓库
func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

func (r *relationshipRepository) Create(ctx context.Context, rel *model.TermRelationship) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rel)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *relationshipRepository) Exists(ctx context.Context, objectID, termTaxonomyID uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TermRelationship{}).
		Where("object_id = ? AND term_taxonomy_id = ?", objectID, termTaxonomyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationshipRepository) TermTaxonomyIDs(ctx context.Context, objectID uint64, taxonomies []string) ([]uint64, error) {
	var ids []uint64
	q := r.db.WithContext(ctx).
		Table("term_relationships AS tr").
		Joins("INNER JOIN term_taxonomy AS tt ON tt.term_taxonomy_id = tr.term_taxonomy_id").
		Where("tr.object_id = ?", objectID)
	if len(taxonomies) > 0 {
		q = q.Where("tt.taxonomy IN ?", taxonomies)
	}
	if err := q.Order("tr.term_order ASC, tr.term_taxonomy_id ASC").
		Pluck("tr.term_taxonomy_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *relationshipRepository) ObjectIDs(ctx context.Context, termTaxonomyIDs []uint64) ([]uint64, error) {
	if len(termTaxonomyIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	if err := r.db.WithContext(ctx).Model(&model.TermRelationship{}).
		Distinct("object_id").
		Where("term_taxonomy_id IN ?", termTaxonomyIDs).
		Order("object_id ASC").
		Pluck("object_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *relationshipRepository) CountObjects(ctx context.Context, termTaxonomyID uint64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TermRelationship{}).
		Where("term_taxonomy_id = ?", termTaxonomyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *relationshipRepository) SetOrder(ctx context.Context, objectID, termTaxonomyID uint64, order int) error {
	return r.db.WithContext(ctx).Model(&model.TermRelationship{}).
		Where("object_id = ? AND term_taxonomy_id = ?", objectID, termTaxonomyID).
		Update("term_order", order).Error
}

func (r *relationshipRepository) Delete(ctx context.Context, objectID uint64, termTaxonomyIDs []uint64) (int64, error) {
	if len(termTaxonomyIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("object_id = ? AND term_taxonomy_id IN ?", objectID, termTaxonomyIDs).
		Delete(&model.TermRelationship{})
	return result.RowsAffected, result.Error
}

func (r *relationshipRepository) DeleteByTermTaxonomyID(ctx context.Context, termTaxonomyID uint64) error {
	return r.db.WithContext(ctx).
		Where("term_taxonomy_id = ?", termTaxonomyID).
		Delete(&model.TermRelationship{}).Error
}
