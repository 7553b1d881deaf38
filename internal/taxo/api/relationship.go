package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/jimyag/taxo/pkg/ginx"
	"github.com/rs/zerolog"
)

// RelationshipServiceInterface 对象关系服务接口
type RelationshipServiceInterface interface {
	SetObjectTerms(ctx context.Context, objectID uint64, refs []entity.TermRef, taxonomy string, appendMode bool) ([]uint64, error)
	RemoveObjectTerms(ctx context.Context, objectID uint64, refs []entity.TermRef, taxonomy string) (bool, error)
	DeleteObjectTermRelationships(ctx context.Context, objectID uint64, taxonomies []string) error
	GetObjectTerms(ctx context.Context, objectID uint64, taxonomy string) ([]*entity.Term, error)
	GetObjectsInTerm(ctx context.Context, termIDs []uint64, taxonomies []string, order string) ([]uint64, error)
}

type Relationship struct {
	relationshipService RelationshipServiceInterface
}

func NewRelationship(termService *service.TermService) *Relationship {
	return &Relationship{
		relationshipService: termService,
	}
}

func (r *Relationship) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/set-object-terms", ginx.Adapt5(r.SetObjectTerms))
	router.POST("/add-object-terms", ginx.Adapt5(r.AddObjectTerms))
	router.POST("/remove-object-terms", ginx.Adapt5(r.RemoveObjectTerms))
	router.POST("/delete-object-terms", ginx.Adapt5(r.DeleteObjectTerms))
	router.POST("/describe-object-terms", ginx.Adapt5(r.DescribeObjectTerms))
	router.POST("/describe-objects-in-term", ginx.Adapt5(r.DescribeObjectsInTerm))
}

func (r *Relationship) SetObjectTerms(ctx *gin.Context, req *entity.SetObjectTermsRequest) (*entity.SetObjectTermsResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Uint64("object_id", req.ObjectID).
		Str("taxonomy", req.Taxonomy).
		Int("terms", len(req.Terms)).
		Bool("append", req.Append).
		Msg("SetObjectTerms called")

	ids, err := r.relationshipService.SetObjectTerms(ctx, req.ObjectID, req.Terms, req.Taxonomy, req.Append)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to set object terms")
		return nil, err
	}
	return &entity.SetObjectTermsResponse{TermTaxonomyIDs: ids}, nil
}

// AddObjectTerms 等同于 Append 为 true 的 SetObjectTerms
func (r *Relationship) AddObjectTerms(ctx *gin.Context, req *entity.SetObjectTermsRequest) (*entity.SetObjectTermsResponse, error) {
	req.Append = true
	return r.SetObjectTerms(ctx, req)
}

func (r *Relationship) RemoveObjectTerms(ctx *gin.Context, req *entity.RemoveObjectTermsRequest) (*entity.RemoveObjectTermsResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Uint64("object_id", req.ObjectID).
		Str("taxonomy", req.Taxonomy).
		Msg("RemoveObjectTerms called")

	removed, err := r.relationshipService.RemoveObjectTerms(ctx, req.ObjectID, req.Terms, req.Taxonomy)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to remove object terms")
		return nil, err
	}
	return &entity.RemoveObjectTermsResponse{Removed: removed}, nil
}

func (r *Relationship) DeleteObjectTerms(ctx *gin.Context, req *entity.DeleteObjectTermsRequest) (*entity.DeleteObjectTermsResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Uint64("object_id", req.ObjectID).
		Strs("taxonomies", req.Taxonomies).
		Msg("DeleteObjectTerms called")

	if err := r.relationshipService.DeleteObjectTermRelationships(ctx, req.ObjectID, req.Taxonomies); err != nil {
		logger.Error().Err(err).Msg("Failed to delete object terms")
		return nil, err
	}
	return &entity.DeleteObjectTermsResponse{ObjectID: req.ObjectID}, nil
}

func (r *Relationship) DescribeObjectTerms(ctx *gin.Context, req *entity.DescribeObjectTermsRequest) (*entity.DescribeObjectTermsResponse, error) {
	terms, err := r.relationshipService.GetObjectTerms(ctx, req.ObjectID, req.Taxonomy)
	if err != nil {
		return nil, err
	}
	return &entity.DescribeObjectTermsResponse{Terms: terms}, nil
}

func (r *Relationship) DescribeObjectsInTerm(ctx *gin.Context, req *entity.DescribeObjectsInTermRequest) (*entity.DescribeObjectsInTermResponse, error) {
	ids, err := r.relationshipService.GetObjectsInTerm(ctx, req.TermIDs, req.Taxonomies, req.Order)
	if err != nil {
		return nil, err
	}
	return &entity.DescribeObjectsInTermResponse{ObjectIDs: ids}, nil
}
