package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/jimyag/taxo/pkg/ginx"
	"github.com/rs/zerolog"
)

// TaxonomyServiceInterface 分类法服务接口
type TaxonomyServiceInterface interface {
	RegisterTaxonomy(ctx context.Context, req *entity.RegisterTaxonomyRequest) (*entity.RegisterTaxonomyResponse, error)
	UnregisterTaxonomy(ctx context.Context, req *entity.UnregisterTaxonomyRequest) (*entity.UnregisterTaxonomyResponse, error)
	DescribeTaxonomies(ctx context.Context, req *entity.DescribeTaxonomiesRequest) (*entity.DescribeTaxonomiesResponse, error)
}

type Taxonomy struct {
	taxonomyService TaxonomyServiceInterface
}

func NewTaxonomy(taxonomyService *service.TaxonomyService) *Taxonomy {
	return &Taxonomy{
		taxonomyService: taxonomyService,
	}
}

func (t *Taxonomy) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/register-taxonomy", ginx.Adapt5(t.RegisterTaxonomy))
	router.POST("/unregister-taxonomy", ginx.Adapt5(t.UnregisterTaxonomy))
	router.POST("/describe-taxonomies", ginx.Adapt5(t.DescribeTaxonomies))
}

func (t *Taxonomy) RegisterTaxonomy(ctx *gin.Context, req *entity.RegisterTaxonomyRequest) (*entity.RegisterTaxonomyResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("name", req.Name).
		Strs("object_types", req.ObjectTypes).
		Bool("hierarchical", req.Hierarchical).
		Msg("RegisterTaxonomy called")

	response, err := t.taxonomyService.RegisterTaxonomy(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to register taxonomy")
		return nil, err
	}
	return response, nil
}

func (t *Taxonomy) UnregisterTaxonomy(ctx *gin.Context, req *entity.UnregisterTaxonomyRequest) (*entity.UnregisterTaxonomyResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("name", req.Name).Msg("UnregisterTaxonomy called")

	response, err := t.taxonomyService.UnregisterTaxonomy(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to unregister taxonomy")
		return nil, err
	}
	return response, nil
}

func (t *Taxonomy) DescribeTaxonomies(ctx *gin.Context, req *entity.DescribeTaxonomiesRequest) (*entity.DescribeTaxonomiesResponse, error) {
	return t.taxonomyService.DescribeTaxonomies(ctx, req)
}
