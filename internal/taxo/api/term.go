package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/jimyag/taxo/pkg/ginx"
	"github.com/rs/zerolog"
)

// TermServiceInterface 词条服务接口
type TermServiceInterface interface {
	InsertTerm(ctx context.Context, name, taxonomy string, opts service.InsertTermOptions) (*entity.TermIDs, error)
	UpdateTerm(ctx context.Context, termID uint64, taxonomy string, fields service.UpdateTermFields) (*entity.TermIDs, error)
	DeleteTerm(ctx context.Context, termID uint64, taxonomy string, opts service.DeleteTermOptions) (service.DeleteResult, error)
	GetTermBy(ctx context.Context, field, value, taxonomy string) (*entity.Term, error)
	GetTerms(ctx context.Context, q *entity.TermQuery) ([]*entity.Term, error)
	CountTerms(ctx context.Context, taxonomy string, hideEmpty bool) (int64, error)
	Children(ctx context.Context, termID uint64, taxonomy string) ([]uint64, error)
	Ancestors(ctx context.Context, termID uint64, taxonomy string) ([]uint64, error)
}

type Term struct {
	termService TermServiceInterface
}

func NewTerm(termService *service.TermService) *Term {
	return &Term{
		termService: termService,
	}
}

func (t *Term) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/create-term", ginx.Adapt5(t.CreateTerm))
	router.POST("/update-term", ginx.Adapt5(t.UpdateTerm))
	router.POST("/delete-term", ginx.Adapt5(t.DeleteTerm))
	router.POST("/describe-term", ginx.Adapt5(t.DescribeTerm))
	router.POST("/describe-terms", ginx.Adapt5(t.DescribeTerms))
	router.POST("/count-terms", ginx.Adapt5(t.CountTerms))
	router.POST("/describe-term-children", ginx.Adapt5(t.DescribeTermChildren))
	router.POST("/describe-term-ancestors", ginx.Adapt5(t.DescribeTermAncestors))
}

func (t *Term) CreateTerm(ctx *gin.Context, req *entity.CreateTermRequest) (*entity.CreateTermResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("taxonomy", req.Taxonomy).
		Str("name", req.Name).
		Uint64("parent", req.Parent).
		Msg("CreateTerm called")

	ids, err := t.termService.InsertTerm(ctx, req.Name, req.Taxonomy, service.InsertTermOptions{
		AliasOf:     req.AliasOf,
		Description: req.Description,
		Parent:      req.Parent,
		Slug:        req.Slug,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create term")
		return nil, err
	}
	return &entity.CreateTermResponse{TermIDs: *ids}, nil
}

func (t *Term) UpdateTerm(ctx *gin.Context, req *entity.UpdateTermRequest) (*entity.UpdateTermResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Uint64("term_id", req.TermID).
		Str("taxonomy", req.Taxonomy).
		Msg("UpdateTerm called")

	ids, err := t.termService.UpdateTerm(ctx, req.TermID, req.Taxonomy, service.UpdateTermFields{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Parent:      req.Parent,
		AliasOf:     req.AliasOf,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update term")
		return nil, err
	}
	return &entity.UpdateTermResponse{TermIDs: *ids}, nil
}

func (t *Term) DeleteTerm(ctx *gin.Context, req *entity.DeleteTermRequest) (*entity.DeleteTermResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Uint64("term_id", req.TermID).
		Str("taxonomy", req.Taxonomy).
		Msg("DeleteTerm called")

	result, err := t.termService.DeleteTerm(ctx, req.TermID, req.Taxonomy, service.DeleteTermOptions{
		Default:      req.Default,
		ForceDefault: req.ForceDefault,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to delete term")
		return nil, err
	}
	return &entity.DeleteTermResponse{Result: result.String()}, nil
}

func (t *Term) DescribeTerm(ctx *gin.Context, req *entity.DescribeTermRequest) (*entity.DescribeTermResponse, error) {
	field := req.Field
	if field == "" {
		field = "id"
	}
	term, err := t.termService.GetTermBy(ctx, field, req.Value, req.Taxonomy)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, service.ErrEmptyTerm
	}
	return &entity.DescribeTermResponse{Term: term}, nil
}

func (t *Term) DescribeTerms(ctx *gin.Context, req *entity.DescribeTermsRequest) (*entity.DescribeTermsResponse, error) {
	terms, err := t.termService.GetTerms(ctx, &req.TermQuery)
	if err != nil {
		return nil, err
	}
	return &entity.DescribeTermsResponse{Terms: terms}, nil
}

func (t *Term) CountTerms(ctx *gin.Context, req *entity.CountTermsRequest) (*entity.CountTermsResponse, error) {
	count, err := t.termService.CountTerms(ctx, req.Taxonomy, req.HideEmpty)
	if err != nil {
		return nil, err
	}
	return &entity.CountTermsResponse{Count: count}, nil
}

func (t *Term) DescribeTermChildren(ctx *gin.Context, req *entity.DescribeTermTreeRequest) (*entity.DescribeTermTreeResponse, error) {
	ids, err := t.termService.Children(ctx, req.TermID, req.Taxonomy)
	if err != nil {
		return nil, err
	}
	return &entity.DescribeTermTreeResponse{TermIDs: ids}, nil
}

func (t *Term) DescribeTermAncestors(ctx *gin.Context, req *entity.DescribeTermTreeRequest) (*entity.DescribeTermTreeResponse, error) {
	ids, err := t.termService.Ancestors(ctx, req.TermID, req.Taxonomy)
	if err != nil {
		return nil, err
	}
	return &entity.DescribeTermTreeResponse{TermIDs: ids}, nil
}
