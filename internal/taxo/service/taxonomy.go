package service

import (
	"context"

	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/registry"
	"github.com/jimyag/taxo/pkg/apierror"
	"github.com/rs/zerolog"
)

// TaxonomyService 分类法注册服务
type TaxonomyService struct {
	registry *registry.Registry
}

// NewTaxonomyService 创建分类法注册服务
func NewTaxonomyService(reg *registry.Registry) *TaxonomyService {
	return &TaxonomyService{registry: reg}
}

// RegisterTaxonomy 注册分类法，已存在时覆盖参数
func (s *TaxonomyService) RegisterTaxonomy(ctx context.Context, req *entity.RegisterTaxonomyRequest) (*entity.RegisterTaxonomyResponse, error) {
	if existing := s.registry.Get(req.Name); existing != nil && existing.Builtin {
		return nil, ErrBuiltinProtected
	}

	tax, err := s.registry.Register(ctx, req.Name, req.ObjectTypes, registry.Args{
		Hierarchical: req.Hierarchical,
		Sort:         req.Sort,
		Label:        req.Label,
		Description:  req.Description,
	})
	if err != nil {
		return nil, err
	}

	e, err := taxonomyToEntity(tax)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert taxonomy", err)
	}

	zerolog.Ctx(ctx).Info().Str("taxonomy", tax.Name).Msg("Taxonomy registered successfully")
	return &entity.RegisterTaxonomyResponse{Taxonomy: e}, nil
}

// UnregisterTaxonomy 注销分类法，已有词条保留在存储中
func (s *TaxonomyService) UnregisterTaxonomy(ctx context.Context, req *entity.UnregisterTaxonomyRequest) (*entity.UnregisterTaxonomyResponse, error) {
	if err := s.registry.Unregister(ctx, req.Name); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("taxonomy", req.Name).Msg("Taxonomy unregistered successfully")
	return &entity.UnregisterTaxonomyResponse{Name: req.Name}, nil
}

// DescribeTaxonomies 列出分类法
func (s *TaxonomyService) DescribeTaxonomies(ctx context.Context, req *entity.DescribeTaxonomiesRequest) (*entity.DescribeTaxonomiesResponse, error) {
	var list []*registry.Taxonomy
	if req.ObjectType != "" {
		list = s.registry.ForObjectType(req.ObjectType)
	} else {
		list = s.registry.List()
	}

	out := make([]*entity.Taxonomy, 0, len(list))
	for _, t := range list {
		e, err := taxonomyToEntity(t)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert taxonomy", err)
		}
		out = append(out, e)
	}
	return &entity.DescribeTaxonomiesResponse{Taxonomies: out}, nil
}
