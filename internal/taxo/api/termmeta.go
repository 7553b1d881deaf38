package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/jimyag/taxo/pkg/ginx"
)

// TermMetaServiceInterface 词条元数据服务接口
type TermMetaServiceInterface interface {
	AddTermMeta(ctx context.Context, termID uint64, key, value string, unique bool) (uint64, error)
	UpdateTermMeta(ctx context.Context, termID uint64, key, value, prevValue string) (bool, error)
	DeleteTermMeta(ctx context.Context, termID uint64, key, value string) (bool, error)
	GetTermMeta(ctx context.Context, termID uint64, key string) (map[string][]string, error)
}

type TermMeta struct {
	termMetaService TermMetaServiceInterface
}

func NewTermMeta(termService *service.TermService) *TermMeta {
	return &TermMeta{
		termMetaService: termService,
	}
}

func (m *TermMeta) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/add-term-meta", ginx.Adapt5(m.AddTermMeta))
	router.POST("/update-term-meta", ginx.Adapt5(m.UpdateTermMeta))
	router.POST("/delete-term-meta", ginx.Adapt5(m.DeleteTermMeta))
	router.POST("/describe-term-meta", ginx.Adapt5(m.DescribeTermMeta))
}

func (m *TermMeta) AddTermMeta(ctx *gin.Context, req *entity.AddTermMetaRequest) (*entity.AddTermMetaResponse, error) {
	id, err := m.termMetaService.AddTermMeta(ctx, req.TermID, req.Key, req.Value, req.Unique)
	if err != nil {
		return nil, err
	}
	return &entity.AddTermMetaResponse{MetaID: id}, nil
}

func (m *TermMeta) UpdateTermMeta(ctx *gin.Context, req *entity.UpdateTermMetaRequest) (*entity.UpdateTermMetaResponse, error) {
	updated, err := m.termMetaService.UpdateTermMeta(ctx, req.TermID, req.Key, req.Value, req.PrevValue)
	if err != nil {
		return nil, err
	}
	return &entity.UpdateTermMetaResponse{Updated: updated}, nil
}

func (m *TermMeta) DeleteTermMeta(ctx *gin.Context, req *entity.DeleteTermMetaRequest) (*entity.DeleteTermMetaResponse, error) {
	deleted, err := m.termMetaService.DeleteTermMeta(ctx, req.TermID, req.Key, req.Value)
	if err != nil {
		return nil, err
	}
	return &entity.DeleteTermMetaResponse{Deleted: deleted}, nil
}

func (m *TermMeta) DescribeTermMeta(ctx *gin.Context, req *entity.DescribeTermMetaRequest) (*entity.DescribeTermMetaResponse, error) {
	meta, err := m.termMetaService.GetTermMeta(ctx, req.TermID, req.Key)
	if err != nil {
		return nil, err
	}
	return &entity.DescribeTermMetaResponse{Meta: meta}, nil
}
