// Package api 提供分类引擎的 HTTP 接口
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/jimyag/taxo/pkg/ginx"
	"github.com/rs/zerolog"
)

type API struct {
	engine *gin.Engine
	server *http.Server

	taxonomy     *Taxonomy
	term         *Term
	relationship *Relationship
	termMeta     *TermMeta
}

// New 创建 API，所有接口挂在 /api 下
func New(addr string, logger zerolog.Logger, taxonomyService *service.TaxonomyService, termService *service.TermService) *API {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	// 让 handler 中的 zerolog.Ctx(c) 取到请求 context 里的 logger
	engine.ContextWithFallback = true
	engine.Use(ginx.WithRequestID(), ginx.WithLogger(logger), ginx.Recovery())

	a := &API{
		engine:       engine,
		taxonomy:     NewTaxonomy(taxonomyService),
		term:         NewTerm(termService),
		relationship: NewRelationship(termService),
		termMeta:     NewTermMeta(termService),
	}
	a.registerRoutes()

	a.server = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a
}

func (a *API) registerRoutes() {
	a.engine.GET("/healthz", ginx.Adapt3(a.Health))

	group := a.engine.Group("/api")
	a.taxonomy.RegisterRoutes(group)
	a.term.RegisterRoutes(group)
	a.relationship.RegisterRoutes(group)
	a.termMeta.RegisterRoutes(group)
}

// Handler 返回 HTTP handler，测试中直接使用
func (a *API) Handler() http.Handler {
	return a.engine
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string `json:"status"`
}

func (a *API) Health(_ *gin.Context) (*HealthResponse, error) {
	return &HealthResponse{Status: "ok"}, nil
}

func (a *API) Run(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Str("addr", a.server.Addr).Msg("HTTP server listening")
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "Taxo API"
}
