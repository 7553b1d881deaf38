// Package taxo 提供 Taxo 服务器的主入口和初始化逻辑
package taxo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jimmicro/grace"
	"github.com/jimyag/taxo/internal/taxo/api"
	"github.com/jimyag/taxo/internal/taxo/cache"
	"github.com/jimyag/taxo/internal/taxo/config"
	"github.com/jimyag/taxo/internal/taxo/event"
	"github.com/jimyag/taxo/internal/taxo/registry"
	"github.com/jimyag/taxo/internal/taxo/repository"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg         *config.Config
	api         *api.API
	repo        *repository.Repository
	closers     []func() error
	dispatcher  *event.Dispatcher
	termService *service.TermService
}

func New(cfg *config.Config) (*Server, error) {
	logger := newLogger(cfg.LogLevel)
	zerolog.DefaultContextLogger = &logger
	ctx := logger.WithContext(context.Background())

	server := &Server{cfg: cfg}

	// 1. 打开存储
	if cfg.DB.Driver == repository.DriverSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	repo, err := repository.Open(repository.Options{
		Driver: cfg.DB.Driver,
		Path:   cfg.DB.Path,
		DSN:    cfg.DB.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	server.repo = repo
	logger.Info().Str("driver", cfg.DB.Driver).Msg("Repository opened")

	// 2. 事件：进程内分发，配置了 NATS 时同时发布
	server.dispatcher = event.NewDispatcher()
	server.dispatcher.SubscribeAll(func(ctx context.Context, e *event.Event) {
		zerolog.Ctx(ctx).Debug().
			Str("event_id", e.ID).
			Str("type", string(e.Type)).
			Str("taxonomy", e.Taxonomy).
			Msg("Event dispatched")
	})
	notifier := event.Fanout{server.dispatcher}
	if cfg.NATS.URL != "" {
		publisher, err := event.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			server.close()
			return nil, err
		}
		server.closers = append(server.closers, publisher.Close)
		notifier = append(notifier, publisher)
		logger.Info().Str("url", cfg.NATS.URL).Msg("NATS publisher connected")
	}

	// 3. 缓存
	c, err := server.newCache()
	if err != nil {
		server.close()
		return nil, err
	}

	// 4. 分类法注册表
	reg := registry.New(notifier)
	if err := reg.RegisterBuiltins(ctx); err != nil {
		server.close()
		return nil, fmt.Errorf("register builtin taxonomies: %w", err)
	}
	if cfg.Taxonomy.File != "" {
		n, err := reg.LoadFile(ctx, cfg.Taxonomy.File)
		if err != nil {
			server.close()
			return nil, fmt.Errorf("load taxonomy file: %w", err)
		}
		logger.Info().Str("file", cfg.Taxonomy.File).Int("count", n).Msg("Taxonomies loaded")
	}

	// 5. 服务
	policy, err := service.ParseSlugPolicy(cfg.Taxonomy.SlugPolicy)
	if err != nil {
		server.close()
		return nil, err
	}
	server.termService = service.NewTermService(repo.Store(), reg, c, notifier, service.Options{
		SlugPolicy: policy,
	})
	taxonomyService := service.NewTaxonomyService(reg)

	// 5.1. 确保 category 的默认词条存在
	if cfg.Taxonomy.DefaultCategory != "" {
		ids, err := server.termService.EnsureDefaultTerm(ctx, "category", cfg.Taxonomy.DefaultCategory)
		if err != nil {
			server.close()
			return nil, fmt.Errorf("ensure default category: %w", err)
		}
		logger.Info().
			Uint64("term_id", ids.TermID).
			Str("name", cfg.Taxonomy.DefaultCategory).
			Msg("Default category is ready")
	}

	// 6. 创建 API
	server.api = api.New(cfg.Address, logger, taxonomyService, server.termService)
	return server, nil
}

func (s *Server) newCache() (*cache.Cache, error) {
	cacheCfg := cache.Config{DefaultTTL: s.cfg.Cache.TTL}

	switch strings.ToLower(s.cfg.Cache.Backend) {
	case "none":
		return nil, nil
	case "redis":
		backend, err := cache.NewRedisBackend(cache.RedisConfig{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis cache: %w", err)
		}
		s.closers = append(s.closers, backend.Close)
		return cache.New(backend, cacheCfg), nil
	default:
		return cache.New(cache.NewMemoryBackend(10*time.Minute), cacheCfg), nil
	}
}

// Dispatcher 进程内事件分发器，可以订阅词条变更
func (s *Server) Dispatcher() *event.Dispatcher {
	return s.dispatcher
}

// TermService 返回词条服务
func (s *Server) TermService() *service.TermService {
	return s.termService
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		s.api,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.api.Shutdown(ctx)
	s.close()
	return err
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "Taxo Server"
}

func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			zerolog.DefaultContextLogger.Warn().Err(err).Msg("Failed to close resource")
		}
	}
	s.closers = nil
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			zerolog.DefaultContextLogger.Warn().Err(err).Msg("Failed to close repository")
		}
		s.repo = nil
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
