// Package repository 提供词条、分类关系与元数据的持久化实现
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/jimyag/taxo/pkg/slug"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动，不需要 CGO
)

// 支持的数据库驱动
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound 记录不存在
var ErrNotFound = gorm.ErrRecordNotFound

// IsNotFound 判断是否为记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Options 数据库连接参数
type Options struct {
	Driver string // sqlite 或 postgres，默认 sqlite
	Path   string // sqlite 数据库文件路径
	DSN    string // postgres 连接串
}

// Repository 数据库仓库
type Repository struct {
	db *gorm.DB
}

// New 使用 SQLite 文件创建 Repository
func New(dbPath string) (*Repository, error) {
	return Open(Options{Driver: DriverSQLite, Path: dbPath})
}

// Open 根据驱动打开数据库并完成迁移
func Open(opts Options) (*Repository, error) {
	var (
		db  *gorm.DB
		err error
	)
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch opts.Driver {
	case "", DriverSQLite:
		db, err = openSQLite(opts.Path, cfg)
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
		db, err = gorm.Open(postgres.Open(opts.DSN), cfg)
		if err != nil {
			err = fmt.Errorf("open postgres database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.Term{},
		&model.TermTaxonomy{},
		&model.TermRelationship{},
		&model.TermMeta{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := backfillNameKeys(db); err != nil {
		return nil, fmt.Errorf("backfill name keys: %w", err)
	}

	return &Repository{db: db}, nil
}

// backfillNameKeys 为旧库中尚未写入 name_key 的词条补齐折叠后的名称
func backfillNameKeys(db *gorm.DB) error {
	var terms []model.Term
	if err := db.Where("name_key = '' AND name <> ''").Find(&terms).Error; err != nil {
		return err
	}
	for _, term := range terms {
		if err := db.Model(&model.Term{}).
			Where("term_id = ?", term.TermID).
			Update("name_key", slug.FoldName(term.Name)).Error; err != nil {
			return err
		}
	}
	return nil
}

func openSQLite(dbPath string, cfg *gorm.Config) (*gorm.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// 直接使用 database/sql + modernc.org/sqlite 创建连接，然后传递给 GORM
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, cfg)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return db, nil
}

// DB 返回 GORM 数据库实例
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithContext 返回带上下文的数据库实例
func (r *Repository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Store 返回基于当前连接的仓库集合
func (r *Repository) Store() *Store {
	return NewStore(r.db)
}

// Close 关闭数据库连接
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Store 引擎使用的全部仓库
// 字段均为接口，测试中可以单独替换
type Store struct {
	Terms          TermRepository
	TermTaxonomies TermTaxonomyRepository
	Relationships  RelationshipRepository
	TermMeta       TermMetaRepository
	Queries        TermQueryRepository
}

// NewStore 创建仓库集合
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Terms:          NewTermRepository(db),
		TermTaxonomies: NewTermTaxonomyRepository(db),
		Relationships:  NewRelationshipRepository(db),
		TermMeta:       NewTermMetaRepository(db),
		Queries:        NewTermQueryRepository(db),
	}
}
