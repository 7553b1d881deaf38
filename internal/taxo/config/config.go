package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Address HTTP 监听地址，TAXO_ADDRESS
	Address string `mapstructure:"address"`

	// DataDir 数据目录，SQLite 数据库默认放在这里
	// 可以通过环境变量 TAXO_DATA_DIR 配置
	// 默认：~/.local/share/taxo
	DataDir string `mapstructure:"data_dir"`

	// LogLevel zerolog 日志级别，TAXO_LOG_LEVEL
	LogLevel string `mapstructure:"log_level"`

	DB       DBConfig       `mapstructure:"db"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy"`
}

type DBConfig struct {
	// Driver sqlite 或 postgres
	Driver string `mapstructure:"driver"`
	// Path SQLite 文件路径，为空时使用 DataDir/taxo.db
	Path string `mapstructure:"path"`
	// DSN postgres 连接串
	DSN string `mapstructure:"dsn"`
}

type CacheConfig struct {
	// Backend memory、redis 或 none
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	// URL 为空时不发布事件
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type TaxonomyConfig struct {
	// File 启动时加载的分类法 YAML 文件
	File string `mapstructure:"file"`
	// SlugPolicy global 或 taxonomy
	SlugPolicy string `mapstructure:"slug_policy"`
	// DefaultCategory category 分类法默认词条的名称
	DefaultCategory string `mapstructure:"default_category"`
}

// 环境变量名与配置键的对应关系，TAXO_ 前缀
var envKeys = map[string]string{
	"address":                   "TAXO_ADDRESS",
	"data_dir":                  "TAXO_DATA_DIR",
	"log_level":                 "TAXO_LOG_LEVEL",
	"db.driver":                 "TAXO_DB_DRIVER",
	"db.path":                   "TAXO_DB_PATH",
	"db.dsn":                    "TAXO_DB_DSN",
	"cache.backend":             "TAXO_CACHE_BACKEND",
	"cache.ttl":                 "TAXO_CACHE_TTL",
	"redis.addr":                "TAXO_REDIS_ADDR",
	"redis.password":            "TAXO_REDIS_PASSWORD",
	"redis.db":                  "TAXO_REDIS_DB",
	"nats.url":                  "TAXO_NATS_URL",
	"nats.subject_prefix":       "TAXO_NATS_SUBJECT_PREFIX",
	"taxonomy.file":             "TAXO_TAXONOMY_FILE",
	"taxonomy.slug_policy":      "TAXO_SLUG_POLICY",
	"taxonomy.default_category": "TAXO_DEFAULT_CATEGORY",
}

// New 读取配置：默认值、可选的 YAML 配置文件、TAXO_* 环境变量，后者优先
func New(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.DB.Path == "" {
		cfg.DB.Path = filepath.Join(cfg.DataDir, "taxo.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("address", "0.0.0.0:7788")
	v.SetDefault("data_dir", getDataDir())
	v.SetDefault("log_level", "info")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("nats.subject_prefix", "taxo")
	v.SetDefault("taxonomy.slug_policy", "global")
	v.SetDefault("taxonomy.default_category", "Uncategorized")
}

// Validate 检查枚举类配置项
func (c *Config) Validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case "sqlite":
	case "postgres":
		if c.DB.DSN == "" {
			return errors.New("postgres driver requires TAXO_DB_DSN")
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}

	switch strings.ToLower(c.Cache.Backend) {
	case "memory", "none":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis cache backend requires TAXO_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// getDataDir 获取默认数据目录
func getDataDir() string {
	// 1. 使用用户主目录下的 .local/share/taxo
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "taxo")
	}

	// 2. 如果无法获取主目录，使用当前目录下的 data
	return filepath.Join(".", "data")
}
