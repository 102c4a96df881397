// 包 config：集中读取生成任务与查询服务的运行配置
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"dotmap/internal/catalog"
	"dotmap/internal/grid"
	"dotmap/internal/source"
)

const (
	DefaultOutput     = "public/data/dot-world-map.json"
	DefaultFineOutput = "public/data/dot-world-map_2.json"
)

type Postgres struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

// DSN：与旧版环境变量拼接规则一致，密码为空时省略冒号
func (p Postgres) DSN() string {
	dsn := "postgres://" + p.User
	if p.Password != "" {
		dsn += ":" + p.Password
	}
	return fmt.Sprintf("%s@%s:%d/%s?sslmode=%s", dsn, p.Host, p.Port, p.DB, p.SSLMode)
}

type Redis struct {
	Host string
	Port int
	Pass string
	DB   int
}

func (r Redis) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

type Config struct {
	Spec          grid.Spec
	SourceURL     string
	SourceFile    string
	CodeKeys      []string
	Output        string
	Workers       int
	ProgressEvery int
	FetchTimeout  time.Duration
	Preview       string
	PreviewScale  int

	DatasetName string
	Store       bool
	Publish     bool
	CacheTTL    time.Duration

	PushgatewayURL string
	APIAddr        string
	APIBase        string
	RateLimitQPS   int
	TLSEnable      bool
	TLSCertPath    string
	TLSKeyPath     string

	Postgres Postgres
	Redis    Redis
}

// Fine：是否为高分辨率变体（决定数据源与代码字段的默认值）
func (c *Config) Fine() bool { return c.Spec.Cols >= grid.Fine.Cols }

// 文档注释：加载配置
// 背景：沿用 .env 与 data/env/.env 两处约定，已存在的进程环境变量优先。
// 约束：文件缺失不报错；分辨率非法时返回 grid.ErrInvalidSpec 包装错误。
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	return FromEnv()
}

// FromEnv：只读取当前进程环境
func FromEnv() (*Config, error) {
	v := viper.New()
	v.SetDefault("dotmap_resolution", "standard")
	v.SetDefault("dotmap_source_url", "")
	v.SetDefault("dotmap_source_file", "")
	v.SetDefault("dotmap_code_keys", "")
	v.SetDefault("dotmap_output", "")
	v.SetDefault("dotmap_workers", 0)
	v.SetDefault("dotmap_progress_every", 10)
	v.SetDefault("dotmap_fetch_timeout_s", 120)
	v.SetDefault("dotmap_preview", "")
	v.SetDefault("dotmap_preview_scale", 4)
	v.SetDefault("dotmap_name", "world")
	v.SetDefault("dotmap_store", false)
	v.SetDefault("dotmap_publish", false)
	v.SetDefault("dotmap_cache_ttl_s", 0)
	v.SetDefault("pushgateway_url", "")
	v.SetDefault("api_addr", ":8080")
	v.SetDefault("api_base", "/api")
	v.SetDefault("rate_limit_qps", 0)
	v.SetDefault("tls_enable", false)
	v.SetDefault("tls_cert_path", filepath.Join("data", "certs", "server.crt"))
	v.SetDefault("tls_key_path", filepath.Join("data", "certs", "server.key"))
	v.SetDefault("pg_host", "localhost")
	v.SetDefault("pg_port", 5432)
	v.SetDefault("pg_user", "postgres")
	v.SetDefault("pg_password", "")
	v.SetDefault("pg_db", "dotmap")
	v.SetDefault("pg_sslmode", "disable")
	v.SetDefault("pg_max_open_conns", 10)
	v.SetDefault("pg_max_idle_conns", 5)
	v.SetDefault("redis_host", "127.0.0.1")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_pass", "")
	v.SetDefault("redis_db", 0)
	v.AutomaticEnv()

	spec, err := grid.ParseSpec(v.GetString("dotmap_resolution"))
	if err != nil {
		return nil, fmt.Errorf("config: DOTMAP_RESOLUTION: %w", err)
	}
	c := &Config{
		Spec:           spec,
		SourceURL:      v.GetString("dotmap_source_url"),
		SourceFile:     v.GetString("dotmap_source_file"),
		Output:         v.GetString("dotmap_output"),
		Workers:        v.GetInt("dotmap_workers"),
		ProgressEvery:  v.GetInt("dotmap_progress_every"),
		FetchTimeout:   time.Duration(v.GetInt("dotmap_fetch_timeout_s")) * time.Second,
		Preview:        v.GetString("dotmap_preview"),
		PreviewScale:   v.GetInt("dotmap_preview_scale"),
		DatasetName:    v.GetString("dotmap_name"),
		Store:          v.GetBool("dotmap_store"),
		Publish:        v.GetBool("dotmap_publish"),
		CacheTTL:       time.Duration(v.GetInt("dotmap_cache_ttl_s")) * time.Second,
		PushgatewayURL: v.GetString("pushgateway_url"),
		APIAddr:        v.GetString("api_addr"),
		APIBase:        strings.TrimRight(v.GetString("api_base"), "/"),
		RateLimitQPS:   v.GetInt("rate_limit_qps"),
		TLSEnable:      v.GetBool("tls_enable"),
		TLSCertPath:    v.GetString("tls_cert_path"),
		TLSKeyPath:     v.GetString("tls_key_path"),
		Postgres: Postgres{
			Host:     v.GetString("pg_host"),
			Port:     v.GetInt("pg_port"),
			User:     v.GetString("pg_user"),
			Password: v.GetString("pg_password"),
			DB:       v.GetString("pg_db"),
			SSLMode:  v.GetString("pg_sslmode"),
			MaxOpen:  v.GetInt("pg_max_open_conns"),
			MaxIdle:  v.GetInt("pg_max_idle_conns"),
		},
		Redis: Redis{
			Host: v.GetString("redis_host"),
			Port: v.GetInt("redis_port"),
			Pass: v.GetString("redis_pass"),
			DB:   v.GetInt("redis_db"),
		},
	}
	if keys := v.GetString("dotmap_code_keys"); keys != "" {
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.CodeKeys = append(c.CodeKeys, k)
			}
		}
	}
	c.applyPresetDefaults()
	if c.Redis.DB < 0 {
		c.Redis.DB = 0
	}
	if c.ProgressEvery < 0 {
		c.ProgressEvery = 0
	}
	return c, nil
}

// 高分辨率变体默认使用 10m 数据源、ISO_A2 字段与独立输出文件
func (c *Config) applyPresetDefaults() {
	fine := c.Fine()
	if c.SourceURL == "" {
		c.SourceURL = source.NaturalEarth50mURL
		if fine {
			c.SourceURL = source.NaturalEarth10mURL
		}
	}
	if len(c.CodeKeys) == 0 {
		c.CodeKeys = catalog.Keys50m
		if fine {
			c.CodeKeys = catalog.Keys10m
		}
	}
	if c.Output == "" {
		c.Output = DefaultOutput
		if fine {
			c.Output = DefaultFineOutput
		}
	}
}
