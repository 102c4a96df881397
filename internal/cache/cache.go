// 包 cache：Redis 中的数据集热缓存，查询服务优先读这里
package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dotmap/internal/config"
	"dotmap/internal/dataset"
	"dotmap/internal/logger"
)

var ErrMiss = errors.New("cache: miss")

const keyPrefix = "dotmap:"

func Key(name string) string { return keyPrefix + name }

// OpenRedis：按配置创建客户端；不做 Ping
func OpenRedis(r config.Redis) *redis.Client {
	logger.L().Debug("redis_env", "addr", r.Addr(), "db", r.DB)
	return redis.NewClient(&redis.Options{Addr: r.Addr(), Password: r.Pass, DB: r.DB})
}

// 文档注释：发布数据集
// 背景：生成任务结束后写入紧凑 JSON，查询服务直接返回原始字节，无需重新编码。
// 约束：ttl<=0 表示不过期；rc 为空视为未启用缓存。
func Publish(ctx context.Context, rc *redis.Client, name string, ds dataset.Dataset, ttl time.Duration) error {
	if rc == nil {
		return nil
	}
	b, err := ds.MarshalCompact()
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := PublishRaw(ctx, rc, name, b, ttl); err != nil {
		return err
	}
	logger.L().Info("dataset_published", "key", Key(name), "kb", len(b)/1024, "ttl_s", int(ttl.Seconds()))
	return nil
}

// PublishRaw：写入已编码的数据集，供回源后回填
func PublishRaw(ctx context.Context, rc *redis.Client, name string, b []byte, ttl time.Duration) error {
	if rc == nil {
		return nil
	}
	if err := rc.Set(ctx, Key(name), b, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", Key(name), err)
	}
	return nil
}

// LoadRaw：返回缓存中的原始 JSON；不存在返回 ErrMiss
func LoadRaw(ctx context.Context, rc *redis.Client, name string) ([]byte, error) {
	if rc == nil {
		return nil, ErrMiss
	}
	b, err := rc.Get(ctx, Key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get %s: %w", Key(name), err)
	}
	return b, nil
}

func Load(ctx context.Context, rc *redis.Client, name string) (dataset.Dataset, error) {
	b, err := LoadRaw(ctx, rc, name)
	if err != nil {
		return dataset.Dataset{}, err
	}
	return dataset.Decode(bytes.NewReader(b))
}
