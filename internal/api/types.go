package api

import (
	"context"
	"time"

	"dotmap/internal/dataset"
	"dotmap/internal/store"
)

// Datasets：查询服务依赖的持久层能力，*store.Store 满足该接口
type Datasets interface {
	Latest(ctx context.Context, name string) (dataset.Dataset, int64, error)
	Versions(ctx context.Context, name string) ([]store.Version, error)
}

// versionResult：版本列表的对外结构
type versionResult struct {
	ID           int64     `json:"id"`
	Resolution   string    `json:"resolution"`
	DotCount     int       `json:"dot_count"`
	CountryCount int       `json:"country_count"`
	CreatedAt    time.Time `json:"created_at"`
	Active       bool      `json:"active"`
}
