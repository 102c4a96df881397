// 包 source：获取并解析国家边界 GeoJSON，交给目录构建
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/paulmach/orb/geojson"

	"dotmap/internal/catalog"
	"dotmap/internal/logger"
)

// Natural Earth admin-0 国家边界
const (
	NaturalEarth50mURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson/ne_50m_admin_0_countries.geojson"
	NaturalEarth10mURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson/ne_10m_admin_0_countries.geojson"
)

var ErrEmptyCollection = errors.New("source: feature collection has no features")

// 10m 数据约 22MB
const maxBodyBytes = 256 << 20

// 文档注释：下载边界数据
// 背景：生成任务为一次性离线作业，下载失败直接返回，由入口决定退出。
// 约束：client 为空时按 timeout 新建；非 200 视为失败；响应体上限 256MB。
func Fetch(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}
	t0 := time.Now()
	logger.L().Info("source_fetch_begin", "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source: GET %s: status %d", url, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("source: read body: %w", err)
	}
	logger.L().Info("source_fetch_done", "kb", len(b)/1024, "ms", time.Since(t0).Milliseconds())
	return b, nil
}

func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	logger.L().Info("source_file_read", "path", path, "kb", len(b)/1024)
	return b, nil
}

// Parse：FeatureCollection → 目录输入记录，保持要素顺序
func Parse(b []byte) ([]catalog.Record, error) {
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("source: parse geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrEmptyCollection
	}
	recs := make([]catalog.Record, 0, len(fc.Features))
	for _, f := range fc.Features {
		recs = append(recs, catalog.Record{Props: f.Properties, Geometry: f.Geometry})
	}
	logger.L().Info("source_parsed", "features", len(recs))
	return recs, nil
}

// Load：url 与 path 二选一，path 优先
func Load(ctx context.Context, path, url string, timeout time.Duration) ([]catalog.Record, error) {
	var (
		b   []byte
		err error
	)
	if path != "" {
		b, err = ReadFile(path)
	} else {
		b, err = Fetch(ctx, nil, url, timeout)
	}
	if err != nil {
		return nil, err
	}
	return Parse(b)
}
