// 包 api：点阵数据集的 HTTP 查询接口
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dotmap/internal/cache"
	"dotmap/internal/logger"
	"dotmap/internal/metrics"
	"dotmap/internal/store"
)

const DefaultName = "world"

// validName：名称直接拼进缓存键，只允许字母数字与 -_
func validName(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !(b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' || b == '_') {
			return false
		}
	}
	return true
}

func nameParam(r *http.Request) string {
	n := r.URL.Query().Get("name")
	if n == "" {
		return DefaultName
	}
	return n
}

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 /api 前缀
// 背景：先读 Redis，未命中回源 PostgreSQL 并回填；ds 为空时只能从缓存读取。
func BuildRoutes(ds Datasets, rc *redis.Client, ttl time.Duration) *http.ServeMux {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/dotmap", func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		defer func() { metrics.DatasetRequestDurationMs.Observe(float64(time.Since(t0).Milliseconds())) }()
		ctx := r.Context()
		name := nameParam(r)
		if !validName(name) {
			metrics.DatasetRequestsTotal.WithLabelValues("rejected").Inc()
			http.Error(w, "bad name", http.StatusBadRequest)
			return
		}
		b, err := cache.LoadRaw(ctx, rc, name)
		if err == nil {
			metrics.DatasetRequestsTotal.WithLabelValues("redis").Inc()
			writeRaw(w, b, "redis")
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.L().Warn("dotmap_cache_error", "name", name, "err", err)
		}
		if ds == nil {
			metrics.DatasetRequestsTotal.WithLabelValues("miss").Inc()
			http.NotFound(w, r)
			return
		}
		d, id, err := ds.Latest(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			metrics.DatasetRequestsTotal.WithLabelValues("miss").Inc()
			http.NotFound(w, r)
			return
		}
		if err != nil {
			logger.L().Error("dotmap_db_error", "name", name, "err", err)
			metrics.DatasetRequestsTotal.WithLabelValues("error").Inc()
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		b, err = d.MarshalCompact()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if err := cache.PublishRaw(ctx, rc, name, b, ttl); err != nil {
			logger.L().Warn("dotmap_backfill_error", "name", name, "err", err)
		}
		logger.L().Debug("dotmap_db_hit", "name", name, "id", id)
		metrics.DatasetRequestsTotal.WithLabelValues("postgres").Inc()
		writeRaw(w, b, "postgres")
	})

	apiMux.HandleFunc("/dotmap/versions", func(w http.ResponseWriter, r *http.Request) {
		name := nameParam(r)
		if !validName(name) {
			http.Error(w, "bad name", http.StatusBadRequest)
			return
		}
		if ds == nil {
			http.NotFound(w, r)
			return
		}
		vs, err := ds.Versions(r.Context(), name)
		if err != nil {
			logger.L().Error("dotmap_versions_error", "name", name, "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		out := make([]versionResult, 0, len(vs))
		for _, v := range vs {
			out = append(out, versionResult{ID: v.ID, Resolution: v.Resolution, DotCount: v.DotCount, CountryCount: v.CountryCount, CreatedAt: v.CreatedAt, Active: v.Active})
		}
		w.Header().Set("content-type", "application/json; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_ = json.NewEncoder(w).Encode(out)
	})

	apiMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return apiMux
}

func writeRaw(w http.ResponseWriter, b []byte, src string) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "public, max-age=300")
	w.Header().Set("content-length", strconv.Itoa(len(b)))
	w.Header().Set(logger.SourceHeader, src)
	_, _ = w.Write(b)
}
