package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"dotmap/internal/cache"
	"dotmap/internal/config"
	"dotmap/internal/logger"
	"dotmap/internal/metrics"
	"dotmap/internal/pipeline"
	"dotmap/internal/placer"
	"dotmap/internal/preview"
	"dotmap/internal/source"
	"dotmap/internal/store"
)

// 文档注释：生成点阵世界地图数据集
// 背景：离线一次性作业；下载或读取国家边界，栅格化后补齐小国，写出前端直接加载的 JSON。
// 约束：数据源获取或解析失败直接退出；入库与发布按配置开启，失败同样退出，保证产物与线上一致。
func main() {
	l := logger.Setup()
	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l = logger.Setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info("build_begin", "grid", cfg.Spec.String(), "source", firstNonEmpty(cfg.SourceFile, cfg.SourceURL), "keys", strings.Join(cfg.CodeKeys, ","))
	t0 := time.Now()
	recs, err := source.Load(ctx, cfg.SourceFile, cfg.SourceURL, cfg.FetchTimeout)
	if err != nil {
		l.Error("source_error", "err", err)
		os.Exit(1)
	}
	metrics.BuildDurationSeconds.WithLabelValues("source").Observe(time.Since(t0).Seconds())

	res, err := pipeline.Run(ctx, recs, pipeline.Options{
		Spec:          cfg.Spec,
		CodeKeys:      cfg.CodeKeys,
		Offsets:       placer.ForSpec(cfg.Spec),
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
	})
	if err != nil {
		l.Error("build_error", "err", err)
		os.Exit(1)
	}
	ds := res.Dataset

	var buf bytes.Buffer
	if err := ds.Encode(&buf); err != nil {
		l.Error("encode_error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		l.Error("output_dir_error", "err", err)
		os.Exit(1)
	}
	if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		l.Error("output_write_error", "path", cfg.Output, "err", err)
		os.Exit(1)
	}
	l.Info("output_written", "path", cfg.Output, "kb", buf.Len()/1024)

	if cfg.Preview != "" {
		if err := preview.WriteFile(cfg.Preview, ds, cfg.PreviewScale); err != nil {
			l.Error("preview_error", "path", cfg.Preview, "err", err)
		} else {
			l.Info("preview_written", "path", cfg.Preview)
		}
	}

	if cfg.Store {
		db, err := store.OpenPostgres(cfg.Postgres)
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := store.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		if _, err := store.AttachDB(db).Save(ctx, cfg.DatasetName, ds); err != nil {
			l.Error("store_error", "err", err)
			os.Exit(1)
		}
	}
	if cfg.Publish {
		rc := cache.OpenRedis(cfg.Redis)
		defer rc.Close()
		if err := cache.Publish(ctx, rc, cfg.DatasetName, ds, cfg.CacheTTL); err != nil {
			l.Error("publish_error", "err", err)
			os.Exit(1)
		}
	}
	if err := metrics.Push(cfg.PushgatewayURL, "dotmap_build"); err != nil {
		l.Warn("metrics_push_error", "err", err)
	}

	fmt.Printf("Grid:        %s (%d cells)\n", cfg.Spec, cfg.Spec.Cells())
	fmt.Printf("Countries:   %d in catalog, %d in dataset\n", res.Catalog.Len(), len(ds.Countries()))
	fmt.Printf("Dots:        %d (%d auto, %d manual)\n", len(ds.Dots), res.AutoDots, len(res.Placement.Manual))
	fmt.Printf("Microstates: %s\n", strings.Join(res.Placement.Codes(), " "))
	if len(res.Placement.Unplaced) > 0 {
		codes := make([]string, len(res.Placement.Unplaced))
		for i, p := range res.Placement.Unplaced {
			codes[i] = p.Code
		}
		fmt.Printf("Unplaced:    %s\n", strings.Join(codes, " "))
	}
	fmt.Printf("Output:      %s (%.1f KB)\n", cfg.Output, float64(buf.Len())/1024)
	fmt.Printf("Elapsed:     %s\n", time.Since(t0).Round(time.Millisecond))
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
