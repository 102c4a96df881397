package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"dotmap/internal/cache"
	"dotmap/internal/config"
	"dotmap/internal/logger"
	"dotmap/internal/store"
)

// 文档注释：数据集版本回滚与保留窗口
// 背景：DOTMAP_ROLLBACK_ID 指定要恢复的版本；DOTMAP_KEEP_N 大于 0 时只保留最近 N 个版本。
// 约束：回滚后重新发布到 Redis（如开启），使查询服务立即读到恢复的版本。
func main() {
	l := logger.Setup()
	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l = logger.Setup()
	var id int64
	if s := os.Getenv("DOTMAP_ROLLBACK_ID"); s != "" {
		if id, err = strconv.ParseInt(s, 10, 64); err != nil || id <= 0 {
			l.Error("rollback_id_invalid", "value", s)
			os.Exit(1)
		}
	}
	keepN := 0
	if s := os.Getenv("DOTMAP_KEEP_N"); s != "" {
		_, _ = fmt.Sscanf(s, "%d", &keepN)
	}
	if id == 0 && keepN <= 0 {
		l.Error("rollback_nothing_to_do")
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := store.OpenPostgres(cfg.Postgres)
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	st := store.AttachDB(db)
	if id > 0 {
		if err := st.Activate(ctx, cfg.DatasetName, id); err != nil {
			l.Error("rollback_error", "name", cfg.DatasetName, "id", id, "err", err)
			os.Exit(1)
		}
		if cfg.Publish {
			ds, _, err := st.Latest(ctx, cfg.DatasetName)
			if err != nil {
				l.Error("rollback_reload_error", "err", err)
				os.Exit(1)
			}
			rc := cache.OpenRedis(cfg.Redis)
			defer rc.Close()
			if err := cache.Publish(ctx, rc, cfg.DatasetName, ds, cfg.CacheTTL); err != nil {
				l.Error("publish_error", "err", err)
				os.Exit(1)
			}
		}
	}
	if keepN > 0 {
		if _, err := st.Prune(ctx, cfg.DatasetName, keepN); err != nil {
			l.Error("prune_error", "err", err)
			os.Exit(1)
		}
	}
	l.Info("rollback_done", "name", cfg.DatasetName, "id", id, "keep", keepN)
}
