// 程序入口：点阵数据集查询服务，只负责读取配置、初始化依赖并启动 HTTP
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"dotmap/internal/api"
	"dotmap/internal/cache"
	"dotmap/internal/config"
	"dotmap/internal/logger"
	"dotmap/internal/metrics"
	"dotmap/internal/middleware"
	"dotmap/internal/store"
	"dotmap/internal/utils"
)

func main() {
	l := logger.Setup()
	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l = logger.Setup()
	l.Debug("config_api_base", "base", cfg.APIBase)

	// 数据库不可达时仍可只靠 Redis 提供服务
	var ds api.Datasets
	db, err := store.OpenPostgres(cfg.Postgres)
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		l.Error("db_ping_error", "err", err)
	} else {
		l.Info("db_ping_ok")
		if err := store.EnsureSchema(context.Background(), db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		ds = store.AttachDB(db)
	}

	rc := cache.OpenRedis(cfg.Redis)
	defer rc.Close()
	if err := rc.Ping(context.Background()).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
	} else {
		l.Info("redis_ping_ok")
	}

	handler := newHandler(l, cfg, ds, rc)
	s := &http.Server{Addr: cfg.APIAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()
	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "dotmap.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.APIAddr, "cert", cfg.TLSCertPath)
		if err := s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("listen_error", "err", err)
		}
		return
	}
	l.Info("listening", "addr", cfg.APIAddr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("listen_error", "err", err)
	}
}

// newHandler：组装服务路由
// 约束：限流只作用于数据集接口，/metrics 与 /healthz 不受影响
func newHandler(l *slog.Logger, cfg *config.Config, ds api.Datasets, rc *redis.Client) http.Handler {
	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(ds, rc, cfg.CacheTTL)
	limited := middleware.RateLimit(cfg.RateLimitQPS)(http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/", limited)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return logger.AccessMiddleware(l)(mux)
}
