// 包 logger：数据集接口的访问日志
package logger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SourceHeader：数据集接口回写的命中来源（redis / postgres）
const SourceHeader = "x-dotmap-source"

// defaultDataset：未带 name 参数时接口使用的数据集
const defaultDataset = "world"

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// 文档注释：访问日志中间件
// 背景：排查前端拿到旧数据集时，需要知道请求的是哪个数据集、从缓存还是数据库返回。
// 约束：/dotmap 路径附带 dataset_name 与 source；5xx 以 warn 输出，其余为 debug。
func AccessMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if name, ok := datasetName(r); ok {
				attrs = append(attrs, "dataset_name", name)
				if src := sw.Header().Get(SourceHeader); src != "" {
					attrs = append(attrs, "source", src)
				}
			}
			level := slog.LevelDebug
			if sw.status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			l.Log(r.Context(), level, "dotmap_access", attrs...)
		})
	}
}

func datasetName(r *http.Request) (string, bool) {
	if !strings.Contains(r.URL.Path, "/dotmap") {
		return "", false
	}
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		return name, true
	}
	return defaultDataset, true
}
