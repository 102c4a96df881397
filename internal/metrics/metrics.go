package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	BuildDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dotmap_build_stage_duration_seconds",
		Help:    "Duration of each dot map build stage in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
	}, []string{"stage"})
	RasterRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dotmap_raster_rows_total",
		Help: "Total grid rows scanned by the rasterizer",
	})
	CatalogCountries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dotmap_catalog_countries",
		Help: "Number of distinct country codes in the last built catalog",
	})
	CatalogDiscardedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dotmap_catalog_discarded_total",
		Help: "Source records left out of the catalog by reason",
	}, []string{"reason"})
	Dots = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dotmap_dots",
		Help: "Dots in the last built dataset by origin",
	}, []string{"origin"})
	MicrostatesUnplacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dotmap_microstates_unplaced_total",
		Help: "Manual placements that found no free cell",
	})
	DatasetRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dotmap_dataset_requests_total",
		Help: "Dataset requests by the layer that served them",
	}, []string{"source"})
	DatasetRequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dotmap_dataset_request_duration_ms",
		Help:    "Dataset request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
)

// buildCollectors：生成任务相关的指标，推送到 Pushgateway 时只带这些
var buildCollectors = []prometheus.Collector{
	BuildDurationSeconds,
	RasterRowsTotal,
	CatalogCountries,
	CatalogDiscardedTotal,
	Dots,
	MicrostatesUnplacedTotal,
}

func init() {
	for _, c := range buildCollectors {
		prometheus.MustRegister(c)
	}
	prometheus.MustRegister(DatasetRequestsTotal)
	prometheus.MustRegister(DatasetRequestDurationMs)
}

// 文档注释：返回 Prometheus 指标处理器，服务入口挂载到 /metrics
func Handler() http.Handler { return promhttp.Handler() }

// 文档注释：一次性生成任务结束时推送指标
// 背景：生成任务不常驻，无法被抓取；配置了 Pushgateway 时推送本次运行的结果。
// 约束：url 为空直接返回；失败只返回错误，由调用方记日志，不影响产物。
func Push(url, job string) error {
	if url == "" {
		return nil
	}
	p := push.New(url, job)
	for _, c := range buildCollectors {
		p = p.Collector(c)
	}
	return p.Push()
}
