// 包 pipeline：一次完整的点阵生成（目录 → 栅格 → 小国补点 → 组装）
package pipeline

import (
	"context"
	"fmt"
	"time"

	"dotmap/internal/catalog"
	"dotmap/internal/dataset"
	"dotmap/internal/grid"
	"dotmap/internal/logger"
	"dotmap/internal/metrics"
	"dotmap/internal/placer"
	"dotmap/internal/raster"
)

type Options struct {
	Spec     grid.Spec
	CodeKeys []string
	// Placements 为 nil 时使用内置小国列表；传空切片可关闭补点
	Placements    []placer.Placement
	Offsets       []placer.Offset
	Workers       int
	ProgressEvery int
	OnProgress    func(raster.Progress)
}

type Result struct {
	Dataset     dataset.Dataset
	Catalog     *catalog.Catalog
	CatalogStat catalog.Stats
	AutoDots    int
	Placement   placer.Result
	Stages      map[string]time.Duration
	Elapsed     time.Duration
}

// 文档注释：执行生成
// 背景：各阶段耗时写入指标，目录丢弃、补点失败以日志告警，不视为错误。
// 约束：分辨率非法或 ctx 取消时返回错误；组装结果必须通过校验才返回。
func Run(ctx context.Context, records []catalog.Record, opts Options) (*Result, error) {
	if !opts.Spec.Valid() {
		return nil, fmt.Errorf("pipeline: %w", grid.ErrInvalidSpec)
	}
	l := logger.Component("pipeline")
	placements := opts.Placements
	if placements == nil {
		placements = placer.Microstates
	}
	res := &Result{Stages: make(map[string]time.Duration, 3)}
	t0 := time.Now()
	stage := func(name string, since time.Time) {
		d := time.Since(since)
		res.Stages[name] = d
		metrics.BuildDurationSeconds.WithLabelValues(name).Observe(d.Seconds())
	}

	ts := time.Now()
	cat, st := catalog.Build(records, opts.CodeKeys)
	stage("catalog", ts)
	res.Catalog, res.CatalogStat = cat, st
	metrics.CatalogCountries.Set(float64(cat.Len()))
	metrics.CatalogDiscardedTotal.WithLabelValues("no_code").Add(float64(st.Skipped))
	metrics.CatalogDiscardedTotal.WithLabelValues("duplicate").Add(float64(st.Duplicates))
	l.Info("catalog_built", "input", st.Input, "countries", cat.Len(), "skipped", st.Skipped, "duplicates", st.Duplicates)
	if len(st.Dropped) > 0 {
		l.Debug("catalog_duplicates", "codes", st.Dropped)
	}
	if u := cat.Unsupported(); len(u) > 0 {
		l.Warn("catalog_unsupported_geometry", "codes", u)
	}

	ts = time.Now()
	auto, err := raster.Rasterize(ctx, opts.Spec, cat, raster.Options{
		Workers:       opts.Workers,
		ProgressEvery: opts.ProgressEvery,
		OnProgress: func(p raster.Progress) {
			l.Info("raster_progress", "rows", p.RowsDone, "total", p.RowsTotal,
				"pct", fmt.Sprintf("%.0f", p.Percent()), "dots", p.Dots, "eta_s", int(p.ETA.Seconds()))
			if opts.OnProgress != nil {
				opts.OnProgress(p)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: rasterize: %w", err)
	}
	stage("raster", ts)
	res.AutoDots = len(auto)

	ts = time.Now()
	pr := placer.Place(opts.Spec, auto, placements, opts.Offsets)
	stage("place", ts)
	res.Placement = pr
	for _, a := range pr.Added {
		l.Debug("microstate_added", "code", a.Code, "name", a.Name, "col", a.Dot.Col, "row", a.Dot.Row,
			"shifted", a.Shifted, "displacement_km", fmt.Sprintf("%.0f", a.DisplacementKm))
	}
	for _, p := range pr.Unplaced {
		l.Warn("microstate_unplaced", "code", p.Code, "name", p.Name, "lng", p.Lng, "lat", p.Lat)
	}
	metrics.MicrostatesUnplacedTotal.Add(float64(len(pr.Unplaced)))

	res.Dataset = dataset.Assemble(opts.Spec, auto, pr.Manual)
	if err := res.Dataset.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	metrics.Dots.WithLabelValues("auto").Set(float64(len(auto)))
	metrics.Dots.WithLabelValues("manual").Set(float64(len(pr.Manual)))
	res.Elapsed = time.Since(t0)
	l.Info("dataset_assembled", "grid", opts.Spec.String(), "dots", len(res.Dataset.Dots),
		"auto", len(auto), "manual", len(pr.Manual), "unplaced", len(pr.Unplaced),
		"countries", len(res.Dataset.Countries()), "ms", res.Elapsed.Milliseconds())
	return res, nil
}
