// 包 raster：逐格扫描国家目录，生成自动着色点
package raster

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dotmap/internal/catalog"
	"dotmap/internal/dataset"
	"dotmap/internal/grid"
	"dotmap/internal/metrics"
)

// Progress：进度回调参数
type Progress struct {
	RowsDone  int
	RowsTotal int
	Dots      int
	Elapsed   time.Duration
	ETA       time.Duration
}

func (p Progress) Percent() float64 {
	if p.RowsTotal == 0 {
		return 100
	}
	return float64(p.RowsDone) / float64(p.RowsTotal) * 100
}

type Options struct {
	// Workers：并行扫描的协程数，<=1 时单协程顺序扫描
	Workers int
	// ProgressEvery：每完成多少行回调一次；0 关闭
	ProgressEvery int
	OnProgress    func(Progress)
}

// 文档注释：栅格化
// 背景：对每个单元格中心，按目录顺序找到第一个包含它的国家；无命中（海洋或数据空洞）直接省略。
// 约束：重叠区域归目录中靠前的国家；并行时每行结果写入独立缓冲，最终按行拼接，顺序与单协程扫描完全一致。
func Rasterize(ctx context.Context, spec grid.Spec, cat *catalog.Catalog, opts Options) ([]dataset.Dot, error) {
	if !spec.Valid() {
		return nil, grid.ErrInvalidSpec
	}
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > spec.Rows {
		workers = spec.Rows
	}
	rows := make([][]dataset.Dot, spec.Rows)
	start := time.Now()

	var (
		mu       sync.Mutex
		done     int
		dotCount int
	)
	// 回调在锁内执行，调用方无需考虑并发
	report := func(n int) {
		metrics.RasterRowsTotal.Inc()
		mu.Lock()
		defer mu.Unlock()
		done++
		dotCount += n
		if opts.OnProgress == nil || opts.ProgressEvery <= 0 {
			return
		}
		if done%opts.ProgressEvery != 0 && done != spec.Rows {
			return
		}
		el := time.Since(start)
		eta := time.Duration(float64(el) / float64(done) * float64(spec.Rows-done))
		opts.OnProgress(Progress{RowsDone: done, RowsTotal: spec.Rows, Dots: dotCount, Elapsed: el, ETA: eta})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	fed := 0
	for ; fed < spec.Rows; fed++ {
		if gctx.Err() != nil {
			break
		}
		row := fed
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[row] = scanRow(spec, cat, row)
			report(len(rows[row]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if fed < spec.Rows {
		return nil, ctx.Err()
	}

	out := make([]dataset.Dot, 0, dotCount)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out, nil
}

// scanRow：单行扫描，只读目录，只写本行缓冲
func scanRow(spec grid.Spec, cat *catalog.Catalog, row int) []dataset.Dot {
	var dots []dataset.Dot
	for col := 0; col < spec.Cols; col++ {
		lng, lat := spec.CellCenter(col, row)
		if code := cat.Match(lng, lat); code != "" {
			dots = append(dots, dataset.Dot{Col: col, Row: row, Code: code})
		}
	}
	return dots
}
