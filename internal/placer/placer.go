// 包 placer：把人工维护的小国坐标强制落到网格上，不覆盖已有着色
package placer

import (
	"dotmap/internal/catalog"
	"dotmap/internal/dataset"
	"dotmap/internal/grid"

	"github.com/golang/geo/s2"
)

// Placement：一条人工补点（真实经纬度）
type Placement struct {
	Name string
	Lng  float64
	Lat  float64
	Code string
}

// Offset：相对目标格的候选偏移
type Offset struct {
	DC int
	DR int
}

// 候选偏移序列：中心 → 四邻 → 对角 →（高分辨率）距离 2 的四邻
var (
	NeighborOffsets = []Offset{
		{0, 0},
		{0, 1}, {1, 0}, {0, -1}, {-1, 0},
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	}
	ExtendedOffsets = append(append([]Offset{}, NeighborOffsets...),
		Offset{0, 2}, Offset{2, 0}, Offset{0, -2}, Offset{-2, 0},
	)
)

// FineCols：达到该列数时使用扩展偏移
const FineCols = 540

// ForSpec：按分辨率选择偏移序列
func ForSpec(spec grid.Spec) []Offset {
	if spec.Cols >= FineCols {
		return ExtendedOffsets
	}
	return NeighborOffsets
}

// Added：一次成功补点，附带与真实坐标的偏离
type Added struct {
	Placement
	Dot dataset.Dot
	// Shifted：是否偏离了目标格
	Shifted bool
	// DisplacementKm：落点格中心到真实坐标的大圆距离
	DisplacementKm float64
}

type Result struct {
	// Dots：原有点 + 新增点（追加在末尾）
	Dots     []dataset.Dot
	Manual   []dataset.Dot
	Added    []Added
	Unplaced []Placement
}

const earthRadiusKm = 6371.01

// 文档注释：补点
// 背景：极小国家在当前分辨率下可能不覆盖任何格中心，自动栅格会整体漏掉。
// 约束：先用已有点构建占用集合；按列表顺序逐个处理，前面的补点可以占掉后面想要的格；
// 候选全部越界或被占时放弃并记入 Unplaced，绝不覆盖已有点；
// 代码先去空白转大写，仍不是两位字母的同样记入 Unplaced。
func Place(spec grid.Spec, dots []dataset.Dot, placements []Placement, offsets []Offset) Result {
	if len(offsets) == 0 {
		offsets = ForSpec(spec)
	}
	occupied := make(map[[2]int]struct{}, len(dots)+len(placements))
	for _, d := range dots {
		occupied[[2]int{d.Col, d.Row}] = struct{}{}
	}
	res := Result{Dots: append(make([]dataset.Dot, 0, len(dots)+len(placements)), dots...)}
	for _, p := range placements {
		code := catalog.NormalizeCode(p.Code)
		if code == "" {
			res.Unplaced = append(res.Unplaced, p)
			continue
		}
		p.Code = code
		col, row := spec.CellIndex(p.Lng, p.Lat)
		placed := false
		for _, o := range offsets {
			nc, nr := col+o.DC, row+o.DR
			if !spec.InBounds(nc, nr) {
				continue
			}
			k := [2]int{nc, nr}
			if _, ok := occupied[k]; ok {
				continue
			}
			occupied[k] = struct{}{}
			d := dataset.Dot{Col: nc, Row: nr, Code: code}
			res.Dots = append(res.Dots, d)
			res.Manual = append(res.Manual, d)
			res.Added = append(res.Added, Added{
				Placement:      p,
				Dot:            d,
				Shifted:        o != (Offset{}),
				DisplacementKm: displacementKm(spec, d, p),
			})
			placed = true
			break
		}
		if !placed {
			res.Unplaced = append(res.Unplaced, p)
		}
	}
	return res
}

func displacementKm(spec grid.Spec, d dataset.Dot, p Placement) float64 {
	lng, lat := spec.CellCenter(d.Col, d.Row)
	a := s2.LatLngFromDegrees(lat, lng)
	b := s2.LatLngFromDegrees(p.Lat, p.Lng)
	return a.Distance(b).Radians() * earthRadiusKm
}

// Codes：新增点的代码，按补点顺序
func (r Result) Codes() []string {
	out := make([]string, len(r.Added))
	for i, a := range r.Added {
		out[i] = a.Code
	}
	return out
}
