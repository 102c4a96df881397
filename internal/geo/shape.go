package geo

import "github.com/paulmach/orb"

// 文档注释：带包围盒的几何
// 背景：栅格扫描中绝大多数 (点, 国家) 组合都落在包围盒之外，先做盒过滤再射线判定。
// 约束：判定结果与 Contains 完全一致；只有 Polygon / MultiPolygon 会产生部件，其余几何为空 Shape。
type Shape struct {
	parts  []part
	bounds orb.Bound
}

type part struct {
	poly  orb.Polygon
	bound orb.Bound
}

func NewShape(g orb.Geometry) Shape {
	var polys []orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{v}
	case orb.MultiPolygon:
		polys = v
	}
	s := Shape{}
	first := true
	for _, p := range polys {
		if len(p) == 0 || len(p[0]) == 0 {
			continue
		}
		b := p[0].Bound()
		s.parts = append(s.parts, part{poly: p, bound: b})
		if first {
			s.bounds = b
			first = false
		} else {
			s.bounds = s.bounds.Union(b)
		}
	}
	return s
}

// Empty：没有可判定的部件（不支持的几何或空坐标）
func (s Shape) Empty() bool { return len(s.parts) == 0 }

func (s Shape) Bound() orb.Bound { return s.bounds }

// Parts：部件数量（Polygon 为 1）
func (s Shape) Parts() int { return len(s.parts) }

func (s Shape) Contains(lng, lat float64) bool {
	if len(s.parts) == 0 {
		return false
	}
	pt := orb.Point{lng, lat}
	if !s.bounds.Contains(pt) {
		return false
	}
	for _, p := range s.parts {
		// 外环包围盒即部件包围盒，洞必在其内
		if !p.bound.Contains(pt) {
			continue
		}
		if PolygonContains(lng, lat, p.poly) {
			return true
		}
	}
	return false
}
