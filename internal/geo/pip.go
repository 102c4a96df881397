package geo

import "github.com/paulmach/orb"

// 文档注释：点入多边形判定（Even-Odd 射线法）
// 背景：栅格扫描对每个单元格中心逐国判定；支持洞与多面结构。
// 约束：坐标为经纬度 (lng, lat)；环无需首尾闭合；点恰在边上时结果可能为任一侧，但对同一输入稳定。
func RingContains(px, py float64, ring orb.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		// 跨越条件为严格不等，yi==yj 的水平边不会进入除法
		if (yi > py) != (yj > py) && px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PolygonContains：外环命中且不在任何洞内
func PolygonContains(lng, lat float64, poly orb.Polygon) bool {
	if len(poly) == 0 {
		return false
	}
	if !RingContains(lng, lat, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if RingContains(lng, lat, hole) {
			return false
		}
	}
	return true
}

// Contains：对 Polygon / MultiPolygon 判定，其他几何类型一律视为不包含
// 约束：MultiPolygon 的洞只对所属部分生效，各部分相互独立
func Contains(lng, lat float64, g orb.Geometry) bool {
	switch v := g.(type) {
	case orb.Polygon:
		return PolygonContains(lng, lat, v)
	case orb.MultiPolygon:
		for _, part := range v {
			if PolygonContains(lng, lat, part) {
				return true
			}
		}
	}
	return false
}
