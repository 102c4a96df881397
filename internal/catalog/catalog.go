// 包 catalog：把原始边界要素整理为按国家代码去重的有序目录
package catalog

import (
	"dotmap/internal/geo"
	"sort"
	"strings"

	"github.com/paulmach/orb"
)

// Record：一条原始要素（属性 + 几何），顺序即输入顺序
type Record struct {
	Props    map[string]any
	Geometry orb.Geometry
}

// Entry：目录项，代码唯一
type Entry struct {
	Code     string
	Geometry orb.Geometry
	Shape    geo.Shape
}

// Contains：优先走预处理的 Shape；字面量构造、未经 Build 的目录项回退到原始几何
func (e Entry) Contains(lng, lat float64) bool {
	if e.Shape.Empty() {
		return geo.Contains(lng, lat, e.Geometry)
	}
	return e.Shape.Contains(lng, lat)
}

// Catalog：只读目录；顺序决定重叠区域的归属
type Catalog struct {
	Entries []Entry
	index   map[string]int
}

// Stats：构建过程中丢弃的记录计数
type Stats struct {
	Input      int
	Skipped    int      // 无法解析国家代码
	Duplicates int      // 代码已出现，后来者整条丢弃
	Dropped    []string // 被丢弃的重复代码（按出现顺序，可重复）
}

// 属性键优先级
var (
	// Keys50m：50m 数据优先使用 _EH 字段（覆盖法国、挪威等 ISO_A2 为 -99 的要素）
	Keys50m = []string{"ISO_A2_EH", "iso_a2_eh", "ISO_A2", "iso_a2"}
	Keys10m = []string{"ISO_A2", "iso_a2"}
)

// FallbackKey：所有优先键都无效时，取该字段前两位
const FallbackKey = "ADM0_ISO"

// 文档注释：构建国家目录
// 背景：同一国家可能在源数据中拆成多行；按首次出现保留，后续几何整体丢弃，不合并。
// 约束：无法解析代码的记录跳过且不报错；输出顺序为各代码首次出现的顺序。
func Build(records []Record, keys []string) (*Catalog, Stats) {
	if len(keys) == 0 {
		keys = Keys50m
	}
	st := Stats{Input: len(records)}
	c := &Catalog{index: make(map[string]int)}
	for _, r := range records {
		code := ResolveCode(r.Props, keys)
		if code == "" {
			st.Skipped++
			continue
		}
		if _, ok := c.index[code]; ok {
			st.Duplicates++
			st.Dropped = append(st.Dropped, code)
			continue
		}
		c.index[code] = len(c.Entries)
		c.Entries = append(c.Entries, Entry{Code: code, Geometry: r.Geometry, Shape: geo.NewShape(r.Geometry)})
	}
	return c, st
}

// ResolveCode：按键顺序取第一个有效两位代码，否则回退到 ADM0_ISO 前两位
func ResolveCode(props map[string]any, keys []string) string {
	for _, k := range keys {
		if code := NormalizeCode(stringProp(props, k)); code != "" {
			return code
		}
	}
	adm := strings.TrimSpace(stringProp(props, FallbackKey))
	if len(adm) < 2 {
		return ""
	}
	return NormalizeCode(adm[:2])
}

// NormalizeCode：去空白并转大写；占位值与非两位字母返回空串
func NormalizeCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", "-1", "-99", "--":
		return ""
	}
	if len(s) != 2 || !isLetter(s[0]) || !isLetter(s[1]) {
		return ""
	}
	return s
}

func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' }

func stringProp(props map[string]any, k string) string {
	if props == nil {
		return ""
	}
	if v, ok := props[k].(string); ok {
		return v
	}
	return ""
}

func (c *Catalog) Len() int { return len(c.Entries) }

func (c *Catalog) Lookup(code string) (Entry, bool) {
	i, ok := c.index[code]
	if !ok {
		return Entry{}, false
	}
	return c.Entries[i], true
}

// Codes：目录顺序的代码列表
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Code
	}
	return out
}

// Unsupported：几何无法参与判定的代码（非 Polygon/MultiPolygon 或坐标为空），已排序
func (c *Catalog) Unsupported() []string {
	var out []string
	for _, e := range c.Entries {
		if e.Shape.Empty() && geo.NewShape(e.Geometry).Empty() {
			out = append(out, e.Code)
		}
	}
	sort.Strings(out)
	return out
}

// Match：按目录顺序返回第一个包含该点的代码；无命中返回空串
// 约束：第一个命中即返回，不比较面积或精细程度
func (c *Catalog) Match(lng, lat float64) string {
	for i := range c.Entries {
		if c.Entries[i].Contains(lng, lat) {
			return c.Entries[i].Code
		}
	}
	return ""
}
