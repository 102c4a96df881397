// 包 grid：采样网格与经纬度之间的双向映射
package grid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidSpec = errors.New("grid: columns and rows must be positive")

// Spec：采样分辨率（列 × 行），覆盖经度 [-180,180)、纬度 (−90,90]
type Spec struct {
	Cols int
	Rows int
}

var (
	// Standard：50m 边界数据配合 360×180，每点 1°
	Standard = Spec{Cols: 360, Rows: 180}
	// Fine：10m 边界数据配合 540×270，每点约 0.67°
	Fine = Spec{Cols: 540, Rows: 270}
)

func NewSpec(cols, rows int) (Spec, error) {
	if cols <= 0 || rows <= 0 {
		return Spec{}, fmt.Errorf("%w: got %dx%d", ErrInvalidSpec, cols, rows)
	}
	return Spec{Cols: cols, Rows: rows}, nil
}

// ParseSpec：解析 "standard"、"fine" 或 "<cols>x<rows>"
func ParseSpec(s string) (Spec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return Standard, nil
	case "fine":
		return Fine, nil
	}
	a, b, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Spec{}, fmt.Errorf("grid: bad resolution %q", s)
	}
	cols, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Spec{}, fmt.Errorf("grid: bad columns in %q: %w", s, err)
	}
	rows, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return Spec{}, fmt.Errorf("grid: bad rows in %q: %w", s, err)
	}
	return NewSpec(cols, rows)
}

func (s Spec) Valid() bool { return s.Cols > 0 && s.Rows > 0 }

func (s Spec) Cells() int { return s.Cols * s.Rows }

func (s Spec) String() string { return fmt.Sprintf("%dx%d", s.Cols, s.Rows) }

// DegreesPerCell：单元格经度跨度
func (s Spec) DegreesPerCell() float64 { return 360 / float64(s.Cols) }

// CellCenter：单元格中心点
// 约束：栅格扫描与小国补点共用这一个定义
func (s Spec) CellCenter(col, row int) (lng, lat float64) {
	lng = -180 + (float64(col)+0.5)*(360/float64(s.Cols))
	lat = 90 - (float64(row)+0.5)*(180/float64(s.Rows))
	return lng, lat
}

// CellIndex：经纬度所在单元格；不做截断，越界由 InBounds 判断
func (s Spec) CellIndex(lng, lat float64) (col, row int) {
	col = int(math.Floor((lng + 180) / 360 * float64(s.Cols)))
	row = int(math.Floor((90 - lat) / 180 * float64(s.Rows)))
	return col, row
}

func (s Spec) InBounds(col, row int) bool {
	return col >= 0 && col < s.Cols && row >= 0 && row < s.Rows
}
