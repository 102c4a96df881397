// 包 dataset：点阵地图输出结构与编解码
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"dotmap/internal/grid"
)

// Dot：一个已着色的单元格，JSON 形式为 [col,row,"CC"]
type Dot struct {
	Col  int
	Row  int
	Code string
}

func (d Dot) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{d.Col, d.Row, d.Code})
}

func (d *Dot) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("dataset: dot needs 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &d.Col); err != nil {
		return fmt.Errorf("dataset: dot column: %w", err)
	}
	if err := json.Unmarshal(raw[1], &d.Row); err != nil {
		return fmt.Errorf("dataset: dot row: %w", err)
	}
	if err := json.Unmarshal(raw[2], &d.Code); err != nil {
		return fmt.Errorf("dataset: dot code: %w", err)
	}
	return nil
}

// Dataset：网格尺寸 + 稀疏着色列表；未着色单元格不出现
type Dataset struct {
	Cols int   `json:"cols"`
	Rows int   `json:"rows"`
	Dots []Dot `json:"dots"`
}

// 文档注释：组装输出
// 背景：自动栅格结果（行优先）在前，人工补点（列表顺序）在后。
// 约束：唯一性由上游保证，这里不再去重。
func Assemble(spec grid.Spec, auto, manual []Dot) Dataset {
	dots := make([]Dot, 0, len(auto)+len(manual))
	dots = append(dots, auto...)
	dots = append(dots, manual...)
	return Dataset{Cols: spec.Cols, Rows: spec.Rows, Dots: dots}
}

func (d Dataset) Spec() grid.Spec { return grid.Spec{Cols: d.Cols, Rows: d.Rows} }

var ErrInvalid = errors.New("dataset: invalid")

// Validate：尺寸为正、点在界内、代码两位大写字母、每格至多一个点
func (d Dataset) Validate() error {
	if !d.Spec().Valid() {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, d.Cols, d.Rows)
	}
	seen := make(map[[2]int]string, len(d.Dots))
	for i, dot := range d.Dots {
		if !d.Spec().InBounds(dot.Col, dot.Row) {
			return fmt.Errorf("%w: dot %d (%d,%d) out of bounds", ErrInvalid, i, dot.Col, dot.Row)
		}
		if len(dot.Code) != 2 || dot.Code[0] < 'A' || dot.Code[0] > 'Z' || dot.Code[1] < 'A' || dot.Code[1] > 'Z' {
			return fmt.Errorf("%w: dot %d has code %q", ErrInvalid, i, dot.Code)
		}
		k := [2]int{dot.Col, dot.Row}
		if prev, ok := seen[k]; ok {
			return fmt.Errorf("%w: cell (%d,%d) assigned to %s and %s", ErrInvalid, dot.Col, dot.Row, prev, dot.Code)
		}
		seen[k] = dot.Code
	}
	return nil
}

// Countries：出现过的代码，排序后返回
func (d Dataset) Countries() []string {
	counts := d.CountByCode()
	out := make([]string, 0, len(counts))
	for c := range counts {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (d Dataset) CountByCode() map[string]int {
	m := make(map[string]int)
	for _, dot := range d.Dots {
		m[dot.Code]++
	}
	return m
}

// Encode：紧凑 JSON（无缩进、无空格）
func (d Dataset) Encode(w io.Writer) error {
	b, err := d.MarshalCompact()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (d Dataset) MarshalCompact() ([]byte, error) {
	if d.Dots == nil {
		d.Dots = []Dot{}
	}
	return json.Marshal(d)
}

func Decode(r io.Reader) (Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Dataset{}, fmt.Errorf("dataset: decode: %w", err)
	}
	return d, nil
}
