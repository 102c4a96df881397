// 包 preview：把数据集画成 PNG，生成后人工检查用
package preview

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"dotmap/internal/dataset"
)

// Background：深色底，接近前端地球渲染的夜间配色
var Background = color.RGBA{R: 0x0b, G: 0x0f, B: 0x1a, A: 0xff}

// DotRadius：相对单元格边长的半径比例
const DotRadius = 0.4

// 文档注释：渲染预览
// 背景：每个点画成实心圆，同一国家同一色相，便于肉眼发现错位与漏国。
// 约束：scale 为每个单元格的像素边长，<1 时按 1 处理。
func Render(ds dataset.Dataset, scale int) image.Image {
	if scale < 1 {
		scale = 1
	}
	dc := gg.NewContext(ds.Cols*scale, ds.Rows*scale)
	dc.SetColor(Background)
	dc.Clear()
	r := float64(scale) * DotRadius
	for _, d := range ds.Dots {
		dc.SetColor(CodeColor(d.Code))
		dc.DrawCircle(float64(d.Col*scale)+float64(scale)/2, float64(d.Row*scale)+float64(scale)/2, r)
		dc.Fill()
	}
	return dc.Image()
}

func Encode(w io.Writer, ds dataset.Dataset, scale int) error {
	dc := gg.NewContextForImage(Render(ds, scale))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("preview: encode png: %w", err)
	}
	return nil
}

func WriteFile(path string, ds dataset.Dataset, scale int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, ds, scale); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// CodeColor：由代码哈希得到稳定色相
func CodeColor(code string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(code))
	return hsv(float64(h.Sum32()%360), 0.65, 0.95)
}

func hsv(h, s, v float64) color.RGBA {
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
