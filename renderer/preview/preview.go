// Package preview 用 github.com/fogleman/gg 把布局结果画成 PNG，便于快速检查适配效果。
package preview

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/ByLCY/textfill/layout"
	"github.com/ByLCY/textfill/renderer"
	"github.com/ByLCY/textfill/renderer/xfont"
)

// DefaultScale 为每毫米像素数，约等于 96 DPI。
const DefaultScale = layout.MmToPx

// Options 配置预览输出。
type Options struct {
	// Scale 为每毫米像素数，<=0 时使用 DefaultScale。
	Scale float64
	// Page 为要输出的页面下标。
	Page int
	// Outline 为 true 时给每个容器描边：适配成功为绿色，失败为红色。
	Outline bool
}

// Renderer 输出单页 PNG。
type Renderer struct {
	opts  Options
	faces *xfont.Typesetter
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 创建预览渲染器，faces 为 nil 时使用内置字体的 xfont.Typesetter。
func New(opts Options, faces *xfont.Typesetter) *Renderer {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if faces == nil {
		faces = xfont.New("")
	}
	return &Renderer{opts: opts, faces: faces}
}

// Render 实现 renderer.Renderer，返回 PNG 字节。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if r.opts.Page < 0 || r.opts.Page >= len(result.Pages) {
		return nil, fmt.Errorf("页面 %d 不存在，共 %d 页", r.opts.Page, len(result.Pages))
	}
	page := result.Pages[r.opts.Page]
	s := r.opts.Scale

	dc := gg.NewContext(int(math.Ceil(page.Width*s)), int(math.Ceil(page.Height*s)))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, b := range page.Boxes {
		r.drawBox(dc, b)
	}
	for _, tb := range page.Texts {
		if err := r.drawText(dc, tb, result.Resources.Fonts); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawBox(dc *gg.Context, b layout.BoxFrame) {
	s := r.opts.Scale
	x, y, w, h := b.X*s, b.Y*s, b.Width*s, b.Height*s
	if b.Background != nil {
		setColor(dc, *b.Background)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
	}
	switch {
	case b.Border != nil:
		setColor(dc, *b.Border)
	case r.opts.Outline && b.Fitted:
		dc.SetRGB(0.1, 0.6, 0.2)
	case r.opts.Outline:
		dc.SetRGB(0.85, 0.1, 0.1)
	default:
		return
	}
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
}

func (r *Renderer) drawText(dc *gg.Context, tb layout.TextBox, fonts map[string]layout.FontResource) error {
	s := r.opts.Scale
	res, ok := fonts[tb.Font]
	if !ok {
		res = layout.FontResource{Name: tb.Font}
	}
	// xfont 以 72 DPI 建面，字号数值即像素
	face, err := r.faces.Face(res, tb.FontSize*s)
	if err != nil {
		return fmt.Errorf("预览字体 %s: %w", tb.Font, err)
	}
	defer face.Close()
	dc.SetFontFace(face)
	setColor(dc, tb.Color)
	ascent := float64(face.Metrics().Ascent) / 64

	cursorY := tb.Y * s
	for _, line := range tb.Lines {
		cursorY += line.GapBefore * s
		x := tb.X * s
		switch strings.ToLower(tb.Align) {
		case "center":
			x += (tb.Width*s - line.Width*s) / 2
		case "right", "end":
			x += tb.Width*s - line.Width*s
		}
		dc.DrawString(line.Content, x, cursorY+ascent)
		cursorY += line.Height * s
	}
	return nil
}

func setColor(dc *gg.Context, c layout.Color) {
	dc.SetRGB255(c.R, c.G, c.B)
}
