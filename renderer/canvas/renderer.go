package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/textfill/layout"
	"github.com/ByLCY/textfill/renderer"
	"github.com/ByLCY/textfill/renderer/wrap"
)

const (
	boxBorderWidth = 0.2 // mm
	outlineWidth   = 0.3 // mm
)

var (
	outlineFitted   = layout.Color{R: 26, G: 153, B: 51}
	outlineOverflow = layout.Color{R: 217, G: 26, B: 26}
	measureColor    = layout.Color{R: 30, G: 30, B: 30}
)

// Renderer 基于 tdewolff/canvas 输出 PDF，同时作为适配阶段的 Typesetter。
type Renderer struct {
	fonts   *fontCache
	outline bool
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // extra fonts accessible via builtin:<name>
	// Outline 给没有边框的容器描出适配状态：成功为绿色，溢出为红色。
	Outline bool
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		fonts:   newFontCache(opts.BaseDir, opts.Fonts),
		outline: opts.Outline,
	}
}

// Render 把布局结果写成 PDF，每个 layout.Page 对应一页。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, first.Width, first.Height, nil)
	meta := result.Meta
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)

	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与布局坐标一致

		r.drawBoxes(ctx, page.Boxes)
		for _, tb := range page.Texts {
			if err := r.drawText(ctx, tb, lookupFont(tb.Font, result.Resources.Fonts)); err != nil {
				return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
			}
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines 实现 layout.Typesetter。fontSize 与 lineHeight 以 mm 传入，字体面按 pt 创建。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, mode string) ([]layout.TextLine, error) {
	face, err := r.fonts.face(font, fontSize*layout.MmToPt, measureColor)
	if err != nil {
		return nil, err
	}
	lines := wrap.Lines(content, width, face.TextWidth, mode)
	return wrap.Stack(lines, face.Metrics().LineHeight, lineHeight), nil
}

func (r *Renderer) drawBoxes(ctx *canvas.Context, boxes []layout.BoxFrame) {
	transparent := color.RGBA{}
	for _, b := range boxes {
		fillColor, stroke, strokeWidth := color.Color(transparent), color.Color(transparent), 0.0
		if b.Background != nil {
			fillColor = colorFromLayout(*b.Background)
		}
		switch {
		case b.Border != nil:
			stroke, strokeWidth = colorFromLayout(*b.Border), boxBorderWidth
		case r.outline && b.Fitted:
			stroke, strokeWidth = colorFromLayout(outlineFitted), outlineWidth
		case r.outline:
			stroke, strokeWidth = colorFromLayout(outlineOverflow), outlineWidth
		case b.Background == nil:
			continue
		}
		ctx.SetFillColor(fillColor)
		ctx.SetStrokeColor(stroke)
		ctx.SetStrokeWidth(strokeWidth)
		ctx.DrawPath(b.X, b.Y, canvas.Rectangle(b.Width, b.Height))
	}
}

func (r *Renderer) drawText(ctx *canvas.Context, tb layout.TextBox, font layout.FontResource) error {
	face, err := r.fonts.face(font, tb.FontSize*layout.MmToPt, tb.Color)
	if err != nil {
		return err
	}
	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	align, x := anchor(tb)
	ascent := face.Metrics().Ascent
	y := tb.Y
	for _, line := range lines {
		y += line.GapBefore
		// 基线 = 行顶 + 上升部
		ctx.DrawText(x, y+ascent, canvas.NewTextLine(face, line.Content, align))
		if line.Height > 0 {
			y += line.Height
		} else {
			y += tb.FontSize
		}
	}
	return nil
}

// anchor 返回对齐方式与对应的锚点横坐标。
func anchor(tb layout.TextBox) (canvas.TextAlign, float64) {
	switch strings.ToLower(tb.Align) {
	case "center":
		return canvas.Center, tb.X + tb.Width/2
	case "right", "end":
		return canvas.Right, tb.X + tb.Width
	default:
		return canvas.Left, tb.X
	}
}

// lookupFont 找不到同名字体时退回 Body，再退回任意已声明字体。
func lookupFont(name string, declared map[string]layout.FontResource) layout.FontResource {
	if font, ok := declared[name]; ok {
		return font
	}
	if font, ok := declared["Body"]; ok {
		return font
	}
	for _, font := range declared {
		return font
	}
	return layout.FontResource{}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 1)
}
