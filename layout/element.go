package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/textfill/fill"
)

// 本文件让 box/文本节点满足 fill.Container 与 fill.Element：
// 样式以 CSS 计算值的形式读写，尺寸通过 Typesetter 实时排版得到（单位 px）。

const defaultFontSizePx = 16.0

var (
	_ fill.Container = (*boxNode)(nil)
	_ fill.Element   = (*textNode)(nil)
	_ fill.Texter    = (*textNode)(nil)
)

// boxNode 是固定尺寸的容器。
type boxNode struct {
	name   string
	page   int
	x, y   float64 // mm
	width  float64 // mm
	height float64 // mm
	// widthPx/heightPx 直接取自声明的长度，避免 mm 往返带来的舍入误差。
	widthPx  float64
	heightPx float64
	styles   map[string]string
	texts    []*textNode

	succeeded bool

	border     *Color
	background *Color
}

func newBoxNode(name string, width, height Length) *boxNode {
	return &boxNode{
		name:     name,
		width:    width.ToMM(),
		height:   height.ToMM(),
		widthPx:  width.ToPX(),
		heightPx: height.ToPX(),
		styles: map[string]string{
			fill.PropMaxWidth:   "none",
			fill.PropMaxHeight:  "none",
			fill.PropLineHeight: "normal",
		},
	}
}

func (b *boxNode) Style(prop string) string { return b.styles[prop] }

func (b *boxNode) SetStyle(prop, value string) {
	b.styles[prop] = value
	if prop == fill.PropLineHeight {
		for _, t := range b.texts {
			t.invalidate()
		}
	}
}

func (b *boxNode) Width() float64  { return b.widthPx }
func (b *boxNode) Height() float64 { return b.heightPx }

// Inner 返回第一个可见且标签匹配的文本节点，"*" 匹配任意标签。
func (b *boxNode) Inner(selector string) fill.Element {
	tag, class, _ := strings.Cut(strings.TrimSpace(selector), ".")
	for _, t := range b.texts {
		if t.hidden {
			continue
		}
		if tag != "*" && tag != "" && !strings.EqualFold(t.tag, tag) {
			continue
		}
		if class != "" && !t.hasClass(class) {
			continue
		}
		return t
	}
	return nil
}

// textNode 是容器内的一段文本。
type textNode struct {
	box     *boxNode
	tag     string
	classes []string
	hidden  bool
	content string
	font    FontResource
	color   Color
	align   string
	wrap    string
	styles  map[string]string
	ts      Typesetter

	measured bool
	lines    []TextLine
	widthMM  float64
	heightMM float64
	err      error
}

func (t *textNode) hasClass(name string) bool {
	for _, c := range t.classes {
		if c == name {
			return true
		}
	}
	return false
}

// Style 返回计算样式；line-height 未声明时继承自容器。
func (t *textNode) Style(prop string) string {
	if v, ok := t.styles[prop]; ok && v != "" {
		return v
	}
	switch prop {
	case fill.PropLineHeight:
		if t.box != nil {
			return t.box.Style(fill.PropLineHeight)
		}
		return "normal"
	case fill.PropFontSize:
		return formatPx(defaultFontSizePx)
	case fill.PropWhiteSpace:
		return "normal"
	}
	return ""
}

func (t *textNode) SetStyle(prop, value string) {
	t.styles[prop] = value
	t.invalidate()
}

func (t *textNode) Width() float64 {
	t.measure()
	return t.widthMM * MmToPx
}

func (t *textNode) Height() float64 {
	t.measure()
	return t.heightMM * MmToPx
}

func (t *textNode) Text() string { return t.content }

func (t *textNode) invalidate() { t.measured = false }

func (t *textNode) fontSizePx() float64 {
	if l, ok := ParseLength(t.Style(fill.PropFontSize)); ok && l.Value > 0 {
		return l.ToPX()
	}
	return defaultFontSizePx
}

func (t *textNode) lineHeightPx() float64 {
	return ParseLineHeight(t.Style(fill.PropLineHeight)).ResolvePX(t.fontSizePx())
}

func (t *textNode) effectiveWrap() string {
	if strings.EqualFold(t.Style(fill.PropWhiteSpace), "nowrap") {
		return "nowrap"
	}
	return t.wrap
}

// measure 在样式变化后重新排版。排版失败时尺寸记为 +Inf，使该字号不可行。
func (t *textNode) measure() {
	if t.measured {
		return
	}
	t.measured = true
	fontSize := t.fontSizePx() * PxToMm
	lineHeight := t.lineHeightPx() * PxToMm
	lines, err := layoutLines(t.content, t.box.width, t.font, fontSize, lineHeight, t.ts, t.effectiveWrap())
	if err != nil {
		if t.err == nil {
			t.err = err
		}
		t.lines = nil
		t.widthMM, t.heightMM = math.Inf(1), math.Inf(1)
		return
	}
	t.lines = lines
	t.widthMM = 0
	for _, ln := range lines {
		t.widthMM = math.Max(t.widthMM, ln.Width)
	}
	t.heightMM = stackLines(lines, fontSize, lineHeight)
}

// stackLines 回填缺失的行高与行距，返回 Σ(GapBefore+Height)。
func stackLines(lines []TextLine, fontSize, lineHeight float64) float64 {
	total := 0.0
	defaultLeading := math.Max(lineHeight-fontSize, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = defaultLeading
		}
		total += lines[i].GapBefore + lines[i].Height
	}
	return total
}

func layoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64, ts Typesetter, wrap string) ([]TextLine, error) {
	lines, err := ts.LayoutLines(content, width, font, fontSize, lineHeight, wrap)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: fontSize}}
	}
	lines[0].GapBefore = 0
	return lines, nil
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
