package layout

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ByLCY/textfill/binding"
	"github.com/ByLCY/textfill/dsl"
	"github.com/ByLCY/textfill/fill"
)

const blockSpacing = 3.0

// Build 根据 DSL AST 生成页面与容器，对每个容器运行字号适配，并返回排好坐标的布局结果。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	fillOpts, err := collectFillOptions(doc)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		fillOpts.Debug = true
	}
	fillOpts.Hooks = opts.Hooks

	var pages []*pageCollector
	for _, section := range doc.Sections {
		if section.Page == nil {
			continue
		}
		pc, err := buildPage(section.Page, res, data, opts.Typesetter, len(pages))
		if err != nil {
			return nil, err
		}
		pages = append(pages, pc)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("文档中缺少 page 段落")
	}

	var boxes []*boxNode
	var containers []fill.Container
	for _, pc := range pages {
		for _, acc := range pc.accs {
			for _, b := range acc.boxes {
				boxes = append(boxes, b)
				containers = append(containers, b)
			}
		}
	}

	cfg := fill.NewConfig(fillOpts)
	results := fill.Fit(containers, cfg)

	out := &Result{
		RunID:     uuid.NewString(),
		Resources: res,
		Meta:      collectMeta(doc),
		Fill:      settingsFromConfig(cfg),
		Fits:      make([]FitReport, 0, len(results)),
	}
	for i, r := range results {
		boxes[i].succeeded = r.Succeeded
		out.Fits = append(out.Fits, newFitReport(boxes[i], r))
	}
	for _, pc := range pages {
		composed, err := pc.compose()
		if err != nil {
			return nil, err
		}
		out.Pages = append(out.Pages, composed...)
	}
	return out, nil
}

// ContainerName 返回 Build 生成的容器名称，便于在 Hooks 中识别；其他实现返回空串。
func ContainerName(c fill.Container) string {
	if b, ok := c.(*boxNode); ok {
		return b.name
	}
	return ""
}

func newFitReport(b *boxNode, r fill.Result) FitReport {
	report := FitReport{
		Box:              b.name,
		Page:             b.page,
		Succeeded:        r.Succeeded,
		FontSizePx:       r.FontSizePx,
		LineHeightPx:     r.LineHeightPx,
		OriginalFontSize: r.OriginalFontSize,
		MaxWidthPx:       r.MaxWidthPx,
		MaxHeightPx:      r.MaxHeightPx,
		MinFontPx:        r.MinFontPx,
		MaxFontPx:        r.MaxFontPx,
		Height:           r.Height,
		Width:            r.Width,
	}
	if r.Err != nil {
		report.Error = r.Err.Error()
	}
	return report
}

type pageAccumulator struct {
	boxes []*boxNode
}

// pageCollector 负责纵向排布容器，放不下时换页。
type pageCollector struct {
	width   float64
	height  float64
	margin  Margin
	first   int
	cursorY float64
	accs    []*pageAccumulator
}

func newPageCollector(width, height float64, margin Margin, first int) *pageCollector {
	pc := &pageCollector{width: width, height: height, margin: margin, first: first}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.cursorY = pc.margin.Top
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator { return pc.accs[len(pc.accs)-1] }

func (pc *pageCollector) pageIndex() int { return pc.first + len(pc.accs) - 1 }

func (pc *pageCollector) contentWidth() float64 {
	return pc.width - pc.margin.Left - pc.margin.Right
}

// place 把容器放到当前页；绝对定位的容器不推进游标。
func (pc *pageCollector) place(b *boxNode, x, y *float64) {
	if y != nil {
		b.x = pc.margin.Left
		if x != nil {
			b.x += *x
		}
		b.y = pc.margin.Top + *y
		b.page = pc.pageIndex()
		pc.curr().boxes = append(pc.curr().boxes, b)
		return
	}
	bottom := pc.height - pc.margin.Bottom
	if pc.cursorY+b.height > bottom && len(pc.curr().boxes) > 0 {
		pc.newPage()
	}
	b.x = pc.margin.Left
	if x != nil {
		b.x += *x
	}
	b.y = pc.cursorY
	b.page = pc.pageIndex()
	pc.curr().boxes = append(pc.curr().boxes, b)
	pc.cursorY += b.height + blockSpacing
}

func buildPage(section *dsl.PageSection, res ResourceSet, data any, ts Typesetter, first int) (*pageCollector, error) {
	width, height, err := resolvePageSize(section.Spec)
	if err != nil {
		return nil, err
	}
	margin := resolveMargin(section.Spec.Params)
	pc := newPageCollector(width, height, margin, first)

	for _, cmd := range section.Block.Commands() {
		if cmd.Name != "box" {
			continue
		}
		if err := handleBox(cmd, pc, res, data, ts); err != nil {
			return nil, err
		}
	}
	return pc, nil
}

// handleBox 解析 `box <name> width .. height .. [max-width ..] [max-height ..] [line-height ..] { span ... }`。
func handleBox(cmd *dsl.Command, pc *pageCollector, res ResourceSet, data any, ts Typesetter) error {
	name, attrs := cmd.Attrs(true)
	attrs = mergeStyleAttributes(name, attrs, res.Styles)
	if name == "" {
		name = fmt.Sprintf("box-%d", cmd.Pos.Line)
	}

	width, err := requireLength(name, "width", attrs)
	if err != nil {
		return err
	}
	height, err := requireLength(name, "height", attrs)
	if err != nil {
		return err
	}
	if width.ToMM() > pc.contentWidth() {
		width = Length{Value: pc.contentWidth(), Unit: UnitMM}
	}

	b := newBoxNode(name, width, height)
	for _, prop := range []string{fill.PropMaxWidth, fill.PropMaxHeight} {
		if v, ok := attrs[prop]; ok {
			b.styles[prop] = normalizeMaxLength(v)
		}
	}
	if v, ok := attrs[fill.PropLineHeight]; ok {
		b.styles[fill.PropLineHeight] = ParseLineHeight(v).CSS()
	}
	if c, ok := resolveColor(attrs["border"], res); ok {
		b.border = &c
	}
	if c, ok := resolveColor(attrs["background"], res); ok {
		b.background = &c
	}

	for _, child := range cmd.Block.Commands() {
		t, err := newTextNode(child, b, res, data, ts)
		if err != nil {
			return fmt.Errorf("box %s: %w", name, err)
		}
		b.texts = append(b.texts, t)
	}

	pc.place(b, optionalLength(attrs["x"]), optionalLength(attrs["y"]))
	return nil
}

func newTextNode(cmd *dsl.Command, b *boxNode, res ResourceSet, data any, ts Typesetter) (*textNode, error) {
	style, attrs := cmd.Attrs(true)
	attrs = mergeStyleAttributes(style, attrs, res.Styles)
	fontName := attrs["font"]
	if fontName == "" {
		fontName = style
	}
	font, err := resolveFontResource(fontName, res)
	if err != nil {
		return nil, err
	}

	t := &textNode{
		box:     b,
		tag:     cmd.Name,
		content: binding.Interpolate(cmd.Block.Text(), data),
		font:    font,
		color:   defaultTextColor,
		align:   strings.ToLower(attrs["align"]),
		wrap:    normalizeWrap(attrs["wrap"]),
		styles:  map[string]string{},
		ts:      ts,
	}
	if c, ok := resolveColor(attrs["color"], res); ok {
		t.color = c
	}
	if v := attrs["class"]; v != "" {
		t.classes = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	if v, ok := attrs["hidden"]; ok {
		hidden, ok := dsl.ParseBool(v)
		if !ok {
			return nil, fmt.Errorf("%s.hidden 需要布尔值，得到 %q", cmd.Name, v)
		}
		t.hidden = hidden
	}
	size := attrs["size"]
	if size == "" {
		size = attrs[fill.PropFontSize]
	}
	if size != "" {
		l, ok := ParseLength(size)
		if !ok || l.Value <= 0 {
			return nil, fmt.Errorf("%s 的字号 %q 无法解析", cmd.Name, size)
		}
		t.styles[fill.PropFontSize] = formatPx(l.ToPX())
	}
	if v, ok := attrs[fill.PropLineHeight]; ok {
		t.styles[fill.PropLineHeight] = ParseLineHeight(v).CSS()
	}
	if t.wrap == "nowrap" {
		t.styles[fill.PropWhiteSpace] = "nowrap"
	}
	return t, nil
}

// compose 在适配结束后按最终样式排版每个容器内的可见文本，自上而下堆叠。
func (pc *pageCollector) compose() ([]Page, error) {
	pages := make([]Page, 0, len(pc.accs))
	for _, acc := range pc.accs {
		page := Page{Width: pc.width, Height: pc.height, Margin: pc.margin}
		for _, b := range acc.boxes {
			page.Boxes = append(page.Boxes, BoxFrame{
				Name:       b.name,
				X:          b.x,
				Y:          b.y,
				Width:      b.width,
				Height:     b.height,
				Border:     b.border,
				Background: b.background,
				Fitted:     b.succeeded,
			})
			texts, err := b.composeTexts()
			if err != nil {
				return nil, fmt.Errorf("box %s: %w", b.name, err)
			}
			page.Texts = append(page.Texts, texts...)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (b *boxNode) composeTexts() ([]TextBox, error) {
	var out []TextBox
	cursorY := b.y
	for _, t := range b.texts {
		if t.hidden {
			continue
		}
		t.err = nil
		t.invalidate()
		t.measure()
		if t.err != nil {
			return nil, fmt.Errorf("排版失败: %w", t.err)
		}
		fontPx := t.fontSizePx()
		tb := TextBox{
			Content:    t.content,
			X:          b.x,
			Y:          cursorY,
			Width:      b.width,
			LineHeight: t.lineHeightPx() * PxToMm,
			Font:       t.font.Name,
			FontSize:   fontPx * PxToMm,
			FontSizePx: fontPx,
			Color:      t.color,
			Lines:      append([]TextLine(nil), t.lines...),
			Height:     t.heightMM,
			Align:      t.align,
			Wrap:       t.effectiveWrap(),
		}
		out = append(out, tb)
		cursorY += t.heightMM
	}
	return out, nil
}

// requireLength 读取必填长度；不带单位的数值按毫米处理，与页面坐标一致。
func requireLength(box, key string, attrs map[string]string) (Length, error) {
	v, ok := attrs[key]
	if !ok {
		return Length{}, fmt.Errorf("box %s 缺少 %s", box, key)
	}
	l, ok := ParseLength(v)
	if !ok || l.Value <= 0 {
		return Length{}, fmt.Errorf("box %s 的 %s %q 无法解析", box, key, v)
	}
	if l.Unit == UnitNone {
		l.Unit = UnitMM
	}
	return l, nil
}

func optionalLength(v string) *float64 {
	if v == "" {
		return nil
	}
	l, ok := ParseLength(v)
	if !ok {
		return nil
	}
	mm := l.ToMM()
	return &mm
}

// normalizeMaxLength 把 max-width/max-height 规范成计算样式：px 长度或 none。
func normalizeMaxLength(v string) string {
	l, ok := ParseLength(v)
	if !ok || l.Value < 0 {
		return "none"
	}
	return formatPx(l.ToPX())
}

func normalizeWrap(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "anywhere", "overflow-wrap:anywhere", "overflow-anywhere":
		return "anywhere"
	case "break-word", "word-break:break-word":
		return "break-word"
	case "nowrap", "no-wrap":
		return "nowrap"
	default:
		return "normal"
	}
}

func resolvePageSize(spec dsl.PageSpec) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
	}
	width, height := base[0], base[1]
	for _, token := range spec.Params {
		if token.Value == "landscape" {
			width, height = height, width
		}
	}
	return width, height, nil
}

var pagePresets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// resolveMargin 读取 `margin v1 [v2 [v3 [v4]]]`，语义同 CSS 简写；默认四边 20mm。
func resolveMargin(params []*dsl.Lexeme) Margin {
	margin := Margin{Top: 20, Right: 20, Bottom: 20, Left: 20}
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		var vals []float64
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			l, ok := ParseLength(params[j].Value)
			if !ok {
				break
			}
			vals = append(vals, l.ToMM())
		}
		switch len(vals) {
		case 1:
			v := vals[0]
			margin = Margin{Top: v, Right: v, Bottom: v, Left: v}
		case 2:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
		case 4:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return margin
}
