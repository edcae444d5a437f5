package fill

// stubBox 与 stubText 组成一个确定性的排版桩：
// 文本高度 = hPer*字号（若容器设置了 px 行高且 lineDriven，则取行高），宽度 = wPer*字号。
type stubBox struct {
	styles map[string]string
	width  float64
	height float64
	items  []*stubText
}

func newStubBox(width, height float64, items ...*stubText) *stubBox {
	b := &stubBox{styles: map[string]string{}, width: width, height: height}
	for _, it := range items {
		it.parent = b
		b.items = append(b.items, it)
	}
	return b
}

func (b *stubBox) Style(prop string) string {
	if v, ok := b.styles[prop]; ok {
		return v
	}
	switch prop {
	case PropMaxWidth, PropMaxHeight:
		return "none"
	case PropLineHeight:
		return "normal"
	}
	return ""
}

func (b *stubBox) SetStyle(prop, value string) { b.styles[prop] = value }
func (b *stubBox) Width() float64              { return b.width }
func (b *stubBox) Height() float64             { return b.height }

func (b *stubBox) Inner(selector string) Element {
	for _, it := range b.items {
		if it.tag == selector && !it.hidden {
			return it
		}
	}
	return nil
}

type stubText struct {
	tag        string
	hidden     bool
	parent     *stubBox
	styles     map[string]string
	hPer       float64
	wPer       float64
	lineDriven bool

	widthCalls  int
	heightCalls int
	fontWrites  []string
}

func newStubText(hPer, wPer float64) *stubText {
	return &stubText{
		tag:    "span",
		styles: map[string]string{PropFontSize: "16px"},
		hPer:   hPer,
		wPer:   wPer,
	}
}

func (s *stubText) Style(prop string) string {
	if v, ok := s.styles[prop]; ok {
		return v
	}
	if prop == PropLineHeight && s.parent != nil {
		return s.parent.Style(PropLineHeight)
	}
	return ""
}

func (s *stubText) SetStyle(prop, value string) {
	if prop == PropFontSize {
		s.fontWrites = append(s.fontWrites, value)
	}
	s.styles[prop] = value
}

func (s *stubText) size() float64 {
	v, _ := parseLeadingFloat(s.styles[PropFontSize])
	return v
}

func (s *stubText) Text() string { return "lorem ipsum" }

func (s *stubText) Width() float64 {
	s.widthCalls++
	return s.wPer * s.size()
}

func (s *stubText) Height() float64 {
	s.heightCalls++
	if s.lineDriven && s.parent != nil {
		if lh, ok := parseLeadingFloat(s.parent.styles[PropLineHeight]); ok {
			return lh
		}
	}
	return s.hPer * s.size()
}
