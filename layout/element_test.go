package layout

import (
	"math"
	"testing"

	"github.com/ByLCY/textfill/fill"
)

func newTestBox(texts ...*textNode) *boxNode {
	b := newBoxNode("t", Length{Value: 200, Unit: UnitPX}, Length{Value: 50, Unit: UnitPX})
	for _, t := range texts {
		t.box = b
		if t.styles == nil {
			t.styles = map[string]string{}
		}
		if t.ts == nil {
			t.ts = &monoTypesetter{}
		}
		b.texts = append(b.texts, t)
	}
	return b
}

func TestBoxInnerSelection(t *testing.T) {
	hidden := &textNode{tag: "span", hidden: true, content: "h"}
	plain := &textNode{tag: "span", content: "p"}
	lead := &textNode{tag: "em", classes: []string{"lead"}, content: "l"}
	b := newTestBox(hidden, plain, lead)

	cases := []struct {
		selector string
		want     fill.Element
	}{
		{"span", plain},
		{"SPAN", plain},
		{"*", plain},
		{"em.lead", lead},
		{".lead", lead},
		{"em.other", nil},
		{"div", nil},
	}
	for _, c := range cases {
		got := b.Inner(c.selector)
		if c.want == nil {
			if got != nil {
				t.Fatalf("Inner(%q) should be nil, got %v", c.selector, got)
			}
			continue
		}
		if got != c.want {
			t.Fatalf("Inner(%q) picked the wrong element", c.selector)
		}
	}
}

func TestTextStyleInheritsLineHeight(t *testing.T) {
	text := &textNode{tag: "span", content: "abc"}
	b := newTestBox(text)

	if got := text.Style(fill.PropLineHeight); got != "normal" {
		t.Fatalf("expected inherited normal, got %q", got)
	}
	if got := text.Style(fill.PropFontSize); got != "16px" {
		t.Fatalf("expected default 16px, got %q", got)
	}
	b.SetStyle(fill.PropLineHeight, "30px")
	if got := text.Style(fill.PropLineHeight); got != "30px" {
		t.Fatalf("expected inherited 30px, got %q", got)
	}
	text.SetStyle(fill.PropLineHeight, "2")
	if got := text.Style(fill.PropLineHeight); got != "2" {
		t.Fatalf("own line-height should win, got %q", got)
	}
}

func TestTextMeasureFollowsStyleChanges(t *testing.T) {
	ts := &monoTypesetter{}
	text := &textNode{tag: "span", content: "abcd", wrap: "normal", ts: ts}
	newTestBox(text)

	text.SetStyle(fill.PropFontSize, "20px")
	if w := text.Width(); math.Abs(w-40) > 1e-6 {
		t.Fatalf("width at 20px should be 40px, got %g", w)
	}
	if h := text.Height(); math.Abs(h-20) > 1e-6 {
		t.Fatalf("single line height should be 20px, got %g", h)
	}
	calls := ts.calls
	text.Width()
	text.Height()
	if ts.calls != calls {
		t.Fatalf("metrics should be cached until a style changes")
	}
	text.SetStyle(fill.PropFontSize, "10px")
	if w := text.Width(); math.Abs(w-20) > 1e-6 {
		t.Fatalf("width at 10px should be 20px, got %g", w)
	}
	if ts.calls != calls+1 {
		t.Fatalf("style change should trigger exactly one relayout, got %d", ts.calls-calls)
	}
}

func TestBoxLineHeightInvalidatesTexts(t *testing.T) {
	text := &textNode{tag: "span", content: "aaaa bbbb cccc dddd", wrap: "normal"}
	b := newTestBox(text)
	text.SetStyle(fill.PropFontSize, "22px")

	before := text.Height()
	b.SetStyle(fill.PropLineHeight, "44px")
	after := text.Height()
	// 两行：22 + (44-22) + 22
	if math.Abs(after-66) > 1e-6 || after <= before {
		t.Fatalf("container line-height should change the measured height: before=%g after=%g", before, after)
	}
}

func TestWhiteSpaceNowrapOverridesWrap(t *testing.T) {
	text := &textNode{tag: "span", content: "aaaa bbbb cccc dddd", wrap: "normal"}
	newTestBox(text)
	text.SetStyle(fill.PropFontSize, "22px")
	text.SetStyle(fill.PropWhiteSpace, "nowrap")
	if got := text.effectiveWrap(); got != "nowrap" {
		t.Fatalf("expected nowrap, got %q", got)
	}
	// 19 个字符 * 11px
	if w := text.Width(); math.Abs(w-209) > 1e-6 {
		t.Fatalf("nowrap width should be 209px, got %g", w)
	}
}
