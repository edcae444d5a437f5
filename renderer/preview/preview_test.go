package preview

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/ByLCY/textfill/dsl"
	"github.com/ByLCY/textfill/layout"
	"github.com/ByLCY/textfill/renderer/xfont"
)

func buildResult(t *testing.T, ts *xfont.Typesetter) *layout.Result {
	t.Helper()
	doc, err := dsl.ParseString(`doc P v1 {
  page A5 margin 10mm {
    box hero width 300px height 60px background #EEEEEE { span align center { "Preview me" } }
    box tiny width 10px height 10px { span { "Overflowing" } }
  }
}`)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	res, err := layout.Build(doc, nil, layout.BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return res
}

func TestRenderPNG(t *testing.T) {
	ts := xfont.New("")
	res := buildResult(t, ts)
	out, err := New(Options{Outline: true}, ts).Render(res)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	wantW := int(math.Ceil(148 * DefaultScale))
	if img.Bounds().Dx() != wantW {
		t.Fatalf("unexpected width %d want %d", img.Bounds().Dx(), wantW)
	}
}

func TestRenderScaleAndPageBounds(t *testing.T) {
	res := buildResult(t, xfont.New(""))
	out, err := New(Options{Scale: 2}, nil).Render(res)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 296 || img.Bounds().Dy() != 420 {
		t.Fatalf("scale 2 should give 296x420, got %v", img.Bounds())
	}
	if _, err := New(Options{Page: 3}, nil).Render(res); err == nil {
		t.Fatalf("missing page should fail")
	}
	if _, err := New(Options{}, nil).Render(nil); err == nil {
		t.Fatalf("nil result should fail")
	}
}
