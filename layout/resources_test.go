package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/textfill/dsl"
	"github.com/ByLCY/textfill/fill"
)

func TestResolveStylesFollowsExtends(t *testing.T) {
	styles := map[string]Style{
		"Base":  {Name: "Base", Props: map[string]string{"font": "Body", "color": "#000"}},
		"Title": {Name: "Title", Extends: "Base", Props: map[string]string{"color": "#f00"}},
		"Hero":  {Name: "Hero", Extends: "Title", Props: map[string]string{"align": "center"}},
	}
	resolved, err := resolveStyles(styles)
	if err != nil {
		t.Fatalf("resolveStyles error: %v", err)
	}
	hero := resolved["Hero"].Props
	if hero["font"] != "Body" || hero["color"] != "#f00" || hero["align"] != "center" {
		t.Fatalf("子样式应覆盖父样式，得到 %v", hero)
	}
	if styles["Title"].Props["font"] != "" {
		t.Fatalf("原始样式不应被修改")
	}

	styles["Base"] = Style{Name: "Base", Extends: "Hero"}
	if _, err := resolveStyles(styles); err == nil || !strings.Contains(err.Error(), "循环") {
		t.Fatalf("expected cycle error, got %v", err)
	}
	if _, err := resolveStyles(map[string]Style{"A": {Name: "A", Extends: "Missing"}}); err == nil {
		t.Fatalf("missing parent should fail")
	}
}

func TestMergeStyleAttributesInlineWins(t *testing.T) {
	styles := map[string]Style{"Note": {Props: map[string]string{"color": "Ink", "align": "right"}}}
	got := mergeStyleAttributes("Note", map[string]string{"align": "left"}, styles)
	if got["color"] != "Ink" || got["align"] != "left" {
		t.Fatalf("unexpected merge: %v", got)
	}
	if styles["Note"].Props["align"] != "right" {
		t.Fatalf("merge must not write back into the style")
	}
	if got := mergeStyleAttributes("Unknown", map[string]string{"x": "1"}, styles); got["x"] != "1" {
		t.Fatalf("unknown style should keep inline attrs, got %v", got)
	}
}

func TestParseColorForms(t *testing.T) {
	cases := map[string]Color{
		"#0F62FE":   {R: 15, G: 98, B: 254},
		"#fff":      {R: 255, G: 255, B: 255},
		"#11223344": {R: 17, G: 34, B: 51},
	}
	for in, want := range cases {
		got, err := parseColor(in)
		if err != nil || got != want {
			t.Fatalf("parseColor(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"#12", "#zzzzzz", "#12345"} {
		if _, err := parseColor(bad); err == nil {
			t.Fatalf("parseColor(%q) should fail", bad)
		}
	}

	res := ResourceSet{Colors: map[string]Color{"Ink": {R: 1, G: 2, B: 3}}}
	if c, ok := resolveColor("Ink", res); !ok || c != (Color{R: 1, G: 2, B: 3}) {
		t.Fatalf("named color not resolved")
	}
	if _, ok := resolveColor("Missing", res); ok {
		t.Fatalf("unknown name should not resolve")
	}
}

func TestCollectFillOptions(t *testing.T) {
	doc, err := dsl.ParseString(`doc F v1 {
  fill {
    max-font: 12.9pt
    min-font: 6
    height-only: yes
    explicit-width: 1in
    debug: on
  }
  fill { inner: "em" }
}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts, err := collectFillOptions(doc)
	if err != nil {
		t.Fatalf("collectFillOptions error: %v", err)
	}
	// 12.9pt = 17.2px，向下取整
	if opts.MaxFontPx != 17 || opts.MinFontPx != 6 {
		t.Fatalf("unexpected font bounds: %d..%d", opts.MinFontPx, opts.MaxFontPx)
	}
	if !opts.HeightOnly || !opts.Debug || opts.ExplicitWidthPx != 96 || opts.InnerSelector != "em" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if fill.NewConfig(opts).Mode() != fill.ModeHeightOnly {
		t.Fatalf("height-only should select ModeHeightOnly")
	}

	for _, src := range []string{
		`doc F v1 { fill { shrink: true } }`,
		`doc F v1 { fill { width-only: maybe } }`,
		`doc F v1 { fill { max-font: big } }`,
	} {
		doc, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if _, err := collectFillOptions(doc); err == nil {
			t.Fatalf("%q should be rejected", src)
		}
	}
}

func TestCollectResourcesHexColors(t *testing.T) {
	doc, err := dsl.ParseString(`doc R v1 {
  resources {
    color Ink = #1E1E1E
    color Frame = #0F62FE
    color Tint = #abc
  }
  page A5 {
    box badge width 40mm height 12mm background #EEF3FF border Frame { span { "x" } }
  }
}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := collectResources(doc)
	if err != nil {
		t.Fatalf("collectResources error: %v", err)
	}
	want := map[string]Color{
		"Ink":   {R: 30, G: 30, B: 30},
		"Frame": {R: 15, G: 98, B: 254},
		"Tint":  {R: 170, G: 187, B: 204},
	}
	for name, c := range want {
		if res.Colors[name] != c {
			t.Fatalf("color %s = %+v, want %+v", name, res.Colors[name], c)
		}
	}

	result, err := Build(doc, nil, BuildOptions{Typesetter: &monoTypesetter{}})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	b := result.Pages[0].Boxes[0]
	if b.Name != "badge" || b.Background == nil || *b.Background != (Color{R: 238, G: 243, B: 255}) {
		t.Fatalf("unexpected box: %+v", b)
	}
	if b.Border == nil || *b.Border != want["Frame"] {
		t.Fatalf("named border color not applied: %+v", b.Border)
	}
}
