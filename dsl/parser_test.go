package dsl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/textfill/dsl"
)

const sampleDSL = `
doc Poster v1 {
  meta {
    title: "Poster"
    keywords: [
      "fit"
      "demo"
    ]
  }

  resources {
    font Body {
      src: "builtin:goregular"
    }

    color Accent = #0F62FE
  }

  fill {
    max-font: 40
    min-font: 4
    inner: "span"
    width-only: false
    change-line-height: true
  }

  page A4 portrait margin 18mm {
    box hero width 200px height 50px max-height none {
      span Body line-height 24px { "Hello, ${user.name}!" }
      span hidden true { "ignored" }
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Poster" {
		t.Fatalf("expected document name Poster, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}
	kinds := []string{"meta", "resources", "fill", "page"}
	for i, want := range kinds {
		if got := doc.Sections[i].Kind(); got != want {
			t.Fatalf("section %d: expected %s, got %s", i, want, got)
		}
	}

	meta := doc.Sections[0].Meta
	keywords := meta.Block.Assignments()[1]
	if keywords.Key != "keywords" || len(keywords.Value.Strings()) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords.Value.Strings())
	}

	fill := doc.Sections[2].Fill
	assigns := fill.Block.Assignments()
	if len(assigns) != 5 {
		t.Fatalf("expected 5 fill assignments, got %d", len(assigns))
	}
	if assigns[0].Key != "max-font" || assigns[0].Value.Text() != "40" {
		t.Fatalf("unexpected max-font: %s=%s", assigns[0].Key, assigns[0].Value.Text())
	}
	if b, ok := assigns[4].Value.Bool(); !ok || !b {
		t.Fatalf("change-line-height should parse as true, got %q", assigns[4].Value.Text())
	}
	if b, ok := assigns[3].Value.Bool(); !ok || b {
		t.Fatalf("width-only should parse as false, got %q", assigns[3].Value.Text())
	}

	page := doc.Sections[3].Page
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if len(page.Spec.Params) != 3 || page.Spec.Params[2].Value != "18mm" {
		t.Fatalf("unexpected page params: %+v", page.Spec.Params)
	}

	boxes := page.Block.Commands()
	if len(boxes) != 1 || boxes[0].Name != "box" {
		t.Fatalf("expected one box command, got %+v", boxes)
	}
	name, attrs := boxes[0].Attrs(true)
	if name != "hero" {
		t.Fatalf("expected box name hero, got %q", name)
	}
	if attrs["width"] != "200px" || attrs["height"] != "50px" || attrs["max-height"] != "none" {
		t.Fatalf("unexpected box attrs: %v", attrs)
	}

	spans := boxes[0].Block.Commands()
	if len(spans) != 2 {
		t.Fatalf("expected 2 inner elements, got %d", len(spans))
	}
	style, spanAttrs := spans[0].Attrs(true)
	if style != "Body" || spanAttrs["line-height"] != "24px" {
		t.Fatalf("unexpected span attrs: %q %v", style, spanAttrs)
	}
	if got := spans[0].Block.Text(); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}
	_, hidden := spans[1].Attrs(true)
	if hidden["hidden"] != "true" {
		t.Fatalf("expected hidden attr, got %v", hidden)
	}
}

func TestAttrsJoinNegativeNumbers(t *testing.T) {
	doc, err := dsl.ParseString(`doc T v1 { page A4 { box max-font -1 width 10mm { span { "x" } } } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	box := doc.Sections[0].Page.Block.Commands()[0]
	_, attrs := box.Attrs(true)
	if attrs["max-font"] != "-1" {
		t.Fatalf("expected -1, got %q (%v)", attrs["max-font"], attrs)
	}
	if attrs["width"] != "10mm" {
		t.Fatalf("expected width 10mm, got %q", attrs["width"])
	}
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"true": true, "on": true, "1": true, "no": false, "FALSE": false} {
		got, ok := dsl.ParseBool(in)
		if !ok || got != want {
			t.Fatalf("ParseBool(%q) = (%v,%v), want %v", in, got, ok, want)
		}
	}
	if _, ok := dsl.ParseBool("maybe"); ok {
		t.Fatalf("maybe should not parse")
	}
}

func TestParseFileReportsPosition(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.fit")
	if err := os.WriteFile(good, []byte(sampleDSL), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := dsl.ParseFile(good)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if doc.Pos.Filename != good {
		t.Fatalf("document position should carry the file name, got %q", doc.Pos.Filename)
	}

	bad := filepath.Join(dir, "bad.fit")
	if err := os.WriteFile(bad, []byte("doc X v1 {\n  page A4 {\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := dsl.ParseFile(bad); err == nil || !strings.Contains(err.Error(), "bad.fit") {
		t.Fatalf("parse error should mention the file, got %v", err)
	}
	if _, err := dsl.ParseFile(filepath.Join(dir, "missing.fit")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestExpressionSpansBracketNewlines(t *testing.T) {
	doc, err := dsl.ParseString("doc T v1 {\n  meta {\n    note: f(1,\n      2)\n  }\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := doc.Sections[0].Meta.Block.Assignments()[0]
	if a.Value.Expr == nil || len(a.Value.Expr.Parts) != 7 {
		t.Fatalf("expected 7 expression parts (newline included), got %+v", a.Value.Expr)
	}
}

func TestColorTokensKeepAllDigits(t *testing.T) {
	doc, err := dsl.ParseString(`doc C v1 {
  resources {
    color Ink = #1E1E1E
    color Tint = #fff
    color Glass = #11223344
  }
  page A4 {
    box hero background #EEEEEE width 40mm height 10mm { span { "x" } }
  }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := map[string]string{"Ink": "#1E1E1E", "Tint": "#fff", "Glass": "#11223344"}
	for _, cmd := range doc.Sections[0].Resources.Block.Commands() {
		args := cmd.Args
		if len(args) != 3 {
			t.Fatalf("color %s: expected name = value, got %+v", args[0].Value, args)
		}
		last := args[len(args)-1]
		if last.Type != "Color" || last.Value != want[args[0].Value] {
			t.Fatalf("color %s: got %s %q", args[0].Value, last.Type, last.Value)
		}
	}

	box := doc.Sections[1].Page.Block.Commands()[0]
	name, attrs := box.Attrs(true)
	if name != "hero" || attrs["background"] != "#EEEEEE" || attrs["width"] != "40mm" {
		t.Fatalf("box attrs shifted: %q %v", name, attrs)
	}
}

func TestAssignmentValueForms(t *testing.T) {
	doc, err := dsl.ParseString("doc T v1 {\n  fill {\n    max: 40px\n    tags: [a, b]\n    inner: \"span\"\n  }\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := doc.Sections[0].Fill.Block.Assignments()
	if len(got) != 3 || got[0].Value.Number == nil || got[1].Value.Array == nil || got[2].Value.String == nil {
		t.Fatalf("unexpected value forms: %+v", got)
	}
}
