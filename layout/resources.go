package layout

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/textfill/dsl"
	"github.com/ByLCY/textfill/fill"
	"github.com/ByLCY/textfill/fonts"
)

// defaultFont 在文档没有声明字体时使用。
var defaultFont = FontResource{
	Name:   "Body",
	Src:    fonts.BuiltinPrefix + fonts.Default,
	Family: "Body",
}

var defaultTextColor = Color{R: 30, G: 30, B: 30}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
		Styles: map[string]Style{},
	}
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, cmd := range section.Resources.Block.Commands() {
			switch cmd.Name {
			case "font":
				if font := parseFontResource(cmd); font.Name != "" {
					res.Fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(cmd)
				if name == "" || value == "" {
					continue
				}
				c, err := parseColor(value)
				if err != nil {
					return res, fmt.Errorf("颜色 %s: %w", name, err)
				}
				res.Colors[name] = c
			case "style":
				if style := parseStyleResource(cmd); style.Name != "" {
					rawStyles[style.Name] = style
				}
			}
		}
	}

	if len(res.Fonts) == 0 {
		res.Fonts[defaultFont.Name] = defaultFont
	}

	resolved, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.Styles = resolved
	return res, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{Creator: "textfill"}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for _, a := range section.Meta.Block.Assignments() {
			switch strings.ToLower(a.Key) {
			case "title":
				meta.Title = a.Value.Text()
			case "author":
				meta.Author = a.Value.Text()
			case "subject":
				meta.Subject = a.Value.Text()
			case "creator":
				meta.Creator = a.Value.Text()
			case "keywords":
				meta.Keywords = a.Value.Strings()
			}
		}
	}
	return meta
}

// collectFillOptions 把 fill { ... } 段落映射为 fill.Options，多个段落按顺序覆盖。
func collectFillOptions(doc *dsl.Document) (fill.Options, error) {
	opts := fill.DefaultOptions()
	for _, section := range doc.Sections {
		if section.Fill == nil {
			continue
		}
		for _, a := range section.Fill.Block.Assignments() {
			if err := applyFillOption(&opts, strings.ToLower(a.Key), a.Value.Text()); err != nil {
				return opts, err
			}
		}
	}
	return opts, nil
}

func applyFillOption(opts *fill.Options, key, value string) error {
	switch key {
	case "debug", "width-only", "height-only", "change-line-height":
		b, ok := dsl.ParseBool(value)
		if !ok {
			return fmt.Errorf("fill.%s 需要布尔值，得到 %q", key, value)
		}
		switch key {
		case "debug":
			opts.Debug = b
		case "width-only":
			opts.WidthOnly = b
		case "height-only":
			opts.HeightOnly = b
		default:
			opts.ChangeLineHeight = b
		}
	case "max-font", "min-font":
		px, err := parsePxOption(key, value)
		if err != nil {
			return err
		}
		if key == "max-font" {
			opts.MaxFontPx = int(math.Floor(px))
		} else {
			opts.MinFontPx = int(math.Floor(px))
		}
	case "explicit-width", "explicit-height":
		px, err := parsePxOption(key, value)
		if err != nil {
			return err
		}
		if key == "explicit-width" {
			opts.ExplicitWidthPx = px
		} else {
			opts.ExplicitHeightPx = px
		}
	case "inner":
		opts.InnerSelector = strings.TrimSpace(value)
	default:
		return fmt.Errorf("fill 段落不支持的配置项：%s", key)
	}
	return nil
}

func parsePxOption(key, value string) (float64, error) {
	l, ok := ParseLength(value)
	if !ok {
		return 0, fmt.Errorf("fill.%s 需要长度或数字，得到 %q", key, value)
	}
	return l.ToPX(), nil
}

func settingsFromConfig(cfg fill.Config) FillSettings {
	return FillSettings{
		Debug:            cfg.Debug(),
		MaxFontPx:        cfg.MaxFontPx(),
		MinFontPx:        cfg.MinFontPx(),
		Inner:            cfg.InnerSelector(),
		Mode:             cfg.Mode().String(),
		ExplicitWidthPx:  cfg.ExplicitWidthPx(),
		ExplicitHeightPx: cfg.ExplicitHeightPx(),
		ChangeLineHeight: cfg.ChangeLineHeight(),
	}
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
	}
	for _, a := range cmd.Block.Assignments() {
		switch a.Key {
		case "src":
			font.Src = a.Value.Text()
		case "style":
			font.Style = a.Value.Text()
		case "fallback":
			font.Fallback = a.Value.Text()
		}
	}
	return font
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: map[string]string{},
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	for _, a := range cmd.Block.Assignments() {
		if val := a.Value.Text(); val != "" {
			style.Props[a.Key] = val
		}
	}
	return style
}

// resolveStyles 展开 extends 继承链，子样式覆盖父样式。
func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := make(map[string]Style, len(styles))
	for name, style := range styles {
		chain := []Style{style}
		seen := map[string]bool{name: true}
		for parent := style.Extends; parent != ""; parent = chain[len(chain)-1].Extends {
			if seen[parent] {
				return nil, fmt.Errorf("style 继承存在循环：%s", name)
			}
			next, ok := styles[parent]
			if !ok {
				return nil, fmt.Errorf("style %s 继承的 %s 未定义", name, parent)
			}
			seen[parent] = true
			chain = append(chain, next)
		}

		props := map[string]string{}
		for i := len(chain) - 1; i >= 0; i-- {
			maps.Copy(props, chain[i].Props)
		}
		style.Props = props
		resolved[name] = style
	}
	return resolved, nil
}

// mergeStyleAttributes 以命名样式为底，行内属性覆盖其上。
func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := maps.Clone(styles[style].Props)
	if out == nil {
		out = make(map[string]string, len(inline))
	}
	maps.Copy(out, inline)
	return out
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

func resolveFontResource(name string, res ResourceSet) (FontResource, error) {
	if font, ok := res.Fonts[name]; ok {
		return font, nil
	}
	if font, ok := res.Fonts[defaultFont.Name]; ok {
		return font, nil
	}
	for _, font := range res.Fonts {
		return font, nil
	}
	return FontResource{}, fmt.Errorf("字体 %s 未定义，且没有可用的默认字体", name)
}

func resolveColor(value string, res ResourceSet) (Color, bool) {
	if value == "" {
		return Color{}, false
	}
	if c, ok := res.Colors[value]; ok {
		return c, true
	}
	if strings.HasPrefix(value, "#") {
		if c, err := parseColor(value); err == nil {
			return c, true
		}
	}
	return Color{}, false
}

// parseColor 接受 #rgb、#rrggbb 与 #rrggbbaa，透明度被忽略。
func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 8 {
		hex = hex[:6]
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
