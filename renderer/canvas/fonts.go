package canvasrenderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/textfill/fonts"
	"github.com/ByLCY/textfill/layout"
)

// fontCache 按字体资源缓存 canvas 字体族。测量与绘制可能并发，读写都要持锁。
type fontCache struct {
	baseDir string
	blobs   map[string][]byte // 通过 builtin:<name> 访问的注入字体

	mu       sync.Mutex
	families map[string]cachedFamily
}

type cachedFamily struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

func newFontCache(baseDir string, injected map[string]Resource) *fontCache {
	fc := &fontCache{
		baseDir:  baseDir,
		blobs:    map[string][]byte{},
		families: map[string]cachedFamily{},
	}
	for name, res := range injected {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			fc.blobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			// 读取失败留到真正使用时报错
			if data, _ := os.ReadFile(res.Path); len(data) > 0 {
				fc.blobs[name] = data
			}
		}
	}
	return fc
}

// face 以 pt 字号取得字体面。
func (fc *fontCache) face(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	entry, err := fc.family(font)
	if err != nil {
		return nil, err
	}
	return entry.family.Face(sizePt, colorFromLayout(col), entry.style, canvas.FontNormal), nil
}

// family 依次尝试 src、fallback 与内置默认字体，结果按资源缓存，失败的 src 不会被反复读取。
func (fc *fontCache) family(font layout.FontResource) (cachedFamily, error) {
	key := strings.Join([]string{font.Name, font.Src, font.Style, font.Fallback}, "|")
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if entry, ok := fc.families[key]; ok {
		return entry, nil
	}

	style := parseFontStyle(font.Style)
	candidates := []struct {
		src   string
		style canvas.FontStyle
	}{
		{font.Src, style},
		{font.Fallback, canvas.FontRegular},
		{fonts.BuiltinPrefix + fonts.Default, canvas.FontRegular},
	}

	var firstErr error
	for i, c := range candidates {
		if c.src == "" {
			continue
		}
		data, err := fc.load(c.src)
		if err == nil {
			family := canvas.NewFontFamily(familyName(font, i))
			if err = family.LoadFont(data, 0, c.style); err == nil {
				entry := cachedFamily{family: family, style: c.style}
				fc.families[key] = entry
				return entry, nil
			}
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("加载字体 %s 失败: %w", c.src, err)
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	return cachedFamily{}, firstErr
}

func familyName(font layout.FontResource, attempt int) string {
	name := font.Family
	if name == "" {
		name = font.Name
	}
	if name == "" {
		name = "Body"
	}
	if attempt > 0 {
		name += "-fallback"
	}
	return name
}

func (fc *fontCache) load(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	if fonts.IsBuiltin(src) {
		name := fonts.BuiltinName(src)
		if blob, ok := fc.blobs[name]; ok {
			return blob, nil
		}
		return fonts.Load(name)
	}
	if filepath.IsAbs(src) {
		return os.ReadFile(src)
	}
	if fc.baseDir == "" {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
	}
	return os.ReadFile(filepath.Join(fc.baseDir, src))
}

// fontWeights 按匹配优先级排列，extrabold 需要排在 bold 之前。
var fontWeights = []struct {
	keywords []string
	style    canvas.FontStyle
}{
	{[]string{"black", "heavy"}, canvas.FontBlack},
	{[]string{"extrabold", "ultrabold"}, canvas.FontExtraBold},
	{[]string{"semibold", "demibold"}, canvas.FontSemiBold},
	{[]string{"bold"}, canvas.FontBold},
	{[]string{"medium"}, canvas.FontMedium},
	{[]string{"extralight", "ultralight"}, canvas.FontExtraLight},
	{[]string{"light"}, canvas.FontLight},
	{[]string{"thin", "hairline"}, canvas.FontThin},
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
weights:
	for _, w := range fontWeights {
		for _, kw := range w.keywords {
			if strings.Contains(s, kw) {
				result = w.style
				break weights
			}
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
