// Package xfont 基于 golang.org/x/image 的 opentype 字体实现 layout.Typesetter。
// 它不依赖 PDF 后端，适合在无界面环境中只做测量与适配。
package xfont

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/textfill/fonts"
	"github.com/ByLCY/textfill/layout"
	"github.com/ByLCY/textfill/renderer/wrap"
)

// dpi 取 72，使 face 的像素单位与 pt 一致。
const dpi = 72

// Typesetter 缓存解析后的字体，可被多个 goroutine 共享。
// opentype.Face 内部带有测量缓冲区，不能并发使用，所以每次调用都新建 face。
type Typesetter struct {
	baseDir string

	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

var _ layout.Typesetter = (*Typesetter)(nil)

// New 创建 Typesetter，baseDir 用于解析相对字体路径。
func New(baseDir string) *Typesetter {
	return &Typesetter{
		baseDir: baseDir,
		fonts:   map[string]*opentype.Font{},
	}
}

// LayoutLines 实现 layout.Typesetter，入参与返回值均为毫米。
func (t *Typesetter) LayoutLines(content string, width float64, res layout.FontResource, fontSize, lineHeight float64, mode string) ([]layout.TextLine, error) {
	face, err := t.Face(res, fontSize*layout.MmToPt)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	measure := func(s string) float64 {
		return fixedToFloat(font.MeasureString(face, s)) * layout.PtToMm
	}
	lines := wrap.Lines(content, width, measure, mode)
	textHeight := fixedToFloat(face.Metrics().Height) * layout.PtToMm
	return wrap.Stack(lines, textHeight, lineHeight), nil
}

// Face 返回指定字号（pt）的新字体面，归调用方独占。src 无法加载时依次尝试 fallback 与内置默认字体。
func (t *Typesetter) Face(res layout.FontResource, sizePt float64) (font.Face, error) {
	if sizePt <= 0 || math.IsNaN(sizePt) || math.IsInf(sizePt, 0) {
		return nil, fmt.Errorf("xfont: 无效字号 %g", sizePt)
	}
	t.mu.Lock()
	f, err := t.resolveFont(res)
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("xfont: 创建字体面失败: %w", err)
	}
	return face, nil
}

// resolveFont 调用方持有 mu。
func (t *Typesetter) resolveFont(res layout.FontResource) (*opentype.Font, error) {
	var firstErr error
	for _, src := range []string{res.Src, res.Fallback, fonts.BuiltinPrefix + fonts.Default} {
		if src == "" {
			continue
		}
		f, err := t.loadFont(src)
		if err == nil {
			return f, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func (t *Typesetter) loadFont(src string) (*opentype.Font, error) {
	if f, ok := t.fonts[src]; ok {
		return f, nil
	}
	data, err := t.readFont(src)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("xfont: 解析字体 %s 失败: %w", src, err)
	}
	t.fonts[src] = f
	return f, nil
}

func (t *Typesetter) readFont(src string) ([]byte, error) {
	if fonts.IsBuiltin(src) {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) {
		if t.baseDir == "" {
			return nil, fmt.Errorf("xfont: 未指定资源目录时不允许使用相对字体路径：%s", src)
		}
		path = filepath.Join(t.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("xfont: 读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
