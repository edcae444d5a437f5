// Package wrap 提供与字体后端无关的贪心折行，供各 Typesetter 共用。
package wrap

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/textfill/layout"
)

// Mode 对应 CSS 的折行行为，空字符串等同 Normal。
type Mode string

const (
	// Normal 只在空白处分行，超宽单词独占一行并允许溢出。
	Normal Mode = "normal"
	// Anywhere 优先在空白处分行，单词超宽时在词内拆分。
	Anywhere Mode = "anywhere"
	// BreakWord 忽略空白，逐字符填满每一行。
	BreakWord Mode = "break-word"
	// NoWrap 只在显式换行处分行。
	NoWrap Mode = "nowrap"
)

// Lines 按 mode 贪心折行，width 与 measure 的单位一致（通常为 mm）。width<=0 表示不限宽。
func Lines(content string, width float64, measure func(string) float64, mode string) []layout.TextLine {
	paragraphs := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
	if Mode(mode) == NoWrap {
		lines := make([]layout.TextLine, 0, len(paragraphs))
		for _, p := range paragraphs {
			lines = append(lines, layout.TextLine{Content: p, Width: measure(p)})
		}
		return lines
	}

	b := &breaker{limit: width, measure: measure}
	if b.limit <= 0 {
		b.limit = math.MaxFloat64
	}
	for _, p := range paragraphs {
		switch Mode(mode) {
		case BreakWord:
			for _, r := range p {
				b.add(string(r))
			}
		default:
			b.words(p, Mode(mode) == Anywhere)
		}
		b.flush(true)
	}
	return b.lines
}

// breaker 累积当前行，超出 limit 时换行。
type breaker struct {
	limit   float64
	measure func(string) float64

	line  strings.Builder
	width float64
	lines []layout.TextLine
}

func (b *breaker) overflows(w float64) bool {
	return b.width > 0 && b.width+w > b.limit
}

func (b *breaker) push(s string, w float64) {
	b.line.WriteString(s)
	b.width += w
}

// add 放入一个不可再分的片段，必要时先换行；片段本身超宽时独占一行。
func (b *breaker) add(s string) {
	w := b.measure(s)
	if b.overflows(w) {
		b.flush(false)
	}
	b.push(s, w)
	if b.width > b.limit {
		b.flush(false)
	}
}

// words 以空白为界排入一个段落。split 为 true 时把超宽单词拆成不超过 limit 的片段。
func (b *breaker) words(p string, split bool) {
	for _, tok := range runs(p) {
		w := b.measure(tok)
		if b.overflows(w) {
			b.flush(false)
			if isBlank(tok) {
				continue
			}
		}
		if w <= b.limit || !split {
			b.push(tok, w)
			if split && b.width > b.limit {
				b.flush(false)
			}
			continue
		}
		for _, chunk := range chunks(tok, b.limit, b.measure) {
			b.add(chunk)
		}
	}
}

// flush 结束当前行，行尾空白不计宽度。keepEmpty 为 true 时空行也会输出。
func (b *breaker) flush(keepEmpty bool) {
	if b.line.Len() == 0 {
		if keepEmpty {
			b.lines = append(b.lines, layout.TextLine{})
		}
		return
	}
	raw := b.line.String()
	text := strings.TrimRightFunc(raw, unicode.IsSpace)
	w := b.width
	if len(text) != len(raw) {
		w = b.measure(text)
	}
	b.lines = append(b.lines, layout.TextLine{Content: text, Width: w})
	b.line.Reset()
	b.width = 0
}

// runs 把字符串切成交替的空白段与非空白段。
func runs(s string) []string {
	var out []string
	start := 0
	var prevSpace bool
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > start && space != prevSpace {
			out = append(out, s[start:i])
			start = i
		}
		prevSpace = space
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// chunks 按宽度把一个单词切成若干段，每段至少一个字符。
func chunks(word string, limit float64, measure func(string) float64) []string {
	var out []string
	start := 0
	for i, r := range word {
		end := i + utf8.RuneLen(r)
		if i > start && measure(word[start:end]) > limit {
			out = append(out, word[start:i])
			start = i
		}
	}
	if start < len(word) {
		out = append(out, word[start:])
	}
	return out
}

// Stack 回填行高与行距：每行高 textHeight，非首行前留 max(lineHeight-textHeight, 0)。
// textHeight 无效时退回 lineHeight；没有任何行时补一个空行。
func Stack(lines []layout.TextLine, textHeight, lineHeight float64) []layout.TextLine {
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	if len(lines) == 0 {
		return []layout.TextLine{{Height: textHeight}}
	}
	leading := math.Max(lineHeight-textHeight, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		lines[i].GapBefore = leading
	}
	lines[0].GapBefore = 0
	return lines
}
