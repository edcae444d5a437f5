package fill

import (
	"math"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2/strconv"
)

// 样式属性名，取值沿用 CSS 写法。
const (
	PropFontSize   = "font-size"
	PropLineHeight = "line-height"
	PropMaxWidth   = "max-width"
	PropMaxHeight  = "max-height"
	PropWhiteSpace = "white-space"
)

// Element 是宿主排版引擎提供的节点，fill 只通过它读写样式并读取渲染尺寸。
//
// Style 返回计算后的样式字符串（例如 "16px"、"1.5"、"normal"、"none"），
// Width/Height 返回当前样式下文本盒的渲染宽高（px）。SetStyle 之后再次读取
// Width/Height 必须反映新的样式。
type Element interface {
	Style(prop string) string
	SetStyle(prop, value string)
	Width() float64
	Height() float64
}

// Container 是提供尺寸边界的外层节点。
type Container interface {
	Element
	// Inner 返回第一个可见且匹配 selector 的后代，没有时返回 nil。
	Inner(selector string) Element
}

// Texter 是 Element 的可选扩展，调试日志用它输出内层文本。
type Texter interface {
	Text() string
}

// parseLeadingFloat 读取字符串开头的数字部分，行为与浏览器的 parseFloat 一致：
// "12.5px" -> 12.5，"none" -> 无效。
func parseLeadingFloat(s string) (float64, bool) {
	v, n := parse.ParseFloat([]byte(strings.TrimSpace(s)))
	if n == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseNumber 只接受完整的数字字符串（无单位）。
func parseNumber(s string) (float64, bool) {
	b := []byte(strings.TrimSpace(s))
	v, n := parse.ParseFloat(b)
	if n == 0 || n != len(b) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Px 把像素值格式化为样式字符串。
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
