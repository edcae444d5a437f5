package layout

import "github.com/ByLCY/textfill/fill"

// 该文件定义布局结果与资源描述，供适配、渲染与调试 JSON 共用。
// 页面坐标与尺寸以毫米为单位，字号同时保留 px 以便对照适配结果。

// Result 保存布局后的页面、资源与每个容器的适配报告。
type Result struct {
	RunID     string       `json:"runId"`
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
	Fill      FillSettings `json:"fill"`
	Fits      []FitReport  `json:"fits"`
}

// ResourceSet 记录解析出的字体、颜色与样式定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]Color        `json:"colors"`
	Styles map[string]Style        `json:"styles"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 内置字体。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"`
	Fallback string `json:"fallback,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与需要绘制的容器和文本。
type Page struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Margin Margin     `json:"margin"`
	Boxes  []BoxFrame `json:"boxes"`
	Texts  []TextBox  `json:"texts"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// BoxFrame 是固定尺寸的容器外框。
type BoxFrame struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Border     *Color  `json:"border,omitempty"`
	Background *Color  `json:"background,omitempty"`
	Fitted     bool    `json:"fitted"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	FontSizePx float64    `json:"fontSizePx"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // left/center/right，默认 left
	Wrap       string     `json:"wrap,omitempty"`  // normal(默认)/anywhere/break-word/nowrap
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// FitReport 是单个容器的适配结论，对应 fill.Result 的可序列化形式。
type FitReport struct {
	Box              string          `json:"box"`
	Page             int             `json:"page"`
	Succeeded        bool            `json:"succeeded"`
	FontSizePx       int             `json:"fontSizePx"`
	LineHeightPx     float64         `json:"lineHeightPx,omitempty"`
	OriginalFontSize string          `json:"originalFontSize"`
	MaxWidthPx       float64         `json:"maxWidthPx"`
	MaxHeightPx      float64         `json:"maxHeightPx"`
	MinFontPx        int             `json:"minFontPx"`
	MaxFontPx        int             `json:"maxFontPx"`
	Height           *fill.Candidate `json:"height,omitempty"`
	Width            *fill.Candidate `json:"width,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// FillSettings 记录文档中生效的适配配置。
type FillSettings struct {
	Debug            bool    `json:"debug"`
	MaxFontPx        int     `json:"maxFontPx"`
	MinFontPx        int     `json:"minFontPx"`
	Inner            string  `json:"inner"`
	Mode             string  `json:"mode"`
	ExplicitWidthPx  float64 `json:"explicitWidthPx,omitempty"`
	ExplicitHeightPx float64 `json:"explicitHeightPx,omitempty"`
	ChangeLineHeight bool    `json:"changeLineHeight"`
}

// Style 用于描述可继承的文本样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
