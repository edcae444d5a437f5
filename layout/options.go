package layout

import "github.com/ByLCY/textfill/fill"

// BuildOptions 配置布局阶段所需的依赖。
type BuildOptions struct {
	// Typesetter 是适配时的排版后端，即测量文本盒尺寸的来源。
	Typesetter Typesetter
	// Hooks 原样转发给 fill.Fit，Complete 收到的是本次文档的全部容器。
	Hooks fill.Hooks
	// Debug 为 true 时强制打开 fill 的调试日志，文档中的 debug 设置仍然生效。
	Debug bool
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 与返回的行宽高均为毫米。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}
