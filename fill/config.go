package fill

import "log/slog"

// Mode 决定参与搜索与校验的尺寸。
type Mode int

const (
	ModeBoth Mode = iota
	ModeWidthOnly
	ModeHeightOnly
)

func (m Mode) String() string {
	switch m {
	case ModeWidthOnly:
		return "width-only"
	case ModeHeightOnly:
		return "height-only"
	default:
		return "both"
	}
}

// 默认配置值。
const (
	DefaultMaxFontPx     = 40
	DefaultMinFontPx     = 4
	DefaultInnerSelector = "span"
)

// Options 是调用方填写的配置，NewConfig 会把它固化为不可变的 Config。
// 从 DefaultOptions 开始修改，零值 Options 的 MaxFontPx 为 0，表示以容器高度为上限。
type Options struct {
	Debug bool
	// MaxFontPx <= 0 时字号上限取容器最大高度。
	MaxFontPx     int
	MinFontPx     int
	InnerSelector string
	WidthOnly     bool
	HeightOnly    bool
	// ExplicitWidthPx/ExplicitHeightPx 为 0 表示未设置。
	ExplicitWidthPx  float64
	ExplicitHeightPx float64
	ChangeLineHeight bool

	Hooks Hooks
}

// DefaultOptions 返回默认配置。
func DefaultOptions() Options {
	return Options{
		MaxFontPx:     DefaultMaxFontPx,
		MinFontPx:     DefaultMinFontPx,
		InnerSelector: DefaultInnerSelector,
	}
}

// Config 在一次 Fit 调用期间保持不变，按值传递。
type Config struct {
	debug            bool
	maxFontPx        int
	minFontPx        int
	innerSelector    string
	mode             Mode
	explicitWidthPx  float64
	explicitHeightPx float64
	changeLineHeight bool
	sinks            sinks
}

// NewConfig 固化 Options。WidthOnly 优先于 HeightOnly；空 selector 回退到默认值。
// 不校验 MinFontPx > MaxFontPx，这种情况下搜索只会在上限处探测一次。
func NewConfig(o Options) Config {
	mode := ModeBoth
	switch {
	case o.WidthOnly:
		mode = ModeWidthOnly
	case o.HeightOnly:
		mode = ModeHeightOnly
	}
	sel := o.InnerSelector
	if sel == "" {
		sel = DefaultInnerSelector
	}
	return Config{
		debug:            o.Debug,
		maxFontPx:        o.MaxFontPx,
		minFontPx:        o.MinFontPx,
		innerSelector:    sel,
		mode:             mode,
		explicitWidthPx:  o.ExplicitWidthPx,
		explicitHeightPx: o.ExplicitHeightPx,
		changeLineHeight: o.ChangeLineHeight,
		sinks:            o.Hooks.resolve(),
	}
}

// LogValue 以分组形式输出全部配置，供调试日志使用。
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("debug", c.debug),
		slog.Int("max-font-pixels", c.maxFontPx),
		slog.Int("min-font-pixels", c.minFontPx),
		slog.String("inner-tag", c.innerSelector),
		slog.String("mode", c.mode.String()),
		slog.Float64("explicit-width", c.explicitWidthPx),
		slog.Float64("explicit-height", c.explicitHeightPx),
		slog.Bool("change-line-height", c.changeLineHeight),
	)
}

func (c Config) Mode() Mode                { return c.mode }
func (c Config) Debug() bool               { return c.debug }
func (c Config) MinFontPx() int            { return c.minFontPx }
func (c Config) MaxFontPx() int            { return c.maxFontPx }
func (c Config) InnerSelector() string     { return c.innerSelector }
func (c Config) ChangeLineHeight() bool    { return c.changeLineHeight }
func (c Config) ExplicitWidthPx() float64  { return c.explicitWidthPx }
func (c Config) ExplicitHeightPx() float64 { return c.explicitHeightPx }

// resolveMaxFont 非正的上限表示只受容器高度限制。
func (c Config) resolveMaxFont(maxHeightPx float64) int {
	if c.maxFontPx <= 0 {
		return int(maxHeightPx)
	}
	return c.maxFontPx
}
