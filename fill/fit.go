package fill

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoInnerElement 表示容器中找不到可见的匹配元素。
var ErrNoInnerElement = errors.New("fill: 容器内没有可见的匹配元素")

// Result 记录单个容器的适配过程与结论，用完即弃。
type Result struct {
	Container Container `json:"-"`
	Inner     Element   `json:"-"`

	MaxHeightPx float64 `json:"maxHeight"`
	MaxWidthPx  float64 `json:"maxWidth"`
	MinFontPx   int     `json:"minFont"`
	MaxFontPx   int     `json:"maxFont"`

	Height *Candidate `json:"height,omitempty"`
	Width  *Candidate `json:"width,omitempty"`

	// FontSizePx 为写入过的最终字号；失败时元素已恢复为 OriginalFontSize。
	FontSizePx int `json:"fontSize"`
	// LineHeightPx 为耦合写入的容器行高，未启用时为 0。
	LineHeightPx    float64 `json:"lineHeight,omitempty"`
	LineHeightRatio float64 `json:"lineHeightRatio"`

	Succeeded        bool   `json:"succeeded"`
	OriginalFontSize string `json:"originalFontSize"`
	Err              error  `json:"-"`
}

// Fit 依次适配每个容器，最后调用一次 Complete。单个容器失败不会中断整批处理。
func Fit(containers []Container, cfg Config) []Result {
	log := cfg.logger()
	log.Debug("[TextFill] Start Debug")

	results := make([]Result, 0, len(containers))
	for _, c := range containers {
		results = append(results, FitOne(c, cfg))
	}

	cfg.sinks.notifyComplete(containers)
	log.Debug("[TextFill] End Debug")
	return results
}

// FitOne 只适配一个容器，触发 Success 或 Fail，但不触发 Complete。
func FitOne(c Container, cfg Config) Result {
	f := &fitter{cfg: cfg, log: cfg.logger(), container: c}
	return f.run()
}

func (c Config) logger() *slog.Logger {
	if !c.debug {
		return newSilentLogger()
	}
	return Logger()
}

type fitter struct {
	cfg       Config
	log       *slog.Logger
	container Container
	inner     Element
	coupler   Coupler
}

func (f *fitter) run() Result {
	cfg := f.cfg
	res := Result{Container: f.container, MinFontPx: cfg.minFontPx}

	f.inner = f.container.Inner(cfg.innerSelector)
	if f.inner == nil {
		res.Err = ErrNoInnerElement
		f.log.Debug("[TextFill] Failure", slog.String("reason", ErrNoInnerElement.Error()), slog.String("selector", cfg.innerSelector))
		cfg.sinks.notifyFail(f.container)
		return res
	}
	res.Inner = f.inner
	f.log.Debug("[TextFill] Inner text", slog.String("text", innerText(f.inner)))
	f.log.Debug("[TextFill] All options", slog.Any("options", cfg))

	maxHeight := resolveBound(cfg.explicitHeightPx, f.container.Style(PropMaxHeight), f.container.Height())
	maxWidth := resolveBound(cfg.explicitWidthPx, f.container.Style(PropMaxWidth), f.container.Width())
	res.MaxHeightPx, res.MaxWidthPx = maxHeight, maxWidth

	res.OriginalFontSize = f.inner.Style(PropFontSize)
	res.LineHeightRatio = DeriveRatio(f.inner.Style(PropLineHeight), res.OriginalFontSize)
	f.coupler = Coupler{Enabled: cfg.changeLineHeight, Ratio: res.LineHeightRatio}

	minPx := cfg.minFontPx
	maxPx := cfg.resolveMaxFont(maxHeight)
	res.MaxFontPx = maxPx

	f.log.Debug("[TextFill] Maximum sizes",
		slog.Float64("height", maxHeight),
		slog.Float64("width", maxWidth),
		slog.String("mode", cfg.mode.String()),
	)

	for _, b := range SelectMetrics(cfg.mode, maxHeight, maxWidth) {
		f.debugSizing(b.Metric.String(), maxHeight, maxWidth, minPx, maxPx)
		cand := Search(f.probe(b.Metric), b.Max, minPx, maxPx)
		switch b.Metric {
		case Height:
			res.Height = &cand
		case Width:
			res.Width = &cand
		}
	}

	var size int
	switch cfg.mode {
	case ModeWidthOnly:
		size = res.Width.SizePx
		f.inner.SetStyle(PropWhiteSpace, "nowrap")
	case ModeHeightOnly:
		size = res.Height.SizePx
	default:
		size = min(res.Height.SizePx, res.Width.SizePx)
	}
	res.FontSizePx = size
	res.LineHeightPx = f.commit(size)

	f.log.Debug("[TextFill] Finished",
		slog.String("old-font-size", res.OriginalFontSize),
		slog.String("new-font-size", f.inner.Style(PropFontSize)),
	)

	overflow := false
	if cfg.mode != ModeHeightOnly && f.inner.Width() > maxWidth {
		overflow = true
	}
	if cfg.mode != ModeWidthOnly && f.inner.Height() > maxHeight {
		overflow = true
	}
	if overflow {
		f.inner.SetStyle(PropFontSize, res.OriginalFontSize)
		cfg.sinks.notifyFail(f.container)
		f.log.Debug("[TextFill] Failure",
			slog.Float64("current-width", f.inner.Width()),
			slog.Float64("max-width", maxWidth),
			slog.Float64("current-height", f.inner.Height()),
			slog.Float64("max-height", maxHeight),
		)
		return res
	}

	res.Succeeded = true
	cfg.sinks.notifySuccess(f.container)
	return res
}

// probe 写入字号（以及耦合的行高）后测量，供 Search 使用。
func (f *fitter) probe(m Metric) Probe {
	ratio := f.coupler.searchRatio()
	return func(size int) float64 {
		f.inner.SetStyle(PropFontSize, Px(float64(size)))
		if ratio > 0 {
			f.container.SetStyle(PropLineHeight, Px(ratio*float64(size)))
		}
		return m.Measure(f.inner)
	}
}

// commit 显式写入最终字号，不依赖探测阶段最后一次写入的值。
func (f *fitter) commit(size int) float64 {
	f.inner.SetStyle(PropFontSize, Px(float64(size)))
	return f.coupler.Apply(f.container, size)
}

func (f *fitter) debugSizing(prefix string, maxHeight, maxWidth float64, minPx, maxPx int) {
	if !f.cfg.debug {
		return
	}
	h, w := f.inner.Height(), f.inner.Width()
	f.log.Debug("[TextFill] "+prefix,
		slog.String("font-size", f.inner.Style(PropFontSize)),
		slog.String("height", fmt.Sprintf("%gpx%s%gpx", h, marker(h, maxHeight), maxHeight)),
		slog.String("width", fmt.Sprintf("%g%s%g", w, marker(w, maxWidth), maxWidth)),
		slog.Int("min-font-pixels", minPx),
		slog.Int("max-font-pixels", maxPx),
	)
}

// innerText 返回元素的文本内容，元素未实现 Texter 时为空。
func innerText(el Element) string {
	if t, ok := el.(Texter); ok {
		return t.Text()
	}
	return ""
}

func marker(v, limit float64) string {
	switch {
	case v > limit:
		return " > "
	case v == limit:
		return " = "
	default:
		return " / "
	}
}

// resolveBound 显式值优先；其次是大于盒子尺寸的 max-* 属性；否则取盒子尺寸。
func resolveBound(explicit float64, maxProp string, box float64) float64 {
	if explicit != 0 {
		return explicit
	}
	if v, ok := parseLeadingFloat(maxProp); ok && v > box {
		return v
	}
	return box
}
