package fill

// Metric 是被约束的一维尺寸。
type Metric int

const (
	Height Metric = iota
	Width
)

func (m Metric) String() string {
	if m == Width {
		return "Width"
	}
	return "Height"
}

// Measure 读取元素当前的渲染尺寸。
func (m Metric) Measure(el Element) float64 {
	if m == Width {
		return el.Width()
	}
	return el.Height()
}

// Bound 把一个尺寸与它的上限配对，作为一次搜索的输入。
type Bound struct {
	Metric Metric
	Max    float64
}

// SelectMetrics 按模式给出需要搜索的尺寸，顺序为先高后宽。
func SelectMetrics(mode Mode, maxHeightPx, maxWidthPx float64) []Bound {
	switch mode {
	case ModeWidthOnly:
		return []Bound{{Metric: Width, Max: maxWidthPx}}
	case ModeHeightOnly:
		return []Bound{{Metric: Height, Max: maxHeightPx}}
	default:
		return []Bound{
			{Metric: Height, Max: maxHeightPx},
			{Metric: Width, Max: maxWidthPx},
		}
	}
}
