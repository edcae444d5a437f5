package fill

// Candidate 是一次搜索的结果。Feasible 为 false 时 SizePx 为搜索上限。
type Candidate struct {
	SizePx   int  `json:"sizePx"`
	Feasible bool `json:"feasible"`
}

// Probe 在给定字号下渲染元素并返回被约束的尺寸。
// 探测会修改元素样式，调用方需要在搜索结束后显式写入最终字号。
type Probe func(sizePx int) float64

// Search 从 maxPx 开始向 minPx 二分，返回第一个测量值不超过 bound 的字号。
//
// 每次失败后 size = floor((minPx+size)/2)，当 size < minPx+1 时停止，
// 因此 minPx 本身只有在 minPx == maxPx 时才会被探测。找不到时返回
// {maxPx, false}。minPx > maxPx 时只探测一次 maxPx。
func Search(probe Probe, bound float64, minPx, maxPx int) Candidate {
	size := maxPx
	for {
		if probe(size) <= bound {
			return Candidate{SizePx: size, Feasible: true}
		}
		size = floorDiv(minPx+size, 2)
		if size < minPx+1 {
			break
		}
	}
	return Candidate{SizePx: maxPx, Feasible: false}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
