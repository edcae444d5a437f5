package fill

import "strings"

// DeriveRatio 由当前行高与字号求出"每像素字号对应的行高"。
//
//   - "18px" 与字号 "12px" 得到 1.5
//   - 纯数字（倍数）直接返回
//   - normal 等关键字或无法解析的值返回 1
func DeriveRatio(lineHeight, fontSize string) float64 {
	lh := strings.TrimSpace(lineHeight)
	if strings.HasSuffix(lh, "px") {
		v, ok := parseLeadingFloat(strings.TrimSuffix(lh, "px"))
		fs, fsOK := parseLeadingFloat(fontSize)
		if !ok || !fsOK || fs <= 0 {
			return 1
		}
		return v / fs
	}
	if v, ok := parseNumber(lh); ok {
		return v
	}
	return 1
}

// Coupler 在字号变化时同步调整容器的行高。
type Coupler struct {
	Enabled bool
	Ratio   float64
}

// Apply 把容器行高设为 Ratio*sizePx，返回写入的像素值；未启用时返回 0。
func (c Coupler) Apply(container Element, sizePx int) float64 {
	if !c.Enabled {
		return 0
	}
	lh := c.Ratio * float64(sizePx)
	container.SetStyle(PropLineHeight, Px(lh))
	return lh
}

// searchRatio 探测阶段使用的比例，<=0 表示不耦合。
func (c Coupler) searchRatio() float64 {
	if !c.Enabled {
		return 0
	}
	return c.Ratio
}
