package layout

import (
	"strconv"
	"strings"
)

// Unit represents the original unit of a length value as specified in DSL.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPX               // CSS pixels (96 per inch)
)

// Conversion constants between pt, px and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96
	MmToPx = 1.0 / PxToMm
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM converts to millimeters; unit-less values are already millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	case UnitPX:
		return l.Value * PxToMm
	default:
		return l.Value
	}
}

// ToPX converts to CSS pixels. Unit-less values are taken as pixels here,
// since font sizes and fitting bounds are authored in px.
func (l Length) ToPX() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * 96 / 25.4
	case UnitCM:
		return l.Value * 960 / 25.4
	case UnitIN:
		return l.Value * 96
	case UnitPT:
		return l.Value * 96 / 72
	default:
		return l.Value
	}
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}}

// ParseLength parses a DSL length string preserving its unit.
// ok is false when the numeric part is not a number.
func ParseLength(value string) (Length, bool) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := lower
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightNormal LineHeightKind = iota
	LineHeightFactor
	LineHeightAbsolute
)

// normalLineHeight 对应 CSS 的 line-height: normal。
const normalLineHeight = 1.2

// LineHeightSpec preserves author intent: normal, a factor (1.2x / 1.2) or an absolute length (18px).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight accepts "normal", "1.5", "1.5x" and absolute lengths.
// Anything else falls back to normal.
func ParseLineHeight(value string) LineHeightSpec {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == "normal" {
		return LineHeightSpec{Kind: LineHeightNormal}
	}
	if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil && f > 0 {
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}
	}
	if l, ok := ParseLength(v); ok && l.Unit != UnitNone && l.Value > 0 {
		return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}
	}
	return LineHeightSpec{Kind: LineHeightNormal}
}

// CSS renders the spec the way a computed style reports it: px for absolute
// lengths, a bare number for factors, "normal" otherwise.
func (s LineHeightSpec) CSS() string {
	switch s.Kind {
	case LineHeightFactor:
		return strconv.FormatFloat(s.Factor, 'f', -1, 64)
	case LineHeightAbsolute:
		return strconv.FormatFloat(s.Len.ToPX(), 'f', -1, 64) + "px"
	default:
		return "normal"
	}
}

// ResolvePX computes the absolute line height in px for the given font size in px.
func (s LineHeightSpec) ResolvePX(fontSizePx float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return fontSizePx * s.Factor
	case LineHeightAbsolute:
		return s.Len.ToPX()
	default:
		return fontSizePx * normalLineHeight
	}
}
