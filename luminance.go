package img2ascii

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Luminance selects the formula that reduces an RGBA sample to a single
// 8-bit brightness. A run uses exactly one policy.
type Luminance int

const (
	// LuminanceWeighted is the Rec.709 perceptual weighting
	// 0.2126*R + 0.7152*G + 0.0722*B. This is the default.
	LuminanceWeighted Luminance = iota

	// LuminanceAverage is the unweighted (R+G+B)/3 mean.
	LuminanceAverage

	// LuminanceLab is CIE L* lightness rescaled from [0,100] to [0,255].
	LuminanceLab
)

// String implements fmt.Stringer.
func (l Luminance) String() string {
	switch l {
	case LuminanceAverage:
		return "average"
	case LuminanceLab:
		return "lab"
	default:
		return "weighted"
	}
}

// ParseLuminance maps a policy name back to its Luminance value.
func ParseLuminance(name string) (Luminance, error) {
	switch name {
	case "weighted", "":
		return LuminanceWeighted, nil
	case "average":
		return LuminanceAverage, nil
	case "lab":
		return LuminanceLab, nil
	}
	return 0, fmt.Errorf("unknown luminance policy %q (want weighted, average or lab)", name)
}

// Of returns the luminance of one sample. Fully transparent samples are
// always 0 so they render as the emptiest glyph.
func (l Luminance) Of(r, g, b, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	var v float64
	switch l {
	case LuminanceAverage:
		return uint8((int(r) + int(g) + int(b)) / 3)
	case LuminanceLab:
		c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
		lightness, _, _ := c.Lab()
		v = lightness * 255
	default:
		v = 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	}
	return clampByte(v)
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
