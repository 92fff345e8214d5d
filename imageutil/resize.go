package imageutil

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the reconstruction filter used for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom, the closest equivalent to
	// OpenCV's INTER_AREA for downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationApproxLinear uses the faster approximate bilinear filter.
	InterpolationApproxLinear
)

// ParseInterpolation maps "area", "linear" or "approx" to a filter.
func ParseInterpolation(name string) (Interpolation, error) {
	switch name {
	case "area", "":
		return InterpolationArea, nil
	case "linear":
		return InterpolationLinear, nil
	case "approx":
		return InterpolationApproxLinear, nil
	}
	return 0, fmt.Errorf("unknown filter %q (want area, linear or approx)", name)
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationApproxLinear:
		return draw.ApproxBiLinear
	default:
		return draw.CatmullRom
	}
}

// Resize scales src to exactly width x height using the given filter. The
// source is never modified. Filtering happens on premultiplied values and
// the result is stored with straight alpha.
func Resize(src image.Image, width, height int, interp Interpolation) *RGBAImage {
	if wrapped, ok := src.(*RGBAImage); ok {
		src = wrapped.NRGBA
	}
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.NRGBA, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
