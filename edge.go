package img2ascii

import (
	"math"

	"github.com/wbrown/img2ascii/imageutil"
)

// DefaultEdgeThreshold is the gradient magnitude, on a 0-255 luminance
// scale, above which a cell is drawn as an edge glyph.
const DefaultEdgeThreshold = 120.0

// EdgeSample is the local gradient at one cell.
type EdgeSample struct {
	// Magnitude is sqrt(Gx² + Gy²), never negative.
	Magnitude float64
	// Direction is atan2(Gy, Gx) in radians, with rows growing downward.
	Direction float64
}

// LuminancePlane reduces every pixel of img to its luminance under policy l.
func LuminancePlane(img *imageutil.RGBAImage, l Luminance) *imageutil.GrayImage {
	plane := imageutil.NewGrayImage(img.Width(), img.Height())
	for y := range img.Height() {
		fillLuminanceRow(img, plane, y, l)
	}
	return plane
}

func fillLuminanceRow(img *imageutil.RGBAImage, plane *imageutil.GrayImage, y int, l Luminance) {
	pix := img.Pix[y*img.Stride:]
	for x := range plane.Width() {
		p := pix[x*4 : x*4+4 : x*4+4]
		plane.SetGrayValue(x, y, l.Of(p[0], p[1], p[2], p[3]))
	}
}

// EdgeAt applies the 3x3 Sobel operator centred on (x, y). Neighbours past
// the border replicate the nearest edge pixel.
func EdgeAt(lum *imageutil.GrayImage, x, y int) EdgeSample {
	gx := float64(imageutil.SobelX.ApplyAt(lum, x, y))
	gy := float64(imageutil.SobelY.ApplyAt(lum, x, y))
	return EdgeSample{
		Magnitude: math.Hypot(gx, gy),
		Direction: math.Atan2(gy, gx),
	}
}
