package img2ascii

import (
	"fmt"
	"image"
	"math"

	"github.com/wbrown/img2ascii/imageutil"
)

// DefaultFontRatio compensates for monospace glyphs being roughly twice as
// tall as they are wide.
const DefaultFontRatio = 0.5

// GridRows returns the number of rows for a source of width x height drawn
// with cols columns: max(1, round(cols * height/width * fontRatio)), with
// halves rounded away from zero.
func GridRows(width, height, cols int, fontRatio float64) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: source %dx%d", ErrInvalidDimensions, width, height)
	}
	if cols < 1 {
		return 0, fmt.Errorf("%w: %d columns", ErrInvalidDimensions, cols)
	}
	if fontRatio <= 0 || math.IsNaN(fontRatio) || math.IsInf(fontRatio, 0) {
		return 0, fmt.Errorf("%w: font ratio %v", ErrInvalidDimensions, fontRatio)
	}
	rows := math.Round(float64(cols) * float64(height) / float64(width) * fontRatio)
	return max(1, int(rows)), nil
}

// SampleGrid resamples src to exactly one pixel per grid cell using a
// reconstruction filter, so detail is averaged before it is quantized into
// glyphs. The source is left untouched.
func SampleGrid(src image.Image, cols int, fontRatio float64, interp imageutil.Interpolation) (*imageutil.RGBAImage, error) {
	b := src.Bounds()
	rows, err := GridRows(b.Dx(), b.Dy(), cols, fontRatio)
	if err != nil {
		return nil, err
	}
	return imageutil.Resize(src, cols, rows, interp), nil
}
