package img2ascii

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed font that can produce faces at any point size. A Font is
// loaded once and shared read-only; each rasterization asks for its own
// face since faces are not safe for concurrent use.
type Font interface {
	Name() string
	Face(size float64) font.Face
}

// FontMetrics are the cell-defining metrics of a face, in pixels.
type FontMetrics struct {
	AdvanceWidth float64
	Ascent       float64
	Descent      float64
}

// CellSize returns the whole-pixel cell a glyph occupies.
func (m FontMetrics) CellSize() (width, height int) {
	return int(math.Ceil(m.AdvanceWidth)), int(math.Ceil(m.Ascent + m.Descent))
}

// wideGlyphs are tried in order to find the widest advance of a face.
var wideGlyphs = []rune{'W', 'M', '@'}

// MeasureFace reads a face's advance width for a representative wide glyph
// together with its ascent and descent.
func MeasureFace(face font.Face) (FontMetrics, error) {
	var advance fixed.Int26_6
	found := false
	for _, r := range wideGlyphs {
		if adv, ok := face.GlyphAdvance(r); ok && adv > 0 {
			advance, found = adv, true
			break
		}
	}
	if !found {
		return FontMetrics{}, fmt.Errorf("%w: face has no advance for %q", ErrFontUnavailable, string(wideGlyphs))
	}
	m := face.Metrics()
	return FontMetrics{
		AdvanceWidth: fixedToFloat(advance),
		Ascent:       fixedToFloat(m.Ascent),
		Descent:      fixedToFloat(m.Descent),
	}, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// TrueTypeFont is a Font backed by a parsed TrueType file.
type TrueTypeFont struct {
	ttf  *truetype.Font
	name string
}

// ParseFont parses TrueType data.
func ParseFont(name string, data []byte) (*TrueTypeFont, error) {
	ttf, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrFontUnavailable, name, err)
	}
	return &TrueTypeFont{ttf: ttf, name: name}, nil
}

// LoadFont loads a TrueType font from path. An empty path selects the
// embedded Go Mono font.
func LoadFont(path string) (*TrueTypeFont, error) {
	if path == "" {
		return BuiltinFont()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	return ParseFont(path, data)
}

var builtinFont = sync.OnceValues(func() (*TrueTypeFont, error) {
	return ParseFont("Go Mono", gomono.TTF)
})

// BuiltinFont returns the embedded Go Mono font.
func BuiltinFont() (*TrueTypeFont, error) {
	return builtinFont()
}

// Name returns the font's name or path.
func (f *TrueTypeFont) Name() string { return f.name }

// Face returns a new hinted face at size points and 72 DPI, so one point
// is one pixel.
func (f *TrueTypeFont) Face(size float64) font.Face {
	return truetype.NewFace(f.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Rasterize draws grid into a new image, one cell per glyph, each glyph
// tinted with its cell's color on a black background. Cell size comes from
// the font's metrics at size points. A nil or unparsed font yields
// ErrFontUnavailable.
func Rasterize(grid *GlyphGrid, f Font, size float64) (*image.RGBA, error) {
	if f == nil {
		return nil, ErrFontUnavailable
	}
	if ttf, ok := f.(*TrueTypeFont); ok && (ttf == nil || ttf.ttf == nil) {
		return nil, fmt.Errorf("%w: empty TrueType font", ErrFontUnavailable)
	}
	if size <= 0 || math.IsNaN(size) {
		return nil, fmt.Errorf("%w: point size %v", ErrInvalidDimensions, size)
	}
	if grid.Rows() == 0 || grid.Cols() == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidDimensions)
	}

	face := f.Face(size)
	defer face.Close()

	metrics, err := MeasureFace(face)
	if err != nil {
		return nil, err
	}
	cellW, cellH := metrics.CellSize()
	img := image.NewRGBA(image.Rect(0, 0, grid.Cols()*cellW, grid.Rows()*cellH))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	ascent := fixed.Int26_6(math.Round(metrics.Ascent * 64))
	d := font.Drawer{Dst: img, Face: face}
	var tint image.Uniform
	for y, row := range grid.Cells {
		baseline := fixed.I(y*cellH) + ascent
		for x, cell := range row {
			if cell.Glyph == ' ' {
				continue
			}
			tint.C = cell.Color.ToColor()
			d.Src = &tint
			d.Dot = fixed.Point26_6{X: fixed.I(x * cellW), Y: baseline}
			d.DrawString(string(cell.Glyph))
		}
	}

	Logger().Debug("rasterized grid", "font", f.Name(), "size", size,
		"cell_w", cellW, "cell_h", cellH,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}
