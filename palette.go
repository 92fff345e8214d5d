package img2ascii

import (
	"fmt"
	"math"
)

// PaletteSize is the number of glyphs in every palette.
const PaletteSize = 16

// Palette is an ordered set of glyphs from emptiest (index 0) to densest
// (index 15).
type Palette [PaletteSize]rune

var (
	// PaletteClassic is the default ramp.
	PaletteClassic = mustPalette(" .,-~+=@#$%&8BMW")

	// PaletteDense trades the punctuation-heavy low end for rounder shapes.
	PaletteDense = mustPalette(" .:-=+*coOQ#%&@$")
)

// NewPalette builds a Palette from exactly PaletteSize runes.
func NewPalette(glyphs string) (Palette, error) {
	var p Palette
	runes := []rune(glyphs)
	if len(runes) != PaletteSize {
		return p, fmt.Errorf("palette needs %d glyphs, got %d", PaletteSize, len(runes))
	}
	copy(p[:], runes)
	return p, nil
}

func mustPalette(glyphs string) Palette {
	p, err := NewPalette(glyphs)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePalette returns a named built-in palette.
func ParsePalette(name string) (Palette, error) {
	switch name {
	case "classic", "":
		return PaletteClassic, nil
	case "dense":
		return PaletteDense, nil
	}
	return Palette{}, fmt.Errorf("unknown palette %q (want classic or dense)", name)
}

// String returns the palette glyphs in order.
func (p Palette) String() string { return string(p[:]) }

// GlyphIndex quantizes a luminance into a palette index in [0,15]. It is
// monotonically non-decreasing in v.
func GlyphIndex(v uint8) int {
	return min(int(v)*(PaletteSize-1)/255, PaletteSize-1)
}

// GlyphTable is a precomputed luminance to glyph lookup for one palette.
type GlyphTable [256]rune

// NewGlyphTable precomputes the glyph for every luminance value.
func NewGlyphTable(p Palette) *GlyphTable {
	var t GlyphTable
	for v := range t {
		t[v] = p[GlyphIndex(uint8(v))]
	}
	return &t
}

// Glyph returns the luminance policy glyph for v.
func (t *GlyphTable) Glyph(v uint8) rune { return t[v] }

// Edge glyphs by line orientation.
const (
	EdgeHorizontal rune = '-'
	EdgeRising     rune = '/'
	EdgeVertical   rune = '|'
	EdgeFalling    rune = '\\'
)

// EdgeGlyph picks the directional glyph for a gradient direction in radians
// (atan2(Gy, Gx) with rows growing downward). The glyph follows the edge
// line, which runs perpendicular to the gradient; orientation is folded
// into [0,180) degrees since edges have no sense of direction.
func EdgeGlyph(direction float64) rune {
	// Flip to y-up, rotate from gradient to edge line.
	deg := (-direction + math.Pi/2) * 180 / math.Pi
	deg = math.Mod(deg, 180)
	if deg < 0 {
		deg += 180
	}
	switch {
	case deg < 22.5 || deg >= 157.5:
		return EdgeHorizontal
	case deg < 67.5:
		return EdgeRising
	case deg < 112.5:
		return EdgeVertical
	default:
		return EdgeFalling
	}
}
