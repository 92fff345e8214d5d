package img2ascii

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/wbrown/img2ascii/imageutil"
)

// GlyphCell is one character of output together with the source color it
// represents.
type GlyphCell struct {
	Glyph rune
	Color imageutil.RGB
}

// GlyphGrid is a rectangular grid of cells, rows of columns. Every row has
// the same length.
type GlyphGrid struct {
	Cells [][]GlyphCell
}

// NewGlyphGrid allocates a rows x cols grid of zero cells.
func NewGlyphGrid(cols, rows int) (*GlyphGrid, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidDimensions, cols, rows)
	}
	backing := make([]GlyphCell, cols*rows)
	cells := make([][]GlyphCell, rows)
	for y := range cells {
		cells[y] = backing[y*cols : (y+1)*cols : (y+1)*cols]
	}
	return &GlyphGrid{Cells: cells}, nil
}

// Rows returns the number of rows.
func (g *GlyphGrid) Rows() int { return len(g.Cells) }

// Cols returns the number of columns.
func (g *GlyphGrid) Cols() int {
	if len(g.Cells) == 0 {
		return 0
	}
	return len(g.Cells[0])
}

// At returns the cell at column x, row y.
func (g *GlyphGrid) At(x, y int) GlyphCell { return g.Cells[y][x] }

// WriteText writes the plain-text form: exactly Cols glyphs per line, each
// line terminated by '\n'. Colors are not represented.
func (g *GlyphGrid) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, row := range g.Cells {
		for _, c := range row {
			bw.WriteRune(c.Glyph)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String returns the plain-text form of the grid.
func (g *GlyphGrid) String() string {
	var sb strings.Builder
	sb.Grow(g.Rows() * (g.Cols() + 1))
	for _, row := range g.Cells {
		for _, c := range row {
			sb.WriteRune(c.Glyph)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseGrid reads the plain-text form back into a grid. Cells carry the zero
// color since the text form has none. A trailing '\r' on each line is
// ignored and every line must have the same number of glyphs.
func ParseGrid(r io.Reader) (*GlyphGrid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty grid text", ErrInvalidDimensions)
	}

	lines := bytes.Split(data, []byte("\n"))
	cols := utf8.RuneCount(bytes.TrimSuffix(lines[0], []byte("\r")))
	grid, err := NewGlyphGrid(cols, len(lines))
	if err != nil {
		return nil, err
	}
	for y, line := range lines {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if n := utf8.RuneCount(line); n != cols {
			return nil, fmt.Errorf("%w: line %d has %d glyphs, want %d",
				ErrInvalidDimensions, y+1, n, cols)
		}
		for x, s := 0, string(line); s != ""; x++ {
			r, size := utf8.DecodeRuneInString(s)
			grid.Cells[y][x].Glyph = r
			s = s[size:]
		}
	}
	return grid, nil
}
