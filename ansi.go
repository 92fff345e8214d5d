package img2ascii

import (
	"io"
	"strconv"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
)

const (
	// ESC introduces ANSI control sequences.
	ESC = "\u001b"

	ansiReset = ESC + "[0m"

	// ClearScreen homes the cursor and erases the display.
	ClearScreen = ESC + "[H" + ESC + "[2J"
)

// RenderANSI renders the grid with 24-bit foreground colors. A color
// escape is only emitted when the color changes within a row, and each
// row ends with a reset so lines can be printed independently.
func RenderANSI(g *GlyphGrid) string {
	var sb strings.Builder
	// Roughly one escape per four cells is typical for photographs.
	sb.Grow(g.Rows() * (g.Cols()*6 + len(ansiReset) + 1))
	for _, row := range g.Cells {
		writeANSIRow(&sb, row)
	}
	return sb.String()
}

// WriteANSI writes the ANSI form of the grid to w.
func (g *GlyphGrid) WriteANSI(w io.Writer) error {
	_, err := io.WriteString(w, RenderANSI(g))
	return err
}

func writeANSIRow(sb *strings.Builder, row []GlyphCell) {
	var current imageutil.RGB
	started := false
	for _, c := range row {
		if !started || c.Color != current {
			writeForeground(sb, c.Color)
			current = c.Color
			started = true
		}
		sb.WriteRune(c.Glyph)
	}
	sb.WriteString(ansiReset)
	sb.WriteByte('\n')
}

func writeForeground(sb *strings.Builder, c imageutil.RGB) {
	var buf [24]byte
	b := append(buf[:0], ESC+"[38;2;"...)
	b = strconv.AppendUint(b, uint64(c.R), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(c.G), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(c.B), 10)
	b = append(b, 'm')
	sb.Write(b)
}
