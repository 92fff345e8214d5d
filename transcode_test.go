package img2ascii

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/wbrown/img2ascii/imageutil"
)

var (
	black = imageutil.RGB{}
	white = imageutil.RGB{R: 255, G: 255, B: 255}
)

func TestTranscodeDimensions(t *testing.T) {
	grid, err := Transcode(imageutil.CreateGradientImage(160, 90), 80)
	if err != nil {
		t.Fatal(err)
	}
	if grid.Cols() != 80 || grid.Rows() != 23 {
		t.Errorf("grid %dx%d, want 80x23", grid.Cols(), grid.Rows())
	}
	for y, row := range grid.Cells {
		if len(row) != 80 {
			t.Fatalf("row %d has %d cells", y, len(row))
		}
	}
}

func TestTranscodeSplitImage(t *testing.T) {
	img := imageutil.CreateSplitImage(40, 20, black, white)
	tests := []struct {
		name  string
		edges bool
		want  string
	}{
		{"plain", false, strings.Repeat(" ", 20) + strings.Repeat("W", 20)},
		{"edges", true, strings.Repeat(" ", 19) + "||" + strings.Repeat("W", 19)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranscoder(
				WithColumns(40),
				WithFontRatio(1),
				WithEdgeDetection(tt.edges),
				WithInterpolation(imageutil.InterpolationApproxLinear),
			)
			defer tr.Close()
			grid, err := tr.Transcode(img)
			if err != nil {
				t.Fatal(err)
			}
			if grid.Rows() != 20 {
				t.Fatalf("rows = %d, want 20", grid.Rows())
			}
			for y := range grid.Rows() {
				var sb strings.Builder
				for _, c := range grid.Cells[y] {
					sb.WriteRune(c.Glyph)
				}
				if sb.String() != tt.want {
					t.Fatalf("row %d = %q, want %q", y, sb.String(), tt.want)
				}
			}
			if c := grid.At(0, 0); c.Color != black {
				t.Errorf("left color = %v, want black", c.Color)
			}
			if c := grid.At(39, 19); c.Color != white {
				t.Errorf("right color = %v, want white", c.Color)
			}
		})
	}
}

func TestTranscodeEdgeThreshold(t *testing.T) {
	img := imageutil.CreateSplitImage(40, 20, black, white)
	tr := NewTranscoder(
		WithColumns(40),
		WithFontRatio(1),
		WithEdgeDetection(true),
		WithEdgeThreshold(5000),
		WithInterpolation(imageutil.InterpolationApproxLinear),
	)
	defer tr.Close()
	grid, err := tr.Transcode(img)
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsRune(grid.String(), '|') {
		t.Error("edge glyph drawn below threshold")
	}
}

func TestTranscodeTransparentIsBlank(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	grid, err := Transcode(img, 20, WithFontRatio(1))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Trim(grid.String(), " \n") != "" {
		t.Errorf("transparent image produced %q", grid.String())
	}
}

func TestTranscodePartialAlphaKeepsSourceColor(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(nrgba.Pix); i += 4 {
		copy(nrgba.Pix[i:i+4], []uint8{255, 255, 255, 128})
	}
	// The same half-transparent red, stored premultiplied.
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(rgba.Pix); i += 4 {
		copy(rgba.Pix[i:i+4], []uint8{128, 0, 0, 128})
	}

	tests := []struct {
		name      string
		img       image.Image
		wantGlyph rune
		wantColor imageutil.RGB
	}{
		{"straight white", nrgba, 'W', imageutil.RGB{R: 255, G: 255, B: 255}},
		{"premultiplied red", rgba, PaletteClassic[GlyphIndex(LuminanceWeighted.Of(255, 0, 0, 255))], imageutil.RGB{R: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, interp := range []imageutil.Interpolation{imageutil.InterpolationArea, imageutil.InterpolationApproxLinear} {
				grid, err := Transcode(tt.img, 4, WithFontRatio(1), WithInterpolation(interp))
				if err != nil {
					t.Fatal(err)
				}
				for y := range grid.Rows() {
					for x := range grid.Cols() {
						c := grid.At(x, y)
						if c.Glyph != tt.wantGlyph || c.Color != tt.wantColor {
							t.Fatalf("interp %d cell (%d,%d) = %q %v, want %q %v",
								interp, x, y, c.Glyph, c.Color, tt.wantGlyph, tt.wantColor)
						}
					}
				}
			}
		})
	}
}

func TestTranscodeDeterministicAcrossWorkers(t *testing.T) {
	img := imageutil.CreateColorBarsImage(200, 120)
	var want string
	for _, workers := range []int{1, 2, 7, 16} {
		grid, err := Transcode(img, 64, WithWorkers(workers), WithEdgeDetection(true))
		if err != nil {
			t.Fatal(err)
		}
		got := RenderANSI(grid)
		if want == "" {
			want = got
			continue
		}
		if got != want {
			t.Errorf("workers=%d output differs from workers=1", workers)
		}
	}
}

func TestTranscodeRepeatable(t *testing.T) {
	tr := NewTranscoder(WithColumns(50))
	defer tr.Close()
	img := imageutil.CreateGradientImage(300, 200)
	a, _ := tr.Transcode(img)
	b, _ := tr.Transcode(img)
	if a.String() != b.String() {
		t.Error("same transcoder gave different grids for the same image")
	}
}

func TestTranscodeJitterSeeded(t *testing.T) {
	img := imageutil.CreateGradientImage(256, 128)
	run := func(seed uint64, workers int) string {
		grid, err := Transcode(img, 64,
			WithPaletteJitter(seed, PaletteDense),
			WithWorkers(workers))
		if err != nil {
			t.Fatal(err)
		}
		return grid.String()
	}
	first := run(42, 1)
	if again := run(42, 8); again != first {
		t.Error("same seed gave different output")
	}
	if other := run(43, 1); other == first {
		t.Error("different seeds gave identical output")
	}
	plain, _ := Transcode(img, 64)
	if plain.String() == first {
		t.Error("jitter had no effect")
	}
}

func TestTranscodeAfterClose(t *testing.T) {
	tr := NewTranscoder(WithColumns(10))
	tr.Close()
	if _, err := tr.Transcode(imageutil.CreateGradientImage(20, 20)); err != nil {
		t.Errorf("Transcode after Close: %v", err)
	}
}

func TestTranscodeInvalid(t *testing.T) {
	if _, err := Transcode(image.NewRGBA(image.Rect(0, 0, 0, 5)), 10); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero-width error = %v", err)
	}
	if _, err := Transcode(imageutil.CreateGradientImage(10, 10), 0); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero-columns error = %v", err)
	}
}
