package img2ascii

import (
	"image"
	"math/rand/v2"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/internal/parallel"
)

// Transcoder converts images into glyph grids. The configuration is fixed at
// construction, so one Transcoder always maps the same image to the same
// grid. It is safe for concurrent use; rows of each image are computed in
// parallel on the Transcoder's worker pool.
type Transcoder struct {
	Columns       int
	FontRatio     float64
	EdgeDetection bool
	EdgeThreshold float64
	Luminance     Luminance
	Palette       Palette
	Interpolation imageutil.Interpolation

	jitterSeed    uint64
	jitterEnabled bool
	alternates    []Palette

	workers int
	tables  []*GlyphTable
	pool    *parallel.WorkerPool
}

// TranscoderOption is a functional option for configuring a Transcoder.
type TranscoderOption func(*Transcoder)

// NewTranscoder creates a Transcoder with the given options.
// Default values: Columns=100, FontRatio=0.5, EdgeDetection=false,
// EdgeThreshold=120, Luminance=LuminanceWeighted, Palette=PaletteClassic,
// Interpolation=InterpolationArea, one worker per GOMAXPROCS.
//
// Call Close to release the worker pool.
func NewTranscoder(opts ...TranscoderOption) *Transcoder {
	t := &Transcoder{
		Columns:       100,
		FontRatio:     DefaultFontRatio,
		EdgeThreshold: DefaultEdgeThreshold,
		Luminance:     LuminanceWeighted,
		Palette:       PaletteClassic,
		Interpolation: imageutil.InterpolationArea,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.tables = []*GlyphTable{NewGlyphTable(t.Palette)}
	if t.jitterEnabled {
		for _, p := range t.alternates {
			t.tables = append(t.tables, NewGlyphTable(p))
		}
	}
	t.pool = parallel.NewWorkerPool(t.workers)
	return t
}

// WithColumns sets the output width in characters.
func WithColumns(cols int) TranscoderOption {
	return func(t *Transcoder) {
		t.Columns = cols
	}
}

// WithFontRatio sets the glyph width:height ratio used to derive rows.
func WithFontRatio(ratio float64) TranscoderOption {
	return func(t *Transcoder) {
		t.FontRatio = ratio
	}
}

// WithEdgeDetection enables directional edge glyphs.
func WithEdgeDetection(enabled bool) TranscoderOption {
	return func(t *Transcoder) {
		t.EdgeDetection = enabled
	}
}

// WithEdgeThreshold sets the Sobel magnitude above which a cell becomes an
// edge glyph.
func WithEdgeThreshold(threshold float64) TranscoderOption {
	return func(t *Transcoder) {
		t.EdgeThreshold = threshold
	}
}

// WithLuminance selects the luminance policy.
func WithLuminance(l Luminance) TranscoderOption {
	return func(t *Transcoder) {
		t.Luminance = l
	}
}

// WithPalette selects the glyph palette.
func WithPalette(p Palette) TranscoderOption {
	return func(t *Transcoder) {
		t.Palette = p
	}
}

// WithInterpolation selects the resampling filter.
func WithInterpolation(interp imageutil.Interpolation) TranscoderOption {
	return func(t *Transcoder) {
		t.Interpolation = interp
	}
}

// WithPaletteJitter makes every cell pick at random between the main
// palette and the alternates. The choice is seeded per row from seed, so
// output stays reproducible for a given seed regardless of scheduling.
func WithPaletteJitter(seed uint64, alternates ...Palette) TranscoderOption {
	return func(t *Transcoder) {
		t.jitterEnabled = len(alternates) > 0
		t.jitterSeed = seed
		t.alternates = alternates
	}
}

// WithWorkers sets the number of row workers (0 = GOMAXPROCS).
func WithWorkers(n int) TranscoderOption {
	return func(t *Transcoder) {
		t.workers = n
	}
}

// Close releases the worker pool. Transcode still works afterwards, on the
// calling goroutine.
func (t *Transcoder) Close() {
	t.pool.Close()
}

// Transcode resamples img to the configured grid and maps every cell to a
// glyph. It fails only for zero-sized images or an invalid configuration.
func (t *Transcoder) Transcode(img image.Image) (*GlyphGrid, error) {
	start := time.Now()
	sampled, err := SampleGrid(img, t.Columns, t.FontRatio, t.Interpolation)
	if err != nil {
		return nil, err
	}
	cols, rows := sampled.Width(), sampled.Height()
	grid, err := NewGlyphGrid(cols, rows)
	if err != nil {
		return nil, err
	}

	// Edges read neighbouring rows, so the luminance plane is completed
	// before any glyph is chosen.
	lum := imageutil.NewGrayImage(cols, rows)
	t.forEachRow(rows, func(y int) {
		fillLuminanceRow(sampled, lum, y, t.Luminance)
	})
	t.forEachRow(rows, func(y int) {
		t.glyphRow(sampled, lum, grid.Cells[y], y)
	})

	Logger().Debug("transcoded image",
		"cols", cols, "rows", rows,
		"edges", t.EdgeDetection,
		"elapsed", time.Since(start))
	return grid, nil
}

func (t *Transcoder) forEachRow(rows int, fn func(y int)) {
	work := make([]func(), rows)
	for y := range work {
		work[y] = func() { fn(y) }
	}
	t.pool.ExecuteAll(work)
}

// glyphRow writes only to out, and reads only the immutable sampled image
// and luminance plane.
func (t *Transcoder) glyphRow(src *imageutil.RGBAImage, lum *imageutil.GrayImage, out []GlyphCell, y int) {
	var rng *rand.Rand
	if len(t.tables) > 1 {
		rng = rand.New(rand.NewPCG(t.jitterSeed, uint64(y)))
	}
	for x := range out {
		table := t.tables[0]
		if rng != nil {
			table = t.tables[rng.IntN(len(t.tables))]
		}
		glyph := table.Glyph(lum.GetGray(x, y))
		if t.EdgeDetection {
			if e := EdgeAt(lum, x, y); e.Magnitude > t.EdgeThreshold {
				glyph = EdgeGlyph(e.Direction)
			}
		}
		out[x] = GlyphCell{Glyph: glyph, Color: src.GetRGB(x, y)}
	}
}

// Transcode converts img into a grid of cols columns with a one-off
// Transcoder. Prefer a long-lived Transcoder when converting many images.
func Transcode(img image.Image, cols int, opts ...TranscoderOption) (*GlyphGrid, error) {
	t := NewTranscoder(append(opts, WithColumns(cols))...)
	defer t.Close()
	return t.Transcode(img)
}
