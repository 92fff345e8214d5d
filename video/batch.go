package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/internal/parallel"
)

// Summary reports the outcome of a batch run.
type Summary struct {
	Dir       string
	Processed int
	Skipped   int
}

// Processor converts a directory of frame images into glyph grids.
//
// Each frame writes to paths derived from its own file name, so frames can
// complete in any order.
type Processor struct {
	Transcoder *img2ascii.Transcoder

	// Color additionally writes an ANSI truecolor .ans file per frame.
	Color bool

	// Font and FontSize enable a rasterized .png per frame. A zero size
	// disables rasterization.
	Font     img2ascii.Font
	FontSize float64

	// Workers bounds concurrent frames (0 = GOMAXPROCS).
	Workers int
}

type frameResult struct {
	err error
}

// ProcessDir transcodes every .png frame in frameDir into outDir. Failing
// frames are logged and skipped. It only returns an error when there is
// nothing to process or ctx is cancelled.
func (p *Processor) ProcessDir(ctx context.Context, frameDir, outDir string) (Summary, error) {
	sum := Summary{Dir: outDir}
	frames, err := listFrames(frameDir)
	if err != nil {
		return sum, err
	}
	if len(frames) == 0 {
		return sum, fmt.Errorf("%w: no frames extracted into %s", img2ascii.ErrEmptySequence, frameDir)
	}

	start := time.Now()
	pool := parallel.NewWorkerPool(p.Workers)
	defer pool.Close()

	results := make([]frameResult, len(frames))
	work := make([]func(), len(frames))
	for i, name := range frames {
		work[i] = func() {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return
			}
			results[i].err = p.processFrame(filepath.Join(frameDir, name), outDir)
		}
	}
	pool.ExecuteAll(work)

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	for i, r := range results {
		if r.err != nil {
			sum.Skipped++
			img2ascii.Logger().Warn("skipping frame", "frame", frames[i], "error", r.err)
			continue
		}
		sum.Processed++
	}
	img2ascii.Logger().Info("frames processed",
		"dir", outDir,
		"processed", sum.Processed,
		"skipped", sum.Skipped,
		"elapsed", time.Since(start))
	return sum, nil
}

func (p *Processor) processFrame(path, outDir string) error {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return &img2ascii.InputError{Source: path, Kind: img2ascii.ErrDecode, Err: err}
	}
	grid, err := p.Transcoder.Transcode(img)
	if err != nil {
		return err
	}

	base := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err := os.WriteFile(base+".txt", []byte(grid.String()), 0o644); err != nil {
		return err
	}
	if p.Color {
		if err := os.WriteFile(base+".ans", []byte(img2ascii.RenderANSI(grid)), 0o644); err != nil {
			return err
		}
	}
	if p.FontSize > 0 {
		// Raster output is optional; the text frame already exists.
		raster, err := img2ascii.Rasterize(grid, p.Font, p.FontSize)
		if err == nil {
			err = imageutil.SaveImage(raster, base+".png")
		}
		if err != nil {
			img2ascii.Logger().Warn("raster output skipped", "frame", filepath.Base(path), "error", err)
		}
	}
	img2ascii.Logger().Debug("frame done", "frame", filepath.Base(path))
	return nil
}

func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &img2ascii.InputError{Source: dir, Err: err}
	}
	var frames []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			frames = append(frames, e.Name())
		}
	}
	slices.Sort(frames)
	return frames, nil
}

// Convert extracts the frames of src with ex into a private work directory
// under outDir, then processes them into outDir. The work directory is
// always removed. An extraction failure leaves outDir without frame output.
func Convert(ctx context.Context, ex Extractor, p *Processor, src, outDir string, width, fps int) (Summary, error) {
	work, err := os.MkdirTemp(outDir, ".frames-")
	if err != nil {
		return Summary{Dir: outDir}, fmt.Errorf("video: work dir: %w", err)
	}
	defer os.RemoveAll(work)

	img2ascii.Logger().Info("extracting frames", "source", src, "width", width, "fps", fps)
	if err := ex.Extract(ctx, src, work, width, fps); err != nil {
		return Summary{Dir: outDir}, err
	}
	return p.ProcessDir(ctx, work, outDir)
}
