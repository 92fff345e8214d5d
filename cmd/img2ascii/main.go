// Command img2ascii converts images and videos into colored ASCII art and
// replays frame sequences in the terminal.
//
//	img2ascii -cols 120 photo.jpg
//	img2ascii -font-size 12 -fps 12 clip.mp4
//	img2ascii -play output/clip_20250101-120000
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/video"
)

type config struct {
	input         string
	cols          int
	fps           int
	color         bool
	edges         bool
	edgeThreshold float64
	palette       string
	luminance     string
	filter        string
	jitter        bool
	seed          uint64
	fontSize      float64
	fontPath      string
	fontRatio     float64
	out           string
	play          string
	pattern       string
	loops         int
	workers       int
	extractor     string
	ffmpeg        string
	verbose       bool
}

// extractors maps -extractor names to implementations. Builds with the
// gocv tag add "gocv".
var extractors = map[string]func(cfg *config) video.Extractor{
	"ffmpeg": func(cfg *config) video.Extractor { return &video.FFmpeg{Binary: cfg.ffmpeg} },
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true,
	".webm": true, ".m4v": true, ".mpg": true, ".mpeg": true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("img2ascii", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.input, "input", "", "Image or video path, or http(s) image URL (or first argument)")
	fs.IntVar(&cfg.cols, "cols", 100, "Output width in characters")
	fs.IntVar(&cfg.fps, "fps", 24, "Frame rate for video extraction and playback")
	fs.BoolVar(&cfg.color, "color", true, "Emit ANSI truecolor output")
	fs.BoolVar(&cfg.edges, "edges", false, "Draw directional glyphs on strong edges")
	fs.Float64Var(&cfg.edgeThreshold, "edge-threshold", img2ascii.DefaultEdgeThreshold, "Sobel magnitude above which a cell is an edge")
	fs.StringVar(&cfg.palette, "palette", "classic", "Glyph palette: classic or dense")
	fs.StringVar(&cfg.luminance, "luminance", "weighted", "Luminance policy: weighted, average or lab")
	fs.StringVar(&cfg.filter, "filter", "area", "Resampling filter: area, linear or approx")
	fs.BoolVar(&cfg.jitter, "jitter", false, "Mix glyphs from the other palette at random")
	fs.Uint64Var(&cfg.seed, "seed", 1, "Seed for -jitter")
	fs.Float64Var(&cfg.fontSize, "font-size", 0, "Rasterize output at this font size in points (0 = off)")
	fs.StringVar(&cfg.fontPath, "font", "", "TTF font for rasterized output (empty = embedded Go Mono)")
	fs.Float64Var(&cfg.fontRatio, "font-ratio", img2ascii.DefaultFontRatio, "Glyph width:height ratio")
	fs.StringVar(&cfg.out, "out", "output", "Root directory for run output")
	fs.StringVar(&cfg.play, "play", "", "Play the frames in this directory and exit")
	fs.StringVar(&cfg.pattern, "pattern", "", "Frame file glob for -play (default *.ans with -color, else *.txt)")
	fs.IntVar(&cfg.loops, "loops", 0, "Stop -play after this many loops (0 = until interrupted)")
	fs.IntVar(&cfg.workers, "workers", 0, "Worker goroutines (0 = GOMAXPROCS)")
	fs.StringVar(&cfg.extractor, "extractor", "ffmpeg", "Video frame extractor: ffmpeg or gocv")
	fs.StringVar(&cfg.ffmpeg, "ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.input == "" && fs.NArg() > 0 {
		cfg.input = fs.Arg(0)
	}
	if cfg.input == "" && cfg.play == "" {
		fs.Usage()
		return nil, errors.New("an input, or -play <dir>, is required")
	}
	if cfg.cols < 1 || cfg.fps < 1 || cfg.fontRatio <= 0 {
		return nil, errors.New("-cols, -fps and -font-ratio must be positive")
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "img2ascii:", err)
		}
		return 2
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	img2ascii.SetLogger(logger)

	isTTY := isTerminal(stdout)
	switch {
	case cfg.play != "":
		err = playDir(ctx, cfg, stdout)
	case videoExts[strings.ToLower(filepath.Ext(cfg.input))] && !img2ascii.IsURL(cfg.input):
		err = convertVideo(ctx, cfg)
	default:
		err = convertImage(ctx, cfg, stdout, isTTY)
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func warnWidth(w io.Writer, cols int) {
	f, ok := w.(*os.File)
	if !ok {
		return
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err == nil && width > 0 && cols > width {
		img2ascii.Logger().Warn("output is wider than the terminal", "cols", cols, "terminal", width)
	}
}

func newTranscoder(cfg *config) (*img2ascii.Transcoder, error) {
	palette, err := img2ascii.ParsePalette(cfg.palette)
	if err != nil {
		return nil, err
	}
	lum, err := img2ascii.ParseLuminance(cfg.luminance)
	if err != nil {
		return nil, err
	}
	interp, err := imageutil.ParseInterpolation(cfg.filter)
	if err != nil {
		return nil, err
	}
	opts := []img2ascii.TranscoderOption{
		img2ascii.WithInterpolation(interp),
		img2ascii.WithColumns(cfg.cols),
		img2ascii.WithFontRatio(cfg.fontRatio),
		img2ascii.WithEdgeDetection(cfg.edges),
		img2ascii.WithEdgeThreshold(cfg.edgeThreshold),
		img2ascii.WithPalette(palette),
		img2ascii.WithLuminance(lum),
		img2ascii.WithWorkers(cfg.workers),
	}
	if cfg.jitter {
		alt := img2ascii.PaletteDense
		if palette == img2ascii.PaletteDense {
			alt = img2ascii.PaletteClassic
		}
		opts = append(opts, img2ascii.WithPaletteJitter(cfg.seed, alt))
	}
	return img2ascii.NewTranscoder(opts...), nil
}

// loadFont returns nil when rasterization is off. An unusable font is a
// warning, not a failure: text output still happens.
func loadFont(cfg *config) img2ascii.Font {
	if cfg.fontSize <= 0 {
		return nil
	}
	f, err := img2ascii.LoadFont(cfg.fontPath)
	if err != nil {
		img2ascii.Logger().Warn("raster output disabled", "font", cfg.fontPath, "error", err)
		return nil
	}
	return f
}

// sourceStem names the run directory after the input file.
func sourceStem(source string) string {
	if img2ascii.IsURL(source) {
		if u, err := url.Parse(source); err == nil {
			source = path.Base(u.Path)
		}
	}
	return strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
}

func convertImage(ctx context.Context, cfg *config, stdout io.Writer, isTTY bool) error {
	img, err := img2ascii.Load(ctx, cfg.input)
	if err != nil {
		return err
	}
	t, err := newTranscoder(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	grid, err := t.Transcode(img)
	if err != nil {
		return err
	}

	dir, err := img2ascii.NewRunDir(cfg.out, sourceStem(cfg.input), time.Now())
	if err != nil {
		return err
	}
	base := filepath.Join(dir, sourceStem(cfg.input))
	if err := os.WriteFile(base+".txt", []byte(grid.String()), 0o644); err != nil {
		return err
	}
	if cfg.color {
		if err := os.WriteFile(base+".ans", []byte(img2ascii.RenderANSI(grid)), 0o644); err != nil {
			return err
		}
	}
	if f := loadFont(cfg); f != nil {
		raster, err := img2ascii.Rasterize(grid, f, cfg.fontSize)
		if err == nil {
			err = imageutil.SaveImage(raster, base+".png")
		}
		if err != nil {
			img2ascii.Logger().Warn("raster output skipped", "error", err)
		}
	}
	img2ascii.Logger().Info("image converted", "dir", dir, "cols", grid.Cols(), "rows", grid.Rows())

	if isTTY {
		warnWidth(stdout, grid.Cols())
	}
	if cfg.color && isTTY {
		return grid.WriteANSI(stdout)
	}
	return grid.WriteText(stdout)
}

func convertVideo(ctx context.Context, cfg *config) error {
	newExtractor, ok := extractors[cfg.extractor]
	if !ok {
		return fmt.Errorf("unknown extractor %q", cfg.extractor)
	}
	if _, err := os.Stat(cfg.input); err != nil {
		return &img2ascii.InputError{Source: cfg.input, Err: err}
	}
	t, err := newTranscoder(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	dir, err := img2ascii.NewRunDir(cfg.out, sourceStem(cfg.input), time.Now())
	if err != nil {
		return err
	}
	p := &video.Processor{
		Transcoder: t,
		Color:      cfg.color,
		Font:       loadFont(cfg),
		FontSize:   cfg.fontSize,
		Workers:    cfg.workers,
	}
	if p.Font == nil {
		p.FontSize = 0
	}
	// Extract at a few pixels per column; the transcoder resamples anyway.
	sum, err := video.Convert(ctx, newExtractor(cfg), p, cfg.input, dir, cfg.cols*8, cfg.fps)
	if err != nil {
		return err
	}
	img2ascii.Logger().Info("video converted", "dir", sum.Dir, "frames", sum.Processed, "skipped", sum.Skipped)
	return nil
}

func playDir(ctx context.Context, cfg *config, stdout io.Writer) error {
	pattern := cfg.pattern
	if pattern == "" {
		pattern = "*.txt"
		if cfg.color {
			if m, _ := filepath.Glob(filepath.Join(cfg.play, "*.ans")); len(m) > 0 {
				pattern = "*.ans"
			}
		}
	}
	seq := img2ascii.NewSequencer(
		img2ascii.WithFPS(cfg.fps),
		img2ascii.WithPattern(pattern),
		img2ascii.WithMaxLoops(cfg.loops),
	)
	if err := seq.Load(cfg.play); err != nil {
		return err
	}
	return seq.Play(ctx, stdout)
}
