// Package video turns a video file into a directory of per-frame glyph
// grids. Frames are extracted as numbered still images by an Extractor and
// then transcoded concurrently.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/wbrown/img2ascii"
)

// FramePattern is the printf pattern of extracted frame files.
const FramePattern = "frame_%05d.png"

// Extractor deposits the frames of src into dir as FramePattern files,
// scaled to width pixels and sampled at fps frames per second.
type Extractor interface {
	Extract(ctx context.Context, src, dir string, width, fps int) error
}

// FFmpeg extracts frames by running the ffmpeg binary.
type FFmpeg struct {
	// Binary is the executable to run. Empty means "ffmpeg" on PATH.
	Binary string
}

func (f *FFmpeg) binary() string {
	if f.Binary == "" {
		return "ffmpeg"
	}
	return f.Binary
}

// Args returns the ffmpeg arguments used for one extraction.
func (f *FFmpeg) Args(src, dir string, width, fps int) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-i", src,
		"-vf", fmt.Sprintf("fps=%d,scale=%d:-1", fps, width),
		filepath.Join(dir, FramePattern),
	}
}

// Extract runs ffmpeg to completion. A failed start or non-zero exit is
// reported as *img2ascii.ExternalToolError.
func (f *FFmpeg) Extract(ctx context.Context, src, dir string, width, fps int) error {
	if width <= 0 || fps <= 0 {
		return fmt.Errorf("%w: width %d, fps %d", img2ascii.ErrInvalidDimensions, width, fps)
	}
	args := f.Args(src, dir, width, fps)
	cmd := exec.CommandContext(ctx, f.binary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	img2ascii.Logger().Debug("running frame extractor", "tool", f.binary(), "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &img2ascii.ExternalToolError{
			Tool:     f.binary(),
			Args:     args,
			ExitCode: code,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return nil
}

// FrameName returns the file name of the 1-based frame index i.
func FrameName(i int) string {
	return fmt.Sprintf(FramePattern, i)
}
