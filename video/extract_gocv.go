//go:build gocv

package video

import (
	"context"
	"fmt"
	"image"
	"math"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/wbrown/img2ascii"
)

// OpenCV extracts frames in process through gocv. It needs the OpenCV
// libraries at build time, so it is only compiled with the gocv tag.
type OpenCV struct{}

// Extract decodes src and writes every frame that falls on the fps grid.
func (OpenCV) Extract(ctx context.Context, src, dir string, width, fps int) error {
	if width <= 0 || fps <= 0 {
		return fmt.Errorf("%w: width %d, fps %d", img2ascii.ErrInvalidDimensions, width, fps)
	}
	capture, err := gocv.VideoCaptureFile(src)
	if err != nil {
		return &img2ascii.ExternalToolError{Tool: "opencv", Args: []string{src}, ExitCode: -1, Err: err}
	}
	defer capture.Close()

	srcFPS := capture.Get(gocv.VideoCaptureFPS)
	if srcFPS <= 0 || math.IsNaN(srcFPS) {
		srcFPS = float64(fps)
	}
	step := srcFPS / float64(fps)

	frame := gocv.NewMat()
	defer frame.Close()
	scaled := gocv.NewMat()
	defer scaled.Close()

	written := 0
	next := 0.0
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok := capture.Read(&frame); !ok || frame.Empty() {
			break
		}
		if float64(i) < next {
			continue
		}
		next += step

		h := int(math.Round(float64(frame.Rows()) * float64(width) / float64(frame.Cols())))
		gocv.Resize(frame, &scaled, image.Pt(width, max(h, 1)), 0, 0, gocv.InterpolationArea)
		written++
		path := filepath.Join(dir, FrameName(written))
		if ok := gocv.IMWrite(path, scaled); !ok {
			return &img2ascii.ExternalToolError{Tool: "opencv", Args: []string{path}, ExitCode: -1,
				Err: fmt.Errorf("write %s", path)}
		}
	}
	if written == 0 {
		return &img2ascii.ExternalToolError{Tool: "opencv", Args: []string{src}, ExitCode: -1,
			Err: fmt.Errorf("no frames decoded from %s", src)}
	}
	return nil
}
