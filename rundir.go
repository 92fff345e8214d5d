package img2ascii

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunDirLayout is the timestamp layout used in run directory names.
const RunDirLayout = "20060102-150405"

// NewRunDir creates a fresh output directory named <stem>_<timestamp>
// under base. An existing directory is never reused; collisions get a
// numeric suffix.
func NewRunDir(base, stem string, now time.Time) (string, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("run dir: %w", err)
	}
	stem = strings.TrimSuffix(filepath.Base(stem), filepath.Ext(stem))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "run"
	}
	name := stem + "_" + now.Format(RunDirLayout)

	for i := 0; i < 1000; i++ {
		dir := filepath.Join(base, name)
		if i > 0 {
			dir = fmt.Sprintf("%s-%d", dir, i)
		}
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("run dir: %w", err)
		}
	}
	return "", fmt.Errorf("run dir: no free name for %s in %s", name, base)
}
