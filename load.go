package img2ascii

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

// DefaultMaxFetchBytes bounds the size of a remote image.
const DefaultMaxFetchBytes = 64 << 20

// Loader obtains images from local paths or http(s) URLs.
type Loader struct {
	// Client performs remote fetches. nil means a client with a 30s timeout.
	Client *http.Client
	// MaxBytes caps remote response bodies. 0 means DefaultMaxFetchBytes.
	MaxBytes int64
}

// IsURL reports whether source names an http or https resource.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads and decodes source with a default Loader.
func Load(ctx context.Context, source string) (image.Image, error) {
	return (&Loader{}).Load(ctx, source)
}

// Load reads source from disk or the network and decodes it. Failures are
// *InputError values matching ErrInput and, where relevant, ErrFetch or
// ErrDecode.
func (l *Loader) Load(ctx context.Context, source string) (image.Image, error) {
	var data []byte
	var err error
	if IsURL(source) {
		data, err = l.fetch(ctx, source)
		if err != nil {
			return nil, &InputError{Source: source, Kind: ErrFetch, Err: err}
		}
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, &InputError{Source: source, Err: err}
		}
	}

	img, format, err := imageutil.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &InputError{Source: source, Kind: ErrDecode, Err: err}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrInvalidDimensions, source, b.Dx(), b.Dy())
	}
	Logger().Debug("loaded image", "source", source, "format", format,
		"width", b.Dx(), "height", b.Dy())
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxFetchBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response exceeds %d bytes", limit)
	}
	return data, nil
}
