package img2ascii

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Use errors.Is to test for them; the typed errors below
// match the sentinel of their family.
var (
	// ErrInput is the family of missing, unreadable or corrupt sources.
	ErrInput = errors.New("img2ascii: input error")

	// ErrFetch is returned when a remote source cannot be retrieved.
	ErrFetch = errors.New("img2ascii: fetch failed")

	// ErrDecode is returned when source bytes are not a supported image.
	ErrDecode = errors.New("img2ascii: decode failed")

	// ErrEmptySequence is returned when a playback directory holds no frames.
	ErrEmptySequence = errors.New("img2ascii: no frames found")

	// ErrFontUnavailable is returned when no usable font can be obtained.
	ErrFontUnavailable = errors.New("img2ascii: font unavailable")

	// ErrExternalTool is returned when the frame extraction process fails.
	ErrExternalTool = errors.New("img2ascii: external tool failed")

	// ErrInvalidDimensions is returned for zero-sized images or grids.
	ErrInvalidDimensions = errors.New("img2ascii: invalid dimensions")
)

// InputError describes a failure to obtain a pixel buffer from a source.
// Kind is one of ErrFetch, ErrDecode or nil for plain read failures.
type InputError struct {
	Source string
	Kind   error
	Err    error
}

func (e *InputError) Error() string {
	stage := "read"
	switch e.Kind {
	case ErrFetch:
		stage = "fetch"
	case ErrDecode:
		stage = "decode"
	}
	return fmt.Sprintf("img2ascii: %s %s: %v", stage, e.Source, e.Err)
}

// Is reports whether target is ErrInput or the error's Kind.
func (e *InputError) Is(target error) bool {
	return target == ErrInput || (e.Kind != nil && target == e.Kind)
}

func (e *InputError) Unwrap() error { return e.Err }

// ExternalToolError reports a non-zero exit of an external helper process.
type ExternalToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "img2ascii: %s exited with status %d", e.Tool, e.ExitCode)
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
			msg = msg[i+1:]
		}
		sb.WriteString(": ")
		sb.WriteString(msg)
	}
	return sb.String()
}

// Is reports whether target is ErrExternalTool.
func (e *ExternalToolError) Is(target error) bool { return target == ErrExternalTool }

func (e *ExternalToolError) Unwrap() error { return e.Err }
