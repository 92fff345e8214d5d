package img2ascii

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// SequencerState is a stage of the Sequencer lifecycle. States only move
// forward: Idle, Loaded, Playing, Stopped.
type SequencerState int

const (
	StateIdle SequencerState = iota
	StateLoaded
	StatePlaying
	StateStopped
)

func (s SequencerState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Frame is one serialized grid of a sequence.
type Frame struct {
	Name    string
	Content []byte
}

// Sequencer replays a fixed, name-ordered sequence of frames at a constant
// rate. It loops until its context is cancelled. A Sequencer is single use
// and not safe for concurrent use.
type Sequencer struct {
	fps      int
	pattern  string
	maxLoops int
	clear    string
	sleep    func(context.Context, time.Duration) error

	state  SequencerState
	frames []Frame
}

// SequencerOption is a functional option for configuring a Sequencer.
type SequencerOption func(*Sequencer)

// NewSequencer creates an idle Sequencer.
// Default values: 24 fps, pattern "*.txt", unbounded looping, frames
// separated by ClearScreen.
func NewSequencer(opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		fps:     24,
		pattern: "*.txt",
		clear:   ClearScreen,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithFPS sets the playback rate in frames per second.
func WithFPS(fps int) SequencerOption {
	return func(s *Sequencer) {
		s.fps = fps
	}
}

// WithPattern sets the glob used to select frame files in a directory.
func WithPattern(pattern string) SequencerOption {
	return func(s *Sequencer) {
		s.pattern = pattern
	}
}

// WithMaxLoops stops playback after n full passes. 0 loops forever.
func WithMaxLoops(n int) SequencerOption {
	return func(s *Sequencer) {
		s.maxLoops = n
	}
}

// WithClearSequence sets what is written before each frame to erase the
// previous one.
func WithClearSequence(seq string) SequencerOption {
	return func(s *Sequencer) {
		s.clear = seq
	}
}

// WithSleeper replaces the inter-frame wait. The function must return
// ctx.Err() once ctx is done.
func WithSleeper(sleep func(context.Context, time.Duration) error) SequencerOption {
	return func(s *Sequencer) {
		s.sleep = sleep
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State returns the current lifecycle state.
func (s *Sequencer) State() SequencerState { return s.state }

// Frames returns the loaded frames in playback order.
func (s *Sequencer) Frames() []Frame { return s.frames }

// Delay returns the fixed inter-frame delay, one second divided by fps.
func (s *Sequencer) Delay() time.Duration {
	return time.Second / time.Duration(s.fps)
}

// Load reads every file in dir matching the pattern, ordered by name.
// It fails with ErrEmptySequence if nothing matches, and with ErrDecode if
// a .txt frame is not a rectangular grid.
func (s *Sequencer) Load(dir string) error {
	if s.state != StateIdle {
		return fmt.Errorf("sequencer: load in state %s", s.state)
	}
	if _, err := filepath.Match(s.pattern, ""); err != nil {
		return fmt.Errorf("sequencer: bad pattern %q: %w", s.pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &InputError{Source: dir, Err: err}
	}

	var frames []Frame
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(s.pattern, e.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return &InputError{Source: path, Err: err}
		}
		// Plain-text frames must be well-formed grids; ANSI frames carry
		// escapes and are played as is.
		if strings.EqualFold(filepath.Ext(path), ".txt") {
			if _, err := ParseGrid(bytes.NewReader(content)); err != nil {
				return &InputError{Source: path, Kind: ErrDecode, Err: err}
			}
		}
		frames = append(frames, Frame{Name: e.Name(), Content: content})
	}
	if len(frames) == 0 {
		return fmt.Errorf("%w: %s matching %q", ErrEmptySequence, dir, s.pattern)
	}
	return s.LoadFrames(frames...)
}

// LoadFrames loads an in-memory sequence, ordered by frame name.
func (s *Sequencer) LoadFrames(frames ...Frame) error {
	if s.state != StateIdle {
		return fmt.Errorf("sequencer: load in state %s", s.state)
	}
	if len(frames) == 0 {
		return ErrEmptySequence
	}
	if s.fps <= 0 {
		return fmt.Errorf("sequencer: fps must be positive, got %d", s.fps)
	}
	sorted := slices.Clone(frames)
	slices.SortStableFunc(sorted, func(a, b Frame) int {
		return strings.Compare(a.Name, b.Name)
	})
	s.frames = sorted
	s.state = StateLoaded
	Logger().Info("frame sequence loaded", "frames", len(sorted), "fps", s.fps)
	return nil
}

// Play writes frames to w in order, each preceded by the clear sequence and
// followed by the inter-frame delay, looping until ctx is cancelled or the
// loop limit is reached. Cancellation is a normal stop and returns nil.
func (s *Sequencer) Play(ctx context.Context, w io.Writer) error {
	if s.state != StateLoaded {
		return fmt.Errorf("sequencer: play in state %s", s.state)
	}
	s.state = StatePlaying
	defer func() { s.state = StateStopped }()

	delay := s.Delay()
	var buf bytes.Buffer
	for loop := 0; s.maxLoops == 0 || loop < s.maxLoops; loop++ {
		for _, f := range s.frames {
			if ctx.Err() != nil {
				return nil
			}
			buf.Reset()
			buf.WriteString(s.clear)
			buf.Write(f.Content)
			if _, err := w.Write(buf.Bytes()); err != nil {
				return fmt.Errorf("sequencer: write frame %s: %w", f.Name, err)
			}
			if err := s.sleep(ctx, delay); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return err
			}
		}
	}
	return nil
}
