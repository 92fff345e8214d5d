package img2ascii

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chunkWriter records every Write call separately.
type chunkWriter struct {
	chunks []string
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.chunks = append(w.chunks, string(p))
	return len(p), nil
}

func writeFrames(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestSequencerPlaysInNameOrderAndLoops(t *testing.T) {
	dir := writeFrames(t, map[string]string{
		"b.txt":     "B\n",
		"a.txt":     "A\n",
		"notes.md":  "ignored",
		"frame.ans": "ignored",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var delays []time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		if len(delays) == 3 {
			cancel()
		}
		return ctx.Err()
	}

	seq := NewSequencer(WithFPS(2), WithSleeper(sleep))
	if seq.State() != StateIdle {
		t.Fatalf("state = %s, want idle", seq.State())
	}
	if err := seq.Load(dir); err != nil {
		t.Fatal(err)
	}
	if seq.State() != StateLoaded || len(seq.Frames()) != 2 {
		t.Fatalf("state = %s with %d frames", seq.State(), len(seq.Frames()))
	}

	var w chunkWriter
	if err := seq.Play(ctx, &w); err != nil {
		t.Fatalf("Play: %v", err)
	}
	want := []string{ClearScreen + "A\n", ClearScreen + "B\n", ClearScreen + "A\n"}
	if len(w.chunks) != len(want) {
		t.Fatalf("wrote %d frames %q, want %d", len(w.chunks), w.chunks, len(want))
	}
	for i := range want {
		if w.chunks[i] != want[i] {
			t.Errorf("frame %d = %q, want %q", i, w.chunks[i], want[i])
		}
	}
	for _, d := range delays {
		if d != 500*time.Millisecond {
			t.Errorf("delay = %v, want 500ms", d)
		}
	}
	if seq.State() != StateStopped {
		t.Errorf("state = %s, want stopped", seq.State())
	}
	if err := seq.Play(context.Background(), &w); err == nil {
		t.Error("stopped sequencer played again")
	}
}

func TestSequencerMaxLoops(t *testing.T) {
	seq := NewSequencer(
		WithMaxLoops(2),
		WithClearSequence(""),
		WithSleeper(func(context.Context, time.Duration) error { return nil }),
	)
	if err := seq.LoadFrames(Frame{Name: "2", Content: []byte("y")}, Frame{Name: "1", Content: []byte("x")}); err != nil {
		t.Fatal(err)
	}
	var w chunkWriter
	if err := seq.Play(context.Background(), &w); err != nil {
		t.Fatal(err)
	}
	want := []string{"x", "y", "x", "y"}
	if len(w.chunks) != len(want) {
		t.Fatalf("chunks = %q, want %q", w.chunks, want)
	}
	for i := range want {
		if w.chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, w.chunks[i], want[i])
		}
	}
}

func TestSequencerEmptyDirectory(t *testing.T) {
	dir := writeFrames(t, map[string]string{"readme.md": "x"})
	seq := NewSequencer()
	err := seq.Load(dir)
	if !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("Load error = %v, want ErrEmptySequence", err)
	}
	if seq.State() != StateIdle {
		t.Errorf("state = %s, want idle", seq.State())
	}
	var w chunkWriter
	if err := seq.Play(context.Background(), &w); err == nil {
		t.Error("Play without frames succeeded")
	}
	if len(w.chunks) != 0 {
		t.Errorf("wrote %q for an empty sequence", w.chunks)
	}
}

func TestSequencerRejectsMalformedTextFrame(t *testing.T) {
	dir := writeFrames(t, map[string]string{
		"a.txt": "ab\ncd\n",
		"b.txt": "abc\nd\n",
	})
	seq := NewSequencer()
	err := seq.Load(dir)
	if !errors.Is(err, ErrDecode) || !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("Load error = %v, want ErrDecode wrapping ErrInvalidDimensions", err)
	}
	if !strings.Contains(err.Error(), "b.txt") {
		t.Errorf("error %q does not name the bad frame", err)
	}
	if seq.State() != StateIdle {
		t.Errorf("state = %s, want idle", seq.State())
	}
}

func TestSequencerMissingDirectory(t *testing.T) {
	err := NewSequencer().Load(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrInput) {
		t.Errorf("error = %v, want ErrInput", err)
	}
}

func TestSequencerPattern(t *testing.T) {
	dir := writeFrames(t, map[string]string{"f1.ans": "1", "f2.ans": "2", "f1.txt": "t"})
	seq := NewSequencer(WithPattern("*.ans"))
	if err := seq.Load(dir); err != nil {
		t.Fatal(err)
	}
	if n := len(seq.Frames()); n != 2 {
		t.Errorf("loaded %d frames, want 2", n)
	}
	if err := NewSequencer(WithPattern("[")).Load(dir); err == nil {
		t.Error("bad pattern accepted")
	}
}

func TestSequencerDelay(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{1, time.Second},
		{2, 500 * time.Millisecond},
		{24, time.Second / 24},
	}
	for _, tt := range tests {
		if got := NewSequencer(WithFPS(tt.fps)).Delay(); got != tt.want {
			t.Errorf("fps %d delay = %v, want %v", tt.fps, got, tt.want)
		}
	}
	if err := NewSequencer(WithFPS(0)).LoadFrames(Frame{Name: "a"}); err == nil {
		t.Error("zero fps accepted")
	}
}

func TestSequencerRealSleepCancels(t *testing.T) {
	seq := NewSequencer(WithFPS(1))
	if err := seq.LoadFrames(Frame{Name: "a", Content: []byte("a")}); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := seq.Play(ctx, &chunkWriter{}); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Play took %v after cancellation", elapsed)
	}
}
