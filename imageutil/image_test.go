package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestRGBAImageFromImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 14, 22))
	src.SetNRGBA(10, 20, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	img := RGBAImageFromImage(src)
	if img.Bounds().Min != (image.Point{}) {
		t.Fatalf("Expected origin at (0,0), got %v", img.Bounds().Min)
	}
	if img.Width() != 4 || img.Height() != 2 {
		t.Fatalf("Expected 4x2, got %dx%d", img.Width(), img.Height())
	}
	if got := img.GetRGB(0, 0); got != (RGB{R: 200, G: 100, B: 50}) {
		t.Errorf("Expected top-left pixel to be copied, got %v", got)
	}
}

func TestGrayImageClamped(t *testing.T) {
	img := NewGrayImage(3, 2)
	img.SetGrayValue(0, 0, 10)
	img.SetGrayValue(2, 1, 200)

	tests := []struct {
		x, y int
		want uint8
	}{
		{-5, -5, 10},
		{0, -1, 10},
		{7, 9, 200},
		{2, 1, 200},
	}
	for _, tt := range tests {
		if got := img.GetGrayClamped(tt.x, tt.y); got != tt.want {
			t.Errorf("GetGrayClamped(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestKernelApplyAtUniform(t *testing.T) {
	img := NewGrayImage(4, 4)
	for i := range img.Pix {
		img.Pix[i] = 77
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if gx := SobelX.ApplyAt(img, x, y); gx != 0 {
				t.Errorf("SobelX at (%d,%d) = %d, want 0", x, y, gx)
			}
			if gy := SobelY.ApplyAt(img, x, y); gy != 0 {
				t.Errorf("SobelY at (%d,%d) = %d, want 0", x, y, gy)
			}
		}
	}
}

func TestKernelApplyAtVerticalEdge(t *testing.T) {
	img := NewGrayImage(4, 3)
	for y := 0; y < 3; y++ {
		img.SetGrayValue(2, y, 255)
		img.SetGrayValue(3, y, 255)
	}

	if gx := SobelX.ApplyAt(img, 1, 1); gx != 4*255 {
		t.Errorf("SobelX at boundary = %d, want %d", gx, 4*255)
	}
	// Top row replicates itself upward, so the vertical gradient stays zero.
	if gy := SobelY.ApplyAt(img, 1, 0); gy != 0 {
		t.Errorf("SobelY at border = %d, want 0", gy)
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 100)

	resized := Resize(img, 50, 25, InterpolationArea)
	if resized.Width() != 50 || resized.Height() != 25 {
		t.Errorf("Expected 50x25, got %dx%d", resized.Width(), resized.Height())
	}

	resized = Resize(img, 200, 200, InterpolationLinear)
	if resized.Width() != 200 || resized.Height() != 200 {
		t.Errorf("Expected 200x200, got %dx%d", resized.Width(), resized.Height())
	}
}

func TestResizeSolidStaysSolid(t *testing.T) {
	c := RGB{R: 40, G: 120, B: 220}
	img := CreateSolidImage(64, 48, c)

	for _, interp := range []Interpolation{InterpolationArea, InterpolationLinear, InterpolationApproxLinear} {
		resized := Resize(img, 13, 7, interp)
		want := CreateSolidImage(13, 7, c)
		if diff := CalculateMaxDiff(resized, want); diff > 1 {
			t.Errorf("interp %d: solid image drifted by %d", interp, diff)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("definitely not an image"))); err == nil {
		t.Error("Expected error decoding garbage bytes")
	}
}

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()
	img := CreateColorBarsImage(64, 64)

	pngPath := filepath.Join(tmpDir, "test.png")
	if err := SaveImage(img.NRGBA, pngPath); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	loaded, err := LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}

	if diff := CalculateMaxDiff(img, loaded); diff != 0 {
		t.Errorf("PNG should be lossless, max diff=%d", diff)
	}
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, CreateCheckerboardImage(8, 8, 2).NRGBA); err != nil {
		t.Fatal(err)
	}
	img, format, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width = %d, want 8", img.Bounds().Dx())
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		name string
		want Interpolation
	}{
		{"area", InterpolationArea},
		{"", InterpolationArea},
		{"linear", InterpolationLinear},
		{"approx", InterpolationApproxLinear},
	}
	for _, tt := range tests {
		got, err := ParseInterpolation(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseInterpolation(%q) = %v, %v", tt.name, got, err)
		}
	}
	if _, err := ParseInterpolation("lanczos"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestRGBAImageFromPremultiplied(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	// Half-transparent white, stored premultiplied.
	src.SetRGBA(0, 0, color.RGBA{R: 128, G: 128, B: 128, A: 128})

	img := RGBAImageFromImage(src)
	if got := img.GetRGB(0, 0); got != (RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("Expected straight-alpha white, got %v", got)
	}
	if a := img.NRGBAAt(0, 0).A; a != 128 {
		t.Errorf("Expected alpha 128, got %d", a)
	}
}

func TestResizeKeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 255, 255, 255, 128
	}
	for _, interp := range []Interpolation{InterpolationArea, InterpolationLinear, InterpolationApproxLinear} {
		dst := Resize(src, 4, 4, interp)
		c := dst.NRGBAAt(1, 2)
		if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 128 {
			t.Errorf("interp %d: Expected {255 255 255 128}, got %v", interp, c)
		}
	}
}
