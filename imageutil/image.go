// Package imageutil provides the pixel buffer types and image plumbing
// (decoding, resizing, kernel sampling) used by the glyph pipeline.
package imageutil

import (
	"image"
	"image/color"
	"image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to an opaque color.RGBA.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBAImage wraps image.NRGBA with convenience accessors. Channels are
// stored without alpha premultiplication, so a half-transparent white pixel
// still reads as 255,255,255. Its origin is always (0, 0).
type RGBAImage struct {
	*image.NRGBA
}

// NewRGBAImage creates a new transparent RGBAImage.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		NRGBA: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an RGBAImage anchored at
// the origin. An *RGBAImage or zero-origin *image.NRGBA is returned as is;
// premultiplied sources are converted to straight alpha.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	switch src := img.(type) {
	case *RGBAImage:
		return src
	case *image.NRGBA:
		if src.Rect.Min == (image.Point{}) {
			return &RGBAImage{NRGBA: src}
		}
	}
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(rgba.NRGBA, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.NRGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets an opaque RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// GrayImage wraps image.Gray for single-channel planes such as luminance.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.Pix[y*img.Stride+x]
}

// GetGrayClamped returns the value at (x, y) with coordinates clamped to
// the nearest edge pixel.
func (img *GrayImage) GetGrayClamped(x, y int) uint8 {
	return img.GetGray(clampInt(x, 0, img.Width()-1), clampInt(y, 0, img.Height()-1))
}

// SetGrayValue sets the value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Pix[y*img.Stride+x] = v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
