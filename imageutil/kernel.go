package imageutil

// Kernel is a 3x3 integer convolution kernel, indexed [row][col].
type Kernel [3][3]int

var (
	// SobelX estimates the horizontal intensity gradient.
	SobelX = Kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	// SobelY estimates the vertical intensity gradient.
	SobelY = Kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// ApplyAt evaluates k centred on (x, y). Samples outside the image are
// replaced by the nearest edge pixel.
func (k *Kernel) ApplyAt(img *GrayImage, x, y int) int {
	sum := 0
	for ky := range 3 {
		for kx := range 3 {
			w := k[ky][kx]
			if w == 0 {
				continue
			}
			sum += w * int(img.GetGrayClamped(x+kx-1, y+ky-1))
		}
	}
	return sum
}
