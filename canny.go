package lowpoly

import (
	"image"
	"math"

	"github.com/disintegration/gift"
)

// cannySigma is the standard deviation of the Gaussian blur applied before
// computing the gradients.
const cannySigma = 1.4

type kernel [3][3]float64

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Canny runs the Canny edge detector over the image and returns the edge mask.
// Gradient magnitudes above high start an edge, which is then followed through
// neighboring pixels whose magnitude is at least low.
func Canny(src image.Image, low, high float64) *EdgeMask {
	g := gift.New(
		gift.Grayscale(),
		gift.GaussianBlur(cannySigma),
	)
	bounds := g.Bounds(src.Bounds())
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	g.Draw(gray, src)

	width, height := gray.Rect.Dx(), gray.Rect.Dy()
	gx, gy := sobel(gray)

	magnitudes := make([]float64, width*height)
	for i := range magnitudes {
		magnitudes[i] = math.Hypot(gx[i], gy[i])
	}
	suppressed := nonMaximumSuppression(magnitudes, gx, gy, width, height)
	return hysteresis(suppressed, width, height, low, high)
}

// sobel convolves the grayscale image with the horizontal and vertical Sobel kernels.
// Pixels outside the image take the value of the nearest border pixel.
func sobel(img *image.Gray) (gx, gy []float64) {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	gx = make([]float64, width*height)
	gy = make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumX, sumY float64
			for row := -1; row <= 1; row++ {
				sy := Clamp(y+row, 0, height-1)
				for col := -1; col <= 1; col++ {
					sx := Clamp(x+col, 0, width-1)
					px := float64(img.Pix[sy*img.Stride+sx])
					sumX += px * kernelX[row+1][col+1]
					sumY += px * kernelY[row+1][col+1]
				}
			}
			gx[y*width+x] = sumX
			gy[y*width+x] = sumY
		}
	}
	return gx, gy
}

// nonMaximumSuppression keeps only the magnitudes which are a local maximum along
// the gradient direction, quantized to 0, 45, 90 or 135 degrees. Border pixels are dropped.
func nonMaximumSuppression(mag, gx, gy []float64, width, height int) []float64 {
	out := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := math.Atan2(gy[i], gx[i]) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}

			var n1, n2 int
			switch {
			case angle < 22.5 || angle >= 157.5:
				n1, n2 = i-1, i+1
			case angle < 67.5:
				n1, n2 = i-width-1, i+width+1
			case angle < 112.5:
				n1, n2 = i-width, i+width
			default:
				n1, n2 = i-width+1, i+width-1
			}
			if mag[i] >= mag[n1] && mag[i] >= mag[n2] {
				out[i] = mag[i]
			}
		}
	}
	return out
}

// hysteresis marks the strong edges and every weak edge connected to them.
func hysteresis(mag []float64, width, height int, low, high float64) *EdgeMask {
	mask := NewEdgeMask(width, height)
	var stack []int

	for i, m := range mag {
		if m <= 0 || m < high || mask.Pix[i] {
			continue
		}
		mask.Pix[i] = true
		stack = append(stack[:0], i)

		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := j%width, j/width

			for row := -1; row <= 1; row++ {
				for col := -1; col <= 1; col++ {
					sx, sy := x+col, y+row
					if sx < 0 || sy < 0 || sx >= width || sy >= height {
						continue
					}
					k := sy*width + sx
					if !mask.Pix[k] && mag[k] >= low && mag[k] > 0 {
						mask.Pix[k] = true
						stack = append(stack, k)
					}
				}
			}
		}
	}
	return mask
}
