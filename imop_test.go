package lowpoly

import (
	"image"
	"image/color"
	"testing"
)

func TestImgToNRGBA(t *testing.T) {
	want := color.NRGBA{100, 100, 100, 255}

	gray := image.NewGray(image.Rect(2, 3, 6, 7))
	for i := range gray.Pix {
		gray.Pix[i] = 100
	}
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(rgba.Pix); i += 4 {
		copy(rgba.Pix[i:], []uint8{100, 100, 100, 255})
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, 8, 8)).SubImage(image.Rect(1, 1, 5, 5)).(*image.NRGBA)
	for y := 1; y < 5; y++ {
		for x := 1; x < 5; x++ {
			nrgba.SetNRGBA(x, y, want)
		}
	}

	for name, img := range map[string]image.Image{"gray": gray, "rgba": rgba, "nrgba": nrgba} {
		t.Run(name, func(t *testing.T) {
			dst := ImgToNRGBA(img)
			if dst.Bounds() != image.Rect(0, 0, 4, 4) {
				t.Fatalf("bounds = %v, want a 4x4 image at the origin", dst.Bounds())
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					if got := dst.NRGBAAt(x, y); got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestGrayscale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for i := 0; i < len(src.Pix); i += 4 {
		copy(src.Pix[i:], []uint8{250, 10, 60, 255})
	}
	dst := Grayscale(src)
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != dst.Pix[i+1] || dst.Pix[i+1] != dst.Pix[i+2] {
			t.Fatalf("pixel %d is not gray: %v", i/4, dst.Pix[i:i+4])
		}
	}
	if src.Pix[0] != 250 {
		t.Error("the source image was modified")
	}
}

func TestMinMaxClamp(t *testing.T) {
	if got := Min(3, -1, 7); got != -1 {
		t.Errorf("Min = %v", got)
	}
	if got := Max(0.5, 2.5, 1.0); got != 2.5 {
		t.Errorf("Max = %v", got)
	}
	for _, tt := range []struct{ v, want int }{{-5, 0}, {5, 5}, {300, 255}} {
		if got := Clamp(tt.v, 0, 255); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestNoise(t *testing.T) {
	a := NewCanvas(16, 16, Color{120, 120, 120})
	b := NewCanvas(16, 16, Color{120, 120, 120})
	Noise(30, a)
	Noise(30, b)

	if string(a.Pix) != string(b.Pix) {
		t.Error("the grain pattern differs between two runs")
	}
	if countColor(a, Color{120, 120, 120}) == 16*16 {
		t.Error("noise left the canvas untouched")
	}

	c := NewCanvas(4, 4, Color{120, 120, 120})
	Noise(0, c)
	if countColor(c, Color{120, 120, 120}) != 16 {
		t.Error("zero noise modified the canvas")
	}
}

func TestDrawWireframe(t *testing.T) {
	points := []Point{{0, 0}, {20, 0}, {0, 20}, {20, 20}}
	triangles := []Triangle{{0, 1, 2}, {2, 1, 3}}
	colors := []Color{{255, 0, 0}, {0, 255, 0}}

	c := NewCanvas(20, 20, Color{255, 255, 255})
	drawWireframe(c, WithoutWireframe, 1, false, points, triangles, colors)
	if countColor(c, Color{255, 255, 255}) != 400 {
		t.Fatal("no wireframe must be drawn without the wireframe mode")
	}

	drawWireframe(c, WireframeOnly, 2, true, points, triangles, colors)
	// The shared diagonal passes through the center of the canvas.
	if got := c.Get(10, 10); got == (Color{255, 255, 255}) {
		t.Error("the diagonal was not stroked")
	}
	if got := c.Get(5, 5); got != (Color{255, 255, 255}) {
		t.Errorf("pixel away from the edges = %v, want white", got)
	}
}
