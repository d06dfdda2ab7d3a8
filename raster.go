package lowpoly

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/exp/slices"
)

// Canvas is the opaque RGB drawing surface the triangles are rasterized onto.
type Canvas struct {
	*image.RGBA
}

// NewCanvas creates a canvas of the given size filled with the background color.
func NewCanvas(width, height int, background Color) *Canvas {
	c := &Canvas{image.NewRGBA(image.Rect(0, 0, width, height))}
	for i := 0; i < len(c.Pix); i += 4 {
		c.Pix[i+0] = background.R
		c.Pix[i+1] = background.G
		c.Pix[i+2] = background.B
		c.Pix[i+3] = 0xff
	}
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.Rect.Dy() }

// Get returns the color of the pixel at (x, y).
func (c *Canvas) Get(x, y int) Color {
	i := c.PixOffset(x, y)
	return Color{R: c.Pix[i], G: c.Pix[i+1], B: c.Pix[i+2]}
}

// Put overwrites the pixel at (x, y). Pixels outside the canvas are ignored.
func (c *Canvas) Put(x, y int, col Color) {
	if !(image.Point{x, y}.In(c.Rect)) {
		return
	}
	i := c.PixOffset(x, y)
	c.Pix[i+0] = col.R
	c.Pix[i+1] = col.G
	c.Pix[i+2] = col.B
	c.Pix[i+3] = 0xff
}

// ColorModel implements image.Image; the canvas is always opaque.
func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }

// Rasterize draws a flat colored triangle. With antialias set, the triangle borders
// are additionally drawn as antialiased lines blended with the underlying pixels.
func Rasterize(c *Canvas, vertices [3]Point, col Color, antialias bool) {
	var poly [3]image.Point
	for i, v := range vertices {
		poly[i] = image.Pt(int(v.X), int(v.Y))
	}
	FillConvexPolygon(c, poly[:], col)

	if !antialias {
		return
	}
	for i := range poly {
		p0, p1 := poly[i], poly[(i+1)%len(poly)]
		DrawAntialiasedLine(c, p0, p1, col)
	}
}

// FillConvexPolygon fills the convex polygon with a flat color using a scanline fill,
// then traces its outline so every border pixel is covered as well.
// Pixels outside the canvas are clipped.
func FillConvexPolygon(c *Canvas, poly []image.Point, col Color) {
	if len(poly) == 0 {
		return
	}
	width, height := c.Width(), c.Height()

	yMin, yMax := poly[0].Y, poly[0].Y
	for _, p := range poly[1:] {
		yMin = Min(yMin, p.Y)
		yMax = Max(yMax, p.Y)
	}
	yMin = Max(0, Min(yMin, height-1))
	yMax = Max(0, Min(yMax, height-1))

	var intersections []int
	for y := yMin; y <= yMax; y++ {
		intersections = intersections[:0]
		for i := range poly {
			p0, p1 := poly[i], poly[(i+1)%len(poly)]
			if !(p0.Y <= y && p1.Y >= y || p1.Y <= y && p0.Y >= y) {
				continue
			}
			switch {
			case p0.Y == p1.Y:
				intersections = append(intersections, p0.X, p1.X)
			case p0.Y == y || p1.Y == y:
				if p1.Y > y {
					intersections = append(intersections, p0.X)
				}
				if p0.Y > y {
					intersections = append(intersections, p1.X)
				}
			default:
				fraction := float64(y-p0.Y) / float64(p1.Y-p0.Y)
				inter := float64(p0.X) + fraction*float64(p1.X-p0.X)
				intersections = append(intersections, int(math.Round(inter)))
			}
		}
		slices.Sort(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			from := Min(intersections[i], width)
			to := Min(intersections[i+1], width-1)
			if from >= width || to < 0 {
				continue
			}
			for x := Max(0, from); x <= Max(0, to); x++ {
				c.Put(x, y, col)
			}
		}
	}

	for i := range poly {
		DrawLine(c, poly[i], poly[(i+1)%len(poly)], col)
	}
}

// DrawLine draws an aliased line segment between two points, both ends included.
func DrawLine(c *Canvas, p0, p1 image.Point, col Color) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}

	x, y := p0.X, p0.Y
	e := dx + dy
	for {
		c.Put(x, y, col)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawAntialiasedLine draws a line segment with Xiaolin Wu's algorithm. Each plotted
// pixel is linearly interpolated between the line color and its current value,
// weighted by the line coverage of that pixel.
func DrawAntialiasedLine(c *Canvas, p0, p1 image.Point, col Color) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		if y0 > y1 {
			x0, x1 = x1, x0
			y0, y1 = y1, y0
		}
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	} else if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	plot := func(x, y int, weight float64) {
		if steep {
			x, y = y, x
		}
		if !(image.Point{x, y}.In(c.Rect)) {
			return
		}
		c.Put(x, y, Interpolate(col, c.Get(x, y), weight))
	}

	var gradient float64
	if dx := x1 - x0; dx != 0 {
		gradient = float64(y1-y0) / float64(dx)
	}
	fy := float64(y0)
	for x := x0; x <= x1; x++ {
		iy, frac := math.Modf(fy)
		plot(x, int(iy), 1-frac)
		plot(x, int(iy)+1, frac)
		fy += gradient
	}
}

// Interpolate blends two colors channel by channel: weight 1 yields a, weight 0 yields b.
func Interpolate(a, b Color, weight float64) Color {
	blend := func(p, q uint8) uint8 {
		v := float64(p)*weight + float64(q)*(1-weight)
		return uint8(Clamp(math.Round(v), 0, 255))
	}
	return Color{
		R: blend(a.R, b.R),
		G: blend(a.G, b.G),
		B: blend(a.B, b.B),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
