package lowpoly

import (
	"context"
	"fmt"
	"image"
)

// Color is an opaque 8 bit per channel RGB color.
type Color struct {
	R, G, B uint8
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c Color) String() string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}

// CentroidColor returns the color of the source pixel under the triangle centroid.
// The centroid coordinates are the vertex sums truncated to integers, divided by three.
func CentroidColor(vertices [3]Point, src *image.NRGBA) Color {
	a, b, c := vertices[0], vertices[1], vertices[2]
	cx := int(a.X+b.X+c.X) / 3
	cy := int(a.Y+b.Y+c.Y) / 3

	bounds := src.Bounds()
	cx = Clamp(bounds.Min.X+cx, bounds.Min.X, bounds.Max.X-1)
	cy = Clamp(bounds.Min.Y+cy, bounds.Min.Y, bounds.Max.Y-1)

	i := src.PixOffset(cx, cy)
	return Color{R: src.Pix[i], G: src.Pix[i+1], B: src.Pix[i+2]}
}

// ColorResolver computes the fill color of every triangle: the centroid color of
// the source image, optionally replaced by the answer of an external color mapper.
type ColorResolver struct {
	Source *image.NRGBA
	Mapper ColorMapper
}

// Resolve returns the color of the triangle with index idx.
// A mapper failure is returned as a *MapperError and never replaced by the default color.
func (r *ColorResolver) Resolve(ctx context.Context, idx int, t Triangle, points []Point) (Color, error) {
	vertices := t.Vertices(points)
	col := CentroidColor(vertices, r.Source)
	if r.Mapper == nil {
		return col, nil
	}

	req := MapRequest{
		Color:    col,
		Vertices: vertices,
		Width:    r.Source.Bounds().Dx(),
		Height:   r.Source.Bounds().Dy(),
	}
	mapped, err := r.Mapper.MapColor(ctx, req)
	if err != nil {
		if me, ok := err.(*MapperError); ok {
			me.Triangle = idx
			return Color{}, me
		}
		return Color{}, &MapperError{Triangle: idx, Err: err}
	}
	return mapped, nil
}
