package lowpoly

import (
	"github.com/fogleman/gg"
)

// Wireframe modes.
const (
	WithoutWireframe = iota
	WithWireframe
	WireframeOnly
)

// wireframeStroke is the color of the mesh lines drawn over the filled triangles.
var wireframeStroke = [4]int{0, 0, 0, 20}

// drawWireframe strokes the triangle borders over the canvas.
// In WithWireframe mode the lines are a translucent black; in WireframeOnly mode
// each triangle is outlined with its own color, or with black when solid is set.
func drawWireframe(c *Canvas, mode int, lineWidth float64, solid bool, points []Point, triangles []Triangle, colors []Color) {
	if mode == WithoutWireframe || lineWidth <= 0 {
		return
	}
	ctx := gg.NewContextForRGBA(c.RGBA)
	ctx.SetLineWidth(lineWidth)
	ctx.SetLineJoin(gg.LineJoinRound)

	for i, t := range triangles {
		v := t.Vertices(points)

		ctx.Push()
		ctx.MoveTo(v[0].X, v[0].Y)
		ctx.LineTo(v[1].X, v[1].Y)
		ctx.LineTo(v[2].X, v[2].Y)
		ctx.ClosePath()

		switch {
		case mode == WithWireframe:
			ctx.SetRGBA255(wireframeStroke[0], wireframeStroke[1], wireframeStroke[2], wireframeStroke[3])
		case solid:
			ctx.SetRGBA255(0, 0, 0, 255)
		default:
			ctx.SetColor(colors[i])
		}
		ctx.Stroke()
		ctx.Pop()
	}
}
