package lowpoly

import "math"

// Point defines a struct having as components the X and Y coordinate position in pixel space.
type Point struct {
	X, Y float64
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// corners returns the four image corner points in the order they are appended to every point set.
func corners(width, height int) [4]Point {
	w, h := float64(width), float64(height)
	return [4]Point{{0, 0}, {w, 0}, {0, h}, {w, h}}
}
