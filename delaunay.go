package lowpoly

import (
	"math"

	"github.com/pkg/errors"
)

// Triangle holds the indices of its three nodes inside the point set it was built from.
type Triangle [3]int

// Vertices resolves the triangle indices against the point set.
func (t Triangle) Vertices(points []Point) [3]Point {
	return [3]Point{points[t[0]], points[t[1]], points[t[2]]}
}

// Triangulator builds a triangle mesh over a point set.
// It must fail, rather than return an empty mesh, when no triangulation exists.
type Triangulator interface {
	Triangulate(points []Point) ([]Triangle, error)
}

// ghost is the node index of the vertex at infinity.
// Every hull edge is closed by a ghost triangle, whose circumcircle degenerates
// into the open half-plane outside the hull edge.
const ghost = -1

// circle describes the triangle circumcircle; radius is stored squared.
type circle struct {
	x, y, radius float64
}

// face is a triangle under construction. Real faces are counter-clockwise;
// ghost faces keep the infinite vertex at the last position.
type face struct {
	nodes  [3]int
	circle circle
	bad    bool
}

type edge [2]int

// isEq check if two edges connect the same nodes, in either direction.
func (e edge) isEq(o edge) bool {
	return (e[0] == o[0] && e[1] == o[1]) || (e[0] == o[1] && e[1] == o[0])
}

// Delaunay is the default Triangulator. It implements the Bowyer-Watson
// incremental algorithm: points are inserted in the order of the point set,
// every triangle whose circumcircle encloses the new point is removed and the
// resulting cavity is re-triangulated around the point.
//
// A point identical to one already inserted is skipped and its index never
// appears in the result. Triangles are reported in a stable order, so the same
// input always yields the same mesh.
type Delaunay struct {
	points []Point
	faces  []face
}

// Triangulate returns the Delaunay triangulation of the points.
// It returns ErrInputGeometry if the points are fewer than three distinct ones or all collinear.
func (d *Delaunay) Triangulate(points []Point) ([]Triangle, error) {
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, errors.Wrapf(ErrInputGeometry, "point %d is not finite", i)
		}
	}
	i0, i1, i2, err := seedTriangle(points)
	if err != nil {
		return nil, err
	}

	d.points = points
	d.faces = d.faces[:0]
	d.init(i0, i1, i2)

	seen := make(map[Point]struct{}, len(points))
	seen[points[i0]], seen[points[i1]], seen[points[i2]] = struct{}{}, struct{}{}, struct{}{}

	for k, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		d.insert(k)
	}
	return d.GetTriangles(), nil
}

// GetTriangles returns the finite triangles of the last triangulation.
func (d *Delaunay) GetTriangles() []Triangle {
	triangles := make([]Triangle, 0, len(d.faces))
	for _, f := range d.faces {
		if f.nodes[2] == ghost {
			continue
		}
		triangles = append(triangles, Triangle(f.nodes))
	}
	return triangles
}

// seedTriangle picks the first three points which span a non-degenerate triangle.
func seedTriangle(points []Point) (int, int, int, error) {
	if len(points) < 3 {
		return 0, 0, 0, errors.Wrapf(ErrInputGeometry, "got %d points, need at least 3", len(points))
	}
	i1 := -1
	for i := 1; i < len(points); i++ {
		if points[i] != points[0] {
			i1 = i
			break
		}
	}
	if i1 < 0 {
		return 0, 0, 0, errors.Wrap(ErrInputGeometry, "all points coincide")
	}
	for i := i1 + 1; i < len(points); i++ {
		if orient(points[0], points[i1], points[i]) != 0 {
			return 0, i1, i, nil
		}
	}
	return 0, 0, 0, errors.Wrap(ErrInputGeometry, "all points are collinear")
}

// init creates the first triangle together with the three ghost triangles closing its hull.
func (d *Delaunay) init(a, b, c int) {
	if orient(d.points[a], d.points[b], d.points[c]) < 0 {
		b, c = c, b
	}
	d.faces = append(d.faces,
		d.newFace(a, b, c),
		d.newFace(b, a, ghost),
		d.newFace(c, b, ghost),
		d.newFace(a, c, ghost),
	)
}

// newFace creates a face and its circumcircle. The ghost node is rotated to the last position.
func (d *Delaunay) newFace(a, b, c int) face {
	if a == ghost {
		a, b, c = b, c, a
	} else if b == ghost {
		a, b, c = c, a, b
	}
	f := face{nodes: [3]int{a, b, c}}
	if c == ghost {
		return f
	}

	p0, p1, p2 := d.points[a], d.points[b], d.points[c]
	ax, ay := p1.X-p0.X, p1.Y-p0.Y
	bx, by := p2.X-p0.X, p2.Y-p0.Y
	m := ax*ax + ay*ay
	u := bx*bx + by*by
	s := 1.0 / (2.0 * (ax*by - ay*bx))

	f.circle.x = p0.X + (by*m-ay*u)*s
	f.circle.y = p0.Y + (ax*u-bx*m)*s

	// Calculate the distance between the node points and the triangle circumcircle.
	dx := p0.X - f.circle.x
	dy := p0.Y - f.circle.y
	f.circle.radius = dx*dx + dy*dy

	return f
}

// encloses reports whether p lies strictly inside the face circumcircle.
func (d *Delaunay) encloses(f *face, p Point) bool {
	a, b := d.points[f.nodes[0]], d.points[f.nodes[1]]
	if f.nodes[2] == ghost {
		switch o := orient(a, b, p); {
		case o > 0:
			return true
		case o < 0:
			return false
		}
		// Collinear with the hull edge: inside only when strictly between its nodes.
		return (p.X-a.X)*(b.X-a.X)+(p.Y-a.Y)*(b.Y-a.Y) > 0 &&
			(p.X-b.X)*(a.X-b.X)+(p.Y-b.Y)*(a.Y-b.Y) > 0
	}

	c := f.circle
	if !math.IsInf(c.radius, 0) && !math.IsNaN(c.radius) {
		dx, dy := c.x-p.X, c.y-p.Y
		if dx*dx+dy*dy > c.radius*(1+1e-9)+1e-9 {
			return false
		}
	}
	return inCircle(a, b, d.points[f.nodes[2]], p) > 0
}

// insert adds the point with index k to the triangulation.
func (d *Delaunay) insert(k int) {
	var (
		i, j    int
		p       = d.points[k]
		edges   []edge
		polygon []edge
	)

	for i = range d.faces {
		f := &d.faces[i]
		f.bad = d.encloses(f, p)
		if f.bad {
			// Save triangle edges in case they are included.
			n := f.nodes
			edges = append(edges, edge{n[0], n[1]}, edge{n[1], n[2]}, edge{n[2], n[0]})
		}
	}

	// Edges shared by two removed triangles lie inside the cavity: drop both copies.
edgesLoop:
	for i = 0; i < len(edges); i++ {
		e := edges[i]
		for j = 0; j < len(polygon); j++ {
			if e.isEq(polygon[j]) {
				polygon = append(polygon[:j], polygon[j+1:]...)
				continue edgesLoop
			}
		}
		polygon = append(polygon, e)
	}

	// Carry over the triangles not affected by the insertion.
	kept := d.faces[:0]
	for _, f := range d.faces {
		if !f.bad {
			kept = append(kept, f)
		}
	}
	d.faces = kept

	for _, e := range polygon {
		d.faces = append(d.faces, d.newFace(e[0], e[1], k))
	}
}

// orient returns twice the signed area of the triangle abc;
// positive when the nodes are in counter-clockwise order.
func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// inCircle is positive when d lies inside the circumcircle of the counter-clockwise triangle abc.
func inCircle(a, b, c, d Point) float64 {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y

	return (adx*adx+ady*ady)*(bdx*cdy-cdx*bdy) -
		(bdx*bdx+bdy*bdy)*(adx*cdy-cdx*ady) +
		(cdx*cdx+cdy*cdy)*(adx*bdy-bdx*ady)
}
