package lowpoly

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func triangleArea(points []Point, t Triangle) float64 {
	v := t.Vertices(points)
	return orient(v[0], v[1], v[2]) / 2
}

func checkMesh(t *testing.T, points []Point, triangles []Triangle, width, height float64) {
	t.Helper()

	var total float64
	for _, tri := range triangles {
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			t.Fatalf("triangle %v repeats a node", tri)
		}
		for _, n := range tri {
			if n < 0 || n >= len(points) {
				t.Fatalf("triangle %v references an invalid node", tri)
			}
		}
		area := triangleArea(points, tri)
		if area <= 0 {
			t.Fatalf("triangle %v has a non positive area %v", tri, area)
		}
		total += area
	}
	if math.Abs(total-width*height) > 1e-6 {
		t.Errorf("triangles cover an area of %v, want %v", total, width*height)
	}

	// No point may lie strictly inside the circumcircle of a triangle.
	for _, tri := range triangles {
		v := tri.Vertices(points)
		for i, p := range points {
			if i == tri[0] || i == tri[1] || i == tri[2] {
				continue
			}
			if inCircle(v[0], v[1], v[2], p) > 1e-9 {
				t.Fatalf("point %v lies inside the circumcircle of %v", p, v)
			}
		}
	}
}

func TestDelaunay_Rectangle(t *testing.T) {
	points := []Point{{0, 0}, {4, 0}, {0, 4}, {4, 4}}
	triangles, err := (&Delaunay{}).Triangulate(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(triangles) != 2 {
		t.Fatalf("got %d triangles, want 2", len(triangles))
	}
	checkMesh(t, points, triangles, 4, 4)
}

func TestDelaunay_CenterPoint(t *testing.T) {
	points := []Point{{5, 5}, {0, 0}, {10, 0}, {0, 10}, {10, 10}}
	triangles, err := (&Delaunay{}).Triangulate(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(triangles) != 4 {
		t.Fatalf("got %d triangles, want 4", len(triangles))
	}
	for _, tri := range triangles {
		if tri[0] != 0 && tri[1] != 0 && tri[2] != 0 {
			t.Errorf("triangle %v does not use the center point", tri)
		}
	}
	checkMesh(t, points, triangles, 10, 10)
}

func TestDelaunay_RandomPoints(t *testing.T) {
	const width, height = 64, 48
	rnd := rand.New(rand.NewSource(3))

	for run := 0; run < 5; run++ {
		var points []Point
		for i := 0; i < 150; i++ {
			points = append(points, Point{
				X: float64(rnd.Intn(width + 1)),
				Y: float64(rnd.Intn(height + 1)),
			})
		}
		// Points on the image border are collinear with the corners.
		points = append(points, Point{0, 17}, Point{width, 5}, Point{31, 0}, Point{12, height})
		c := corners(width, height)
		points = append(points, c[:]...)

		triangles, err := (&Delaunay{}).Triangulate(points)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkMesh(t, points, triangles, width, height)
	}
}

func TestDelaunay_Duplicates(t *testing.T) {
	points := []Point{{2, 2}, {2, 2}, {0, 0}, {4, 0}, {0, 4}, {4, 4}}
	triangles, err := (&Delaunay{}).Triangulate(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tri := range triangles {
		for _, n := range tri {
			if n == 1 {
				t.Fatalf("duplicate point referenced by %v", tri)
			}
		}
	}
	checkMesh(t, points, triangles, 4, 4)
}

func TestDelaunay_Stable(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	var points []Point
	for i := 0; i < 80; i++ {
		points = append(points, Point{X: float64(rnd.Intn(100)), Y: float64(rnd.Intn(100))})
	}
	c := corners(100, 100)
	points = append(points, c[:]...)

	a, err := (&Delaunay{}).Triangulate(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := &Delaunay{}
	d.Triangulate([]Point{{0, 0}, {1, 0}, {0, 1}})
	b, err := d.Triangulate(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("the same points produced two different meshes")
	}
}

func TestDelaunay_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"empty", nil},
		{"two points", []Point{{0, 0}, {1, 1}}},
		{"coincident", []Point{{3, 3}, {3, 3}, {3, 3}, {3, 3}}},
		{"two distinct", []Point{{0, 0}, {0, 0}, {5, 5}}},
		{"collinear", []Point{{0, 0}, {1, 1}, {2, 2}, {5, 5}}},
		{"not finite", []Point{{0, 0}, {1, 0}, {math.NaN(), 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triangles, err := (&Delaunay{}).Triangulate(tt.points)
			if errors.Cause(err) != ErrInputGeometry {
				t.Fatalf("expected ErrInputGeometry, got %v (%d triangles)", err, len(triangles))
			}
		})
	}
}
