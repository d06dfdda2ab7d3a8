package lowpoly

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

// fixedShuffler applies no permutation, so the sampled points keep the scan order.
type fixedShuffler struct{}

func (fixedShuffler) Shuffle(n int, swap func(i, j int)) {}

// reverseShuffler reverses the order of the points.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func maskFrom(width, height int, edges ...[2]int) *EdgeMask {
	m := NewEdgeMask(width, height)
	for _, e := range edges {
		m.Set(e[0], e[1], true)
	}
	return m
}

func fullMask(width, height int) *EdgeMask {
	m := NewEdgeMask(width, height)
	for i := range m.Pix {
		m.Pix[i] = true
	}
	return m
}

func TestSample_CornersOnly(t *testing.T) {
	mask := NewEdgeMask(4, 4)
	points := Sample(mask, AbsolutePoints(10000), 4, fixedShuffler{})

	want := []Point{{0, 0}, {4, 0}, {0, 4}, {4, 4}}
	if !reflect.DeepEqual(points, want) {
		t.Fatalf("Sample on an empty mask = %v, want %v", points, want)
	}
}

func TestSample_CornerInvariant(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		count       PointCount
		minDistance float64
	}{
		{"absolute", 13, 7, AbsolutePoints(20), 2},
		{"zero limit", 13, 7, AbsolutePoints(0), 2},
		{"relative", 9, 21, RelativePoints(0.5), 0},
		{"pixel relative", 30, 10, PixelRelativePoints(0.1), 3.5},
		{"huge distance", 16, 16, AbsolutePoints(100), 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := fullMask(tt.width, tt.height)
			points := Sample(mask, tt.count, tt.minDistance, rand.New(rand.NewSource(42)))
			if len(points) < 4 {
				t.Fatalf("got %d points, want at least the 4 corners", len(points))
			}
			got := points[len(points)-4:]
			want := []Point{{0, 0}, {float64(tt.width), 0}, {0, float64(tt.height)}, {float64(tt.width), float64(tt.height)}}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("last points = %v, want %v", got, want)
			}
		})
	}
}

func TestSample_TruncationBound(t *testing.T) {
	mask := maskFrom(10, 10, [2]int{1, 1}, [2]int{5, 5}, [2]int{8, 2})

	tests := []struct {
		name  string
		count PointCount
		want  int
	}{
		{"more than edges", AbsolutePoints(100), 3},
		{"limit", AbsolutePoints(2), 2},
		{"relative to edges", RelativePoints(0.5), 1},
		{"all edges", RelativePoints(1), 3},
		{"relative to pixels", PixelRelativePoints(0.02), 2},
		{"zero", PixelRelativePoints(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := Sample(mask, tt.count, 0, fixedShuffler{})
			if got := len(points) - 4; got != tt.want {
				t.Errorf("got %d sampled points, want %d", got, tt.want)
			}
		})
	}
}

func TestSample_ZeroDistanceKeepsDuplicates(t *testing.T) {
	points := []Point{{2, 2}, {2, 2}, {3, 3}}
	got := RemoveClosePoints(append([]Point(nil), points...), 0)
	if !reflect.DeepEqual(got, points) {
		t.Fatalf("RemoveClosePoints with zero distance = %v, want %v", got, points)
	}
}

func TestSample_ScanOrder(t *testing.T) {
	mask := maskFrom(5, 5, [2]int{4, 0}, [2]int{0, 1}, [2]int{2, 3})

	got := Sample(mask, AbsolutePoints(10), 0, fixedShuffler{})[:3]
	want := []Point{{4, 0}, {0, 1}, {2, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unshuffled points = %v, want %v", got, want)
	}

	got = Sample(mask, AbsolutePoints(10), 0, reverseShuffler{})[:3]
	want = []Point{{2, 3}, {0, 1}, {4, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reversed points = %v, want %v", got, want)
	}
}

func TestRemoveClosePoints(t *testing.T) {
	tests := []struct {
		name     string
		points   []Point
		distance float64
		want     []Point
	}{
		{
			name:     "chain",
			points:   []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
			distance: 1.5,
			want:     []Point{{0, 0}, {2, 0}},
		},
		{
			name:     "removed points do not suppress",
			points:   []Point{{1, 0}, {0, 0}, {2, 0}},
			distance: 1.5,
			want:     []Point{{1, 0}},
		},
		{
			name:     "order dependent",
			points:   []Point{{0, 0}, {1, 0}, {2, 0}},
			distance: 1.5,
			want:     []Point{{0, 0}, {2, 0}},
		},
		{
			name:     "distance is exclusive",
			points:   []Point{{0, 0}, {3, 4}},
			distance: 5,
			want:     []Point{{0, 0}, {3, 4}},
		},
		{
			name:     "duplicates",
			points:   []Point{{7, 7}, {7, 7}, {7, 7}},
			distance: 0.5,
			want:     []Point{{7, 7}},
		},
		{
			name:     "empty",
			points:   nil,
			distance: 3,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveClosePoints(tt.points, tt.distance)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RemoveClosePoints(%v) = %v, want %v", tt.distance, got, tt.want)
			}
		})
	}
}

func TestSample_DistanceInvariant(t *testing.T) {
	const d = 3.0
	mask := fullMask(40, 30)
	points := Sample(mask, AbsolutePoints(500), d, rand.New(rand.NewSource(7)))
	sampled := points[:len(points)-4]

	if len(sampled) == 0 {
		t.Fatal("expected some points to survive")
	}
	for i := range sampled {
		for j := i + 1; j < len(sampled); j++ {
			if dist := sampled[i].Distance(sampled[j]); dist < d {
				t.Fatalf("points %v and %v are %.3f apart, want at least %v", sampled[i], sampled[j], dist, d)
			}
		}
	}
}

func TestSample_HugeDistanceKeepsOnePoint(t *testing.T) {
	mask := fullMask(8, 6)
	points := Sample(mask, AbsolutePoints(48), 100, rand.New(rand.NewSource(1)))
	if got := len(points) - 4; got != 1 {
		t.Errorf("got %d sampled points, want 1", got)
	}
}

func TestSample_Deterministic(t *testing.T) {
	mask := fullMask(25, 25)
	seed := int64(99)

	a := Sample(mask, RelativePoints(0.3), 2, NewShuffler(&seed))
	b := Sample(mask, RelativePoints(0.3), 2, NewShuffler(&seed))
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with the same seed sampled different points")
	}
}

func TestNewPointCount(t *testing.T) {
	abs, neg := 500, -1
	rel, big, nan := 0.25, 1.5, 0.0
	nan = nan / nan

	tests := []struct {
		name     string
		absolute *int
		relative *float64
		pixel    *float64
		want     PointCount
		conflict bool
		invalid  bool
	}{
		{name: "default", want: DefaultPointCount},
		{name: "absolute", absolute: &abs, want: AbsolutePoints(500)},
		{name: "relative", relative: &rel, want: RelativePoints(0.25)},
		{name: "pixel relative", pixel: &rel, want: PixelRelativePoints(0.25)},
		{name: "absolute and relative", absolute: &abs, relative: &rel, conflict: true},
		{name: "relative and pixel", relative: &rel, pixel: &rel, conflict: true},
		{name: "all three", absolute: &abs, relative: &rel, pixel: &rel, conflict: true},
		{name: "negative", absolute: &neg, invalid: true},
		{name: "bigger than one", relative: &big, invalid: true},
		{name: "nan", pixel: &nan, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPointCount(tt.absolute, tt.relative, tt.pixel)
			switch {
			case tt.conflict:
				if errors.Cause(err) != ErrConfigConflict {
					t.Fatalf("expected ErrConfigConflict, got %v", err)
				}
			case tt.invalid:
				if err == nil {
					t.Fatalf("expected an error, got %v", got)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("NewPointCount = %#v, want %#v", got, tt.want)
				}
			}
		})
	}
}
