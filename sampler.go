package lowpoly

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// EdgeMask is a binary grid where a true cell marks an edge pixel.
type EdgeMask struct {
	Width, Height int
	Pix           []bool
}

// NewEdgeMask returns an empty (all false) mask of the given size.
func NewEdgeMask(width, height int) *EdgeMask {
	return &EdgeMask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// At reports whether the pixel at (x, y) is an edge pixel.
func (m *EdgeMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks or clears the pixel at (x, y).
func (m *EdgeMask) Set(x, y int, edge bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = edge
}

// Count returns the number of edge pixels.
func (m *EdgeMask) Count() int {
	var n int
	for _, e := range m.Pix {
		if e {
			n++
		}
	}
	return n
}

// PointCount tells the sampler how many edge points to keep. It is one of
// AbsolutePoints, RelativePoints or PixelRelativePoints.
type PointCount interface {
	// Limit resolves the count to an absolute number, given the number of
	// edge points found and the number of pixels of the image.
	Limit(edges, pixels int) int
}

// AbsolutePoints keeps at most the given number of points.
type AbsolutePoints int

// RelativePoints keeps a fraction (0..1) of the edge points found.
type RelativePoints float64

// PixelRelativePoints keeps a fraction (0..1) of the image pixel count.
type PixelRelativePoints float64

// DefaultPointCount is used when no point count option has been set.
const DefaultPointCount = AbsolutePoints(10000)

func (n AbsolutePoints) Limit(edges, pixels int) int { return int(n) }

func (f RelativePoints) Limit(edges, pixels int) int { return int(float64(f) * float64(edges)) }

func (f PixelRelativePoints) Limit(edges, pixels int) int { return int(float64(f) * float64(pixels)) }

// NewPointCount builds the point count variant out of the three optional settings.
// Setting more than one of them returns ErrConfigConflict.
func NewPointCount(absolute *int, relative, pixelRelative *float64) (PointCount, error) {
	var set int
	for _, ok := range []bool{absolute != nil, relative != nil, pixelRelative != nil} {
		if ok {
			set++
		}
	}
	switch {
	case set > 1:
		return nil, ErrConfigConflict
	case absolute != nil:
		if *absolute < 0 {
			return nil, errors.Errorf("point count must not be negative: %d", *absolute)
		}
		return AbsolutePoints(*absolute), nil
	case relative != nil:
		if err := checkFraction(*relative); err != nil {
			return nil, errors.Wrap(err, "invalid relative point count")
		}
		return RelativePoints(*relative), nil
	case pixelRelative != nil:
		if err := checkFraction(*pixelRelative); err != nil {
			return nil, errors.Wrap(err, "invalid pixel relative point count")
		}
		return PixelRelativePoints(*pixelRelative), nil
	}
	return DefaultPointCount, nil
}

func checkFraction(f float64) error {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return errors.New("number is inf or NaN")
	case f < 0:
		return errors.New("number is negative")
	case f > 1:
		return errors.New("number is bigger than one")
	}
	return nil
}

// Shuffler is the source of randomness used to permute the edge points.
// *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewShuffler returns a seeded, reproducible random source when seed is not nil,
// otherwise one seeded from the current time.
func NewShuffler(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// EdgePoints collects the coordinates of every edge pixel in row-major order.
func EdgePoints(mask *EdgeMask) []Point {
	var points []Point
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[y*mask.Width+x] {
				points = append(points, Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	return points
}

// Sample selects the triangulation points out of the edge mask. The edge points are
// shuffled, truncated to the resolved count and thinned out by RemoveClosePoints.
// The four image corners are always appended last: (0,0), (W,0), (0,H), (W,H).
func Sample(mask *EdgeMask, count PointCount, minDistance float64, rng Shuffler) []Point {
	points := EdgePoints(mask)
	rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})

	limit := count.Limit(len(points), mask.Width*mask.Height)
	if limit < 0 {
		limit = 0
	}
	if limit < len(points) {
		points = points[:limit]
	}
	points = RemoveClosePoints(points, minDistance)

	for _, c := range corners(mask.Width, mask.Height) {
		points = append(points, c)
	}
	return points
}

// RemoveClosePoints drops every point closer than minDistance to a preceding surviving point.
// Points are visited in order and a removed point never removes others, so the result depends
// on the input order. A zero distance leaves the slice untouched.
func RemoveClosePoints(points []Point, minDistance float64) []Point {
	if minDistance <= 0 {
		return points
	}
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); {
			if points[i].Distance(points[j]) < minDistance {
				points = slices.Delete(points, j, j+1)
				continue
			}
			j++
		}
	}
	return points
}
