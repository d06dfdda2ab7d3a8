package lowpoly

import (
	"context"
	"image"
	"io"
	"math"

	"github.com/pkg/errors"
)

// Default processing options.
const (
	DefaultCannyLower  = 10.0
	DefaultCannyUpper  = 15.0
	DefaultMinDistance = 4.0
)

// Processor : type with processing options
type Processor struct {
	// CannyLower and CannyUpper are the hysteresis thresholds of the edge detector.
	CannyLower float64
	CannyUpper float64
	// Points is the number of edge points to keep; DefaultPointCount when nil.
	Points PointCount
	// MinDistance is the minimal distance between two sampled points. Zero disables the filter.
	MinDistance float64
	Antialias   bool
	// Seed makes the point selection reproducible. When nil a time based seed is used.
	Seed *int64
	// ColorMapper optionally replaces the centroid color of every triangle.
	ColorMapper ColorMapper
	Background  Color

	Wireframe int
	LineWidth float64
	IsSolid   bool
	Noise     int
	Grayscale bool

	// Rand overrides the random source built from Seed.
	Rand Shuffler
	// Triangulator defaults to the Delaunay triangulation.
	Triangulator Triangulator
}

// NewProcessor returns a processor initialized with the default options.
func NewProcessor() *Processor {
	return &Processor{
		CannyLower:  DefaultCannyLower,
		CannyUpper:  DefaultCannyUpper,
		Points:      DefaultPointCount,
		MinDistance: DefaultMinDistance,
		Antialias:   true,
		LineWidth:   1,
	}
}

// Result holds everything produced by a processing run.
type Result struct {
	Canvas     *Canvas
	Points     []Point
	Triangles  []Triangle
	Colors     []Color
	Background Color
	// EdgeCount is the number of edge pixels found in the source image.
	EdgeCount int
}

// Image returns the rasterized image.
func (r *Result) Image() image.Image {
	return r.Canvas
}

// Validate checks the processor options.
func (p *Processor) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"canny lower threshold", p.CannyLower},
		{"canny upper threshold", p.CannyUpper},
		{"minimal point distance", p.MinDistance},
	} {
		switch {
		case math.IsNaN(v.value) || math.IsInf(v.value, 0):
			return errors.Errorf("%s is inf or NaN", v.name)
		case v.value < 0:
			return errors.Errorf("%s is negative", v.name)
		}
	}
	if p.CannyLower > p.CannyUpper {
		return errors.Errorf("canny lower threshold %v is bigger than the upper one %v", p.CannyLower, p.CannyUpper)
	}
	if p.Wireframe < WithoutWireframe || p.Wireframe > WireframeOnly {
		return errors.Errorf("invalid wireframe mode %d", p.Wireframe)
	}
	switch n := p.Points.(type) {
	case RelativePoints:
		return errors.Wrap(checkFraction(float64(n)), "invalid relative point count")
	case PixelRelativePoints:
		return errors.Wrap(checkFraction(float64(n)), "invalid pixel relative point count")
	case AbsolutePoints:
		if n < 0 {
			return errors.Errorf("point count must not be negative: %d", n)
		}
	}
	return nil
}

// Decode reads the source image and runs Process over it.
func (p *Processor) Decode(ctx context.Context, r io.Reader) (*Result, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode source image")
	}
	return p.Process(ctx, src)
}

// Process detects the edges of the source image and triangulates it.
func (p *Processor) Process(ctx context.Context, src image.Image) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.Errorf("empty source image %v", bounds)
	}
	mask := Canny(src, p.CannyLower, p.CannyUpper)
	return p.Draw(ctx, ImgToNRGBA(src), mask)
}

// Draw samples the points out of the edge mask, triangulates them and rasterizes every
// triangle onto a new canvas of the source size. No result is returned on failure.
func (p *Processor) Draw(ctx context.Context, src *image.NRGBA, mask *EdgeMask) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if mask.Width != width || mask.Height != height {
		return nil, errors.Errorf("edge mask size %dx%d does not match the image size %dx%d",
			mask.Width, mask.Height, width, height)
	}

	count := p.Points
	if count == nil {
		count = DefaultPointCount
	}
	rng := p.Rand
	if rng == nil {
		rng = NewShuffler(p.Seed)
	}
	triangulator := p.Triangulator
	if triangulator == nil {
		triangulator = &Delaunay{}
	}

	points := Sample(mask, count, p.MinDistance, rng)
	triangles, err := triangulator.Triangulate(points)
	if err != nil {
		return nil, errors.Wrap(err, "triangulation failed")
	}

	srcImg := src
	if p.Grayscale {
		srcImg = Grayscale(src)
	}

	background := p.Background
	if p.Wireframe == WireframeOnly {
		background = Color{R: 0xff, G: 0xff, B: 0xff}
	}
	res := &Result{
		Canvas:     NewCanvas(width, height, background),
		Points:     points,
		Triangles:  triangles,
		Colors:     make([]Color, len(triangles)),
		Background: background,
		EdgeCount:  mask.Count(),
	}

	resolver := &ColorResolver{Source: srcImg, Mapper: p.ColorMapper}
	for i, t := range triangles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col, err := resolver.Resolve(ctx, i, t, points)
		if err != nil {
			return nil, err
		}
		res.Colors[i] = col

		if p.Wireframe != WireframeOnly {
			Rasterize(res.Canvas, t.Vertices(points), col, p.Antialias)
		}
	}

	drawWireframe(res.Canvas, p.Wireframe, p.LineWidth, p.IsSolid, points, triangles, res.Colors)
	// Apply a noise on the final image. This will give it a more artistic look.
	Noise(p.Noise, res.Canvas)

	return res, nil
}
