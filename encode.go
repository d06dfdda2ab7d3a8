package lowpoly

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"sort"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Register the decoders of the remaining supported input formats.
	_ "golang.org/x/image/webp"
)

// SVG is the format name of the vector output.
const SVG = "svg"

type encoderFunc func(w io.Writer, img image.Image) error

var encoders = map[string]encoderFunc{
	"png": png.Encode,
	"jpeg": func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	},
	"gif": func(w io.Writer, img image.Image) error {
		return gif.Encode(w, img, nil)
	},
	"bmp": bmp.Encode,
	"tiff": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	},
}

var formatAliases = map[string]string{
	"jpg": "jpeg",
	"tif": "tiff",
}

// ParseFormat normalizes an output format name or file extension.
func ParseFormat(name string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(name, "."))
	if alias, ok := formatAliases[f]; ok {
		f = alias
	}
	if _, ok := encoders[f]; ok || f == SVG {
		return f, nil
	}
	return "", errors.Errorf("unsupported image format %s (supported: %s)", name, strings.Join(Formats(), ", "))
}

// FormatFromPath derives the output format from the file extension.
func FormatFromPath(path string) (string, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Formats lists the supported output formats.
func Formats() []string {
	formats := []string{SVG}
	for f := range encoders {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Encode writes the processed image in the requested format.
func Encode(w io.Writer, res *Result, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if f == SVG {
		return EncodeSVG(w, res)
	}
	if err := encoders[f](w, res.Image()); err != nil {
		return errors.Wrapf(err, "unable to encode %s image", f)
	}
	return nil
}

// EncodeSVG writes the colored mesh as a vector image, one polygon per triangle.
func EncodeSVG(w io.Writer, res *Result) error {
	width, height := res.Canvas.Width(), res.Canvas.Height()

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title("Low poly image")
	canvas.Rect(0, 0, width, height, "fill:"+rgb(res.Background))

	for i, t := range res.Triangles {
		v := t.Vertices(res.Points)
		xs := []int{int(v[0].X), int(v[1].X), int(v[2].X)}
		ys := []int{int(v[0].Y), int(v[1].Y), int(v[2].Y)}
		c := rgb(res.Colors[i])
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1;stroke-linejoin:round", c, c))
	}
	canvas.End()
	return nil
}

func rgb(c Color) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
