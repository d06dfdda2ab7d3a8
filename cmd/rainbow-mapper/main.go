// Command rainbow-mapper is an example external color mapper. It blends the
// triangle color with a rainbow hue picked from the horizontal position of the
// triangle centroid.
//
//	lowpoly -color-mapper rainbow-mapper -o out.png input.jpg
//
// The mapper answers every request found on its standard input, so it can also be
// run as a persistent mapper with -color-mapper-persistent.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/esimov/lowpoly"
	"github.com/pkg/errors"
)

// blendFactor is the weight of the original triangle color.
const blendFactor = 0.75

type request struct {
	color         lowpoly.Color
	vertices      [3]lowpoly.Point
	width, height int
}

func main() {
	log.SetFlags(0)
	if err := serve(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("rainbow-mapper: %v", err)
	}
}

func serve(r io.Reader, w io.Writer) error {
	in := bufio.NewReader(r)
	out := bufio.NewWriter(w)

	for {
		req, err := readRequest(in)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rainbow(req))
		// Flush every answer, the caller waits for it before sending the next request.
		if err := out.Flush(); err != nil {
			return errors.Wrap(err, "unable to write answer")
		}
	}
}

func readRequest(in *bufio.Reader) (*request, error) {
	var req request
	c := &req.color
	if _, err := fmt.Fscanln(in, &c.R, &c.G, &c.B); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, errors.Wrap(err, "invalid color line")
	}
	v := &req.vertices
	if _, err := fmt.Fscanln(in, &v[0].X, &v[0].Y, &v[1].X, &v[1].Y, &v[2].X, &v[2].Y); err != nil {
		return nil, errors.Wrap(err, "invalid vertices line")
	}
	if _, err := fmt.Fscanln(in, &req.width, &req.height); err != nil {
		return nil, errors.Wrap(err, "invalid image size line")
	}
	if req.width <= 0 || req.height <= 0 {
		return nil, errors.Errorf("invalid image size %dx%d", req.width, req.height)
	}
	return &req, nil
}

func rainbow(req *request) lowpoly.Color {
	cx := (req.vertices[0].X + req.vertices[1].X + req.vertices[2].X) / 3
	hue := hueColor(int(cx / float64(req.width) * 256 * 6))

	blend := func(a, b uint8) uint8 {
		return uint8(float64(a)*blendFactor + float64(b)*(1-blendFactor))
	}
	return lowpoly.Color{
		R: blend(req.color.R, hue.R),
		G: blend(req.color.G, hue.G),
		B: blend(req.color.B, hue.B),
	}
}

// hueColor maps a value of the [0, 256*6) range onto the color wheel.
func hueColor(value int) lowpoly.Color {
	value = lowpoly.Clamp(value, 0, 256*6-1)
	n, m := value/256, uint8(value%256)
	if n%2 == 1 {
		m = 255 - m
	}

	switch n {
	case 0:
		return lowpoly.Color{R: 255, G: m}
	case 1:
		return lowpoly.Color{R: m, G: 255}
	case 2:
		return lowpoly.Color{G: 255, B: m}
	case 3:
		return lowpoly.Color{G: m, B: 255}
	case 4:
		return lowpoly.Color{R: m, B: 255}
	default:
		return lowpoly.Color{R: 255, B: m}
	}
}
