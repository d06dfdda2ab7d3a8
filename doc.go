/*
Package lowpoly is an image processing library which converts images to low poly art.

Points are sampled along the edges found by a Canny edge detector, triangulated with
a Delaunay triangulation covering the whole image and every triangle is filled with
the color found under its centroid.

The package provides a command line utility supporting various customization options.
Check the supported commands by typing:

	$ lowpoly --help

Example to generate the low poly image and output the result as PNG:

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/esimov/lowpoly"
	)

	func main() {
		p := lowpoly.NewProcessor()
		p.Points = lowpoly.RelativePoints(0.2)

		f, err := os.Open("input.jpg")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		res, err := p.Decode(context.Background(), f)
		if err != nil {
			log.Fatalf("Error on triangulation process: %v", err)
		}
		if err := lowpoly.Encode(os.Stdout, res, "png"); err != nil {
			log.Fatal(err)
		}
	}

The triangle colors can be replaced by an external program. The program receives
the default color, the triangle vertices and the image size on its standard input

	R G B
	ax ay bx by cx cy
	W H

and answers with the new color, "R G B", on the first line of its standard output:

	p.ColorMapper = &lowpoly.ExecMapper{Command: []string{"rainbow-mapper"}}
*/
package lowpoly
