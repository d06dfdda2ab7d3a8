package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/esimov/lowpoly"
	"github.com/esimov/lowpoly/utils"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

const helperBanner = `
┬  ┌─┐┬ ┬┌─┐┌─┐┬ ┬ ┬
│  │ ││││├─┘│ ││ └┬┘
┴─┘└─┘└┴┘┴  └─┘┴─┘┴

Low poly image generator.
`

// options holds the parsed command line flags.
type options struct {
	source      string
	destination string
	format      string

	cannyLower  float64
	cannyUpper  float64
	points      *int
	relative    *float64
	pixelRel    *float64
	minDistance float64
	noAntialias bool
	seed        *int64

	mapper           string
	mapperPersistent bool
	mapperTimeout    time.Duration

	wireframe int
	lineWidth float64
	isSolid   bool
	noise     int
	grayscale bool
	verbose   bool
}

func parseFlags(args []string) (*options, error) {
	var (
		opts     options
		points   int
		relative float64
		pixelRel float64
		seed     int64
	)
	fs := flag.NewFlagSet("lowpoly", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), helperBanner)
		fmt.Fprintf(fs.Output(), "\nUsage: lowpoly [options] [input]\n\n")
		fs.PrintDefaults()
	}

	fs.Float64Var(&opts.cannyLower, "canny-lower", lowpoly.DefaultCannyLower, "Canny edge detector lower threshold")
	fs.Float64Var(&opts.cannyUpper, "canny-upper", lowpoly.DefaultCannyUpper, "Canny edge detector upper threshold")
	fs.IntVar(&points, "points", int(lowpoly.DefaultPointCount), "Maximum number of edge points")
	fs.Float64Var(&relative, "points-relative", 0, "Number of edge points relative to the edge pixels found (0..1)")
	fs.Float64Var(&pixelRel, "points-pixel-relative", 0, "Number of edge points relative to the image pixel count (0..1)")
	fs.Float64Var(&opts.minDistance, "points-min-distance", lowpoly.DefaultMinDistance, "Minimal distance between two points")
	fs.BoolVar(&opts.noAntialias, "no-antialiasing", false, "Disable the triangle border antialiasing")
	fs.Int64Var(&seed, "rng-seed", 0, "Seed of the point selection")
	fs.StringVar(&opts.destination, "output", "", "Destination file (default standard output)")
	fs.StringVar(&opts.destination, "o", "", "Shorthand for -output")
	fs.StringVar(&opts.format, "output-format", "", "Output format: "+strings.Join(lowpoly.Formats(), ", "))
	fs.StringVar(&opts.mapper, "color-mapper", "", "External program replacing the triangle colors")
	fs.BoolVar(&opts.mapperPersistent, "color-mapper-persistent", false, "Keep a single color mapper process for the whole image")
	fs.DurationVar(&opts.mapperTimeout, "color-mapper-timeout", 0, "Timeout of a single color mapper answer (0 means no limit)")
	fs.IntVar(&opts.wireframe, "wireframe", lowpoly.WithoutWireframe, "Wireframe mode (0: without stroke, 1: with stroke, 2: stroke only)")
	fs.Float64Var(&opts.lineWidth, "width", 1, "Wireframe line width")
	fs.BoolVar(&opts.isSolid, "solid", false, "Solid line color")
	fs.IntVar(&opts.noise, "noise", 0, "Noise factor")
	fs.BoolVar(&opts.grayscale, "gray", false, "Convert to grayscale")
	fs.BoolVar(&opts.verbose, "v", false, "Print processing statistics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, errors.Errorf("expected a single input, got %d", fs.NArg())
	}
	opts.source = fs.Arg(0)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "points":
			opts.points = &points
		case "points-relative":
			opts.relative = &relative
		case "points-pixel-relative":
			opts.pixelRel = &pixelRel
		case "rng-seed":
			opts.seed = &seed
		}
	})
	return &opts, nil
}

// outputFormat picks the explicit format, then the destination extension, then png.
func (o *options) outputFormat() (string, error) {
	if o.format != "" {
		return lowpoly.ParseFormat(o.format)
	}
	if f, ok := lowpoly.FormatFromPath(o.destination); ok {
		return f, nil
	}
	return "png", nil
}

func (o *options) processor() (*lowpoly.Processor, error) {
	count, err := lowpoly.NewPointCount(o.points, o.relative, o.pixelRel)
	if err != nil {
		return nil, err
	}

	p := lowpoly.NewProcessor()
	p.CannyLower = o.cannyLower
	p.CannyUpper = o.cannyUpper
	p.Points = count
	p.MinDistance = o.minDistance
	p.Antialias = !o.noAntialias
	p.Seed = o.seed
	p.Wireframe = o.wireframe
	p.LineWidth = o.lineWidth
	p.IsSolid = o.isSolid
	p.Noise = o.noise
	p.Grayscale = o.grayscale

	if cmd := strings.Fields(o.mapper); len(cmd) > 0 {
		if o.mapperPersistent {
			p.ColorMapper = &lowpoly.PipeMapper{Command: cmd, Timeout: o.mapperTimeout, Stderr: os.Stderr}
		} else {
			p.ColorMapper = &lowpoly.ExecMapper{Command: cmd, Timeout: o.mapperTimeout, Stderr: os.Stderr}
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func main() {
	log.SetFlags(0)

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf(utils.Decorate(utils.ErrorColor, "%v"), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		stop()
		log.Fatalf(utils.Decorate(utils.ErrorColor, "Error converting image: %v"), err)
	}
}

func run(ctx context.Context, opts *options) error {
	p, err := opts.processor()
	if err != nil {
		return err
	}
	if closer, ok := p.ColorMapper.(io.Closer); ok {
		defer closer.Close()
	}
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	if (opts.destination == "" || opts.destination == "-") && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write image data to a terminal, use -o to set the destination")
	}

	src, err := openSource(ctx, opts.source)
	if err != nil {
		return err
	}
	defer src.Close()

	s := utils.NewSpinner()
	s.Start("Generating low poly image...")
	start := time.Now()
	res, err := p.Decode(ctx, src)
	s.Stop()
	if err != nil {
		return err
	}

	// Encode in memory first: nothing is written unless the whole image succeeded.
	var buf bytes.Buffer
	if err := lowpoly.Encode(&buf, res, format); err != nil {
		return err
	}
	if err := writeOutput(opts.destination, &buf); err != nil {
		return err
	}

	if opts.verbose {
		log.Printf("Generated in: %s", utils.Decorate(utils.SuccessColor, utils.FormatTime(time.Since(start))))
		log.Printf("Edge pixels found: %s", utils.Decorate(utils.StatusColor, fmt.Sprint(res.EdgeCount)))
		log.Printf("Total number of %s triangles generated out of %s points",
			utils.Decorate(utils.SuccessColor, fmt.Sprint(len(res.Triangles))),
			utils.Decorate(utils.SuccessColor, fmt.Sprint(len(res.Points))),
		)
		if opts.destination != "" {
			log.Printf("Saved as: %s %s", opts.destination, utils.Decorate(utils.SuccessColor, "✓"))
		}
	}
	return nil
}

func openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "" || source == "-":
		return io.NopCloser(os.Stdin), nil
	case utils.IsURL(source):
		r, err := utils.DownloadImage(ctx, source)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(r), nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open source file")
	}
	return f, nil
}

func writeOutput(destination string, r io.Reader) error {
	if destination == "" || destination == "-" {
		_, err := io.Copy(os.Stdout, r)
		return errors.Wrap(err, "unable to write output")
	}
	f, err := os.Create(destination)
	if err != nil {
		return errors.Wrap(err, "unable to create the output file")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Wrap(err, "unable to write output")
	}
	return f.Close()
}
