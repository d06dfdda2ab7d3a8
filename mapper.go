package lowpoly

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ColorMapper replaces the default color of a triangle.
// MapColor blocks until the new color is known.
type ColorMapper interface {
	MapColor(ctx context.Context, req MapRequest) (Color, error)
}

// MapRequest carries everything a color mapper gets to know about a triangle.
type MapRequest struct {
	Color         Color
	Vertices      [3]Point
	Width, Height int
}

// MarshalText encodes the request as three text lines:
//
//	R G B
//	ax ay bx by cx cy
//	W H
func (r MapRequest) MarshalText() ([]byte, error) {
	var b bytes.Buffer

	b.WriteString(r.Color.String())
	b.WriteByte('\n')
	for i, v := range r.Vertices {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(v.X, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(v.Y, 'f', -1, 64))
	}
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(r.Width))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(r.Height))
	b.WriteByte('\n')

	return b.Bytes(), nil
}

// ParseMapResponse reads the color out of the first line of a mapper response,
// which must hold exactly three whitespace separated values in the 0-255 range.
func ParseMapResponse(out []byte) (Color, error) {
	line := string(out)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Color{}, &MapperError{
			Triangle: -1,
			Output:   line,
			Err:      errors.Errorf("expected 3 color values, got %d", len(fields)),
		}
	}

	var rgb [3]uint8
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return Color{}, &MapperError{
				Triangle: -1,
				Output:   line,
				Err:      errors.Wrapf(err, "invalid color value %q", f),
			}
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// ExecMapper starts a new process for every triangle. The request is written to the
// process standard input, which is then closed, and the color is read back from the
// first line of its standard output. The exit status is ignored.
type ExecMapper struct {
	Command []string
	// Timeout bounds a single invocation. Zero means no limit.
	// On expiry the process is killed and MapColor returns without waiting
	// for processes it started to release its output.
	Timeout time.Duration
	// Stderr receives the process standard error; nil discards it.
	Stderr io.Writer
}

// MapColor implements ColorMapper.
func (m *ExecMapper) MapColor(ctx context.Context, req MapRequest) (Color, error) {
	if len(m.Command) == 0 {
		return Color{}, errors.New("empty color mapper command")
	}
	payload, err := req.MarshalText()
	if err != nil {
		return Color{}, err
	}

	cmd := exec.Command(m.Command[0], m.Command[1:]...)
	cmd.Stderr = m.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return Color{}, errors.Wrap(err, "unable to open color mapper input")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Color{}, errors.Wrap(err, "unable to open color mapper output")
	}
	if err := cmd.Start(); err != nil {
		return Color{}, errors.Wrapf(err, "unable to run color mapper %q", m.Command[0])
	}
	// A mapper may exit without reading its input; only its answer counts.
	stdin.Write(payload)
	stdin.Close()

	type output struct {
		out []byte
		err error
	}
	done := make(chan output, 1)
	go func() {
		out, err := io.ReadAll(stdout)
		done <- output{out, err}
	}()

	var timeout <-chan time.Time
	if m.Timeout > 0 {
		timer := time.NewTimer(m.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case o := <-done:
		err := cmd.Wait()
		if o.err != nil {
			return Color{}, errors.Wrapf(o.err, "unable to read color mapper %q answer", m.Command[0])
		}
		if _, ok := err.(*exec.ExitError); err != nil && !ok {
			return Color{}, errors.Wrapf(err, "unable to run color mapper %q", m.Command[0])
		}
		return ParseMapResponse(o.out)
	case <-timeout:
		abort(cmd)
		return Color{}, errors.Errorf("color mapper %q did not answer within %v", m.Command[0], m.Timeout)
	case <-ctx.Done():
		abort(cmd)
		return Color{}, errors.Wrapf(ctx.Err(), "color mapper %q", m.Command[0])
	}
}

// abort kills the process and reaps it in the background. Children of the process
// may keep its output open, so nothing waits for them.
func abort(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	cmd.Process.Kill()
	go cmd.Wait()
}

// PipeMapper keeps a single mapper process running for the whole image.
// Each request is written to its standard input and answered by exactly
// one line on its standard output. Close must be called when done.
type PipeMapper struct {
	Command []string
	// Timeout bounds the wait for a single answer. Zero means no limit.
	Timeout time.Duration
	// Stderr receives the process standard error; nil discards it.
	Stderr io.Writer

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// Start launches the mapper process. MapColor calls it when needed.
func (m *PipeMapper) Start() error {
	if m.cmd != nil {
		return nil
	}
	if len(m.Command) == 0 {
		return errors.New("empty color mapper command")
	}
	cmd := exec.Command(m.Command[0], m.Command[1:]...)
	cmd.Stderr = m.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "unable to open color mapper input")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "unable to open color mapper output")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "unable to start color mapper %q", m.Command[0])
	}
	m.cmd, m.stdin, m.stdout = cmd, stdin, bufio.NewReader(stdout)
	return nil
}

// MapColor implements ColorMapper.
func (m *PipeMapper) MapColor(ctx context.Context, req MapRequest) (Color, error) {
	if err := m.Start(); err != nil {
		return Color{}, err
	}
	payload, err := req.MarshalText()
	if err != nil {
		return Color{}, err
	}
	if _, err := m.stdin.Write(payload); err != nil {
		return Color{}, errors.Wrap(err, "color mapper does not accept input")
	}

	type answer struct {
		line string
		err  error
	}
	done := make(chan answer, 1)
	go func() {
		line, err := m.stdout.ReadString('\n')
		done <- answer{line, err}
	}()

	var timeout <-chan time.Time
	if m.Timeout > 0 {
		timer := time.NewTimer(m.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case a := <-done:
		if a.err != nil && (a.err != io.EOF || a.line == "") {
			return Color{}, errors.Wrap(a.err, "unable to read color mapper answer")
		}
		return ParseMapResponse([]byte(a.line))
	case <-timeout:
		m.kill()
		return Color{}, errors.Errorf("color mapper did not answer within %v", m.Timeout)
	case <-ctx.Done():
		m.kill()
		return Color{}, errors.Wrap(ctx.Err(), "color mapper")
	}
}

// Close closes the mapper input and waits for the process to exit.
func (m *PipeMapper) Close() error {
	if m.cmd == nil {
		return nil
	}
	m.stdin.Close()
	err := m.cmd.Wait()
	m.cmd = nil
	if _, ok := err.(*exec.ExitError); ok {
		return nil
	}
	return err
}

func (m *PipeMapper) kill() {
	if m.cmd != nil && m.cmd.Process != nil {
		m.cmd.Process.Kill()
	}
}
