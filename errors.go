package lowpoly

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInputGeometry is returned when the point set cannot be triangulated:
	// fewer than three distinct points, or all of them on a single line.
	ErrInputGeometry = errors.New("no delaunay triangulation exists for this point set")

	// ErrConfigConflict is returned when more than one of the mutually exclusive
	// point count options has been set.
	ErrConfigConflict = errors.New("only one of points, points-relative and points-pixel-relative can be set")
)

// MapperError reports a failure of the external color mapper for a single triangle.
// A mapper failure aborts the whole run.
type MapperError struct {
	Triangle int
	Output   string
	Err      error
}

func (e *MapperError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("color mapper failed on triangle %d: %v (output %q)", e.Triangle, e.Err, e.Output)
	}
	return fmt.Sprintf("color mapper failed on triangle %d: %v", e.Triangle, e.Err)
}

// Cause returns the underlying error, so errors.Cause can unwrap it.
func (e *MapperError) Cause() error { return e.Err }

// Unwrap supports the standard library errors.Is and errors.As.
func (e *MapperError) Unwrap() error { return e.Err }

// IsMapperError reports whether err was produced by the external color mapper.
func IsMapperError(err error) bool {
	for err != nil {
		if _, ok := err.(*MapperError); ok {
			return true
		}
		cause, ok := err.(interface{ Cause() error })
		if !ok {
			return false
		}
		err = cause.Cause()
	}
	return false
}
