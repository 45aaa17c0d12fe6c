package shape

import (
	"errors"
	"fmt"
)

// Shape errors.
var (
	ErrEmptyShape       = errors.New("shape has no vertices")
	ErrIndexOutOfRange  = errors.New("vertex index out of range")
	ErrFaceOutOfRange   = errors.New("face index out of range")
	ErrDegenerateFace   = errors.New("face has fewer than 3 vertices")
	ErrBadColorTable    = errors.New("color table length does not match vertex count")
	ErrFlatLength       = errors.New("flat data length is not a multiple of 3")
	ErrUnsupportedInput = errors.New("unsupported input type")
	ErrNotTriangulated  = errors.New("shape has non-triangular faces")
	ErrMalformedLine    = errors.New("malformed OBJ line")
	ErrParallelRay      = errors.New("light ray is parallel to the plane")
	ErrBehindLight      = errors.New("plane is behind the light as seen from the vertex")
)

// LineError describes an OBJ line that was skipped during decoding.
type LineError struct {
	Line int    // 1-based line number
	Text string // raw line contents
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ProjectionError reports a projected vertex that missed the target plane by
// more than ProjectionTolerance.
type ProjectionError struct {
	Vertex int
	Got    float32
	Want   float32
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("vertex %d projected to plane coordinate %g, want %g", e.Vertex, e.Got, e.Want)
}
