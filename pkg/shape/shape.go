// Package shape holds polyhedral geometry as an indexed vertex/face list and
// the operations used to prepare it for rendering: OBJ decoding, subdivision,
// coloring, planar shadows and flat buffer export.
package shape

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"

	"github.com/Faultbox/shapelab/pkg/math"
)

// Face is an ordered list of vertex indices. The order defines the winding.
type Face []int

// Shape is an indexed polygon mesh.
//
// V is append-only during construction and subdivision, so an index handed
// out once stays valid. Color is either empty or holds one RGBA quadruple per
// vertex.
type Shape struct {
	V     []math.Vec3
	F     []Face
	Color []float32
}

// New creates a shape from vertices and faces and validates it.
func New(vertices []math.Vec3, faces []Face) (*Shape, error) {
	s := &Shape{V: vertices, F: faces}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromFlat creates a shape from flat coordinate and index arrays. Both are
// grouped into consecutive triples.
func FromFlat(vertices []float32, faces []int) (*Shape, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertex components", ErrFlatLength, len(vertices))
	}
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: %d face indices", ErrFlatLength, len(faces))
	}

	vs := make([]math.Vec3, 0, len(vertices)/3)
	for i := 0; i < len(vertices); i += 3 {
		vs = append(vs, math.Vec3{X: vertices[i], Y: vertices[i+1], Z: vertices[i+2]})
	}
	fs := make([]Face, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		fs = append(fs, Face{faces[i], faces[i+1], faces[i+2]})
	}
	return New(vs, fs)
}

// FromData creates a shape from vertex and face data given either nested
// (one tuple per vertex/face) or flat. The form is detected from the Go type:
//
//	vertices: []float32, []float64, [][]float32, [][]float64, [][3]float32, []math.Vec3
//	faces:    []int, [][]int, [][3]int, []Face
func FromData(vertices, faces any) (*Shape, error) {
	vs, err := vertexList(vertices)
	if err != nil {
		return nil, err
	}
	fs, err := faceList(faces)
	if err != nil {
		return nil, err
	}
	return New(vs, fs)
}

func vertexList(data any) ([]math.Vec3, error) {
	switch d := data.(type) {
	case []math.Vec3:
		return append([]math.Vec3(nil), d...), nil
	case []float32:
		return groupFloats(d)
	case []float64:
		flat := make([]float32, len(d))
		for i, x := range d {
			flat[i] = float32(x)
		}
		return groupFloats(flat)
	case [][3]float32:
		out := make([]math.Vec3, len(d))
		for i, t := range d {
			out[i] = math.Vec3{X: t[0], Y: t[1], Z: t[2]}
		}
		return out, nil
	case [][]float32:
		out := make([]math.Vec3, len(d))
		for i, t := range d {
			v, err := math.Vec3FromSlice(t)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case [][]float64:
		out := make([]math.Vec3, len(d))
		for i, t := range d {
			if len(t) != 3 {
				return nil, fmt.Errorf("vertex %d: %w: want 3 components, got %d", i, math.ErrArityMismatch, len(t))
			}
			out[i] = math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: vertices as %T", ErrUnsupportedInput, data)
	}
}

func groupFloats(flat []float32) ([]math.Vec3, error) {
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertex components", ErrFlatLength, len(flat))
	}
	out := make([]math.Vec3, 0, len(flat)/3)
	for i := 0; i < len(flat); i += 3 {
		out = append(out, math.Vec3{X: flat[i], Y: flat[i+1], Z: flat[i+2]})
	}
	return out, nil
}

func faceList(data any) ([]Face, error) {
	switch d := data.(type) {
	case []Face:
		out := make([]Face, len(d))
		for i, f := range d {
			out[i] = append(Face(nil), f...)
		}
		return out, nil
	case []int:
		if len(d)%3 != 0 {
			return nil, fmt.Errorf("%w: %d face indices", ErrFlatLength, len(d))
		}
		out := make([]Face, 0, len(d)/3)
		for i := 0; i < len(d); i += 3 {
			out = append(out, Face{d[i], d[i+1], d[i+2]})
		}
		return out, nil
	case [][]int:
		out := make([]Face, len(d))
		for i, f := range d {
			out[i] = append(Face(nil), f...)
		}
		return out, nil
	case [][3]int:
		out := make([]Face, len(d))
		for i, f := range d {
			out[i] = Face{f[0], f[1], f[2]}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: faces as %T", ErrUnsupportedInput, data)
	}
}

// Validate checks that every face has at least three vertices, every index
// refers to an existing vertex, and the color table (if any) matches.
func (s *Shape) Validate() error {
	for fi, f := range s.F {
		if len(f) < 3 {
			return fmt.Errorf("face %d: %w", fi, ErrDegenerateFace)
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(s.V) {
				return fmt.Errorf("face %d: %w: %d (have %d vertices)", fi, ErrIndexOutOfRange, idx, len(s.V))
			}
		}
	}
	if len(s.Color) != 0 && len(s.Color) != 4*len(s.V) {
		return fmt.Errorf("%w: %d entries for %d vertices", ErrBadColorTable, len(s.Color), len(s.V))
	}
	return nil
}

// Centroid returns the mean vertex position, each component rounded to three
// decimal places.
func (s *Shape) Centroid() (math.Vec3, error) {
	if len(s.V) == 0 {
		return math.Vec3{}, ErrEmptyShape
	}
	var sum math.Vec3
	for _, v := range s.V {
		sum = sum.Add(v)
	}
	n := float32(len(s.V))
	return math.Vec3{
		X: math32.Round(sum.X/n*1000) / 1000,
		Y: math32.Round(sum.Y/n*1000) / 1000,
		Z: math32.Round(sum.Z/n*1000) / 1000,
	}, nil
}

// Clone returns a deep copy sharing no storage with s.
func (s *Shape) Clone() *Shape {
	out := &Shape{}
	if err := copier.CopyWithOption(out, s, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on invalid or mismatched types; fall back to a
		// manual copy so callers never observe shared storage
		out = &Shape{
			V:     append([]math.Vec3(nil), s.V...),
			F:     make([]Face, len(s.F)),
			Color: append([]float32(nil), s.Color...),
		}
		for i, f := range s.F {
			out.F[i] = append(Face(nil), f...)
		}
	}
	return out
}

// Scale multiplies every vertex by f, scaling about the origin.
func (s *Shape) Scale(f float32) {
	for i := range s.V {
		s.V[i] = s.V[i].Scale(f)
	}
}

// SplitVertices gives every face its own copy of its vertices so that no
// vertex is shared between faces. Per-vertex colors travel with the copies.
func (s *Shape) SplitVertices() {
	hasColor := s.HasColor()
	var vs []math.Vec3
	var colors []float32
	fs := make([]Face, len(s.F))
	for fi, f := range s.F {
		nf := make(Face, len(f))
		for j, idx := range f {
			nf[j] = len(vs)
			vs = append(vs, s.V[idx])
			if hasColor {
				colors = append(colors, s.Color[4*idx:4*idx+4]...)
			}
		}
		fs[fi] = nf
	}
	s.V, s.F, s.Color = vs, fs, colors
}

// Triangulate replaces every face with more than three vertices by a fan of
// triangles around its first vertex, keeping the winding.
func (s *Shape) Triangulate() {
	out := make([]Face, 0, len(s.F))
	for _, f := range s.F {
		if len(f) <= 3 {
			out = append(out, f)
			continue
		}
		for j := 1; j+1 < len(f); j++ {
			out = append(out, Face{f[0], f[j], f[j+1]})
		}
	}
	s.F = out
}

// IsTriangulated reports whether every face is a triangle.
func (s *Shape) IsTriangulated() bool {
	for _, f := range s.F {
		if len(f) != 3 {
			return false
		}
	}
	return true
}

// Info returns a one-line summary.
func (s *Shape) Info() string {
	return fmt.Sprintf("Shape with %d vertices and %d faces.", len(s.V), len(s.F))
}

func (s *Shape) String() string {
	return s.Info()
}

// Verbose lists every vertex, face and color entry.
func (s *Shape) Verbose() string {
	var b strings.Builder
	b.WriteString(s.Info())
	b.WriteString("\nVERTICES:\n")
	for _, v := range s.V {
		fmt.Fprintf(&b, "%s,\n", v)
	}
	b.WriteString("FACES:\n")
	for _, f := range s.F {
		for j, idx := range f {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d", idx)
		}
		b.WriteString(",\n")
	}
	b.WriteString("COLORS:\n")
	if !s.HasColor() {
		b.WriteString("<none>\n")
		return b.String()
	}
	for i := 0; i < len(s.Color); i += 4 {
		fmt.Fprintf(&b, "%g,%g,%g,%g,\n", s.Color[i], s.Color[i+1], s.Color[i+2], s.Color[i+3])
	}
	return b.String()
}
