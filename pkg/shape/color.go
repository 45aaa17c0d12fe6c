package shape

import "math/rand/v2"

// Color is an RGBA quadruple with components in [0, 1].
type Color [4]float32

// Predefined colors.
var (
	Grey        = Color{0.5, 0.5, 0.5, 1}
	ShadowColor = Color{0.1, 0.1, 0.1, 1}
	FloorColor  = Color{0.9, 0.9, 0.9, 1}
)

// GreyLevel returns an opaque grey of lightness l.
func GreyLevel(l float32) Color {
	return Color{l, l, l, 1}
}

// Mix returns the component-wise average of c and o.
func (c Color) Mix(o Color) Color {
	return Color{
		(c[0] + o[0]) / 2,
		(c[1] + o[1]) / 2,
		(c[2] + o[2]) / 2,
		(c[3] + o[3]) / 2,
	}
}

// Random face greys fall in [faceGreyMin, faceGreyMin+faceGreySpan).
const (
	faceGreyMin  = 0.35
	faceGreySpan = 0.3
)

// HasColor reports whether a color table is set.
func (s *Shape) HasColor() bool {
	return len(s.Color) > 0
}

// ColorAt returns the color of vertex i, or Grey when no table is set.
func (s *Shape) ColorAt(i int) Color {
	if !s.HasColor() {
		return Grey
	}
	return Color(s.Color[4*i : 4*i+4])
}

// ClearColor removes the color table.
func (s *Shape) ClearColor() {
	s.Color = nil
}

// SetUniformColor gives every vertex the color c.
func (s *Shape) SetUniformColor(c Color) {
	s.Color = make([]float32, 0, 4*len(s.V))
	for range s.V {
		s.Color = append(s.Color, c[:]...)
	}
}

// SetRandomGreyscale gives every vertex an independent random grey level.
// A nil rng uses the package-level source.
func (s *Shape) SetRandomGreyscale(rng *rand.Rand) {
	s.Color = make([]float32, 0, 4*len(s.V))
	for range s.V {
		c := GreyLevel(randFloat(rng))
		s.Color = append(s.Color, c[:]...)
	}
}

// SetRandomGreyFaces picks one random grey per face and assigns it to every
// vertex of that face. A vertex shared by several faces keeps the color of
// the last face in F. Vertices that belong to no face are Grey.
func (s *Shape) SetRandomGreyFaces(rng *rand.Rand) {
	colors := make([]Color, len(s.V))
	visited := make([]bool, len(s.V))
	for _, f := range s.F {
		c := GreyLevel(faceGreyMin + faceGreySpan*randFloat(rng))
		for _, idx := range f {
			if idx < 0 || idx >= len(colors) {
				continue
			}
			colors[idx] = c
			visited[idx] = true
		}
	}

	s.Color = make([]float32, 0, 4*len(s.V))
	for i, c := range colors {
		if !visited[i] {
			c = Grey
		}
		s.Color = append(s.Color, c[:]...)
	}
}

// ColorTable returns the finalized flat color table, 4 entries per vertex.
// Shapes without colors are reported as Grey.
func (s *Shape) ColorTable() []float32 {
	if s.HasColor() {
		return append([]float32(nil), s.Color...)
	}
	out := make([]float32, 0, 4*len(s.V))
	for range s.V {
		out = append(out, Grey[:]...)
	}
	return out
}

func randFloat(rng *rand.Rand) float32 {
	if rng == nil {
		return rand.Float32()
	}
	return rng.Float32()
}
