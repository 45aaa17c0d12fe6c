package shape

import "fmt"

// Buffers holds the flat arrays a rendering backend uploads: 3 floats per
// vertex position, 4 per vertex color and 3 indices per triangle.
type Buffers struct {
	Positions []float32
	Colors    []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices described by the buffers.
func (b *Buffers) VertexCount() int {
	return len(b.Positions) / 3
}

// IndexCount returns the number of triangle indices.
func (b *Buffers) IndexCount() int {
	return len(b.Indices)
}

// Buffers flattens s for upload. Every face must be a triangle; call
// Triangulate first for polygonal shapes. Shapes without a color table are
// exported in Grey.
func (s *Shape) Buffers() (*Buffers, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	for fi, f := range s.F {
		if len(f) != 3 {
			return nil, fmt.Errorf("%w: face %d has %d vertices", ErrNotTriangulated, fi, len(f))
		}
	}

	b := &Buffers{
		Positions: make([]float32, 0, 3*len(s.V)),
		Colors:    s.ColorTable(),
		Indices:   make([]uint32, 0, 3*len(s.F)),
	}
	for _, v := range s.V {
		b.Positions = append(b.Positions, v.X, v.Y, v.Z)
	}
	for _, f := range s.F {
		b.Indices = append(b.Indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return b, nil
}
