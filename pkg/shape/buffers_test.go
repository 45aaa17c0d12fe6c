package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffers(t *testing.T) {
	s := newCube(t)
	s.SetUniformColor(Color{1, 0, 0, 1})

	b, err := s.Buffers()
	require.NoError(t, err)

	assert.Len(t, b.Positions, 3*8)
	assert.Len(t, b.Colors, 4*8)
	assert.Len(t, b.Indices, 3*12)
	assert.Equal(t, 8, b.VertexCount())
	assert.Equal(t, 36, b.IndexCount())
	assert.Equal(t, []float32{-1, -1, 1}, b.Positions[:3])
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, b.Indices[:6])

	// buffers are copies
	b.Colors[0] = 0
	assert.Equal(t, float32(1), s.Color[0])
}

func TestBuffersImplicitGrey(t *testing.T) {
	b, err := newCube(t).Buffers()
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 1}, b.Colors[:4])
}

func TestBuffersRequireTriangles(t *testing.T) {
	s := newQuadCube(t)
	_, err := s.Buffers()
	assert.ErrorIs(t, err, ErrNotTriangulated)

	s.Triangulate()
	b, err := s.Buffers()
	require.NoError(t, err)
	assert.Len(t, b.Indices, 36)
}

func TestBuffersRejectInvalidShape(t *testing.T) {
	s := newCube(t)
	s.F = append(s.F, Face{0, 1, 99})
	_, err := s.Buffers()
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
