package shape

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/shapelab/pkg/math"
)

func TestSetUniformColor(t *testing.T) {
	s := newCube(t)
	s.SetUniformColor(Color{1, 0, 0, 1})

	require.Len(t, s.Color, 32)
	for i := range s.V {
		assert.Equal(t, Color{1, 0, 0, 1}, s.ColorAt(i))
	}
	assert.NoError(t, s.Validate())
}

func TestSetRandomGreyscale(t *testing.T) {
	s := newCube(t)
	s.SetRandomGreyscale(rand.New(rand.NewPCG(1, 2)))

	require.Len(t, s.Color, 32)
	for i := range s.V {
		c := s.ColorAt(i)
		assert.Equal(t, c[0], c[1])
		assert.Equal(t, c[0], c[2])
		assert.Equal(t, float32(1), c[3])
		assert.GreaterOrEqual(t, c[0], float32(0))
		assert.Less(t, c[0], float32(1))
	}
}

func TestSetRandomGreyscaleNilSource(t *testing.T) {
	s := newCube(t)
	s.SetRandomGreyscale(nil)
	assert.Len(t, s.Color, 32)
}

func TestSetRandomGreyFacesLastFaceWins(t *testing.T) {
	// two triangles sharing the edge 1-2, and vertex 4 in no face
	s, err := FromData(
		[]math.Vec3{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}, {Z: 5}},
		[][]int{{0, 1, 2}, {1, 3, 2}},
	)
	require.NoError(t, err)

	s.SetRandomGreyFaces(rand.New(rand.NewPCG(7, 7)))

	ref := rand.New(rand.NewPCG(7, 7))
	first := faceGreyMin + faceGreySpan*ref.Float32()
	second := faceGreyMin + faceGreySpan*ref.Float32()

	assert.Equal(t, GreyLevel(first), s.ColorAt(0))
	assert.Equal(t, GreyLevel(second), s.ColorAt(1), "shared vertex takes the last face's color")
	assert.Equal(t, GreyLevel(second), s.ColorAt(2))
	assert.Equal(t, GreyLevel(second), s.ColorAt(3))
	assert.Equal(t, Grey, s.ColorAt(4), "vertex in no face falls back to Grey")

	for i := 0; i < 4; i++ {
		l := s.ColorAt(i)[0]
		assert.GreaterOrEqual(t, l, float32(0.35))
		assert.Less(t, l, float32(0.65))
	}
}

func TestSplitThenGreyFacesGivesFlatFaces(t *testing.T) {
	s := newCube(t)
	s.SplitVertices()
	s.SetRandomGreyFaces(rand.New(rand.NewPCG(3, 4)))
	for _, f := range s.F {
		c := s.ColorAt(f[0])
		for _, idx := range f[1:] {
			assert.Equal(t, c, s.ColorAt(idx))
		}
	}
}

func TestColorTableDefaultsToGrey(t *testing.T) {
	s := newCube(t)
	table := s.ColorTable()
	require.Len(t, table, 32)
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 1}, table[28:])
	assert.False(t, s.HasColor(), "ColorTable must not store the default")

	s.SetUniformColor(FloorColor)
	s.ClearColor()
	assert.False(t, s.HasColor())
	assert.Equal(t, Grey, s.ColorAt(0))
}
