package shape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/shapelab/pkg/math"
)

func TestParseOBJIcosahedron(t *testing.T) {
	s := loadIcosahedron(t)
	assert.Len(t, s.V, 12)
	assert.Len(t, s.F, 20)
	assert.Equal(t, Face{0, 11, 5}, s.F[0])
	assert.NoError(t, s.Validate())
}

func TestDecodeTokenizing(t *testing.T) {
	text := strings.Join([]string{
		"# comment",
		"g group",
		"V 1.5,2, 3",
		"v\t-1  -2 -3",
		"v 0 0 0 1.0",
		"vn 0 1 0",
		"vt 0.5 0.5",
		"",
		"F 1, 2, 3",
		"f 3/1/1 2//1 1/2",
	}, "\n")

	s, err := ParseOBJ(text)
	require.NoError(t, err)
	assert.Equal(t, []math.Vec3{
		{X: 1.5, Y: 2, Z: 3},
		{X: -1, Y: -2, Z: -3},
		{},
	}, s.V)
	assert.Equal(t, []Face{{0, 1, 2}, {2, 1, 0}}, s.F)
}

func TestDecodeWithoutFixIndex(t *testing.T) {
	text := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"
	s, err := Decode(strings.NewReader(text), DecodeOptions{FixIndex: false})
	require.NoError(t, err)
	assert.Equal(t, []Face{{0, 1, 2}}, s.F)
}

func TestDecodeRelativeIndices(t *testing.T) {
	text := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	s, err := ParseOBJ(text)
	require.NoError(t, err)
	assert.Equal(t, []Face{{0, 1, 2}}, s.F)
}

func TestDecodeSkipsMalformedLines(t *testing.T) {
	text := strings.Join([]string{
		"v 0 0 0",
		"v 1 0 0",
		"v one 1 0",
		"v 0 1",
		"v 0 1 0",
		"f 1 2",
		"f 1 x 3",
		"f 0 1 2",
		"f 1 2 5",
	}, "\n")

	var skipped []*LineError
	s, err := Decode(strings.NewReader(text), DecodeOptions{
		FixIndex: true,
		OnSkip:   func(e *LineError) { skipped = append(skipped, e) },
	})
	require.NoError(t, err)

	assert.Equal(t, []math.Vec3{{}, {X: 1}, {Y: 1}}, s.V)
	assert.Equal(t, []Face{{0, 1, 2}}, s.F)

	require.Len(t, skipped, 5)
	lines := make([]int, len(skipped))
	for i, e := range skipped {
		lines[i] = e.Line
		assert.ErrorIs(t, e, ErrMalformedLine)
	}
	assert.Equal(t, []int{3, 4, 6, 7, 8}, lines)
	assert.Equal(t, "v one 1 0", skipped[0].Text)
}

func TestDecodeSkippedVertexKeepsNumbering(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"absolute", "v 0 0 0\nv 1 0 0\nv bad 5 5\nv 0 1 0\nv 0 0 1\nf 1 2 3\n"},
		{"relative", "v 0 0 0\nv 1 0 0\nv bad 5 5\nv 0 1 0\nf -4 -3 -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(tt.text)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.Contains(t, err.Error(), "skipped vertex")
		})
	}

	s, err := ParseOBJ("v 0 0 0\nv 1 0 0\nv bad 5 5\nv 0 1 0\nv 0 0 1\nf 1 2 4\nf -1 -2 -5\n")
	require.NoError(t, err)
	assert.Equal(t, []math.Vec3{{}, {X: 1}, {Y: 1}, {Z: 1}}, s.V)
	assert.Equal(t, []Face{{0, 1, 2}, {3, 2, 0}}, s.F)
}

func TestDecodeIndexOutOfRangeFails(t *testing.T) {
	tests := []struct {
		name string
		face string
	}{
		{"past the end", "f 1 2 4"},
		{"negative underflow", "f -5 1 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" + tt.face + "\nf 1 2 3\n"
			var skipped int
			_, err := Decode(strings.NewReader(text), DecodeOptions{
				FixIndex: true,
				OnSkip:   func(*LineError) { skipped++ },
			})
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.Contains(t, err.Error(), "line 4")
			assert.Zero(t, skipped)
		})
	}
}

func TestDecodeFacesBeforeVertices(t *testing.T) {
	text := "f 1 2 3\nv 0 0 0\nv 1 0 0\nv 0 1 0\n"
	s, err := ParseOBJ(text)
	require.NoError(t, err)
	assert.NoError(t, s.Validate())
}

func TestOBJRoundTrip(t *testing.T) {
	shapes := map[string]*Shape{
		"cube":        newCube(t),
		"quads":       newQuadCube(t),
		"icosahedron": loadIcosahedron(t),
	}
	for name, orig := range shapes {
		t.Run(name, func(t *testing.T) {
			parsed, err := ParseOBJ(orig.OBJ())
			require.NoError(t, err)
			assert.Equal(t, orig.V, parsed.V)
			assert.Equal(t, orig.F, parsed.F)
		})
	}
}

func TestWriteOBJIsOneIndexed(t *testing.T) {
	s, err := FromFlat([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []int{0, 1, 2})
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, s.WriteOBJ(&b))
	assert.Contains(t, b.String(), "v 1 0 0\n")
	assert.Contains(t, b.String(), "f 1 2 3\n")
}
