package shape

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/shapelab/pkg/math"
)

const (
	// ShadowOffset lifts projected points off the plane so the shadow does
	// not z-fight with the floor drawn at the same height.
	ShadowOffset = 0.001

	// ProjectionTolerance is the largest accepted distance between a
	// projected point and the target plane.
	ProjectionTolerance = 0.001
)

// planeNormal is the normal of the horizontal planes shadows fall on.
var planeNormal = math.Vec3{Y: 1}

// ProjectPoint intersects the ray from light through v with the plane
// Y = planeY. The returned point is raised by ShadowOffset. A vertex at or
// above the light casts no shadow on a plane below it and yields
// ErrBehindLight.
func ProjectPoint(light, v math.Vec3, planeY float32) (math.Vec3, error) {
	r, err := math.Direction(light, v).Normalize()
	if err != nil {
		return math.Vec3{}, fmt.Errorf("vertex coincides with light: %w", err)
	}

	denom := planeNormal.Dot(r)
	if math32.Abs(denom) < 1e-6 {
		return math.Vec3{}, ErrParallelRay
	}
	onPlane := math.Vec3{Y: planeY}
	t := planeNormal.Dot(math.Direction(light, onPlane)) / denom
	if t <= 0 {
		return math.Vec3{}, ErrBehindLight
	}
	hit := light.Add(r.Scale(t))

	if math32.Abs(hit.Y-planeY) > ProjectionTolerance {
		return math.Vec3{}, &ProjectionError{Vertex: -1, Got: hit.Y, Want: planeY}
	}
	return math.Vec3{X: hit.X, Y: planeY + ShadowOffset, Z: hit.Z}, nil
}

// ProjectOntoPlane builds the shadow that a point light casts of s onto the
// plane Y = planeY. The result has the same faces as s, projected vertices,
// and a uniform ShadowColor. s is not modified.
func (s *Shape) ProjectOntoPlane(light math.Vec3, planeY float32) (*Shape, error) {
	out := &Shape{
		V: make([]math.Vec3, len(s.V)),
		F: make([]Face, len(s.F)),
	}
	for i, v := range s.V {
		p, err := ProjectPoint(light, v, planeY)
		if err != nil {
			var perr *ProjectionError
			if errors.As(err, &perr) {
				perr.Vertex = i
				return nil, perr
			}
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		out.V[i] = p
	}
	for i, f := range s.F {
		out.F[i] = append(Face(nil), f...)
	}
	out.SetUniformColor(ShadowColor)
	return out, nil
}

// Floor returns a horizontal quad at height y spanning [-xmag, xmag] by
// [-zmag, zmag], split into two triangles and colored FloorColor.
func Floor(xmag, y, zmag float32) *Shape {
	s := &Shape{
		V: []math.Vec3{
			{X: -xmag, Y: y, Z: zmag},
			{X: -xmag, Y: y, Z: -zmag},
			{X: xmag, Y: y, Z: -zmag},
			{X: xmag, Y: y, Z: zmag},
		},
		F: []Face{{0, 1, 2}, {2, 3, 0}},
	}
	s.SetUniformColor(FloorColor)
	return s
}
