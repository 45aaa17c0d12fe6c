// Package math provides the small float32 vector and matrix algebra used by
// shape processing and the viewer.
package math

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// Vector errors.
var (
	ErrZeroLength    = errors.New("zero-length vector")
	ErrArityMismatch = errors.New("vector arity mismatch")
)

// roundTo3 rounds x to three decimal places.
func roundTo3(x float32) float32 {
	return math32.Round(x*1000) / 1000
}

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 builds a Vec3 from its components.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec3FromSlice converts a 3-element slice into a Vec3.
func Vec3FromSlice(s []float32) (Vec3, error) {
	if len(s) != 3 {
		return Vec3{}, fmt.Errorf("%w: want 3 components, got %d", ErrArityMismatch, len(s))
	}
	return Vec3{s[0], s[1], s[2]}, nil
}

// Array returns the components as an array.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Midpoint returns the point halfway between v and other.
func (v Vec3) Midpoint(other Vec3) Vec3 {
	return v.Add(other).Scale(0.5)
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude. With rounded set the result is rounded to
// three decimal places, which hides float noise in distances that are
// compared or reused as subdivision radii.
func (v Vec3) Length(rounded bool) float32 {
	l := math32.Sqrt(v.Dot(v))
	if rounded {
		return roundTo3(l)
	}
	return l
}

// Len returns the rounded magnitude.
func (v Vec3) Len() float32 {
	return v.Length(true)
}

// Direction returns the vector pointing from v to other (other - v).
func Direction(from, to Vec3) Vec3 {
	return to.Sub(from)
}

// Distance returns the rounded distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return Direction(v, other).Len()
}

// Normalize returns a unit vector. The zero vector has no direction and
// yields ErrZeroLength.
func (v Vec3) Normalize() (Vec3, error) {
	l := v.Length(false)
	if l == 0 {
		return Vec3{}, ErrZeroLength
	}
	return v.Scale(1 / l), nil
}

// SetMagnitude returns v rescaled to length m.
func (v Vec3) SetMagnitude(m float32) (Vec3, error) {
	l := v.Length(false)
	if l == 0 {
		return Vec3{}, fmt.Errorf("%w: cannot set magnitude %g", ErrZeroLength, m)
	}
	return v.Scale(m / l), nil
}

// ProjectAlongRay takes the ray from towards to from, rescales it to length
// m and returns the endpoint relative to towards. Subdivision uses it to push
// a midpoint out to a fixed radius around a reference point.
func ProjectAlongRay(from, towards Vec3, m float32) (Vec3, error) {
	ray, err := Direction(towards, from).SetMagnitude(m)
	if err != nil {
		return Vec3{}, err
	}
	return towards.Add(ray), nil
}

// AlmostEqual reports whether every component of v and other differ by at
// most tol.
func (v Vec3) AlmostEqual(other Vec3, tol float32) bool {
	return math32.Abs(v.X-other.X) <= tol &&
		math32.Abs(v.Y-other.Y) <= tol &&
		math32.Abs(v.Z-other.Z) <= tol
}

// String formats the vector as "x,y,z".
func (v Vec3) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

// Vector is a variable-arity tuple, used where data arrives before its arity
// is known (raw OBJ tokens, flat input).
type Vector []float32

// Add returns the element-wise sum of a and b, failing when the arities
// differ.
func (a Vector) Add(b Vector) (Vector, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrArityMismatch, len(a), len(b))
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out, nil
}

// Scale returns a copy of a multiplied by s.
func (a Vector) Scale(s float32) Vector {
	out := make(Vector, len(a))
	for i := range a {
		out[i] = a[i] * s
	}
	return out
}

// Vec3 converts a 3-component Vector.
func (a Vector) Vec3() (Vec3, error) {
	return Vec3FromSlice(a)
}
