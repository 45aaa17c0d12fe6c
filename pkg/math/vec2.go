package math

import "github.com/chewxy/math32"

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Hypot(v.X, v.Y)
}

// PointTo returns the vector from v to p.
func (v Vec2) PointTo(p Vec2) Vec2 {
	return p.Sub(v)
}

// Heading returns the polar angle of v in radians.
func (v Vec2) Heading() float32 {
	return math32.Atan2(v.Y, v.X)
}

// AddPolar moves v by dist along angle (radians).
func (v Vec2) AddPolar(dist, angle float32) Vec2 {
	return Vec2{
		X: v.X + dist*math32.Cos(angle),
		Y: v.Y + dist*math32.Sin(angle),
	}
}

// FromPolar returns the point at dist along angle from the origin.
func FromPolar(dist, angle float32) Vec2 {
	return Vec2{}.AddPolar(dist, angle)
}
