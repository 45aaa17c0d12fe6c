package math

import (
	"errors"
	gomath "math"
	"testing"
)

func TestVec3Add(t *testing.T) {
	got := Vec3{1, 2, 3}.Add(Vec3{4, 5, 6})
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Midpoint(t *testing.T) {
	got := Vec3{0, 0, 0}.Midpoint(Vec3{2, -4, 6})
	want := Vec3{1, -2, 3}
	if got != want {
		t.Errorf("Vec3.Midpoint() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{1, 1, 1}
	if got := v.Length(true); got != 1.732 {
		t.Errorf("Length(rounded) = %v, want 1.732", got)
	}
	raw := v.Length(false)
	if gomath.Abs(float64(raw)-gomath.Sqrt(3)) > 1e-6 {
		t.Errorf("Length(raw) = %v, want sqrt(3)", raw)
	}
	if v.Len() != v.Length(true) {
		t.Error("Len() should default to the rounded length")
	}
}

func TestDirectionIsFromTo(t *testing.T) {
	got := Direction(Vec3{1, 1, 1}, Vec3{4, 5, 1})
	want := Vec3{3, 4, 0}
	if got != want {
		t.Errorf("Direction() = %v, want %v", got, want)
	}
	if d := (Vec3{1, 1, 1}).Distance(Vec3{4, 5, 1}); d != 5 {
		t.Errorf("Distance() = %v, want 5", d)
	}
}

func TestVec3Normalize(t *testing.T) {
	inputs := []Vec3{
		{3, 4, 0},
		{0.0001, 0, 0.0002},
		{-7, 2, 100},
		{1e3, 1e3, -1e3},
	}
	for _, v := range inputs {
		n, err := v.Normalize()
		if err != nil {
			t.Fatalf("Normalize(%v) failed: %v", v, err)
		}
		l := n.Length(false)
		if l < 0.9999 || l > 1.0001 {
			t.Errorf("Normalize(%v).Length() = %v, want ~1", v, l)
		}
	}
}

func TestZeroVectorFails(t *testing.T) {
	if _, err := (Vec3{}).Normalize(); !errors.Is(err, ErrZeroLength) {
		t.Errorf("Normalize(0) error = %v, want ErrZeroLength", err)
	}
	if _, err := (Vec3{}).SetMagnitude(2); !errors.Is(err, ErrZeroLength) {
		t.Errorf("SetMagnitude(0) error = %v, want ErrZeroLength", err)
	}
	if _, err := ProjectAlongRay(Vec3{1, 2, 3}, Vec3{1, 2, 3}, 1); !errors.Is(err, ErrZeroLength) {
		t.Errorf("ProjectAlongRay(p, p) error = %v, want ErrZeroLength", err)
	}
}

func TestSetMagnitude(t *testing.T) {
	v, err := Vec3{0, 3, 4}.SetMagnitude(10)
	if err != nil {
		t.Fatal(err)
	}
	if !v.AlmostEqual(Vec3{0, 6, 8}, 1e-5) {
		t.Errorf("SetMagnitude(10) = %v, want (0,6,8)", v)
	}
}

func TestProjectAlongRay(t *testing.T) {
	center := Vec3{1, 1, 1}
	got, err := ProjectAlongRay(Vec3{1, 1.5, 1}, center, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !got.AlmostEqual(Vec3{1, 3, 1}, 1e-5) {
		t.Errorf("ProjectAlongRay() = %v, want (1,3,1)", got)
	}
}

func TestVectorAddArity(t *testing.T) {
	sum, err := Vector{1, 2, 3}.Add(Vector{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := sum.Vec3(); v != (Vec3{2, 3, 4}) {
		t.Errorf("Vector.Add() = %v", sum)
	}
	if _, err := (Vector{1, 2}).Add(Vector{1, 2, 3}); !errors.Is(err, ErrArityMismatch) {
		t.Errorf("Vector.Add() arity error = %v, want ErrArityMismatch", err)
	}
	if _, err := Vec3FromSlice([]float32{1, 2, 3, 4}); !errors.Is(err, ErrArityMismatch) {
		t.Errorf("Vec3FromSlice() error = %v, want ErrArityMismatch", err)
	}
}

func TestVec2Polar(t *testing.T) {
	p := Vec2{1, 1}.AddPolar(2, float32(gomath.Pi/2))
	if gomath.Abs(float64(p.X-1)) > 1e-5 || gomath.Abs(float64(p.Y-3)) > 1e-5 {
		t.Errorf("AddPolar() = %v, want (1,3)", p)
	}
	to := Vec2{1, 1}.PointTo(Vec2{4, 5})
	if to != (Vec2{3, 4}) || to.Length() != 5 {
		t.Errorf("PointTo() = %v (len %v), want (3,4) len 5", to, to.Length())
	}
	h := FromPolar(1, 0.5).Heading()
	if gomath.Abs(float64(h-0.5)) > 1e-5 {
		t.Errorf("Heading() = %v, want 0.5", h)
	}
}
