package shape

import (
	"fmt"

	"github.com/Faultbox/shapelab/pkg/math"
)

// DecomposeFaceAtPoint splits face faceID into smaller faces, placing every
// new edge-midpoint vertex at the average distance of its two edge endpoints
// from p.
func (s *Shape) DecomposeFaceAtPoint(faceID int, p math.Vec3) error {
	return s.decompose(faceID, p, 0, false)
}

// DecomposeFaceAtDistance is like DecomposeFaceAtPoint but pushes every new
// vertex out to exactly dist from p.
func (s *Shape) DecomposeFaceAtDistance(faceID int, p math.Vec3, dist float32) error {
	return s.decompose(faceID, p, dist, true)
}

// decompose replaces an N-sided face with N+1 faces. For every edge the
// midpoint is computed and moved radially relative to p. The N new vertices
// are appended to V. The center face (the midpoints in order) takes the old
// face's slot and the N corner faces, each an original vertex with its two
// adjacent midpoints, are appended. Winding is preserved for all of them.
//
// Nothing is modified when an error is returned.
func (s *Shape) decompose(faceID int, p math.Vec3, dist float32, fixed bool) error {
	if faceID < 0 || faceID >= len(s.F) {
		return fmt.Errorf("%w: %d (have %d faces)", ErrFaceOutOfRange, faceID, len(s.F))
	}
	face := s.F[faceID]
	if len(face) < 3 {
		return fmt.Errorf("face %d: %w", faceID, ErrDegenerateFace)
	}
	for _, idx := range face {
		if idx < 0 || idx >= len(s.V) {
			return fmt.Errorf("face %d: %w: %d", faceID, ErrIndexOutOfRange, idx)
		}
	}

	n := len(face)
	mids := make([]math.Vec3, n)
	for j := 0; j < n; j++ {
		a := s.V[face[j]]
		b := s.V[face[(j+1)%n]]
		d := dist
		if !fixed {
			d = 0.5 * (a.Distance(p) + b.Distance(p))
		}
		v, err := math.ProjectAlongRay(a.Midpoint(b), p, d)
		if err != nil {
			return fmt.Errorf("face %d edge %d: %w", faceID, j, err)
		}
		mids[j] = v
	}

	base := len(s.V)
	ids := make(Face, n)
	for j := range ids {
		ids[j] = base + j
	}

	if s.HasColor() {
		for j := 0; j < n; j++ {
			c := s.ColorAt(face[j]).Mix(s.ColorAt(face[(j+1)%n]))
			s.Color = append(s.Color, c[:]...)
		}
	}
	s.V = append(s.V, mids...)

	s.F[faceID] = ids
	s.F = append(s.F, Face{face[0], ids[0], ids[n-1]})
	for j := 1; j < n; j++ {
		s.F = append(s.F, Face{face[j], ids[j], ids[j-1]})
	}
	return nil
}

// Smoothen decomposes every face once around the shape's centroid, turning a
// coarse polyhedron into a rounder one. When regular is set, every new vertex
// is placed at the centroid's distance to the first vertex, which keeps a
// regular solid regular. Faces created during the pass are not themselves
// decomposed.
//
// On error the shape is left unchanged.
func (s *Shape) Smoothen(regular bool) error {
	centroid, err := s.Centroid()
	if err != nil {
		return err
	}

	work := s.Clone()
	var dist float32
	if regular {
		dist = centroid.Distance(s.V[0])
	}

	count := len(work.F)
	for fi := 0; fi < count; fi++ {
		if regular {
			err = work.DecomposeFaceAtDistance(fi, centroid, dist)
		} else {
			err = work.DecomposeFaceAtPoint(fi, centroid)
		}
		if err != nil {
			return fmt.Errorf("smoothing: %w", err)
		}
	}

	*s = *work
	return nil
}

// SmoothenN runs Smoothen passes times.
func (s *Shape) SmoothenN(passes int, regular bool) error {
	for i := 0; i < passes; i++ {
		if err := s.Smoothen(regular); err != nil {
			return fmt.Errorf("pass %d: %w", i+1, err)
		}
	}
	return nil
}
