// Package scene holds a loaded shape, the floor under it and the shadow a
// movable point light casts onto that floor.
package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/shapelab/internal/config"
	"github.com/Faultbox/shapelab/internal/logger"
	"github.com/Faultbox/shapelab/internal/render"
	"github.com/Faultbox/shapelab/pkg/math"
	"github.com/Faultbox/shapelab/pkg/shape"
)

// Mesh names used for uploads.
const (
	MeshShape  = "shape"
	MeshShadow = "shadow"
	MeshFloor  = "floor"
)

// ModelOffset places the shape and its shadow in front of the viewer. The
// floor is drawn untranslated.
var ModelOffset = math.Vec3{Y: 0.3, Z: -3}

// Options configure a Scene.
type Options struct {
	Light      math.Vec3
	LightStep  math.Vec3
	FloorY     float32
	FloorHalfX float32
	FloorHalfZ float32
	ShapeScale float32
	ColorMode  string
	Passes     int
	Regular    bool

	// Rand drives random coloring. Nil uses the global source.
	Rand *rand.Rand
}

// OptionsFromConfig converts loaded settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Light:      math.Vec3{X: cfg.Scene.Light[0], Y: cfg.Scene.Light[1], Z: cfg.Scene.Light[2]},
		LightStep:  math.Vec3{X: cfg.Scene.LightStep[0], Y: cfg.Scene.LightStep[1], Z: cfg.Scene.LightStep[2]},
		FloorY:     cfg.Scene.FloorY,
		FloorHalfX: cfg.Scene.FloorHalfX,
		FloorHalfZ: cfg.Scene.FloorHalfZ,
		ShapeScale: cfg.Scene.ShapeScale,
		ColorMode:  cfg.Scene.ColorMode,
		Passes:     cfg.Smoothing.Passes,
		Regular:    cfg.Smoothing.Regular,
	}
}

// Scene is the displayed state. Shape, Shadow and Floor are owned by the
// scene and replaced, never mutated, once built.
type Scene struct {
	Shape  *shape.Shape // smoothed, split, colored and scaled
	Shadow *shape.Shape
	Floor  *shape.Shape
	Light  math.Vec3

	outline *shape.Shape // as loaded; shadows are cast from it
	base    *shape.Shape // outline after smoothing
	opts    Options
	dirty   map[string]bool
	log     *zap.Logger
}

// New builds a scene around s. The shadow is cast from s as given, before
// any smoothing. s is not modified.
func New(s *shape.Shape, opts Options) (*Scene, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.ShapeScale == 0 {
		opts.ShapeScale = 1
	}

	sc := &Scene{
		Floor:   shape.Floor(opts.FloorHalfX, opts.FloorY, opts.FloorHalfZ),
		Light:   opts.Light,
		outline: s.Clone(),
		opts:    opts,
		dirty:   map[string]bool{MeshShape: true, MeshShadow: true, MeshFloor: true},
		log:     logger.Named("scene"),
	}

	shadow, err := sc.outline.ProjectOntoPlane(sc.Light, opts.FloorY)
	if err != nil {
		return nil, fmt.Errorf("casting shadow: %w", err)
	}
	sc.Shadow = shadow

	sc.base = sc.outline.Clone()
	if err := sc.base.SmoothenN(opts.Passes, opts.Regular); err != nil {
		return nil, err
	}
	if err := sc.rebuild(); err != nil {
		return nil, err
	}

	sc.log.Info("scene built",
		zap.Int("vertices", len(sc.Shape.V)),
		zap.Int("faces", len(sc.Shape.F)),
		zap.Int("passes", opts.Passes),
		zap.Stringer("light", sc.Light),
	)
	return sc, nil
}

// rebuild derives the displayed shape from base.
func (sc *Scene) rebuild() error {
	display := sc.base.Clone()
	display.SplitVertices()
	switch sc.opts.ColorMode {
	case config.ColorGreyscale:
		display.SetRandomGreyscale(sc.opts.Rand)
	case config.ColorUniform:
		display.SetUniformColor(shape.Grey)
	case config.ColorFaces, "":
		display.SetRandomGreyFaces(sc.opts.Rand)
	default:
		return fmt.Errorf("unknown color mode %q", sc.opts.ColorMode)
	}
	display.Scale(sc.opts.ShapeScale)

	sc.Shape = display
	sc.dirty[MeshShape] = true
	return nil
}

// MoveLight shifts the light by (dx, dy, dz) and recasts the shadow. When
// the new position cannot cast a shadow the light stays where it was.
func (sc *Scene) MoveLight(dx, dy, dz float32) error {
	light := sc.Light.Add(math.Vec3{X: dx, Y: dy, Z: dz})
	if light.Y <= sc.opts.FloorY {
		return fmt.Errorf("light at %s is not above the floor", light)
	}

	shadow, err := sc.outline.ProjectOntoPlane(light, sc.opts.FloorY)
	if err != nil {
		var perr *shape.ProjectionError
		if errors.As(err, &perr) {
			sc.log.Warn("shadow projection missed the floor", zap.Int("vertex", perr.Vertex), zap.Stringer("light", light))
		}
		return fmt.Errorf("casting shadow: %w", err)
	}

	sc.Light = light
	sc.Shadow = shadow
	sc.dirty[MeshShadow] = true
	sc.log.Debug("light moved", zap.Stringer("light", light))
	return nil
}

// Axis selects a light movement direction.
type Axis int

// Light movement axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// StepLight moves the light one configured step along axis, forward when
// dir > 0 and backward otherwise.
func (sc *Scene) StepLight(axis Axis, dir int) error {
	sign := float32(1)
	if dir < 0 {
		sign = -1
	}
	step := sc.opts.LightStep
	switch axis {
	case AxisX:
		return sc.MoveLight(sign*step.X, 0, 0)
	case AxisY:
		return sc.MoveLight(0, sign*step.Y, 0)
	case AxisZ:
		return sc.MoveLight(0, 0, sign*step.Z)
	default:
		return fmt.Errorf("unknown axis %d", axis)
	}
}

// Smooth runs more smoothing passes on the displayed shape. The shadow keeps
// the outline of the shape as loaded.
func (sc *Scene) Smooth(passes int, regular bool) error {
	next := sc.base.Clone()
	if err := next.SmoothenN(passes, regular); err != nil {
		return err
	}
	sc.base = next
	sc.opts.Passes += passes
	if err := sc.rebuild(); err != nil {
		return err
	}
	sc.log.Info("shape smoothed", zap.Int("faces", len(sc.Shape.F)), zap.Int("total_passes", sc.opts.Passes))
	return nil
}

// Recolor picks new random colors for the displayed shape.
func (sc *Scene) Recolor(mode string) error {
	prev := sc.opts.ColorMode
	sc.opts.ColorMode = mode
	if err := sc.rebuild(); err != nil {
		sc.opts.ColorMode = prev
		return err
	}
	return nil
}

// Passes returns the number of smoothing passes applied so far.
func (sc *Scene) Passes() int {
	return sc.opts.Passes
}

// Upload sends every mesh that changed since the last upload to b.
// Non-triangular faces are fanned out on the way.
func (sc *Scene) Upload(b render.Backend) error {
	meshes := []struct {
		name string
		s    *shape.Shape
	}{
		{MeshFloor, sc.Floor},
		{MeshShadow, sc.Shadow},
		{MeshShape, sc.Shape},
	}

	for _, m := range meshes {
		if !sc.dirty[m.name] {
			continue
		}
		s := m.s
		if !s.IsTriangulated() {
			s = s.Clone()
			s.Triangulate()
		}
		buf, err := s.Buffers()
		if err != nil {
			return fmt.Errorf("%s buffers: %w", m.name, err)
		}
		if err := b.Upload(m.name, buf); err != nil {
			return fmt.Errorf("uploading %s: %w", m.name, err)
		}
		sc.dirty[m.name] = false
	}
	return nil
}

// ModelMatrix returns the model transform for a mesh name.
func ModelMatrix(name string) math.Mat4 {
	if name == MeshFloor {
		return math.Identity()
	}
	return math.Translate(ModelOffset.X, ModelOffset.Y, ModelOffset.Z)
}

// Draw draws floor, shadow and shape with view-projection vp.
func (sc *Scene) Draw(d render.Drawer, vp math.Mat4) error {
	for _, name := range []string{MeshFloor, MeshShadow, MeshShape} {
		if err := d.Draw(name, vp.Mul(ModelMatrix(name))); err != nil {
			return err
		}
	}
	return nil
}
