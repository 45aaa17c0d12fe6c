// Package render defines how shapes reach a drawing backend and provides
// an in-memory backend and a viewer camera.
package render

import (
	"errors"

	"github.com/Faultbox/shapelab/pkg/math"
	"github.com/Faultbox/shapelab/pkg/shape"
)

// ErrUnknownMesh is returned when drawing a name that was never uploaded.
var ErrUnknownMesh = errors.New("unknown mesh")

// Backend receives flattened shape buffers. Uploading a name that already
// exists replaces its contents.
type Backend interface {
	Upload(name string, b *shape.Buffers) error
	Delete(name string)
}

// Drawer is a Backend that can also draw what it holds.
type Drawer interface {
	Backend
	Draw(name string, mvp math.Mat4) error
}
