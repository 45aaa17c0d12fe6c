package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Faultbox/shapelab/pkg/math"
	"github.com/Faultbox/shapelab/pkg/shape"
)

// Recorder is a Backend that keeps copies of everything uploaded to it.
// Tools and tests use it where no GL context exists.
type Recorder struct {
	mu      sync.Mutex
	meshes  map[string]*shape.Buffers
	uploads map[string]int
	draws   []DrawCall
}

// DrawCall records one Draw.
type DrawCall struct {
	Name string
	MVP  math.Mat4
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		meshes:  make(map[string]*shape.Buffers),
		uploads: make(map[string]int),
	}
}

// Upload stores a copy of b under name.
func (r *Recorder) Upload(name string, b *shape.Buffers) error {
	if b == nil {
		return fmt.Errorf("upload %s: nil buffers", name)
	}
	if len(b.Colors) != 4*b.VertexCount() {
		return fmt.Errorf("upload %s: %d color entries for %d vertices", name, len(b.Colors), b.VertexCount())
	}

	cp := &shape.Buffers{
		Positions: append([]float32(nil), b.Positions...),
		Colors:    append([]float32(nil), b.Colors...),
		Indices:   append([]uint32(nil), b.Indices...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.meshes[name] = cp
	r.uploads[name]++
	return nil
}

// Delete drops name.
func (r *Recorder) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.meshes, name)
}

// Draw records a draw call for an uploaded mesh.
func (r *Recorder) Draw(name string, mvp math.Mat4) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meshes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMesh, name)
	}
	r.draws = append(r.draws, DrawCall{Name: name, MVP: mvp})
	return nil
}

// Mesh returns the buffers currently stored under name.
func (r *Recorder) Mesh(name string) (*shape.Buffers, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.meshes[name]
	return b, ok
}

// Uploads returns how many times name was uploaded.
func (r *Recorder) Uploads(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploads[name]
}

// Names returns the stored mesh names in sorted order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.meshes))
	for n := range r.meshes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Draws returns the recorded draw calls.
func (r *Recorder) Draws() []DrawCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]DrawCall(nil), r.draws...)
}
