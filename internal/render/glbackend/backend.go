// Package glbackend draws uploaded shape buffers with OpenGL 4.1 core.
// Every function must be called on the thread that owns the GL context.
package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shapelab/internal/logger"
	"github.com/Faultbox/shapelab/internal/render"
	"github.com/Faultbox/shapelab/pkg/math"
	"github.com/Faultbox/shapelab/pkg/shape"
)

const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uMVP;

out vec4 vertexColor;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vertexColor = aColor;
}
`

const fragmentShaderSource = `
#version 410 core

in vec4 vertexColor;
out vec4 FragColor;

void main() {
	FragColor = vertexColor;
}
`

// mesh is one uploaded shape.
type mesh struct {
	vao, positions, colors, indices uint32
	count                           int32
}

// Backend uploads shape buffers to GPU memory and draws them.
type Backend struct {
	program uint32
	mvpLoc  int32
	meshes  map[string]*mesh
}

var _ render.Drawer = (*Backend)(nil)

// New initializes OpenGL and compiles the shape shader.
// It must be called after the GL context is current.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0, 0, 0, 1)

	program, err := compileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	return &Backend{
		program: program,
		mvpLoc:  gl.GetUniformLocation(program, gl.Str("uMVP\x00")),
		meshes:  make(map[string]*mesh),
	}, nil
}

// Upload copies b into GPU buffers under name, replacing any previous mesh.
func (b *Backend) Upload(name string, buf *shape.Buffers) error {
	if buf == nil || buf.VertexCount() == 0 || buf.IndexCount() == 0 {
		return fmt.Errorf("upload %s: empty buffers", name)
	}

	m, ok := b.meshes[name]
	if !ok {
		m = &mesh{}
		gl.GenVertexArrays(1, &m.vao)
		gl.GenBuffers(1, &m.positions)
		gl.GenBuffers(1, &m.colors)
		gl.GenBuffers(1, &m.indices)
		b.meshes[name] = m
	}

	gl.BindVertexArray(m.vao)

	// Position attribute (location = 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.positions)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf.Positions)*4, unsafe.Pointer(&buf.Positions[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	// Color attribute (location = 1)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.colors)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf.Colors)*4, unsafe.Pointer(&buf.Colors[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.indices)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(buf.Indices)*4, unsafe.Pointer(&buf.Indices[0]), gl.STATIC_DRAW)
	m.count = int32(len(buf.Indices))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	logger.Debug("mesh uploaded",
		zap.String("name", name),
		zap.Int("vertices", buf.VertexCount()),
		zap.Int("indices", buf.IndexCount()),
	)
	return nil
}

// Delete frees the GPU buffers of name.
func (b *Backend) Delete(name string) {
	m, ok := b.meshes[name]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	buffers := []uint32{m.positions, m.colors, m.indices}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	delete(b.meshes, name)
}

// Begin clears the frame.
func (b *Backend) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Resize sets the viewport in drawable pixels.
func (b *Backend) Resize(width, height int32) {
	gl.Viewport(0, 0, width, height)
	logger.Debug("viewport resized", zap.Int32("width", width), zap.Int32("height", height))
}

// Draw renders name with the given model-view-projection matrix.
func (b *Backend) Draw(name string, mvp math.Mat4) error {
	m, ok := b.meshes[name]
	if !ok {
		return fmt.Errorf("%w: %s", render.ErrUnknownMesh, name)
	}
	gl.UseProgram(b.program)
	gl.UniformMatrix4fv(b.mvpLoc, 1, false, mvp.Ptr())
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	return nil
}

// ReadPixels returns the current framebuffer as RGBA bytes, bottom row
// first.
func (b *Backend) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Close frees every mesh and the shader program.
func (b *Backend) Close() {
	logger.Info("closing GL backend")
	for name := range b.meshes {
		b.Delete(name)
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
}

// compileProgram compiles vertex and fragment shaders and links them.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}
