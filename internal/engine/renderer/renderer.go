// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
	"github.com/Faultbox/trackforge/pkg/mesh"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// meshBuffers is the GPU-side storage behind one mesh handle.
type meshBuffers struct {
	vao   uint32
	vbo   uint32
	count int32
}

// Renderer handles all OpenGL rendering. It owns every mesh and line
// handle it creates; handles live until the final Close sweep.
type Renderer struct {
	config Config

	// Lit program for mesh surfaces
	litProgram uint32
	// Flat program for curves and editor points
	flatProgram uint32

	meshes     map[uint32]meshBuffers
	lines      map[uint32]meshBuffers
	nextHandle uint32

	projection math.Mat4
	view       math.Mat4
	cameraPos  math.Vec3
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[uint32]meshBuffers),
		lines:  make(map[uint32]meshBuffers),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.litProgram, err = linkProgram(litVertexShader, litFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("lit shader: %w", err)
	}
	r.flatProgram, err = linkProgram(flatVertexShader, flatFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("flat shader: %w", err)
	}

	r.projection = math.Identity()
	r.view = math.Identity()

	return r, nil
}

// Close releases every live handle and the shader programs. This is the
// only place mesh and line buffers are freed.
func (r *Renderer) Close() {
	logger.Info("closing renderer",
		zap.Int("meshes", len(r.meshes)),
		zap.Int("lines", len(r.lines)),
	)
	for handle := range r.meshes {
		r.DestroyHandle(handle)
	}
	for handle := range r.lines {
		r.DestroyLine(handle)
	}
	if r.litProgram != 0 {
		gl.DeleteProgram(r.litProgram)
	}
	if r.flatProgram != 0 {
		gl.DeleteProgram(r.flatProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the current viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetCamera sets the projection and view matrices for subsequent draws.
func (r *Renderer) SetCamera(projection, view math.Mat4, cameraPos math.Vec3) {
	r.projection = projection
	r.view = view
	r.cameraPos = cameraPos
}

// SetBackground sets the clear color.
func (r *Renderer) SetBackground(red, green, blue float32) {
	gl.ClearColor(red, green, blue, 1.0)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// CreateHandle uploads an interleaved vertex buffer (position, uv, normal
// per mesh.Stride) and returns an opaque handle. Implements mesh.Uploader.
func (r *Renderer) CreateHandle(vertices []float32) (uint32, error) {
	if len(vertices) == 0 {
		return 0, fmt.Errorf("empty vertex buffer")
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(mesh.Stride * 4)
	// Position (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	// UV (location = 1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	// Normal (location = 2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(5*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.nextHandle++
	handle := r.nextHandle
	r.meshes[handle] = meshBuffers{
		vao:   vao,
		vbo:   vbo,
		count: int32(len(vertices) / mesh.Stride),
	}

	logger.Debug("mesh uploaded",
		zap.Uint32("handle", handle),
		zap.Int32("vertices", r.meshes[handle].count),
	)
	return handle, nil
}

// DestroyHandle releases one mesh handle. Implements mesh.Uploader.
func (r *Renderer) DestroyHandle(handle uint32) {
	buf, ok := r.meshes[handle]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &buf.vao)
	gl.DeleteBuffers(1, &buf.vbo)
	delete(r.meshes, handle)
}

// CreateLine uploads a polyline or point cloud: three position floats per
// vertex. The handle draws with the flat shader.
func (r *Renderer) CreateLine(points []math.Vec3) (uint32, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("empty point buffer")
	}

	flat := make([]float32, 0, len(points)*3)
	for _, p := range points {
		flat = append(flat, p.X, p.Y, p.Z)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(flat)*4, unsafe.Pointer(&flat[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.nextHandle++
	handle := r.nextHandle
	r.lines[handle] = meshBuffers{vao: vao, vbo: vbo, count: int32(len(points))}
	return handle, nil
}

// DestroyLine releases one line handle.
func (r *Renderer) DestroyLine(handle uint32) {
	buf, ok := r.lines[handle]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &buf.vao)
	gl.DeleteBuffers(1, &buf.vbo)
	delete(r.lines, handle)
}

// DrawMesh renders a mesh handle with the lit shader. texture 0 means
// untextured; the material's diffuse color is used alone.
func (r *Renderer) DrawMesh(handle uint32, model math.Mat4, mat formats.Material, texture uint32, global formats.GlobalConfig) {
	buf, ok := r.meshes[handle]
	if !ok {
		return
	}

	gl.UseProgram(r.litProgram)

	setMat4(r.litProgram, "projection\x00", &r.projection)
	setMat4(r.litProgram, "view\x00", &r.view)
	setMat4(r.litProgram, "model\x00", &model)

	setVec3(r.litProgram, "lightPos\x00", global.LightPos)
	setVec3(r.litProgram, "lightColor\x00", global.LightColor)
	setVec3(r.litProgram, "viewPos\x00", r.cameraPos)

	set3f(r.litProgram, "material.ambient\x00", mat.Ambient)
	set3f(r.litProgram, "material.diffuse\x00", mat.Diffuse)
	set3f(r.litProgram, "material.specular\x00", mat.Specular)
	set1f(r.litProgram, "material.shininess\x00", mat.Shininess)

	set1f(r.litProgram, "attConstant\x00", global.AttConstant)
	set1f(r.litProgram, "attLinear\x00", global.AttLinear)
	set1f(r.litProgram, "attQuadratic\x00", global.AttQuadratic)

	setVec3(r.litProgram, "fogColor\x00", global.FogColor)
	set1f(r.litProgram, "fogStart\x00", global.FogStart)
	set1f(r.litProgram, "fogEnd\x00", global.FogEnd)

	hasTexture := int32(0)
	if texture != 0 {
		hasTexture = 1
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, texture)
		gl.Uniform1i(gl.GetUniformLocation(r.litProgram, gl.Str("diffuseMap\x00")), 0)
	}
	gl.Uniform1i(gl.GetUniformLocation(r.litProgram, gl.Str("hasTexture\x00")), hasTexture)

	gl.BindVertexArray(buf.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, buf.count)
	gl.BindVertexArray(0)
}

// DrawLine renders a line handle as a connected strip.
func (r *Renderer) DrawLine(handle uint32, model math.Mat4, color [4]float32, closed bool) {
	buf, ok := r.lines[handle]
	if !ok {
		return
	}

	r.useFlat(model, color)

	mode := uint32(gl.LINE_STRIP)
	if closed {
		mode = gl.LINE_LOOP
	}
	gl.BindVertexArray(buf.vao)
	gl.DrawArrays(mode, 0, buf.count)
	gl.BindVertexArray(0)
}

// DrawPoints renders a line handle as points.
func (r *Renderer) DrawPoints(handle uint32, model math.Mat4, color [4]float32, size float32) {
	buf, ok := r.lines[handle]
	if !ok {
		return
	}

	r.useFlat(model, color)
	set1f(r.flatProgram, "pointSize\x00", size)

	gl.BindVertexArray(buf.vao)
	gl.DrawArrays(gl.POINTS, 0, buf.count)
	gl.BindVertexArray(0)
}

func (r *Renderer) useFlat(model math.Mat4, color [4]float32) {
	gl.UseProgram(r.flatProgram)
	setMat4(r.flatProgram, "projection\x00", &r.projection)
	setMat4(r.flatProgram, "view\x00", &r.view)
	setMat4(r.flatProgram, "model\x00", &model)
	gl.Uniform4f(gl.GetUniformLocation(r.flatProgram, gl.Str("color\x00")), color[0], color[1], color[2], color[3])
	set1f(r.flatProgram, "pointSize\x00", 1)
}

func setMat4(program uint32, name string, m *math.Mat4) {
	gl.UniformMatrix4fv(gl.GetUniformLocation(program, gl.Str(name)), 1, false, m.Ptr())
}

func setVec3(program uint32, name string, v math.Vec3) {
	gl.Uniform3f(gl.GetUniformLocation(program, gl.Str(name)), v.X, v.Y, v.Z)
}

func set3f(program uint32, name string, v [3]float32) {
	gl.Uniform3f(gl.GetUniformLocation(program, gl.Str(name)), v[0], v[1], v[2])
}

func set1f(program uint32, name string, f float32) {
	gl.Uniform1f(gl.GetUniformLocation(program, gl.Str(name)), f)
}

// linkProgram compiles and links a vertex/fragment shader pair.
func linkProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %s", log)
	}

	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

// compileShader compiles a shader from source.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return shader, nil
}
