package gfx

import "github.com/hubastard/pointflock/engine/colors"

// ShaderStage identifies one programmable pipeline stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Device is the slice of an immediate-mode GPU context the sprite pipeline
// drives. Handles are opaque non-zero values owned by the device; zero means
// "none". Implementations are not safe for concurrent use and must be driven
// from the thread that owns the GPU context.
type Device interface {
	// CompileShader compiles one stage. On failure the error text is the
	// compiler's info log and no handle is returned.
	CompileShader(stage ShaderStage, source string) (uint32, error)
	DeleteShader(shader uint32)
	// LinkProgram links a vertex and fragment shader. On failure the error
	// text is the linker's info log and no handle is returned.
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// UniformLocation and AttribLocation return -1 for unknown names.
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform2f(location int32, x, y float32)

	// UploadTexture stores tightly packed RGBA8 pixels as a new 2D texture
	// with a full mipmap chain.
	UploadTexture(width, height int, pix []byte) (uint32, error)
	DeleteTexture(texture uint32)
	BindTexture(unit uint32, texture uint32)

	// UploadVertices allocates a dynamic vertex buffer holding data and
	// leaves it bound as the current array buffer.
	UploadVertices(data []float32) (uint32, error)
	DeleteBuffer(buffer uint32)
	// EnableVertexAttrib enables index and points it at the bound array
	// buffer as size tightly packed float32 components.
	EnableVertexAttrib(index uint32, size int32)

	EnableAlphaBlend()
	ColorMask(r, g, b, a bool)
	Viewport(width, height int)
	Clear(c colors.Color)
	DrawPoints(first, count int32)

	// Err reports and clears the oldest pending device error, if any.
	Err() error
}
