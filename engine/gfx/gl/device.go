package glbackend

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	gst "github.com/richinsley/goshadertranslator"

	"github.com/hubastard/pointflock/engine/colors"
	"github.com/hubastard/pointflock/engine/gfx"
)

// DeviceGL implements gfx.Device on an OpenGL 3.3 core context. Shader
// sources are written in WebGL GLSL ES 1.00 and translated to GLSL 330
// before compilation.
//
// The GL context must be current on the calling thread for every method.
type DeviceGL struct {
	vao        uint32
	translator *gst.ShaderTranslator

	// Declared names to translated names, per shader and per program.
	shaderNames  map[uint32]map[string]string
	programNames map[uint32]map[string]string
}

var _ gfx.Device = (*DeviceGL)(nil)

// NewDeviceGL must be called after gl.Init with the context current.
func NewDeviceGL(ctx context.Context) (*DeviceGL, error) {
	t, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("shader translator: %w", err)
	}
	d := &DeviceGL{
		translator:   t,
		shaderNames:  map[uint32]map[string]string{},
		programNames: map[uint32]map[string]string{},
	}

	// Core profile draws need a bound VAO; one is enough for a single
	// attribute stream.
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	// Let the vertex stage size point sprites through gl_PointSize.
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	gfx.Logger().Info("gfx: GL device ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return d, nil
}

// Shutdown releases objects owned by the device itself.
func (d *DeviceGL) Shutdown() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func (d *DeviceGL) CompileShader(stage gfx.ShaderStage, source string) (uint32, error) {
	var kind uint32
	switch stage {
	case gfx.VertexStage:
		kind = gl.VERTEX_SHADER
	case gfx.FragmentStage:
		kind = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unsupported stage %v", stage)
	}

	out, err := d.translator.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, gst.OutputFormatGLSL330)
	if err != nil {
		return 0, err
	}
	sh, err := makeShader(out.Code, kind)
	if err != nil {
		return 0, err
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	d.shaderNames[sh] = names
	return sh, nil
}

func (d *DeviceGL) DeleteShader(sh uint32) {
	delete(d.shaderNames, sh)
	gl.DeleteShader(sh)
}

func (d *DeviceGL) LinkProgram(vertex, fragment uint32) (uint32, error) {
	prog, err := makeProgram(vertex, fragment)
	if err != nil {
		return 0, err
	}
	names := map[string]string{}
	for _, sh := range []uint32{vertex, fragment} {
		for k, v := range d.shaderNames[sh] {
			names[k] = v
		}
	}
	d.programNames[prog] = names
	return prog, nil
}

func (d *DeviceGL) DeleteProgram(prog uint32) {
	delete(d.programNames, prog)
	gl.DeleteProgram(prog)
}

func (d *DeviceGL) UseProgram(prog uint32) { gl.UseProgram(prog) }

// mapped returns the translated name of a declared shader input.
func (d *DeviceGL) mapped(prog uint32, name string) string {
	if m, ok := d.programNames[prog][name]; ok && m != "" {
		return m
	}
	return name
}

func (d *DeviceGL) UniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(d.mapped(prog, name)+"\x00"))
}

func (d *DeviceGL) AttribLocation(prog uint32, name string) int32 {
	return gl.GetAttribLocation(prog, gl.Str(d.mapped(prog, name)+"\x00"))
}

func (d *DeviceGL) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }

func (d *DeviceGL) Uniform2f(loc int32, x, y float32) { gl.Uniform2f(loc, x, y) }

func (d *DeviceGL) UploadTexture(width, height int, pix []byte) (uint32, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, &gfx.DeviceError{Op: "TexImage2D", Code: code}
	}
	return tex, nil
}

func (d *DeviceGL) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }

func (d *DeviceGL) BindTexture(unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (d *DeviceGL) UploadVertices(data []float32) (uint32, error) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &vbo)
		return 0, &gfx.DeviceError{Op: "BufferData", Code: code}
	}
	return vbo, nil
}

func (d *DeviceGL) DeleteBuffer(vbo uint32) { gl.DeleteBuffers(1, &vbo) }

func (d *DeviceGL) EnableVertexAttrib(index uint32, size int32) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (d *DeviceGL) EnableAlphaBlend() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (d *DeviceGL) ColorMask(r, g, b, a bool) { gl.ColorMask(r, g, b, a) }

func (d *DeviceGL) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *DeviceGL) Clear(c colors.Color) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *DeviceGL) DrawPoints(first, count int32) { gl.DrawArrays(gl.POINTS, first, count) }

func (d *DeviceGL) Err() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return &gfx.DeviceError{Op: "GL", Code: code}
	}
	return nil
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00\n"))
	}
	return sh, nil
}

func makeProgram(vs, fs uint32) (uint32, error) {
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00\n"))
	}
	gl.DetachShader(prog, vs)
	gl.DetachShader(prog, fs)
	return prog, nil
}
