package record

import (
	"errors"
	"slices"

	"github.com/hubastard/pointflock/engine/colors"
	"github.com/hubastard/pointflock/engine/gfx"
)

type shader struct {
	stage gfx.ShaderStage
	decls declarations
}

type texture struct {
	width, height int
	pix           []byte
}

type program struct {
	uniforms map[string]int32
	attribs  map[string]int32
}

// Device is a recording gfx.Device. The zero value is not usable; call
// NewDevice.
type Device struct {
	calls []Call

	next     uint32
	free     []uint32
	shaders  map[uint32]shader
	programs map[uint32]program
	textures map[uint32]texture
	buffers  map[uint32]int

	errs []error

	// LinkLog, when set, makes every LinkProgram fail with this log.
	LinkLog string
	// RejectTextures makes every UploadTexture fail.
	RejectTextures bool

	compiled, linked, uploaded, drawn int
}

var _ gfx.Device = (*Device)(nil)

func NewDevice() *Device {
	return &Device{
		shaders:  map[uint32]shader{},
		programs: map[uint32]program{},
		textures: map[uint32]texture{},
		buffers:  map[uint32]int{},
	}
}

// alloc hands out the most recently freed handle first, like most drivers,
// so a create/delete pair per frame yields the same handle every frame.
func (d *Device) alloc() uint32 {
	if n := len(d.free); n > 0 {
		id := d.free[n-1]
		d.free = d.free[:n-1]
		return id
	}
	d.next++
	return d.next
}

func (d *Device) release(id uint32) {
	if id != 0 {
		d.free = append(d.free, id)
	}
}

func (d *Device) record(op Op, args ...any) {
	d.calls = append(d.calls, Call{Op: op, Args: args})
}

// Calls returns the commands recorded since the last Reset.
func (d *Device) Calls() []Call { return slices.Clone(d.calls) }

// Trace returns Calls formatted as strings.
func (d *Device) Trace() []string {
	out := make([]string, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.String()
	}
	return out
}

// Ops returns only the command kinds recorded since the last Reset.
func (d *Device) Ops() []Op {
	out := make([]Op, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.Op
	}
	return out
}

// Reset forgets recorded commands. Live objects and counters are kept.
func (d *Device) Reset() { d.calls = d.calls[:0] }

// ProgramsLinked counts successful links over the device's life.
func (d *Device) ProgramsLinked() int { return d.linked }

// TexturesUploaded counts successful texture uploads over the device's life.
func (d *Device) TexturesUploaded() int { return d.uploaded }

// ShadersCompiled counts successful stage compiles over the device's life.
func (d *Device) ShadersCompiled() int { return d.compiled }

// PointsDrawn counts vertices submitted by DrawPoints over the device's life.
func (d *Device) PointsDrawn() int { return d.drawn }

// LiveObjects reports the number of shaders, programs, textures and buffers
// not yet deleted.
func (d *Device) LiveObjects() int {
	return len(d.shaders) + len(d.programs) + len(d.textures) + len(d.buffers)
}

// TexturePixels returns the RGBA8 bytes uploaded for a live texture, or
// nil.
func (d *Device) TexturePixels(id uint32) []byte { return d.textures[id].pix }

// InjectError queues a device error returned by the next Err call.
func (d *Device) InjectError(code uint32) {
	d.errs = append(d.errs, &gfx.DeviceError{Op: "record", Code: code})
}

func (d *Device) CompileShader(stage gfx.ShaderStage, source string) (uint32, error) {
	d.record(OpCompileShader, stage)
	decls, log := checkGLSL(source)
	if log != "" {
		return 0, errors.New(log)
	}
	id := d.alloc()
	d.shaders[id] = shader{stage: stage, decls: decls}
	d.compiled++
	return id, nil
}

func (d *Device) DeleteShader(id uint32) {
	d.record(OpDeleteShader, id)
	if _, ok := d.shaders[id]; ok {
		delete(d.shaders, id)
		d.release(id)
	}
}

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, error) {
	d.record(OpLinkProgram, vertex, fragment)
	vs, okv := d.shaders[vertex]
	fs, okf := d.shaders[fragment]
	switch {
	case d.LinkLog != "":
		return 0, errors.New(d.LinkLog)
	case !okv || !okf:
		return 0, errors.New("ERROR: Linking: attached shader is not compiled")
	case vs.stage != gfx.VertexStage || fs.stage != gfx.FragmentStage:
		return 0, errors.New("ERROR: Linking: shader stages do not form a program")
	}

	p := program{uniforms: map[string]int32{}, attribs: map[string]int32{}}
	for _, s := range []shader{vs, fs} {
		for _, name := range s.decls.uniforms {
			if _, ok := p.uniforms[name]; !ok {
				p.uniforms[name] = int32(len(p.uniforms))
			}
		}
		for _, name := range s.decls.attribs {
			if _, ok := p.attribs[name]; !ok {
				p.attribs[name] = int32(len(p.attribs))
			}
		}
	}
	id := d.alloc()
	d.programs[id] = p
	d.linked++
	return id, nil
}

func (d *Device) DeleteProgram(id uint32) {
	d.record(OpDeleteProgram, id)
	if _, ok := d.programs[id]; ok {
		delete(d.programs, id)
		d.release(id)
	}
}

func (d *Device) UseProgram(id uint32) { d.record(OpUseProgram, id) }

func (d *Device) UniformLocation(id uint32, name string) int32 {
	if loc, ok := d.programs[id].uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) AttribLocation(id uint32, name string) int32 {
	if loc, ok := d.programs[id].attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) Uniform1i(loc int32, v int32) { d.record(OpUniform1i, loc, v) }

func (d *Device) Uniform2f(loc int32, x, y float32) { d.record(OpUniform2f, loc, x, y) }

func (d *Device) UploadTexture(width, height int, pix []byte) (uint32, error) {
	d.record(OpUploadTexture, width, height)
	if d.RejectTextures {
		return 0, errors.New("GL_INVALID_ENUM: internal format not supported")
	}
	if len(pix) != width*height*4 {
		return 0, errors.New("GL_INVALID_OPERATION: pixel data does not match size")
	}
	id := d.alloc()
	d.textures[id] = texture{width: width, height: height, pix: slices.Clone(pix)}
	d.uploaded++
	return id, nil
}

func (d *Device) DeleteTexture(id uint32) {
	d.record(OpDeleteTexture, id)
	if _, ok := d.textures[id]; ok {
		delete(d.textures, id)
		d.release(id)
	}
}

func (d *Device) BindTexture(unit uint32, id uint32) { d.record(OpBindTexture, unit, id) }

func (d *Device) UploadVertices(data []float32) (uint32, error) {
	d.record(OpUploadVertices, slices.Clone(data))
	id := d.alloc()
	d.buffers[id] = len(data)
	return id, nil
}

func (d *Device) DeleteBuffer(id uint32) {
	d.record(OpDeleteBuffer, id)
	if _, ok := d.buffers[id]; ok {
		delete(d.buffers, id)
		d.release(id)
	}
}

func (d *Device) EnableVertexAttrib(index uint32, size int32) {
	d.record(OpEnableVertexAttrib, index, size)
}

func (d *Device) EnableAlphaBlend() { d.record(OpEnableAlphaBlend) }

func (d *Device) ColorMask(r, g, b, a bool) { d.record(OpColorMask, r, g, b, a) }

func (d *Device) Viewport(width, height int) { d.record(OpViewport, width, height) }

func (d *Device) Clear(c colors.Color) { d.record(OpClear, c) }

func (d *Device) DrawPoints(first, count int32) {
	d.record(OpDrawPoints, first, count)
	d.drawn += int(count)
}

func (d *Device) Err() error {
	if len(d.errs) == 0 {
		return nil
	}
	err := d.errs[0]
	d.errs = d.errs[1:]
	return err
}
